// Package keys manages API keys for programmatic access to the console.
package keys

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"flowdeck/internal/domain"
)

// Service provides API key management. All operations require an admin
// caller: keys grant console-wide access, so only operators hand them out.
type Service struct {
	repo   domain.APIKeyRepository
	audit  domain.AuditRepository
	logger *slog.Logger
}

// NewService creates an API key service.
func NewService(repo domain.APIKeyRepository, audit domain.AuditRepository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		audit:  audit,
		logger: logger.With("component", "keys"),
	}
}

// Create generates a new API key. The raw key is returned exactly once and
// never stored; lookups go through its SHA-256 hash.
func (s *Service) Create(ctx context.Context, req domain.CreateAPIKeyRequest) (string, *domain.APIKey, error) {
	caller, err := requireAdmin(ctx)
	if err != nil {
		return "", nil, err
	}
	if err := req.Validate(); err != nil {
		return "", nil, err
	}

	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", nil, fmt.Errorf("generate key: %w", err)
	}
	rawKey := hex.EncodeToString(rawBytes)

	hash := sha256.Sum256([]byte(rawKey))

	key := &domain.APIKey{
		ID:            domain.NewID(),
		PrincipalName: req.PrincipalName,
		Name:          req.Name,
		KeyPrefix:     rawKey[:8],
		KeyHash:       hex.EncodeToString(hash[:]),
		IsAdmin:       req.IsAdmin,
		ExpiresAt:     req.ExpiresAt,
		CreatedAt:     time.Now(),
	}

	created, err := s.repo.Create(ctx, key)
	if err != nil {
		return "", nil, err
	}

	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		ID:            domain.NewID(),
		PrincipalName: caller.Name,
		Action:        "apikey.create",
		Target:        &created.Name,
		Status:        "success",
		CreatedAt:     time.Now(),
	})
	s.logger.Info("api key created", "name", created.Name, "principal", created.PrincipalName)

	return rawKey, created, nil
}

// List returns key metadata, newest first. Raw keys are never listed.
func (s *Service) List(ctx context.Context, page domain.PageRequest) ([]domain.APIKey, int64, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, page)
}

// Delete revokes a key by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	caller, err := requireAdmin(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		ID:            domain.NewID(),
		PrincipalName: caller.Name,
		Action:        "apikey.delete",
		Target:        &id,
		Status:        "success",
		CreatedAt:     time.Now(),
	})
	s.logger.Info("api key deleted", "id", id)
	return nil
}

func requireAdmin(ctx context.Context) (domain.ContextPrincipal, error) {
	caller, ok := domain.PrincipalFromContext(ctx)
	if !ok {
		return domain.ContextPrincipal{}, domain.ErrAccessDenied("authentication required")
	}
	if !caller.IsAdmin {
		return domain.ContextPrincipal{}, domain.ErrAccessDenied("admin privileges required")
	}
	return caller, nil
}
