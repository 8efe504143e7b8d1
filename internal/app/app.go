// Package app provides application-level wiring and dependency injection
// for the flowdeck console.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"flowdeck/internal/config"
	"flowdeck/internal/db/repository"
	"flowdeck/internal/domain"
	"flowdeck/internal/middleware"
	"flowdeck/internal/orchestrator"
	"flowdeck/internal/service/docs"
	"flowdeck/internal/service/keys"
	"flowdeck/internal/service/schedules"
)

// Deps holds the external dependencies that main() must provide.
// These are things the app package cannot (or should not) create itself:
// database handles, config, and the logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// Services groups the service pointers that the API and console handlers
// need.
type Services struct {
	Schedules *schedules.Service
	Docs      *docs.Service
	Keys      *keys.Service
}

// App holds the fully-wired application: services, the background poller,
// the JWT validator built from config, and the repositories the router
// needs for auth middleware and the history endpoints.
type App struct {
	Services    Services
	Poller      *schedules.Poller
	Validator   middleware.JWTValidator
	APIKeyRepo  *repository.APIKeyRepo
	AuditRepo   *repository.AuditRepo
	RefreshRepo *repository.RefreshLogRepo
}

// New wires repositories, the orchestrator gateway, and services from the
// provided deps. The poller is returned unstarted; main() decides whether
// to run it.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg

	// Repositories. Everything that writes goes through the write pool; the
	// API-key repo also writes (key creation, last-used touches).
	auditRepo := repository.NewAuditRepo(deps.WriteDB)
	refreshRepo := repository.NewRefreshLogRepo(deps.WriteDB)
	apiKeyRepo := repository.NewAPIKeyRepo(deps.WriteDB)

	// Orchestrator gateway
	gateway, err := orchestrator.NewClient(orchestrator.Config{
		BaseURL: cfg.OrchestratorURL,
		Token:   cfg.OrchestratorToken,
		Timeout: cfg.OrchestratorTimeout,
	}, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("orchestrator client: %w", err)
	}

	selector := domain.RepositorySelector{
		RepositoryName: cfg.RepositoryName,
		LocationName:   cfg.LocationName,
	}
	if err := selector.Validate(); err != nil {
		return nil, fmt.Errorf("repository selector: %w", err)
	}

	// Services
	scheduleSvc := schedules.NewService(gateway, selector, refreshRepo, auditRepo, deps.Logger)
	poller := schedules.NewPoller(scheduleSvc, cfg.PollInterval, deps.Logger)

	docsSvc, err := docs.NewService(cfg.DocsBaseURL, domain.DocsVersionSet{
		All:     cfg.DocsVersions,
		Current: cfg.DocsCurrent,
		Default: cfg.DocsDefault,
	}, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("docs service: %w", err)
	}

	keysSvc := keys.NewService(apiKeyRepo, auditRepo, deps.Logger)

	validator, err := buildValidator(ctx, cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("auth validator: %w", err)
	}

	return &App{
		Services: Services{
			Schedules: scheduleSvc,
			Docs:      docsSvc,
			Keys:      keysSvc,
		},
		Poller:      poller,
		Validator:   validator,
		APIKeyRepo:  apiKeyRepo,
		AuditRepo:   auditRepo,
		RefreshRepo: refreshRepo,
	}, nil
}

// buildValidator picks the token validator the auth config implies: OIDC
// discovery when an issuer is set, explicit JWKS when only that is set,
// otherwise the HS256 dev secret. A nil validator means no bearer tokens
// are accepted; the auth middleware then falls through to API keys.
func buildValidator(ctx context.Context, auth config.AuthConfig) (middleware.JWTValidator, error) {
	switch {
	case auth.JWKSURL != "":
		return middleware.NewOIDCValidatorFromJWKS(ctx, auth.JWKSURL, auth.IssuerURL, auth.Audience, auth.AllowedIssuers)
	case auth.IssuerURL != "":
		return middleware.NewOIDCValidator(ctx, auth.IssuerURL, auth.Audience, auth.AllowedIssuers)
	case auth.JWTSecret != "":
		return middleware.NewHS256Validator(auth.JWTSecret)
	default:
		return nil, nil
	}
}
