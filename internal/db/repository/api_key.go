package repository

import (
	"context"
	"database/sql"
	"time"

	"flowdeck/internal/domain"
)

// APIKeyRepo implements domain.APIKeyRepository.
type APIKeyRepo struct {
	db *sql.DB
}

// NewAPIKeyRepo creates a new APIKeyRepo.
func NewAPIKeyRepo(db *sql.DB) *APIKeyRepo {
	return &APIKeyRepo{db: db}
}

func (r *APIKeyRepo) Create(ctx context.Context, k *domain.APIKey) (*domain.APIKey, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (id, principal_name, name, key_prefix, key_hash, is_admin, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		k.ID, k.PrincipalName, k.Name, k.KeyPrefix, k.KeyHash, boolToInt(k.IsAdmin), k.ExpiresAt, k.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return k, nil
}

func (r *APIKeyRepo) GetByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, principal_name, name, key_prefix, key_hash, is_admin, expires_at, last_used_at, created_at
		 FROM api_keys WHERE key_hash = ?`, keyHash)
	return scanAPIKey(row)
}

func (r *APIKeyRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.APIKey, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM api_keys`).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, principal_name, name, key_prefix, key_hash, is_admin, expires_at, last_used_at, created_at
		 FROM api_keys ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer func() { _ = rows.Close() }()

	var keys []domain.APIKey
	for rows.Next() {
		k, err := scanAPIKey(rows)
		if err != nil {
			return nil, 0, err
		}
		keys = append(keys, *k)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapDBError(err)
	}
	return keys, total, nil
}

func (r *APIKeyRepo) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE api_keys SET last_used_at = ? WHERE id = ?`, at, id)
	return mapDBError(err)
}

func (r *APIKeyRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM api_keys WHERE id = ?`, id)
	if err != nil {
		return mapDBError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return mapDBError(err)
	}
	if affected == 0 {
		return domain.ErrNotFound("api key %s not found", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAPIKey(row rowScanner) (*domain.APIKey, error) {
	var k domain.APIKey
	var isAdmin int64
	var expiresAt, lastUsedAt sql.NullTime
	err := row.Scan(&k.ID, &k.PrincipalName, &k.Name, &k.KeyPrefix, &k.KeyHash,
		&isAdmin, &expiresAt, &lastUsedAt, &k.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	k.IsAdmin = isAdmin != 0
	if expiresAt.Valid {
		t := expiresAt.Time
		k.ExpiresAt = &t
	}
	if lastUsedAt.Valid {
		t := lastUsedAt.Time
		k.LastUsedAt = &t
	}
	return &k, nil
}

// Compile-time check.
var _ domain.APIKeyRepository = (*APIKeyRepo)(nil)
