package repository

import (
	"context"
	"database/sql"
	"strings"

	"flowdeck/internal/domain"
)

// AuditRepo implements domain.AuditRepository.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_entries (id, principal_name, action, target, detail, status, error_message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.PrincipalName, e.Action, nullStr(e.Target), nullStr(e.Detail),
		e.Status, nullStr(e.ErrorMessage), e.CreatedAt)
	return mapDBError(err)
}

func (r *AuditRepo) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	where, args := buildAuditWhere(filter)

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_entries`+where, args...).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	listArgs := append(append([]interface{}{}, args...), filter.Page.Limit(), filter.Page.Offset())
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, principal_name, action, target, detail, status, error_message, created_at
		 FROM audit_entries`+where+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		listArgs...)
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer func() { _ = rows.Close() }()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var target, detail, errMsg sql.NullString
		if err := rows.Scan(&e.ID, &e.PrincipalName, &e.Action, &target, &detail,
			&e.Status, &errMsg, &e.CreatedAt); err != nil {
			return nil, 0, mapDBError(err)
		}
		e.Target = strFromNull(target)
		e.Detail = strFromNull(detail)
		e.ErrorMessage = strFromNull(errMsg)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapDBError(err)
	}
	return entries, total, nil
}

// buildAuditWhere assembles the WHERE clause for the optional filters. The
// same clause and args serve both the count and the list query.
func buildAuditWhere(filter domain.AuditFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if filter.PrincipalName != nil {
		conds = append(conds, "principal_name = ?")
		args = append(args, *filter.PrincipalName)
	}
	if filter.Action != nil {
		conds = append(conds, "action = ?")
		args = append(args, *filter.Action)
	}
	if filter.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Since != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, *filter.Since)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Compile-time check.
var _ domain.AuditRepository = (*AuditRepo)(nil)
