package repository

import (
	"context"
	"database/sql"
	"strings"

	"flowdeck/internal/domain"
)

// RefreshLogRepo implements domain.RefreshLogRepository.
type RefreshLogRepo struct {
	db *sql.DB
}

// NewRefreshLogRepo creates a new RefreshLogRepo.
func NewRefreshLogRepo(db *sql.DB) *RefreshLogRepo {
	return &RefreshLogRepo{db: db}
}

func (r *RefreshLogRepo) Insert(ctx context.Context, rec *domain.RefreshRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_log (id, trigger_kind, requested_by, view_kind, error_message,
		                          schedule_count, unloadable_count, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Trigger, rec.RequestedBy, nullStr(rec.ViewKind), nullStr(rec.ErrorMessage),
		rec.ScheduleCount, rec.UnloadableCount, rec.DurationMs, rec.CreatedAt)
	return mapDBError(err)
}

func (r *RefreshLogRepo) List(ctx context.Context, filter domain.RefreshFilter) ([]domain.RefreshRecord, int64, error) {
	var conds []string
	var args []interface{}
	if filter.Trigger != nil {
		conds = append(conds, "trigger_kind = ?")
		args = append(args, *filter.Trigger)
	}
	if filter.Since != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, *filter.Since)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM refresh_log`+where, args...).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	listArgs := append(append([]interface{}{}, args...), filter.Page.Limit(), filter.Page.Offset())
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, trigger_kind, requested_by, view_kind, error_message,
		        schedule_count, unloadable_count, duration_ms, created_at
		 FROM refresh_log`+where+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		listArgs...)
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer func() { _ = rows.Close() }()

	var records []domain.RefreshRecord
	for rows.Next() {
		var rec domain.RefreshRecord
		var viewKind, errMsg sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Trigger, &rec.RequestedBy, &viewKind, &errMsg,
			&rec.ScheduleCount, &rec.UnloadableCount, &rec.DurationMs, &rec.CreatedAt); err != nil {
			return nil, 0, mapDBError(err)
		}
		rec.ViewKind = strFromNull(viewKind)
		rec.ErrorMessage = strFromNull(errMsg)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapDBError(err)
	}
	return records, total, nil
}

// Prune deletes all but the newest keep rows. Returns the number removed.
func (r *RefreshLogRepo) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_log WHERE id NOT IN (
		   SELECT id FROM refresh_log ORDER BY created_at DESC, id DESC LIMIT ?
		 )`, keep)
	if err != nil {
		return 0, mapDBError(err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, mapDBError(err)
	}
	return removed, nil
}

// Compile-time check.
var _ domain.RefreshLogRepository = (*RefreshLogRepo)(nil)
