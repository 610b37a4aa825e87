// Package audit implements the lifecycle journal on PostgreSQL.
// Records are appended by the conclusion service and only read back by
// operators; session state never depends on them.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/ndt-conclusions/internal/adapter/postgres"
	"github.com/heartmarshall/ndt-conclusions/internal/domain"
)

const table = "audit_log"

var columns = []string{"id", "session_id", "conclusion_id", "action", "changes", "created_at"}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	q postgres.Querier
}

// New creates a new audit repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

// Log appends a record to the journal.
func (r *Repo) Log(ctx context.Context, record domain.AuditRecord) error {
	changes := record.Changes
	if changes == nil {
		changes = map[string]any{}
	}
	changesJSON, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("audit_record marshal changes: %w", err)
	}

	query, args, err := psql.Insert(table).
		Columns(columns...).
		Values(
			record.ID,
			record.SessionID,
			record.ConclusionID,
			record.Action.String(),
			changesJSON,
			record.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build audit insert: %w", err)
	}

	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "audit_record", record.ID)
	}
	return nil
}

// ListBySession returns a session's journal in chronological order, at most
// limit records. A non-positive limit returns everything.
func (r *Repo) ListBySession(ctx context.Context, sessionID uuid.UUID, limit int) ([]domain.AuditRecord, error) {
	builder := psql.Select(columns...).
		From(table).
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("created_at ASC", "id ASC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build audit select: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit_records by session %s: %w", sessionID, err)
	}
	defer rows.Close()

	var records []domain.AuditRecord
	for rows.Next() {
		var (
			rec     domain.AuditRecord
			action  string
			changes []byte
		)
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.ConclusionID, &action, &changes, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit_record: %w", err)
		}
		rec.Action = domain.AuditAction(action)
		if len(changes) > 0 {
			if err := json.Unmarshal(changes, &rec.Changes); err != nil {
				return nil, fmt.Errorf("audit_record %s unmarshal changes: %w", rec.ID, err)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit_records: %w", err)
	}

	return records, nil
}

// CountOlderThan returns how many journal records were created before
// cutoff.
func (r *Repo) CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := psql.Select("count(*)").
		From(table).
		Where(squirrel.Lt{"created_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build audit count: %w", err)
	}

	var n int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count audit_records older than %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return n, nil
}

// DeleteOlderThan removes journal records created before cutoff and returns
// how many were removed.
func (r *Repo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := psql.Delete(table).
		Where(squirrel.Lt{"created_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build audit delete: %w", err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete audit_records older than %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return tag.RowsAffected(), nil
}
