package postgres

import (
	"context"

	"paperflow/internal/model"
	"paperflow/internal/repository"
)

// HistoryPostgres is a PostgreSQL implementation of repository.HistoryRecorder.
// It exposes insert and list only; the append-only property of the audit log
// is enforced by this surface, not by convention.
type HistoryPostgres struct{}

// NewHistoryPostgres creates a new HistoryPostgres recorder.
func NewHistoryPostgres() *HistoryPostgres {
	return &HistoryPostgres{}
}

var _ repository.HistoryRecorder = (*HistoryPostgres)(nil)

// Append inserts one snapshot row. created_at comes from the database clock
// so history ordering matches insertion order.
func (r *HistoryPostgres) Append(ctx context.Context, q repository.Querier, h *model.PaperHistory) error {
	const query = `
		INSERT INTO paper_history (paper_id, version, size, status, detail, storage_key,
			submitted_by_id, submitted_by_name, submitted_by_role,
			operated_by, operated_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := q.ExecContext(ctx, query,
		h.PaperID,
		h.Version,
		h.Size,
		h.Status,
		h.Detail,
		h.StorageKey,
		h.SubmittedByID,
		h.SubmittedByName,
		h.SubmittedByRole,
		h.OperatedBy,
		h.OperatedTime,
	)
	return err
}

// ListByPaper returns snapshots newest first.
func (r *HistoryPostgres) ListByPaper(ctx context.Context, q repository.Querier, paperID int64) ([]model.PaperHistory, error) {
	const query = `
		SELECT id, paper_id, version, size, status, detail, storage_key,
			submitted_by_id, submitted_by_name, submitted_by_role,
			operated_by, operated_time, created_at
		FROM paper_history
		WHERE paper_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := q.QueryContext(ctx, query, paperID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.PaperHistory, 0)
	for rows.Next() {
		var h model.PaperHistory
		if err := rows.Scan(
			&h.ID,
			&h.PaperID,
			&h.Version,
			&h.Size,
			&h.Status,
			&h.Detail,
			&h.StorageKey,
			&h.SubmittedByID,
			&h.SubmittedByName,
			&h.SubmittedByRole,
			&h.OperatedBy,
			&h.OperatedTime,
			&h.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
