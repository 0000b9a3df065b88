package postgres

import (
	"context"
	"database/sql"

	"paperflow/internal/model"
	"paperflow/internal/repository"
)

// PaperPostgres is a PostgreSQL implementation of repository.PaperRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type PaperPostgres struct{}

// NewPaperPostgres creates a new PaperPostgres repository.
func NewPaperPostgres() *PaperPostgres {
	return &PaperPostgres{}
}

var _ repository.PaperRepository = (*PaperPostgres)(nil)

const paperColumns = `id, owner_id, teacher_id, version, status, storage_key, size, detail,
		submitted_by_id, submitted_by_name, submitted_by_role,
		operated_by, operated_time, review_cycle_started, created_at, updated_at`

// Insert stores a new paper row and returns the stored record.
func (r *PaperPostgres) Insert(ctx context.Context, q repository.Querier, p *model.Paper) (*model.Paper, error) {
	const query = `
		INSERT INTO papers (owner_id, teacher_id, version, status, storage_key, size, detail,
			submitted_by_id, submitted_by_name, submitted_by_role,
			operated_by, operated_time, review_cycle_started)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + paperColumns
	row := q.QueryRowContext(ctx, query,
		p.OwnerID,
		p.TeacherID,
		p.Version,
		p.Status,
		p.StorageKey,
		p.Size,
		p.Detail,
		p.SubmittedByID,
		p.SubmittedByName,
		p.SubmittedByRole,
		p.OperatedBy,
		p.OperatedTime,
		p.ReviewCycleStarted,
	)
	return scanPaper(row)
}

// FindByID fetches a single paper by its ID.
func (r *PaperPostgres) FindByID(ctx context.Context, q repository.Querier, id int64) (*model.Paper, error) {
	const query = `SELECT ` + paperColumns + ` FROM papers WHERE id = $1`
	return scanPaper(q.QueryRowContext(ctx, query, id))
}

// FindByIDForUpdate fetches a paper holding a row-level exclusive lock for
// the remainder of the surrounding transaction.
func (r *PaperPostgres) FindByIDForUpdate(ctx context.Context, q repository.Querier, id int64) (*model.Paper, error) {
	const query = `SELECT ` + paperColumns + ` FROM papers WHERE id = $1 FOR UPDATE`
	return scanPaper(q.QueryRowContext(ctx, query, id))
}

// Update persists the mutable fields and returns the stored state.
func (r *PaperPostgres) Update(ctx context.Context, q repository.Querier, p *model.Paper) (*model.Paper, error) {
	const query = `
		UPDATE papers
		SET version = $2, status = $3, storage_key = $4, size = $5, detail = $6,
			operated_by = $7, operated_time = $8, review_cycle_started = $9,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + paperColumns
	row := q.QueryRowContext(ctx, query,
		p.ID,
		p.Version,
		p.Status,
		p.StorageKey,
		p.Size,
		p.Detail,
		p.OperatedBy,
		p.OperatedTime,
		p.ReviewCycleStarted,
	)
	return scanPaper(row)
}

// Delete removes a paper row. History rows cascade at the schema level.
// Returns the number of rows removed so callers can distinguish a miss.
func (r *PaperPostgres) Delete(ctx context.Context, q repository.Querier, id int64) (int64, error) {
	const query = `DELETE FROM papers WHERE id = $1`
	res, err := q.ExecContext(ctx, query, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanPaper(row *sql.Row) (*model.Paper, error) {
	var p model.Paper
	if err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.TeacherID,
		&p.Version,
		&p.Status,
		&p.StorageKey,
		&p.Size,
		&p.Detail,
		&p.SubmittedByID,
		&p.SubmittedByName,
		&p.SubmittedByRole,
		&p.OperatedBy,
		&p.OperatedTime,
		&p.ReviewCycleStarted,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
