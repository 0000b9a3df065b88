package repository

import (
	"context"

	"paperflow/internal/model"
)

// PaperRepository defines data access for the mutable paper row using SQL
// queries only. No business logic here — strictly persistence operations.
type PaperRepository interface {
	// Insert stores a new paper row and returns it with DB-assigned fields
	// (id, created_at, updated_at) populated.
	Insert(ctx context.Context, q Querier, p *model.Paper) (*model.Paper, error)

	// FindByID returns a paper by its ID.
	FindByID(ctx context.Context, q Querier, id int64) (*model.Paper, error)

	// FindByIDForUpdate returns a paper by its ID with a row-level exclusive
	// lock (SELECT ... FOR UPDATE). q must be a transaction for the lock to
	// mean anything; the lock is held until the transaction ends.
	FindByIDForUpdate(ctx context.Context, q Querier, id int64) (*model.Paper, error)

	// Update writes the mutable fields of an existing row and returns the
	// stored state.
	Update(ctx context.Context, q Querier, p *model.Paper) (*model.Paper, error)

	// Delete removes a paper row; history rows follow via FK cascade.
	// Returns sql.ErrNoRows semantics through RowsAffected handled by caller.
	Delete(ctx context.Context, q Querier, id int64) (int64, error)
}

// HistoryRecorder is the append-only audit log for paper mutations.
// Deliberately no update or delete method: rows are written once by the same
// transaction that mutates the paper, and removed only by FK cascade.
type HistoryRecorder interface {
	// Append inserts one immutable snapshot row.
	Append(ctx context.Context, q Querier, h *model.PaperHistory) error

	// ListByPaper returns all snapshots for a paper ordered by created_at
	// descending (then id descending for same-timestamp rows).
	ListByPaper(ctx context.Context, q Querier, paperID int64) ([]model.PaperHistory, error)
}
