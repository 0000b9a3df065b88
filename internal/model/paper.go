package model

import "time"

// Status enumerates the review lifecycle states of a paper.
// Final is terminal: once reached, no further status mutation succeeds.
type Status string

const (
	StatusUploaded      Status = "Uploaded"
	StatusPendingReview Status = "PendingReview"
	StatusReviewed      Status = "Reviewed"
	StatusUpdated       Status = "Updated"
	StatusNeedsUpdate   Status = "NeedsUpdate"
	StatusFinal         Status = "Final"
)

// Valid reports whether s is a member of the fixed status enumeration.
func (s Status) Valid() bool {
	switch s {
	case StatusUploaded, StatusPendingReview, StatusReviewed, StatusUpdated, StatusNeedsUpdate, StatusFinal:
		return true
	}
	return false
}

// Paper is the mutable record of one document lineage.
// It is a pure domain model with no database-specific dependencies or tags;
// only the lifecycle engine mutates it, callers observe it through the service.
type Paper struct {
	ID                 int64     `json:"id"`
	OwnerID            int64     `json:"owner_id"`
	TeacherID          int64     `json:"teacher_id"`
	Version            string    `json:"version"`
	Status             Status    `json:"status"`
	StorageKey         string    `json:"storage_key"`
	Size               int64     `json:"size"`
	Detail             string    `json:"detail,omitempty"`
	SubmittedByID      int64     `json:"submitted_by_id"`
	SubmittedByName    string    `json:"submitted_by_name"`
	SubmittedByRole    string    `json:"submitted_by_role"`
	OperatedBy         string    `json:"operated_by"`
	OperatedTime       time.Time `json:"operated_time"`
	ReviewCycleStarted bool      `json:"review_cycle_started"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// PaperHistory is an immutable snapshot of a Paper taken by the transaction
// that performed the mutation. Rows are inserted exactly once and never
// updated; they disappear only when the owning paper row is deleted.
type PaperHistory struct {
	ID              int64     `json:"id"`
	PaperID         int64     `json:"paper_id"`
	Version         string    `json:"version"`
	Size            int64     `json:"size"`
	Status          Status    `json:"status"`
	Detail          string    `json:"detail,omitempty"`
	StorageKey      string    `json:"storage_key"`
	SubmittedByID   int64     `json:"submitted_by_id"`
	SubmittedByName string    `json:"submitted_by_name"`
	SubmittedByRole string    `json:"submitted_by_role"`
	OperatedBy      string    `json:"operated_by"`
	OperatedTime    time.Time `json:"operated_time"`
	CreatedAt       time.Time `json:"created_at"`
}

// Snapshot builds the history row mirroring the paper's current state.
// CreatedAt is left for the database default so history ordering follows
// insertion time.
func (p *Paper) Snapshot() *PaperHistory {
	return &PaperHistory{
		PaperID:         p.ID,
		Version:         p.Version,
		Size:            p.Size,
		Status:          p.Status,
		Detail:          p.Detail,
		StorageKey:      p.StorageKey,
		SubmittedByID:   p.SubmittedByID,
		SubmittedByName: p.SubmittedByName,
		SubmittedByRole: p.SubmittedByRole,
		OperatedBy:      p.OperatedBy,
		OperatedTime:    p.OperatedTime,
	}
}
