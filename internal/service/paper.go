package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"paperflow/internal/apperr"
	"paperflow/internal/auth"
	"paperflow/internal/model"
	"paperflow/internal/repository"
	"paperflow/internal/review"
	"paperflow/internal/storage"
	"paperflow/internal/version"
)

// allowedExtensions is the paper upload allow-list.
var allowedExtensions = map[string]bool{
	".doc":  true,
	".docx": true,
	".pdf":  true,
}

// CreatePaperInput carries the first upload of a document lineage.
type CreatePaperInput struct {
	TeacherID   int64
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// UpdatePaperInput carries a new version of an existing paper.
type UpdatePaperInput struct {
	Version     string
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// PaperService defines the paper lifecycle use cases. Every mutating
// operation executes as a single transaction: the paper row is read under a
// row-level exclusive lock, validated, rewritten, and one history snapshot is
// appended before commit. Blob uploads happen before the transaction opens;
// a blob orphaned by a failed commit is tolerated.
type PaperService interface {
	// CreatePaper inserts a paper at version v1.0 with status Uploaded,
	// owned by the acting student.
	CreatePaper(ctx context.Context, actor model.Actor, in CreatePaperInput) (*model.Paper, error)

	// UpdatePaper stores a new file under a strictly increasing version and
	// sets status Updated. Owner only; a finalized paper accepts no further
	// versions.
	UpdatePaper(ctx context.Context, actor model.Actor, paperID int64, in UpdatePaperInput) (*model.Paper, error)

	// CreateReviewStatus starts the review cycle, moving the paper from
	// Uploaded to PendingReview. Owner only, at most once per paper.
	CreateReviewStatus(ctx context.Context, actor model.Actor, paperID int64) (*model.Paper, error)

	// ChangeStatus applies a role-gated status transition with an optional
	// review note. Owner or assigned teacher.
	ChangeStatus(ctx context.Context, actor model.Actor, paperID int64, target model.Status, detail string) (*model.Paper, error)

	// GetPaper returns the current paper record. Owner, teacher, or admin.
	GetPaper(ctx context.Context, actor model.Actor, paperID int64) (*model.Paper, error)

	// ListHistory returns the audit trail newest first. Owner, teacher, or admin.
	ListHistory(ctx context.Context, actor model.Actor, paperID int64) ([]model.PaperHistory, error)

	// DownloadURL returns a presigned GET URL for the stored file.
	DownloadURL(ctx context.Context, actor model.Actor, paperID int64) (string, error)

	// DeletePaper removes the paper, its blob, and (by cascade) its history.
	// Owner or admin.
	DeletePaper(ctx context.Context, actor model.Actor, paperID int64) error
}

// paperService is a concrete implementation of PaperService.
type paperService struct {
	db            *sql.DB
	blobs         storage.BlobStore
	papers        repository.PaperRepository
	history       repository.HistoryRecorder
	maxUpload     int64
	presignExpiry time.Duration
	tracer        trace.Tracer
}

// NewPaperService constructs a new PaperService.
func NewPaperService(db *sql.DB, blobs storage.BlobStore, papers repository.PaperRepository, history repository.HistoryRecorder, maxUpload int64, presignExpiry time.Duration) PaperService {
	return &paperService{
		db:            db,
		blobs:         blobs,
		papers:        papers,
		history:       history,
		maxUpload:     maxUpload,
		presignExpiry: presignExpiry,
		tracer:        otel.Tracer("paperflow/internal/service"),
	}
}

func (s *paperService) CreatePaper(ctx context.Context, actor model.Actor, in CreatePaperInput) (*model.Paper, error) {
	ctx, span := s.tracer.Start(ctx, "PaperService.CreatePaper")
	defer span.End()

	if err := auth.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	if in.TeacherID <= 0 {
		return nil, apperr.Validation("TEACHER_REQUIRED", "teacher id is required")
	}
	if err := s.validateUpload(in.Filename, in.Size, in.Content); err != nil {
		return nil, err
	}

	key, err := s.putBlob(ctx, in.Filename, in.ContentType, in.Size, in.Content)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	paper := &model.Paper{
		OwnerID:         actor.ID,
		TeacherID:       in.TeacherID,
		Version:         version.Initial,
		Status:          model.StatusUploaded,
		StorageKey:      key,
		Size:            in.Size,
		SubmittedByID:   actor.ID,
		SubmittedByName: actor.Username,
		SubmittedByRole: model.RoleStudent.String(),
		OperatedBy:      actor.Username,
		OperatedTime:    now,
	}

	var stored *model.Paper
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		stored, err = s.papers.Insert(ctx, tx, paper)
		if err != nil {
			return apperr.Persistence("insert paper", err)
		}
		if err := s.history.Append(ctx, tx, stored.Snapshot()); err != nil {
			return apperr.Persistence("append history", err)
		}
		return nil
	})
	if err != nil {
		s.dropBlob(ctx, key)
		return nil, err
	}
	return stored, nil
}

func (s *paperService) UpdatePaper(ctx context.Context, actor model.Actor, paperID int64, in UpdatePaperInput) (*model.Paper, error) {
	ctx, span := s.tracer.Start(ctx, "PaperService.UpdatePaper")
	defer span.End()

	if err := auth.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	next, err := version.Parse(in.Version)
	if err != nil {
		return nil, err
	}
	if err := s.validateUpload(in.Filename, in.Size, in.Content); err != nil {
		return nil, err
	}

	// Fail fast on ownership and version order before paying for the blob
	// upload. The locked re-check inside the transaction stays authoritative.
	current, err := s.findPaper(ctx, paperID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwner(actor, current); err != nil {
		return nil, err
	}
	if err := review.RequireMutable(current.Status); err != nil {
		return nil, err
	}
	if err := requireIncreasing(current.Version, next); err != nil {
		return nil, err
	}

	key, err := s.putBlob(ctx, in.Filename, in.ContentType, in.Size, in.Content)
	if err != nil {
		return nil, err
	}

	var stored *model.Paper
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		p, err := s.lockPaper(ctx, tx, paperID)
		if err != nil {
			return err
		}
		if err := auth.RequireOwner(actor, p); err != nil {
			return err
		}
		if err := review.RequireMutable(p.Status); err != nil {
			return err
		}
		if err := requireIncreasing(p.Version, next); err != nil {
			return err
		}

		p.Version = next.String()
		p.Status = model.StatusUpdated
		p.StorageKey = key
		p.Size = in.Size
		p.OperatedBy = actor.Username
		p.OperatedTime = time.Now().UTC()

		stored, err = s.papers.Update(ctx, tx, p)
		if err != nil {
			return apperr.Persistence("update paper", err)
		}
		if err := s.history.Append(ctx, tx, stored.Snapshot()); err != nil {
			return apperr.Persistence("append history", err)
		}
		return nil
	})
	if err != nil {
		s.dropBlob(ctx, key)
		return nil, err
	}
	return stored, nil
}

func (s *paperService) CreateReviewStatus(ctx context.Context, actor model.Actor, paperID int64) (*model.Paper, error) {
	ctx, span := s.tracer.Start(ctx, "PaperService.CreateReviewStatus")
	defer span.End()

	if err := auth.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	var stored *model.Paper
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		p, err := s.lockPaper(ctx, tx, paperID)
		if err != nil {
			return err
		}
		if err := auth.RequireOwner(actor, p); err != nil {
			return err
		}
		next, err := review.StartCycle(p.Status, p.ReviewCycleStarted)
		if err != nil {
			return err
		}

		p.Status = next
		p.ReviewCycleStarted = true
		p.OperatedBy = actor.Username
		p.OperatedTime = time.Now().UTC()

		stored, err = s.papers.Update(ctx, tx, p)
		if err != nil {
			return apperr.Persistence("update paper", err)
		}
		if err := s.history.Append(ctx, tx, stored.Snapshot()); err != nil {
			return apperr.Persistence("append history", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *paperService) ChangeStatus(ctx context.Context, actor model.Actor, paperID int64, target model.Status, detail string) (*model.Paper, error) {
	ctx, span := s.tracer.Start(ctx, "PaperService.ChangeStatus")
	defer span.End()

	if err := auth.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	var stored *model.Paper
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		p, err := s.lockPaper(ctx, tx, paperID)
		if err != nil {
			return err
		}
		if err := auth.RequireParticipant(actor, p); err != nil {
			return err
		}
		role := auth.RelationTo(actor, p)
		next, err := review.Transition(p.Status, role, target)
		if err != nil {
			return err
		}

		p.Status = next
		if detail != "" {
			p.Detail = detail
		}
		p.OperatedBy = actor.Username
		p.OperatedTime = time.Now().UTC()

		stored, err = s.papers.Update(ctx, tx, p)
		if err != nil {
			return apperr.Persistence("update paper", err)
		}
		if err := s.history.Append(ctx, tx, stored.Snapshot()); err != nil {
			return apperr.Persistence("append history", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *paperService) GetPaper(ctx context.Context, actor model.Actor, paperID int64) (*model.Paper, error) {
	p, err := s.findPaper(ctx, paperID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireViewer(actor, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *paperService) ListHistory(ctx context.Context, actor model.Actor, paperID int64) ([]model.PaperHistory, error) {
	p, err := s.findPaper(ctx, paperID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireViewer(actor, p); err != nil {
		return nil, err
	}
	items, err := s.history.ListByPaper(ctx, s.db, p.ID)
	if err != nil {
		return nil, apperr.Persistence("list history", err)
	}
	return items, nil
}

func (s *paperService) DownloadURL(ctx context.Context, actor model.Actor, paperID int64) (string, error) {
	p, err := s.findPaper(ctx, paperID)
	if err != nil {
		return "", err
	}
	if err := auth.RequireViewer(actor, p); err != nil {
		return "", err
	}
	u, err := s.blobs.PresignGet(ctx, p.StorageKey, s.presignExpiry)
	if err != nil {
		return "", apperr.Storage("presign download", err)
	}
	return u, nil
}

func (s *paperService) DeletePaper(ctx context.Context, actor model.Actor, paperID int64) error {
	ctx, span := s.tracer.Start(ctx, "PaperService.DeletePaper")
	defer span.End()

	p, err := s.findPaper(ctx, paperID)
	if err != nil {
		return err
	}
	if err := auth.RequireOwnerOrAdmin(actor, p); err != nil {
		return err
	}
	// Remove the blob first; if that fails, keep the row so the reference is
	// not lost.
	if err := s.blobs.Delete(ctx, p.StorageKey); err != nil {
		return apperr.Storage("delete blob", err)
	}
	affected, err := s.papers.Delete(ctx, s.db, p.ID)
	if err != nil {
		return apperr.Persistence("delete paper", err)
	}
	if affected == 0 {
		return apperr.NotFound("PAPER_NOT_FOUND", "paper not found")
	}
	return nil
}

// inTx runs fn inside one transaction; fn's error aborts with rollback.
func (s *paperService) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Persistence("begin transaction", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperr.Persistence("commit transaction", err)
	}
	return nil
}

func (s *paperService) findPaper(ctx context.Context, id int64) (*model.Paper, error) {
	p, err := s.papers.FindByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("PAPER_NOT_FOUND", "paper not found")
		}
		return nil, apperr.Persistence("find paper", err)
	}
	return p, nil
}

func (s *paperService) lockPaper(ctx context.Context, tx *sql.Tx, id int64) (*model.Paper, error) {
	p, err := s.papers.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("PAPER_NOT_FOUND", "paper not found")
		}
		return nil, apperr.Persistence("lock paper", err)
	}
	return p, nil
}

func (s *paperService) validateUpload(filename string, size int64, r io.Reader) error {
	if r == nil {
		return apperr.Validation("FILE_REQUIRED", "file content is required")
	}
	if filename == "" {
		return apperr.Validation("FILENAME_REQUIRED", "filename is required")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return apperr.Validation("UNSUPPORTED_FILE_TYPE", fmt.Sprintf("file type %q is not accepted", ext))
	}
	if size <= 0 {
		return apperr.Validation("EMPTY_FILE", "file is empty")
	}
	if size > s.maxUpload {
		return apperr.Validation("FILE_TOO_LARGE", fmt.Sprintf("file exceeds %d bytes", s.maxUpload))
	}
	return nil
}

func (s *paperService) putBlob(ctx context.Context, filename, contentType string, size int64, r io.Reader) (string, error) {
	key := storage.NewPaperKey(filename)
	_, err := s.blobs.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			storage.MetaOriginalFilename: filename,
		},
	})
	if err != nil {
		return "", apperr.Storage("upload blob", err)
	}
	return key, nil
}

// dropBlob best-effort removes a blob left behind by a failed transaction.
// An orphaned object is a tolerated leak, not a correctness failure.
func (s *paperService) dropBlob(ctx context.Context, key string) {
	_ = s.blobs.Delete(ctx, key)
}

func requireIncreasing(currentStr string, next version.Version) error {
	current, err := version.Parse(currentStr)
	if err != nil {
		// A stored version that fails to parse is a data fault, not client input.
		return apperr.Persistence("stored version unreadable", err)
	}
	if version.Compare(next, current) <= 0 {
		return apperr.Conflict("VERSION_NOT_INCREASING",
			fmt.Sprintf("version %s does not increase over %s", next, current))
	}
	return nil
}
