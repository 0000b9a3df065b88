package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"paperflow/internal/apperr"
	"paperflow/internal/model"
	"paperflow/internal/repository"
	repoMocks "paperflow/internal/repository/mocks"
	"paperflow/internal/storage"
	storeMocks "paperflow/internal/storage/mocks"
)

const testMaxUpload = 100 << 20

var (
	student  = model.Actor{ID: 5, Username: "alice", Roles: []model.Role{model.RoleStudent}}
	teacher  = model.Actor{ID: 9, Username: "bob", Roles: []model.Role{model.RoleTeacher}}
	admin    = model.Actor{ID: 42, Username: "root", Roles: []model.Role{model.RoleAdmin}}
	stranger = model.Actor{ID: 7, Username: "mallory", Roles: []model.Role{model.RoleStudent}}
)

type fixture struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	blobs   *storeMocks.MockBlobStore
	papers  *repoMocks.MockPaperRepository
	history *repoMocks.MockHistoryRecorder
	svc     PaperService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, m, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		db:      db,
		sqlMock: m,
		blobs:   new(storeMocks.MockBlobStore),
		papers:  new(repoMocks.MockPaperRepository),
		history: new(repoMocks.MockHistoryRecorder),
	}
	f.svc = NewPaperService(db, f.blobs, f.papers, f.history, testMaxUpload, 15*time.Minute)
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.blobs.AssertExpectations(t)
	f.papers.AssertExpectations(t)
	f.history.AssertExpectations(t)
	assert.NoError(t, f.sqlMock.ExpectationsWereMet())
}

func uploadedPaper() *model.Paper {
	now := time.Now().UTC().Add(-time.Hour)
	return &model.Paper{
		ID:              1,
		OwnerID:         5,
		TeacherID:       9,
		Version:         "v1.0",
		Status:          model.StatusUploaded,
		StorageKey:      "papers/first.docx",
		Size:            1000,
		SubmittedByID:   5,
		SubmittedByName: "alice",
		SubmittedByRole: "student",
		OperatedBy:      "alice",
		OperatedTime:    now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestPaperService_CreatePaper(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		f := newFixture(t)
		content := strings.NewReader("thesis body")

		f.blobs.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "papers/") && strings.HasSuffix(key, ".docx")
		}), content, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
			return opt.Size == 1000 && opt.Metadata[storage.MetaOriginalFilename] == "thesis.docx"
		})).Return(storage.ObjectInfo{Size: 1000}, nil)

		stored := uploadedPaper()
		f.sqlMock.ExpectBegin()
		f.papers.On("Insert", mock.Anything, mock.Anything, mock.MatchedBy(func(p *model.Paper) bool {
			return p.OwnerID == 5 && p.TeacherID == 9 &&
				p.Version == "v1.0" && p.Status == model.StatusUploaded &&
				p.SubmittedByID == 5 && p.SubmittedByName == "alice" &&
				p.SubmittedByRole == "student" && !p.ReviewCycleStarted
		})).Return(stored, nil)
		f.history.On("Append", mock.Anything, mock.Anything, mock.MatchedBy(func(h *model.PaperHistory) bool {
			return h.PaperID == stored.ID && h.Version == stored.Version &&
				h.Status == stored.Status && h.StorageKey == stored.StorageKey &&
				h.Size == stored.Size && h.OperatedBy == stored.OperatedBy
		})).Return(nil)
		f.sqlMock.ExpectCommit()

		got, err := f.svc.CreatePaper(ctx, student, CreatePaperInput{
			TeacherID:   9,
			Filename:    "thesis.docx",
			ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			Size:        1000,
			Content:     content,
		})

		assert.NoError(t, err)
		assert.Equal(t, "v1.0", got.Version)
		assert.Equal(t, model.StatusUploaded, got.Status)
		f.assertExpectations(t)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CreatePaper(ctx, model.Actor{}, CreatePaperInput{
			TeacherID: 9, Filename: "thesis.docx", Size: 1000, Content: strings.NewReader("x"),
		})

		assert.Error(t, err)
		assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
		f.assertExpectations(t)
	})

	t.Run("rejects unsupported extension", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CreatePaper(ctx, student, CreatePaperInput{
			TeacherID: 9, Filename: "thesis.exe", Size: 1000, Content: strings.NewReader("x"),
		})

		assert.Error(t, err)
		assert.Equal(t, "UNSUPPORTED_FILE_TYPE", apperr.CodeOf(err))
		f.assertExpectations(t)
	})

	t.Run("rejects oversized file", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CreatePaper(ctx, student, CreatePaperInput{
			TeacherID: 9, Filename: "thesis.docx", Size: testMaxUpload + 1, Content: strings.NewReader("x"),
		})

		assert.Error(t, err)
		assert.Equal(t, "FILE_TOO_LARGE", apperr.CodeOf(err))
		f.assertExpectations(t)
	})

	t.Run("missing teacher", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CreatePaper(ctx, student, CreatePaperInput{
			Filename: "thesis.docx", Size: 1000, Content: strings.NewReader("x"),
		})

		assert.Error(t, err)
		assert.Equal(t, "TEACHER_REQUIRED", apperr.CodeOf(err))
		f.assertExpectations(t)
	})

	t.Run("insert failure rolls back and drops blob", func(t *testing.T) {
		f := newFixture(t)
		content := strings.NewReader("thesis body")

		f.blobs.On("Put", mock.Anything, mock.Anything, content, mock.Anything).
			Return(storage.ObjectInfo{}, nil)
		f.sqlMock.ExpectBegin()
		f.papers.On("Insert", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("db fail"))
		f.sqlMock.ExpectRollback()
		f.blobs.On("Delete", mock.Anything, mock.Anything).Return(nil)

		_, err := f.svc.CreatePaper(ctx, student, CreatePaperInput{
			TeacherID: 9, Filename: "thesis.docx", Size: 1000, Content: content,
		})

		assert.Error(t, err)
		assert.Equal(t, apperr.KindPersistence, apperr.KindOf(err))
		f.assertExpectations(t)
	})

	t.Run("storage failure stops before the transaction", func(t *testing.T) {
		f := newFixture(t)
		content := strings.NewReader("thesis body")

		f.blobs.On("Put", mock.Anything, mock.Anything, content, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("storage fail"))

		_, err := f.svc.CreatePaper(ctx, student, CreatePaperInput{
			TeacherID: 9, Filename: "thesis.docx", Size: 1000, Content: content,
		})

		assert.Error(t, err)
		assert.Equal(t, apperr.KindStorage, apperr.KindOf(err))
		f.assertExpectations(t)
	})
}

func TestPaperService_UpdatePaper(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		f := newFixture(t)
		content := strings.NewReader("second draft")

		f.papers.On("FindByID", mock.Anything, mock.Anything, int64(1)).Return(uploadedPaper(), nil).Once()
		f.blobs.On("Put", mock.Anything, mock.Anything, content, mock.Anything).
			Return(storage.ObjectInfo{}, nil)

		f.sqlMock.ExpectBegin()
		f.papers.On("FindByIDForUpdate", mock.Anything, mock.Anything, int64(1)).Return(uploadedPaper(), nil).Once()
		f.papers.On("Update", mock.Anything, mock.Anything, mock.MatchedBy(func(p *model.Paper) bool {
			return p.Version == "v1.1" && p.Status == model.StatusUpdated && p.Size == 2000
		})).Return(func(ctx context.Context, q repository.Querier, p *model.Paper) *model.Paper {
			out := *p
			out.UpdatedAt = time.Now().UTC()
			return &out
		}, nil).Once()
		f.history.On("Append", mock.Anything, mock.Anything, mock.MatchedBy(func(h *model.PaperHistory) bool {
			return h.Version == "v1.1" && h.Status == model.StatusUpdated
		})).Return(nil)
		f.sqlMock.ExpectCommit()

		got, err := f.svc.UpdatePaper(ctx, student, 1, UpdatePaperInput{
			Version: "v1.1", Filename: "thesis.docx", Size: 2000, Content: content,
		})

		assert.NoError(t, err)
		assert.Equal(t, "v1.1", got.Version)
		assert.Equal(t, model.StatusUpdated, got.Status)
		f.assertExpectations(t)
	})

	t.Run("rejects version that does not increase", func(t *testing.T) {
		f := newFixture(t)

		f.papers.On("FindByID", mock.Anything, mock.Anything, int64(1)).Return(uploadedPaper(), nil)

		_, err := f.svc.UpdatePaper(ctx, student, 1, UpdatePaperInput{
			Version: "v1.0", Filename: "thesis.docx", Size: 2000, Content: strings.NewReader("x"),
		})

		assert.Error(t, err)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
		assert.Equal(t, "VERSION_NOT_INCREASING", apperr.CodeOf(err))
		f.assertExpectations(t)
	})

	t.Run("rejects decreasing version", func(t *testing.T) {
		f := newFixture(t)

		current := uploadedPaper()
		current.Version = "v1.2"
		f.papers.On("FindByID", mock.Anything, mock.Anything, int64(1)).Return(current, nil)

		_, err := f.svc.UpdatePaper(ctx, student, 1, UpdatePaperInput{
			Version: "v1.1", Filename: "thesis.docx", Size: 2000, Content: strings.NewReader("x"),
		})

		assert.Error(t, err)
		assert.Equal(t, "VERSION_NOT_INCREASING", apperr.CodeOf(err))
		f.assertExpectations(t)
	})

	t.Run("malformed version", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.UpdatePaper(ctx, student, 1, UpdatePaperInput{
			Version: "latest", Filename: "thesis.docx", Size: 2000, Content: strings.NewReader("x"),
		})

		assert.Error(t, err)
		assert.Equal(t, "INVALID_VERSION_FORMAT", apperr.CodeOf(err))
		f.assertExpectations(t)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		f := newFixture(t)

		f.papers.On("FindByID", mock.Anything, mock.Anything, int64(1)).Return(uploadedPaper(), nil)

		_, err := f.svc.UpdatePaper(ctx, stranger, 1, UpdatePaperInput{
			Version: "v1.1", Filename: "thesis.docx", Size: 2000, Content: strings.NewReader("x"),
		})

		assert.Error(t, err)
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
		f.assertExpectations(t)
	})

	t.Run("paper not found", func(t *testing.T) {
		f := newFixture(t)

		f.papers.On("FindByID", mock.Anything, mock.Anything, int64(99)).Return(nil, sql.ErrNoRows)

		_, err := f.svc.UpdatePaper(ctx, student, 99, UpdatePaperInput{
			Version: "v1.1", Filename: "thesis.docx", Size: 2000, Content: strings.NewReader("x"),
		})

		assert.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
		f.assertExpectations(t)
	})

	t.Run("final paper accepts no further versions", func(t *testing.T) {
		f := newFixture(t)

		final := uploadedPaper()
		final.Status = model.StatusFinal
		final.ReviewCycleStarted = true
		f.papers.On("FindByID", mock.Anything, mock.Anything, int64(1)).Return(final, nil)

		_, err := f.svc.UpdatePaper(ctx, student, 1, UpdatePaperInput{
			Version: "v1.1", Filename: "thesis.docx", Size: 2000, Content: strings.NewReader("x"),
		})

		assert.Error(t, err)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
		assert.Equal(t, "ALREADY_FINAL", apperr.CodeOf(err))
		// No blob upload, no transaction, no history row.
		f.assertExpectations(t)
	})

	t.Run("concurrent finalize wins under the row lock", func(t *testing.T) {
		// The unlocked pre-check sees a live paper, but the teacher finalizes
		// it before the row lock is acquired. The locked re-check must reject
		// and the freshly uploaded blob is dropped.
		f := newFixture(t)
		content := strings.NewReader("second draft")

		f.papers.On("FindByID", mock.Anything, mock.Anything, int64(1)).Return(uploadedPaper(), nil)
		f.blobs.On("Put", mock.Anything, mock.Anything, content, mock.Anything).
			Return(storage.ObjectInfo{}, nil)

		f.sqlMock.ExpectBegin()
		finalized := uploadedPaper()
		finalized.Status = model.StatusFinal
		finalized.ReviewCycleStarted = true
		f.papers.On("FindByIDForUpdate", mock.Anything, mock.Anything, int64(1)).Return(finalized, nil)
		f.sqlMock.ExpectRollback()
		f.blobs.On("Delete", mock.Anything, mock.Anything).Return(nil)

		_, err := f.svc.UpdatePaper(ctx, student, 1, UpdatePaperInput{
			Version: "v1.1", Filename: "thesis.docx", Size: 2000, Content: content,
		})

		assert.Error(t, err)
		assert.Equal(t, "ALREADY_FINAL", apperr.CodeOf(err))
		f.history.AssertNotCalled(t, "Append", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("concurrent update loses under the row lock", func(t *testing.T) {
		// The unlocked pre-check sees v1.0, but by the time the row lock is
		// acquired another request has already written v1.1. The locked
		// re-check must reject and the freshly uploaded blob is dropped.
		f := newFixture(t)
		content := strings.NewReader("second draft")

		f.papers.On("FindByID", mock.Anything, mock.Anything, int64(1)).Return(uploadedPaper(), nil)
		f.blobs.On("Put", mock.Anything, mock.Anything, content, mock.Anything).
			Return(storage.ObjectInfo{}, nil)

		f.sqlMock.ExpectBegin()
		raced := uploadedPaper()
		raced.Version = "v1.1"
		raced.Status = model.StatusUpdated
		f.papers.On("FindByIDForUpdate", mock.Anything, mock.Anything, int64(1)).Return(raced, nil)
		f.sqlMock.ExpectRollback()
		f.blobs.On("Delete", mock.Anything, mock.Anything).Return(nil)

		_, err := f.svc.UpdatePaper(ctx, student, 1, UpdatePaperInput{
			Version: "v1.1", Filename: "thesis.docx", Size: 2000, Content: content,
		})

		assert.Error(t, err)
		assert.Equal(t, "VERSION_NOT_INCREASING", apperr.CodeOf(err))
		f.assertExpectations(t)
	})
}

func TestPaperService_CreateReviewStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		f := newFixture(t)

		f.sqlMock.ExpectBegin()
		f.papers.On("FindByIDForUpdate", mock.Anything, mock.Anything, int64(1)).Return(uploadedPaper(), nil)
		f.papers.On("Update", mock.Anything, mock.Anything, mock.MatchedBy(func(p *model.Paper) bool {
			return p.Status == model.StatusPendingReview && p.ReviewCycleStarted
		})).Return(func(ctx context.Context, q repository.Querier, p *model.Paper) *model.Paper {
			out := *p
			return &out
		}, nil)
		f.history.On("Append", mock.Anything, mock.Anything, mock.MatchedBy(func(h *model.PaperHistory) bool {
			return h.Status == model.StatusPendingReview
		})).Return(nil)
		f.sqlMock.ExpectCommit()

		got, err := f.svc.CreateReviewStatus(ctx, student, 1)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusPendingReview, got.Status)
		f.assertExpectations(t)
	})

	t.Run("second call conflicts", func(t *testing.T) {
		f := newFixture(t)

		started := uploadedPaper()
		started.Status = model.StatusPendingReview
		started.ReviewCycleStarted = true

		f.sqlMock.ExpectBegin()
		f.papers.On("FindByIDForUpdate", mock.Anything, mock.Anything, int64(1)).Return(started, nil)
		f.sqlMock.ExpectRollback()

		_, err := f.svc.CreateReviewStatus(ctx, student, 1)

		assert.Error(t, err)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
		assert.Equal(t, "REVIEW_CYCLE_STARTED", apperr.CodeOf(err))
		f.assertExpectations(t)
	})

	t.Run("teacher may not start the cycle", func(t *testing.T) {
		f := newFixture(t)

		f.sqlMock.ExpectBegin()
		f.papers.On("FindByIDForUpdate", mock.Anything, mock.Anything, int64(1)).Return(uploadedPaper(), nil)
		f.sqlMock.ExpectRollback()

		_, err := f.svc.CreateReviewStatus(ctx, teacher, 1)

		assert.Error(t, err)
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
		f.assertExpectations(t)
	})
}

func TestPaperService_ChangeStatus(t *testing.T) {
	ctx := context.Background()

	pending := func() *model.Paper {
		p := uploadedPaper()
		p.Status = model.StatusPendingReview
		p.ReviewCycleStarted = true
		return p
	}

	t.Run("teacher finalizes from reviewed", func(t *testing.T) {
		f := newFixture(t)

		reviewed := pending()
		reviewed.Status = model.StatusReviewed

		f.sqlMock.ExpectBegin()
		f.papers.On("FindByIDForUpdate", mock.Anything, mock.Anything, int64(1)).Return(reviewed, nil)
		f.papers.On("Update", mock.Anything, mock.Anything, mock.MatchedBy(func(p *model.Paper) bool {
			return p.Status == model.StatusFinal && p.Detail == "well argued" && p.OperatedBy == "bob"
		})).Return(func(ctx context.Context, q repository.Querier, p *model.Paper) *model.Paper {
			out := *p
			return &out
		}, nil)
		f.history.On("Append", mock.Anything, mock.Anything, mock.MatchedBy(func(h *model.PaperHistory) bool {
			return h.Status == model.StatusFinal && h.Detail == "well argued" && h.OperatedBy == "bob"
		})).Return(nil)
		f.sqlMock.ExpectCommit()

		got, err := f.svc.ChangeStatus(ctx, teacher, 1, model.StatusFinal, "well argued")

		assert.NoError(t, err)
		assert.Equal(t, model.StatusFinal, got.Status)
		f.assertExpectations(t)
	})

	t.Run("final is absorbing", func(t *testing.T) {
		f := newFixture(t)

		final := pending()
		final.Status = model.StatusFinal

		f.sqlMock.ExpectBegin()
		f.papers.On("FindByIDForUpdate", mock.Anything, mock.Anything, int64(1)).Return(final, nil)
		f.sqlMock.ExpectRollback()

		_, err := f.svc.ChangeStatus(ctx, teacher, 1, model.StatusReviewed, "")

		assert.Error(t, err)
		assert.Equal(t, "ALREADY_FINAL", apperr.CodeOf(err))
		f.assertExpectations(t)
	})

	t.Run("student may not finalize", func(t *testing.T) {
		f := newFixture(t)

		reviewed := pending()
		reviewed.Status = model.StatusReviewed

		f.sqlMock.ExpectBegin()
		f.papers.On("FindByIDForUpdate", mock.Anything, mock.Anything, int64(1)).Return(reviewed, nil)
		f.sqlMock.ExpectRollback()

		_, err := f.svc.ChangeStatus(ctx, student, 1, model.StatusFinal, "")

		assert.Error(t, err)
		assert.Equal(t, "INVALID_TRANSITION", apperr.CodeOf(err))
		f.assertExpectations(t)
	})

	t.Run("outsider is forbidden", func(t *testing.T) {
		f := newFixture(t)

		f.sqlMock.ExpectBegin()
		f.papers.On("FindByIDForUpdate", mock.Anything, mock.Anything, int64(1)).Return(pending(), nil)
		f.sqlMock.ExpectRollback()

		_, err := f.svc.ChangeStatus(ctx, stranger, 1, model.StatusReviewed, "")

		assert.Error(t, err)
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
		f.assertExpectations(t)
	})

	t.Run("history append failure aborts the mutation", func(t *testing.T) {
		f := newFixture(t)

		reviewed := pending()
		reviewed.Status = model.StatusReviewed

		f.sqlMock.ExpectBegin()
		f.papers.On("FindByIDForUpdate", mock.Anything, mock.Anything, int64(1)).Return(reviewed, nil)
		f.papers.On("Update", mock.Anything, mock.Anything, mock.Anything).
			Return(func(ctx context.Context, q repository.Querier, p *model.Paper) *model.Paper {
				out := *p
				return &out
			}, nil)
		f.history.On("Append", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("db fail"))
		f.sqlMock.ExpectRollback()

		_, err := f.svc.ChangeStatus(ctx, teacher, 1, model.StatusFinal, "")

		assert.Error(t, err)
		assert.Equal(t, apperr.KindPersistence, apperr.KindOf(err))
		f.assertExpectations(t)
	})
}

func TestPaperService_ListHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("viewer gets entries newest first", func(t *testing.T) {
		f := newFixture(t)

		f.papers.On("FindByID", mock.Anything, mock.Anything, int64(1)).Return(uploadedPaper(), nil)
		f.history.On("ListByPaper", mock.Anything, mock.Anything, int64(1)).Return([]model.PaperHistory{
			{PaperID: 1, Version: "v1.1"},
			{PaperID: 1, Version: "v1.0"},
		}, nil)

		items, err := f.svc.ListHistory(ctx, teacher, 1)

		assert.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, "v1.1", items[0].Version)
		f.assertExpectations(t)
	})

	t.Run("outsider is forbidden", func(t *testing.T) {
		f := newFixture(t)

		f.papers.On("FindByID", mock.Anything, mock.Anything, int64(1)).Return(uploadedPaper(), nil)

		_, err := f.svc.ListHistory(ctx, stranger, 1)

		assert.Error(t, err)
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
		f.assertExpectations(t)
	})
}

func TestPaperService_DownloadURL(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)

	f.papers.On("FindByID", mock.Anything, mock.Anything, int64(1)).Return(uploadedPaper(), nil)
	f.blobs.On("PresignGet", mock.Anything, "papers/first.docx", 15*time.Minute).
		Return("https://blobs.example/papers/first.docx?sig=abc", nil)

	u, err := f.svc.DownloadURL(ctx, student, 1)

	assert.NoError(t, err)
	assert.Contains(t, u, "papers/first.docx")
	f.assertExpectations(t)
}

func TestPaperService_DeletePaper(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes", func(t *testing.T) {
		f := newFixture(t)

		f.papers.On("FindByID", mock.Anything, mock.Anything, int64(1)).Return(uploadedPaper(), nil)
		f.blobs.On("Delete", mock.Anything, "papers/first.docx").Return(nil)
		f.papers.On("Delete", mock.Anything, mock.Anything, int64(1)).Return(1, nil)

		assert.NoError(t, f.svc.DeletePaper(ctx, student, 1))
		f.assertExpectations(t)
	})

	t.Run("admin deletes", func(t *testing.T) {
		f := newFixture(t)

		f.papers.On("FindByID", mock.Anything, mock.Anything, int64(1)).Return(uploadedPaper(), nil)
		f.blobs.On("Delete", mock.Anything, "papers/first.docx").Return(nil)
		f.papers.On("Delete", mock.Anything, mock.Anything, int64(1)).Return(1, nil)

		assert.NoError(t, f.svc.DeletePaper(ctx, admin, 1))
		f.assertExpectations(t)
	})

	t.Run("teacher is forbidden", func(t *testing.T) {
		f := newFixture(t)

		f.papers.On("FindByID", mock.Anything, mock.Anything, int64(1)).Return(uploadedPaper(), nil)

		err := f.svc.DeletePaper(ctx, teacher, 1)

		assert.Error(t, err)
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
		f.assertExpectations(t)
	})

	t.Run("blob delete failure keeps the row", func(t *testing.T) {
		f := newFixture(t)

		f.papers.On("FindByID", mock.Anything, mock.Anything, int64(1)).Return(uploadedPaper(), nil)
		f.blobs.On("Delete", mock.Anything, "papers/first.docx").Return(errors.New("storage fail"))

		err := f.svc.DeletePaper(ctx, student, 1)

		assert.Error(t, err)
		assert.Equal(t, apperr.KindStorage, apperr.KindOf(err))
		f.assertExpectations(t)
	})
}
