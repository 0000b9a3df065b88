package mocks

import (
	"context"

	"paperflow/internal/model"
	"paperflow/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockPaperRepository struct {
	mock.Mock
}

func (m *MockPaperRepository) Insert(ctx context.Context, q repository.Querier, p *model.Paper) (*model.Paper, error) {
	args := m.Called(ctx, q, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Paper), args.Error(1)
}

func (m *MockPaperRepository) FindByID(ctx context.Context, q repository.Querier, id int64) (*model.Paper, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Paper), args.Error(1)
}

func (m *MockPaperRepository) FindByIDForUpdate(ctx context.Context, q repository.Querier, id int64) (*model.Paper, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Paper), args.Error(1)
}

func (m *MockPaperRepository) Update(ctx context.Context, q repository.Querier, p *model.Paper) (*model.Paper, error) {
	args := m.Called(ctx, q, p)
	if f, ok := args.Get(0).(func(context.Context, repository.Querier, *model.Paper) *model.Paper); ok {
		return f(ctx, q, p), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Paper), args.Error(1)
}

func (m *MockPaperRepository) Delete(ctx context.Context, q repository.Querier, id int64) (int64, error) {
	args := m.Called(ctx, q, id)
	return int64(args.Int(0)), args.Error(1)
}

type MockHistoryRecorder struct {
	mock.Mock
}

func (m *MockHistoryRecorder) Append(ctx context.Context, q repository.Querier, h *model.PaperHistory) error {
	args := m.Called(ctx, q, h)
	return args.Error(0)
}

func (m *MockHistoryRecorder) ListByPaper(ctx context.Context, q repository.Querier, paperID int64) ([]model.PaperHistory, error) {
	args := m.Called(ctx, q, paperID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PaperHistory), args.Error(1)
}
