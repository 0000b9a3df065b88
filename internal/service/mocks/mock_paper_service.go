package mocks

import (
	"context"

	"paperflow/internal/model"
	"paperflow/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockPaperService struct {
	mock.Mock
}

func (m *MockPaperService) CreatePaper(ctx context.Context, actor model.Actor, in service.CreatePaperInput) (*model.Paper, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Paper), args.Error(1)
}

func (m *MockPaperService) UpdatePaper(ctx context.Context, actor model.Actor, paperID int64, in service.UpdatePaperInput) (*model.Paper, error) {
	args := m.Called(ctx, actor, paperID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Paper), args.Error(1)
}

func (m *MockPaperService) CreateReviewStatus(ctx context.Context, actor model.Actor, paperID int64) (*model.Paper, error) {
	args := m.Called(ctx, actor, paperID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Paper), args.Error(1)
}

func (m *MockPaperService) ChangeStatus(ctx context.Context, actor model.Actor, paperID int64, target model.Status, detail string) (*model.Paper, error) {
	args := m.Called(ctx, actor, paperID, target, detail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Paper), args.Error(1)
}

func (m *MockPaperService) GetPaper(ctx context.Context, actor model.Actor, paperID int64) (*model.Paper, error) {
	args := m.Called(ctx, actor, paperID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Paper), args.Error(1)
}

func (m *MockPaperService) ListHistory(ctx context.Context, actor model.Actor, paperID int64) ([]model.PaperHistory, error) {
	args := m.Called(ctx, actor, paperID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PaperHistory), args.Error(1)
}

func (m *MockPaperService) DownloadURL(ctx context.Context, actor model.Actor, paperID int64) (string, error) {
	args := m.Called(ctx, actor, paperID)
	return args.String(0), args.Error(1)
}

func (m *MockPaperService) DeletePaper(ctx context.Context, actor model.Actor, paperID int64) error {
	args := m.Called(ctx, actor, paperID)
	return args.Error(0)
}
