package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"paperhub/internal/model"
)

type MockPaperRepository struct {
	mock.Mock
}

func (m *MockPaperRepository) Append(ctx context.Context, p *model.Paper) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaperRepository) List(ctx context.Context) ([]model.Paper, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Paper), args.Error(1)
}

func (m *MockPaperRepository) FindByID(ctx context.Context, id string) (*model.Paper, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Paper), args.Error(1)
}

func (m *MockPaperRepository) IncrementDownload(ctx context.Context, id string) (*model.Paper, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Paper), args.Error(1)
}

func (m *MockPaperRepository) PingContext(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
