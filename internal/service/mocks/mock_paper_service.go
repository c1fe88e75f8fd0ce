package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"paperhub/internal/model"
	"paperhub/internal/service"
)

type MockPaperService struct {
	mock.Mock
}

func (m *MockPaperService) Upload(ctx context.Context, in service.UploadInput) (*model.Paper, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Paper), args.Error(1)
}

func (m *MockPaperService) List(ctx context.Context) ([]model.Paper, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Paper), args.Error(1)
}

func (m *MockPaperService) Get(ctx context.Context, id string) (*model.Paper, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Paper), args.Error(1)
}

func (m *MockPaperService) Open(ctx context.Context, id string) (*model.Paper, io.ReadCloser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.Paper), args.Get(1).(io.ReadCloser), args.Error(2)
}

func (m *MockPaperService) Search(ctx context.Context, f service.SearchFilter) ([]model.Paper, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Paper), args.Error(1)
}

func (m *MockPaperService) AISearch(ctx context.Context, query string) (*service.AISearchResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AISearchResult), args.Error(1)
}

func (m *MockPaperService) RecordDownload(ctx context.Context, id string) (*model.Paper, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Paper), args.Error(1)
}
