package http

import (
	"context"

	"github.com/YusovID/pr-dashboard/internal/domain"
	"github.com/YusovID/pr-dashboard/internal/service"
	"github.com/stretchr/testify/mock"
)

type ChangeRequestServiceMock struct {
	mock.Mock
}

var _ service.ChangeRequestService = (*ChangeRequestServiceMock)(nil)

func (m *ChangeRequestServiceMock) List(ctx context.Context, repo domain.RepoRef, query domain.ChangeRequestQuery) ([]domain.ChangeRequest, error) {
	args := m.Called(ctx, repo, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.ChangeRequest), args.Error(1)
}

func (m *ChangeRequestServiceMock) ListClosed(ctx context.Context, repo domain.RepoRef, query domain.ChangeRequestQuery) ([]domain.ChangeRequest, error) {
	args := m.Called(ctx, repo, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.ChangeRequest), args.Error(1)
}

func (m *ChangeRequestServiceMock) GetByID(ctx context.Context, id domain.ChangeRequestID) (*domain.ChangeRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.ChangeRequest), args.Error(1)
}

func (m *ChangeRequestServiceMock) CheckAuth(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *ChangeRequestServiceMock) CurrentUser(ctx context.Context) (*domain.UserRef, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.UserRef), args.Error(1)
}

func (m *ChangeRequestServiceMock) Watermarks(ctx context.Context) ([]domain.Watermark, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Watermark), args.Error(1)
}
