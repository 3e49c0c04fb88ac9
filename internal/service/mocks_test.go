package service

import (
	"context"

	"github.com/YusovID/pr-dashboard/internal/domain"
	"github.com/YusovID/pr-dashboard/internal/repository"
	"github.com/stretchr/testify/mock"
)

type ChangeRequestRepositoryMock struct {
	mock.Mock
}

var _ repository.ChangeRequestRepository = (*ChangeRequestRepositoryMock)(nil)

func (m *ChangeRequestRepositoryMock) List(ctx context.Context, repo domain.RepoRef, query domain.ChangeRequestQuery) ([]domain.ChangeRequest, error) {
	args := m.Called(ctx, repo, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.ChangeRequest), args.Error(1)
}

func (m *ChangeRequestRepositoryMock) ListClosed(ctx context.Context, repo domain.RepoRef, query domain.ChangeRequestQuery) ([]domain.ChangeRequest, error) {
	args := m.Called(ctx, repo, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.ChangeRequest), args.Error(1)
}

func (m *ChangeRequestRepositoryMock) GetByID(ctx context.Context, id domain.ChangeRequestID) (*domain.ChangeRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.ChangeRequest), args.Error(1)
}

type ViewerProviderMock struct {
	mock.Mock
}

var _ repository.ViewerProvider = (*ViewerProviderMock)(nil)

func (m *ViewerProviderMock) CurrentUser(ctx context.Context) (*domain.UserRef, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.UserRef), args.Error(1)
}

type WatermarkRepositoryMock struct {
	mock.Mock
}

var _ repository.WatermarkRepository = (*WatermarkRepositoryMock)(nil)

func (m *WatermarkRepositoryMock) Read(ctx context.Context, key domain.WatermarkKey) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *WatermarkRepositoryMock) Write(ctx context.Context, key domain.WatermarkKey, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *WatermarkRepositoryMock) List(ctx context.Context) ([]domain.Watermark, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Watermark), args.Error(1)
}
