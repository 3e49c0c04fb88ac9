// package repository defines the ports between the use-case layer and the
// outside world: the hosted review provider and the sync watermark store.
package repository

import (
	"context"

	"github.com/YusovID/pr-dashboard/internal/domain"
)

// ChangeRequestRepository ingests change requests with their derived review state.
// Results are complete or absent: implementations never return partial lists.
type ChangeRequestRepository interface {
	// List returns open change requests updated strictly after query.Since (when set),
	// each with its review history folded into a review summary.
	// It returns apperrors.ErrNoUser when the viewer cannot be resolved,
	// apperrors.ErrListFailed or apperrors.ErrReviewsFailed on provider failures.
	List(ctx context.Context, repo domain.RepoRef, query domain.ChangeRequestQuery) ([]domain.ChangeRequest, error)

	// ListClosed is List for closed change requests. Review histories are not fetched.
	ListClosed(ctx context.Context, repo domain.RepoRef, query domain.ChangeRequestQuery) ([]domain.ChangeRequest, error)

	// GetByID fetches one change request and its reviews.
	// It returns apperrors.ErrGetFailed or apperrors.ErrReviewsFailed on provider failures.
	GetByID(ctx context.Context, id domain.ChangeRequestID) (*domain.ChangeRequest, error)
}

// ViewerProvider resolves the authenticated identity the dashboard is computed for.
type ViewerProvider interface {
	CurrentUser(ctx context.Context) (*domain.UserRef, error)
}

// WatermarkRepository stores the time of the last successful sync as an ISO-8601 string.
type WatermarkRepository interface {
	// Read returns apperrors.ErrNotFound when nothing has been stored for key yet.
	Read(ctx context.Context, key domain.WatermarkKey) (string, error)

	// Write stores value for key, replacing any previous value.
	Write(ctx context.Context, key domain.WatermarkKey, value string) error

	List(ctx context.Context) ([]domain.Watermark, error)
}
