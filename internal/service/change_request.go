package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/YusovID/pr-dashboard/internal/apperrors"
	"github.com/YusovID/pr-dashboard/internal/domain"
	"github.com/YusovID/pr-dashboard/internal/repository"
	"github.com/YusovID/pr-dashboard/pkg/logger/sl"
	"golang.org/x/sync/errgroup"
)

const defaultWriteTimeout = 5 * time.Second

type ChangeRequestService interface {
	List(ctx context.Context, repo domain.RepoRef, query domain.ChangeRequestQuery) ([]domain.ChangeRequest, error)
	ListClosed(ctx context.Context, repo domain.RepoRef, query domain.ChangeRequestQuery) ([]domain.ChangeRequest, error)
	GetByID(ctx context.Context, id domain.ChangeRequestID) (*domain.ChangeRequest, error)
	CheckAuth(ctx context.Context) error
	CurrentUser(ctx context.Context) (*domain.UserRef, error)
	Watermarks(ctx context.Context) ([]domain.Watermark, error)
}

type ChangeRequestServiceImpl struct {
	log            *slog.Logger
	changeRequests repository.ChangeRequestRepository
	viewer         repository.ViewerProvider
	watermarks     repository.WatermarkRepository
	writeTimeout   time.Duration
	now            func() time.Time
	pending        sync.WaitGroup
}

var _ ChangeRequestService = (*ChangeRequestServiceImpl)(nil)

func NewChangeRequestService(
	log *slog.Logger,
	changeRequests repository.ChangeRequestRepository,
	viewer repository.ViewerProvider,
	watermarks repository.WatermarkRepository,
	writeTimeout time.Duration,
) *ChangeRequestServiceImpl {
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}

	return &ChangeRequestServiceImpl{
		log:            log,
		changeRequests: changeRequests,
		viewer:         viewer,
		watermarks:     watermarks,
		writeTimeout:   writeTimeout,
		now:            time.Now,
	}
}

// List returns open change requests changed since the last successful sync,
// then applies the query's filter, sort and limit.
func (s *ChangeRequestServiceImpl) List(
	ctx context.Context,
	repo domain.RepoRef,
	query domain.ChangeRequestQuery,
) ([]domain.ChangeRequest, error) {
	const op = "internal.service.changerequest.List"

	log := s.log.With(slog.String("op", op), slog.String("repo", repo.String()))

	key := domain.WatermarkKey{Repo: repo, Scope: domain.WatermarkScopeOpen}

	var (
		stored  string
		readErr error
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.CheckAuth(gctx)
	})

	g.Go(func() error {
		stored, readErr = s.watermarks.Read(gctx, key)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	since, err := s.effectiveSince(log, stored, readErr, query.Since)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query.Since = since

	items, err := s.changeRequests.List(ctx, repo, query)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list change requests: %w", op, err)
	}

	s.recordSync(key)

	out := applyQuery(items, query)

	log.Info("change requests listed", slog.Int("fetched", len(items)), slog.Int("returned", len(out)))

	return out, nil
}

// ListClosed returns closed change requests changed since the last successful
// sync of closed items. No filter, sort or limit is applied.
func (s *ChangeRequestServiceImpl) ListClosed(
	ctx context.Context,
	repo domain.RepoRef,
	query domain.ChangeRequestQuery,
) ([]domain.ChangeRequest, error) {
	const op = "internal.service.changerequest.ListClosed"

	log := s.log.With(slog.String("op", op), slog.String("repo", repo.String()))

	key := domain.WatermarkKey{Repo: repo, Scope: domain.WatermarkScopeClosed}

	stored, readErr := s.watermarks.Read(ctx, key)

	since, err := s.effectiveSince(log, stored, readErr, query.Since)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query.Since = since

	items, err := s.changeRequests.ListClosed(ctx, repo, query)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list closed change requests: %w", op, err)
	}

	s.recordSync(key)

	log.Info("closed change requests listed", slog.Int("count", len(items)))

	return items, nil
}

func (s *ChangeRequestServiceImpl) GetByID(ctx context.Context, id domain.ChangeRequestID) (*domain.ChangeRequest, error) {
	const op = "internal.service.changerequest.GetByID"

	cr, err := s.changeRequests.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get change request %s: %w", op, id, err)
	}

	return cr, nil
}

// CheckAuth reports whether the configured credentials resolve to a user.
func (s *ChangeRequestServiceImpl) CheckAuth(ctx context.Context) error {
	if _, err := s.CurrentUser(ctx); err != nil {
		return err
	}

	return nil
}

func (s *ChangeRequestServiceImpl) CurrentUser(ctx context.Context) (*domain.UserRef, error) {
	const op = "internal.service.changerequest.CurrentUser"

	user, err := s.viewer.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoUser) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		return nil, fmt.Errorf("%s: %w: %v", op, apperrors.ErrNoUser, err)
	}

	if user == nil || user.Login == "" {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrNoUser)
	}

	return user, nil
}

func (s *ChangeRequestServiceImpl) Watermarks(ctx context.Context) ([]domain.Watermark, error) {
	const op = "internal.service.changerequest.Watermarks"

	watermarks, err := s.watermarks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list watermarks: %w", op, err)
	}

	return watermarks, nil
}

// Wait blocks until every pending watermark write has finished.
func (s *ChangeRequestServiceImpl) Wait() {
	s.pending.Wait()
}

// effectiveSince picks the lower bound for a listing. A stored watermark wins
// over the caller's value; a missing or unreadable one falls back to it.
func (s *ChangeRequestServiceImpl) effectiveSince(
	log *slog.Logger,
	stored string,
	readErr error,
	fallback *time.Time,
) (*time.Time, error) {
	if readErr != nil {
		if !errors.Is(readErr, apperrors.ErrNotFound) {
			log.Warn("failed to read watermark, listing without it", sl.Err(readErr))
		}

		return fallback, nil
	}

	if stored == "" {
		return fallback, nil
	}

	since, err := time.Parse(time.RFC3339Nano, stored)
	if err != nil {
		return nil, &apperrors.InvalidWatermarkError{Value: stored}
	}

	return &since, nil
}

// recordSync stores the current time for key without blocking the caller.
func (s *ChangeRequestServiceImpl) recordSync(key domain.WatermarkKey) {
	value := s.now().UTC().Format(time.RFC3339Nano)

	s.pending.Add(1)

	go func() {
		defer s.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
		defer cancel()

		if err := s.watermarks.Write(ctx, key, value); err != nil {
			s.log.Error("failed to write watermark",
				slog.String("repo", key.Repo.String()),
				slog.String("scope", string(key.Scope)),
				sl.Err(err),
			)
		}
	}()
}

func applyQuery(items []domain.ChangeRequest, query domain.ChangeRequestQuery) []domain.ChangeRequest {
	out := make([]domain.ChangeRequest, 0, len(items))
	out = append(out, items...)

	if states := query.Filter.States; len(states) > 0 {
		out = slices.DeleteFunc(out, func(cr domain.ChangeRequest) bool {
			return !slices.Contains(states, cr.State)
		})
	}

	if query.Filter.NeedsMyReview {
		out = slices.DeleteFunc(out, func(cr domain.ChangeRequest) bool {
			return cr.Review.MyStatus == nil || cr.Review.MyStatus.Kind() != domain.MyReviewKindNeeded
		})
	}

	switch query.Sort {
	case domain.SortUpdatedAsc:
		slices.SortStableFunc(out, func(a, b domain.ChangeRequest) int {
			return a.UpdatedAt.Compare(b.UpdatedAt)
		})
	case domain.SortUpdatedDesc:
		slices.SortStableFunc(out, func(a, b domain.ChangeRequest) int {
			return b.UpdatedAt.Compare(a.UpdatedAt)
		})
	}

	if query.Limit > 0 && len(out) > query.Limit {
		out = out[:query.Limit]
	}

	return out
}
