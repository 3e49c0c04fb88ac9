package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/YusovID/pr-dashboard/internal/apperrors"
	"github.com/YusovID/pr-dashboard/internal/domain"
	"github.com/YusovID/pr-dashboard/internal/mapper"
	"github.com/YusovID/pr-dashboard/internal/repository"
	gh "github.com/google/go-github/v39/github"
	"golang.org/x/sync/errgroup"
)

// ChangeRequestRepository ingests change requests from the provider.
type ChangeRequestRepository struct {
	gateway    PullRequestGateway
	viewer     repository.ViewerProvider
	dispatcher *Dispatcher
	token      string
	log        *slog.Logger
}

var _ repository.ChangeRequestRepository = (*ChangeRequestRepository)(nil)

func NewChangeRequestRepository(
	connector GatewayConnector,
	viewer repository.ViewerProvider,
	token string,
	workers int,
	log *slog.Logger,
) *ChangeRequestRepository {
	return &ChangeRequestRepository{
		gateway:    connector.Connect(token),
		viewer:     viewer,
		dispatcher: NewDispatcher(connector, workers, log),
		token:      token,
		log:        log,
	}
}

func (r *ChangeRequestRepository) List(
	ctx context.Context,
	repo domain.RepoRef,
	query domain.ChangeRequestQuery,
) ([]domain.ChangeRequest, error) {
	const op = "internal.repository.github.List"

	log := r.log.With(
		slog.String("op", op),
		slog.String("repo", repo.String()),
	)

	viewer, prs, err := r.resolveAndList(ctx, repo, stateOpen)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	fresh := updatedSince(prs, query.Since)

	log.Debug("listed open pull requests", slog.Int("total", len(prs)), slog.Int("fresh", len(fresh)))

	if len(fresh) == 0 {
		return []domain.ChangeRequest{}, nil
	}

	crs, err := r.dispatcher.Dispatch(ctx, Session{Repo: repo, Viewer: viewer, Token: r.token}, fresh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return crs, nil
}

func (r *ChangeRequestRepository) ListClosed(
	ctx context.Context,
	repo domain.RepoRef,
	query domain.ChangeRequestQuery,
) ([]domain.ChangeRequest, error) {
	const op = "internal.repository.github.ListClosed"

	viewer, prs, err := r.resolveAndList(ctx, repo, stateClosed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	fresh := updatedSince(prs, query.Since)

	crs := make([]domain.ChangeRequest, 0, len(fresh))
	for _, pr := range fresh {
		crs = append(crs, mapper.ToChangeRequest(repo, viewer, pr, nil))
	}

	return crs, nil
}

// GetByID resolves the viewer and fetches the pull request concurrently,
// then lists its reviews.
func (r *ChangeRequestRepository) GetByID(ctx context.Context, id domain.ChangeRequestID) (*domain.ChangeRequest, error) {
	const op = "internal.repository.github.GetByID"

	var (
		viewer *domain.UserRef
		pr     *gh.PullRequest
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		user, err := r.resolveViewer(gctx)
		if err != nil {
			return err
		}

		viewer = user

		return nil
	})

	g.Go(func() error {
		var err error
		pr, err = r.gateway.GetPullRequest(gctx, id)

		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reviews, err := r.gateway.ListReviews(ctx, id.RepoRef(), id.Number)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cr := mapper.ToChangeRequest(id.RepoRef(), viewer, pr, reviews)

	return &cr, nil
}

// resolveAndList resolves the viewer and lists pull requests concurrently.
// The first failure cancels the other call.
func (r *ChangeRequestRepository) resolveAndList(
	ctx context.Context,
	repo domain.RepoRef,
	state string,
) (*domain.UserRef, []*gh.PullRequest, error) {
	var (
		viewer *domain.UserRef
		prs    []*gh.PullRequest
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		user, err := r.resolveViewer(gctx)
		if err != nil {
			return err
		}

		viewer = user

		return nil
	})

	g.Go(func() error {
		var err error
		prs, err = r.gateway.ListPullRequests(gctx, repo, state)

		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return viewer, prs, nil
}

// resolveViewer returns the authenticated user. Every failure, including a
// missing login, is reported as ErrNoUser.
func (r *ChangeRequestRepository) resolveViewer(ctx context.Context) (*domain.UserRef, error) {
	user, err := r.viewer.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoUser) {
			return nil, err
		}

		return nil, apperrors.NewProviderError(apperrors.ErrNoUser, err)
	}

	if user == nil || user.Login == "" {
		return nil, apperrors.ErrNoUser
	}

	return user, nil
}

// updatedSince keeps the pull requests updated strictly after since.
func updatedSince(prs []*gh.PullRequest, since *time.Time) []*gh.PullRequest {
	if since == nil {
		return prs
	}

	fresh := make([]*gh.PullRequest, 0, len(prs))
	for _, pr := range prs {
		if pr.GetUpdatedAt().After(*since) {
			fresh = append(fresh, pr)
		}
	}

	return fresh
}
