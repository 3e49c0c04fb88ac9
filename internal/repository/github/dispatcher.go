package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"

	"github.com/YusovID/pr-dashboard/internal/apperrors"
	"github.com/YusovID/pr-dashboard/internal/domain"
	"github.com/YusovID/pr-dashboard/internal/mapper"
	"github.com/YusovID/pr-dashboard/pkg/logger/sl"
	gh "github.com/google/go-github/v39/github"
	"golang.org/x/sync/errgroup"
)

// Session is everything a fetch unit needs to work on its own:
// the repository, the viewer and the credential it connects with.
type Session struct {
	Repo   domain.RepoRef
	Viewer *domain.UserRef
	Token  string
}

// Dispatcher fetches review histories for a batch of pull requests by
// splitting the batch into contiguous chunks and running one unit per chunk.
// Units share nothing: each opens its own gateway and writes its own result slot.
type Dispatcher struct {
	connector GatewayConnector
	workers   int
	log       *slog.Logger
}

// NewDispatcher returns a dispatcher running at most workers units at once.
// A non-positive value means one unit per available CPU.
func NewDispatcher(connector GatewayConnector, workers int, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		connector: connector,
		workers:   workers,
		log:       log,
	}
}

// Dispatch returns the mapped change requests in the order of prs.
// If any unit fails, every result is discarded and the error wraps apperrors.ErrReviewsFailed.
// A failing unit does not cancel its siblings.
func (d *Dispatcher) Dispatch(ctx context.Context, session Session, prs []*gh.PullRequest) ([]domain.ChangeRequest, error) {
	const op = "internal.repository.github.Dispatch"

	log := d.log.With(
		slog.String("op", op),
		slog.String("repo", session.Repo.String()),
	)

	if len(prs) == 0 {
		return []domain.ChangeRequest{}, nil
	}

	chunks := partition(prs, d.parallelism())

	dispatchBatchSize.Observe(float64(len(prs)))
	dispatchChunks.Observe(float64(len(chunks)))

	log.Debug("dispatching review fetches", slog.Int("items", len(prs)), slog.Int("units", len(chunks)))

	results := make([][]domain.ChangeRequest, len(chunks))

	var g errgroup.Group

	for i, chunk := range chunks {
		unit := session.clone()

		g.Go(func() error {
			out, err := d.runUnit(ctx, unit, chunk)
			if err != nil {
				log.Warn("review fetch unit failed", slog.Int("unit", i), sl.Err(err))
				return err
			}

			results[i] = out

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if !errors.Is(err, apperrors.ErrReviewsFailed) {
			err = apperrors.NewProviderError(apperrors.ErrReviewsFailed, err)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	merged := make([]domain.ChangeRequest, 0, len(prs))
	for _, out := range results {
		merged = append(merged, out...)
	}

	return merged, nil
}

func (d *Dispatcher) runUnit(ctx context.Context, session Session, chunk []*gh.PullRequest) ([]domain.ChangeRequest, error) {
	gateway := d.connector.Connect(session.Token)

	out := make([]domain.ChangeRequest, 0, len(chunk))

	for _, pr := range chunk {
		reviews, err := gateway.ListReviews(ctx, session.Repo, pr.GetNumber())
		if err != nil {
			return nil, err
		}

		out = append(out, mapper.ToChangeRequest(session.Repo, session.Viewer, pr, reviews))
	}

	return out, nil
}

func (d *Dispatcher) parallelism() int {
	if d.workers > 0 {
		return d.workers
	}

	return runtime.GOMAXPROCS(0)
}

func (s Session) clone() Session {
	if s.Viewer != nil {
		viewer := *s.Viewer
		s.Viewer = &viewer
	}

	return s
}

// partition splits items into at most parts contiguous chunks of
// ceil(len(items)/parts) elements; only the last chunk may be shorter.
func partition[T any](items []T, parts int) [][]T {
	if len(items) == 0 {
		return nil
	}

	if parts < 1 {
		parts = 1
	}

	size := (len(items) + parts - 1) / parts

	chunks := make([][]T, 0, parts)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, slices.Clone(items[start:end]))
	}

	return chunks
}
