package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/YusovID/pr-dashboard/internal/apperrors"
	"github.com/YusovID/pr-dashboard/internal/config"
	"github.com/YusovID/pr-dashboard/internal/domain"
	gh "github.com/google/go-github/v39/github"
	"golang.org/x/oauth2"
)

const (
	stateOpen   = "open"
	stateClosed = "closed"

	maxPageSize = 100
)

// PullRequestGateway is the set of provider calls the ingestion engine needs.
// Every call is a single round trip without retries.
type PullRequestGateway interface {
	ListPullRequests(ctx context.Context, repo domain.RepoRef, state string) ([]*gh.PullRequest, error)
	GetPullRequest(ctx context.Context, id domain.ChangeRequestID) (*gh.PullRequest, error)
	ListReviews(ctx context.Context, repo domain.RepoRef, number int) ([]*gh.PullRequestReview, error)
}

// GatewayConnector hands out gateways authenticated with a given token.
type GatewayConnector interface {
	Connect(token string) PullRequestGateway
}

// Connector builds authenticated gateways against one provider endpoint.
type Connector struct {
	baseURL  *url.URL
	pageSize int
	timeout  time.Duration
	log      *slog.Logger
}

func NewConnector(cfg config.GitHub, log *slog.Logger) (*Connector, error) {
	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid github base url '%s': %w", cfg.BaseURL, err)
	}

	if !strings.HasSuffix(baseURL.Path, "/") {
		baseURL.Path += "/"
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return &Connector{
		baseURL:  baseURL,
		pageSize: pageSize,
		timeout:  cfg.Timeout,
		log:      log,
	}, nil
}

func (c *Connector) Connect(token string) PullRequestGateway {
	return c.Gateway(token)
}

// Gateway returns a gateway with its own HTTP client bearing token.
// An empty token yields unauthenticated calls.
func (c *Connector) Gateway(token string) *Gateway {
	var transport http.RoundTripper = http.DefaultTransport
	if token != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   http.DefaultTransport,
		}
	}

	client := gh.NewClient(&http.Client{
		Transport: transport,
		Timeout:   c.timeout,
	})

	baseURL := *c.baseURL
	client.BaseURL = &baseURL

	return &Gateway{
		client:   client,
		pageSize: c.pageSize,
		log:      c.log,
	}
}

type Gateway struct {
	client   *gh.Client
	pageSize int
	log      *slog.Logger
}

// ListPullRequests returns the first page of pull requests in the given state.
// Further pages are never requested.
func (g *Gateway) ListPullRequests(ctx context.Context, repo domain.RepoRef, state string) ([]*gh.PullRequest, error) {
	const op = "internal.repository.github.ListPullRequests"

	start := time.Now()

	prs, _, err := g.client.PullRequests.List(ctx, repo.Owner, repo.Repo, &gh.PullRequestListOptions{
		State:       state,
		ListOptions: gh.ListOptions{PerPage: g.pageSize},
	})
	observeProviderCall(operationListPulls, start, err)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, apperrors.NewProviderError(apperrors.ErrListFailed, err))
	}

	return prs, nil
}

func (g *Gateway) GetPullRequest(ctx context.Context, id domain.ChangeRequestID) (*gh.PullRequest, error) {
	const op = "internal.repository.github.GetPullRequest"

	start := time.Now()

	pr, _, err := g.client.PullRequests.Get(ctx, id.Owner, id.Repo, id.Number)
	observeProviderCall(operationGetPull, start, err)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, apperrors.NewProviderError(apperrors.ErrGetFailed, err))
	}

	return pr, nil
}

func (g *Gateway) ListReviews(ctx context.Context, repo domain.RepoRef, number int) ([]*gh.PullRequestReview, error) {
	const op = "internal.repository.github.ListReviews"

	start := time.Now()

	reviews, _, err := g.client.PullRequests.ListReviews(ctx, repo.Owner, repo.Repo, number, &gh.ListOptions{
		PerPage: g.pageSize,
	})
	observeProviderCall(operationListReviews, start, err)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, apperrors.NewProviderError(apperrors.ErrReviewsFailed, err))
	}

	return reviews, nil
}

// CurrentUser resolves the account behind the gateway's token.
func (g *Gateway) CurrentUser(ctx context.Context) (*domain.UserRef, error) {
	const op = "internal.repository.github.CurrentUser"

	start := time.Now()

	user, _, err := g.client.Users.Get(ctx, "")
	observeProviderCall(operationCurrentUser, start, err)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, apperrors.NewProviderError(apperrors.ErrNoUser, err))
	}

	if user.GetLogin() == "" {
		return nil, fmt.Errorf("%s: %w: empty login", op, apperrors.ErrNoUser)
	}

	return &domain.UserRef{Login: user.GetLogin()}, nil
}
