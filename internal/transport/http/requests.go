package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/YusovID/pr-dashboard/internal/apperrors"
	"github.com/YusovID/pr-dashboard/internal/domain"
	"github.com/go-chi/chi/v5"
)

const (
	queryState         = "state"
	querySince         = "since"
	querySort          = "sort"
	queryLimit         = "limit"
	queryNeedsMyReview = "needs_my_review"
)

type repoParams struct {
	Owner string `validate:"required,repo_name,max=100"`
	Repo  string `validate:"required,repo_name,max=100"`
}

type listChangeRequestsParams struct {
	repoParams
	States        []string `validate:"omitempty,dive,oneof=open closed merged"`
	NeedsMyReview bool
	Sort          string `validate:"omitempty,oneof=updated_asc updated_desc"`
	Limit         int    `validate:"min=0,max=100"`
	Since         *time.Time
}

type getChangeRequestParams struct {
	repoParams
	Number int `validate:"min=1"`
}

func parseRepoParams(r *http.Request) repoParams {
	return repoParams{
		Owner: chi.URLParam(r, "owner"),
		Repo:  chi.URLParam(r, "repo"),
	}
}

func parseListParams(r *http.Request) (listChangeRequestsParams, error) {
	q := r.URL.Query()

	params := listChangeRequestsParams{
		repoParams: parseRepoParams(r),
		Sort:       q.Get(querySort),
	}

	for _, raw := range q[queryState] {
		for _, state := range strings.Split(raw, ",") {
			if state = strings.TrimSpace(state); state != "" {
				params.States = append(params.States, state)
			}
		}
	}

	if raw := q.Get(queryNeedsMyReview); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return params, fmt.Errorf("%w: '%s' must be a boolean", apperrors.ErrInvalidRequest, queryNeedsMyReview)
		}

		params.NeedsMyReview = v
	}

	if raw := q.Get(queryLimit); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return params, fmt.Errorf("%w: '%s' must be an integer", apperrors.ErrInvalidRequest, queryLimit)
		}

		params.Limit = v
	}

	since, err := parseSince(r)
	if err != nil {
		return params, err
	}

	params.Since = since

	return params, nil
}

func parseSince(r *http.Request) (*time.Time, error) {
	raw := r.URL.Query().Get(querySince)
	if raw == "" {
		return nil, nil
	}

	since, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: '%s' must be an RFC 3339 timestamp", apperrors.ErrInvalidRequest, querySince)
	}

	return &since, nil
}

func parseGetParams(r *http.Request) (getChangeRequestParams, error) {
	params := getChangeRequestParams{repoParams: parseRepoParams(r)}

	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		return params, fmt.Errorf("%w: change request number must be an integer", apperrors.ErrInvalidRequest)
	}

	params.Number = number

	return params, nil
}

func (p repoParams) toDomain() domain.RepoRef {
	return domain.RepoRef{Owner: p.Owner, Repo: p.Repo}
}

func (p listChangeRequestsParams) toQuery() domain.ChangeRequestQuery {
	states := make([]domain.ChangeRequestState, 0, len(p.States))
	for _, s := range p.States {
		states = append(states, domain.ChangeRequestState(s))
	}

	return domain.ChangeRequestQuery{
		Since: p.Since,
		Filter: domain.ChangeRequestFilter{
			States:        states,
			NeedsMyReview: p.NeedsMyReview,
		},
		Sort:  domain.SortOrder(p.Sort),
		Limit: p.Limit,
	}
}

func (p getChangeRequestParams) toDomain() domain.ChangeRequestID {
	return domain.ChangeRequestID{Owner: p.Owner, Repo: p.Repo, Number: p.Number}
}

func sinceQuery(since *time.Time) domain.ChangeRequestQuery {
	return domain.ChangeRequestQuery{Since: since}
}
