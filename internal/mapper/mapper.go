// Package mapper turns provider records into domain entities.
package mapper

import (
	"strings"

	"github.com/YusovID/pr-dashboard/internal/domain"
	"github.com/YusovID/pr-dashboard/internal/review"
	gh "github.com/google/go-github/v39/github"
)

// ToChangeRequest builds a ChangeRequest from one pull request, its reviews
// and the viewer (nil when unknown). Malformed records are tolerated.
func ToChangeRequest(
	repo domain.RepoRef,
	viewer *domain.UserRef,
	pr *gh.PullRequest,
	reviews []*gh.PullRequestReview,
) domain.ChangeRequest {
	events := ToReviewEvents(reviews)
	requested := RequestedLogins(pr)

	var viewerLogin string
	if viewer != nil {
		viewerLogin = strings.ToLower(viewer.Login)
	}

	var myLatest domain.Decision
	if viewerLogin != "" {
		myLatest = review.PickLatestDecision(viewerLogin, events)
	}

	author := pr.GetUser().GetLogin()
	isMyPR := viewerLogin != "" && author != "" && viewerLogin == strings.ToLower(author)

	if author == "" {
		author = domain.UnknownAuthor
	}

	overall := review.ComputeOverallStatus(activeEvents(events))
	hasComments := hasState(events, domain.ReviewStateCommented)

	return domain.ChangeRequest{
		ID: domain.ChangeRequestID{
			Owner:  repo.Owner,
			Repo:   repo.Repo,
			Number: pr.GetNumber(),
		},
		Title:        pr.GetTitle(),
		Author:       domain.UserRef{Login: author},
		TargetBranch: pr.GetBase().GetRef(),
		SourceBranch: pr.GetHead().GetRef(),
		State:        stateOf(pr),
		IsDraft:      pr.GetDraft(),
		UpdatedAt:    pr.GetUpdatedAt(),
		URL:          pr.GetHTMLURL(),
		Review: domain.ReviewSummary{
			HasAnyReviewActivity: overall != domain.OverallStatusNone || hasComments,
			OverallStatus:        overall,
			MyStatus:             review.ComputeMyStatus(myLatest, requested, overall, viewerLogin),
			HasComments:          hasComments,
			IsMyPR:               isMyPR,
		},
	}
}

func ToReviewEvents(reviews []*gh.PullRequestReview) []domain.ReviewEvent {
	events := make([]domain.ReviewEvent, 0, len(reviews))

	for _, r := range reviews {
		if r == nil {
			continue
		}

		events = append(events, domain.ReviewEvent{
			ReviewerLogin: r.GetUser().GetLogin(),
			State:         domain.ReviewState(r.GetState()),
			SubmittedAt:   r.SubmittedAt,
		})
	}

	return events
}

// RequestedLogins returns the lower-cased logins of the requested reviewers.
func RequestedLogins(pr *gh.PullRequest) []string {
	logins := make([]string, 0, len(pr.RequestedReviewers))

	for _, u := range pr.RequestedReviewers {
		if login := u.GetLogin(); login != "" {
			logins = append(logins, strings.ToLower(login))
		}
	}

	return logins
}

func stateOf(pr *gh.PullRequest) domain.ChangeRequestState {
	switch {
	case pr.MergedAt != nil:
		return domain.ChangeRequestStateMerged
	case pr.GetState() == "closed":
		return domain.ChangeRequestStateClosed
	default:
		return domain.ChangeRequestStateOpen
	}
}

func activeEvents(events []domain.ReviewEvent) []domain.ReviewEvent {
	active := make([]domain.ReviewEvent, 0, len(events))

	for _, e := range events {
		if e.State != domain.ReviewStateDismissed {
			active = append(active, e)
		}
	}

	return active
}

func hasState(events []domain.ReviewEvent, state domain.ReviewState) bool {
	for _, e := range events {
		if e.State == state {
			return true
		}
	}

	return false
}
