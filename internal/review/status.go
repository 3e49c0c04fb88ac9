// Package review derives review-state summaries from raw review events.
// Everything here is pure: no I/O, no clock, no logging.
//
// "Latest" means the greatest SubmittedAt. A missing SubmittedAt compares as
// the zero time, and among events with equal times the one listed first wins.
// Neither rule is a meaningful tie-break; callers must not rely on which of two
// equally timed events is chosen.
package review

import (
	"slices"
	"strings"

	"github.com/YusovID/pr-dashboard/internal/domain"
)

// PickLatestDecision returns the viewer's most recent decision, ignoring
// dismissed and pending reviews. It returns domain.DecisionNone when nothing
// qualifies. Events without a reviewer login never match.
func PickLatestDecision(viewerLogin string, events []domain.ReviewEvent) domain.Decision {
	if viewerLogin == "" {
		return domain.DecisionNone
	}

	var latest *domain.ReviewEvent

	for i := range events {
		e := &events[i]

		if e.ReviewerLogin == "" || !strings.EqualFold(e.ReviewerLogin, viewerLogin) {
			continue
		}

		if e.State == domain.ReviewStateDismissed || e.State == domain.ReviewStatePending {
			continue
		}

		if latest == nil || submittedAfter(e, latest) {
			latest = e
		}
	}

	if latest == nil {
		return domain.DecisionNone
	}

	return decisionOf(latest.State)
}

type reviewerKey struct {
	login string
	// anon is non-zero for events without a login, so they never group together.
	anon int
}

// ComputeOverallStatus reduces the events to one latest state per reviewer and
// resolves them by priority: changes requested, approved, commented, none.
// Dismissed events are expected to be filtered out by the caller.
func ComputeOverallStatus(events []domain.ReviewEvent) domain.OverallReviewStatus {
	if len(events) == 0 {
		return domain.OverallStatusPending
	}

	latest := make(map[reviewerKey]*domain.ReviewEvent, len(events))

	for i := range events {
		e := &events[i]

		key := reviewerKey{login: strings.ToLower(e.ReviewerLogin)}
		if key.login == "" {
			key.anon = i + 1
		}

		if cur, ok := latest[key]; !ok || submittedAfter(e, cur) {
			latest[key] = e
		}
	}

	var approved, changesRequested, commented bool

	for _, e := range latest {
		switch e.State {
		case domain.ReviewStateChangesRequested:
			changesRequested = true
		case domain.ReviewStateApproved:
			approved = true
		case domain.ReviewStateCommented:
			commented = true
		}
	}

	switch {
	case changesRequested:
		return domain.OverallStatusChangesRequested
	case approved:
		return domain.OverallStatusApproved
	case commented:
		return domain.OverallStatusCommentedOnly
	default:
		return domain.OverallStatusNone
	}
}

// ComputeMyStatus classifies the viewer's relation to a change request.
// An empty viewerLogin means the viewer is unknown.
func ComputeMyStatus(
	myLatest domain.Decision,
	requestedLogins []string,
	overall domain.OverallReviewStatus,
	viewerLogin string,
) domain.MyReviewStatus {
	if myLatest != domain.DecisionNone {
		// Reported as "as_author" even when the viewer reviewed someone else's
		// change request. Kept until the product owner settles the naming.
		return domain.MyReviewAsAuthor{Decision: myLatest}
	}

	if viewerLogin == "" {
		return domain.MyReviewUnknown{}
	}

	requested := slices.ContainsFunc(requestedLogins, func(login string) bool {
		return strings.EqualFold(login, viewerLogin)
	})

	if requested && (overall == domain.OverallStatusPending || overall == domain.OverallStatusNone) {
		return domain.MyReviewNeeded{}
	}

	return domain.MyReviewNotNeeded{}
}

func submittedAfter(a, b *domain.ReviewEvent) bool {
	if a.SubmittedAt == nil {
		return false
	}

	if b.SubmittedAt == nil {
		return !a.SubmittedAt.IsZero()
	}

	return a.SubmittedAt.After(*b.SubmittedAt)
}

func decisionOf(state domain.ReviewState) domain.Decision {
	switch state {
	case domain.ReviewStateApproved:
		return domain.DecisionApproved
	case domain.ReviewStateChangesRequested:
		return domain.DecisionChangesRequested
	case domain.ReviewStateCommented:
		return domain.DecisionCommented
	default:
		return domain.DecisionNone
	}
}
