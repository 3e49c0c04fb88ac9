package review

import (
	"testing"
	"time"

	"github.com/YusovID/pr-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
)

func at(t *testing.T, value string) *time.Time {
	t.Helper()

	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad timestamp %q: %v", value, err)
	}

	return &ts
}

func event(login string, state domain.ReviewState, submittedAt *time.Time) domain.ReviewEvent {
	return domain.ReviewEvent{ReviewerLogin: login, State: state, SubmittedAt: submittedAt}
}

func TestComputeOverallStatus(t *testing.T) {
	t0 := at(t, "2023-01-01T00:00:00Z")
	t1 := at(t, "2023-01-01T00:01:00Z")
	t2 := at(t, "2023-01-01T00:02:00Z")

	testCases := []struct {
		name     string
		events   []domain.ReviewEvent
		expected domain.OverallReviewStatus
	}{
		{
			name:     "No events is pending",
			events:   nil,
			expected: domain.OverallStatusPending,
		},
		{
			name:     "Single approval",
			events:   []domain.ReviewEvent{event("reviewer1", domain.ReviewStateApproved, t0)},
			expected: domain.OverallStatusApproved,
		},
		{
			name:     "Single changes requested",
			events:   []domain.ReviewEvent{event("reviewer1", domain.ReviewStateChangesRequested, t0)},
			expected: domain.OverallStatusChangesRequested,
		},
		{
			name:     "Single comment",
			events:   []domain.ReviewEvent{event("reviewer1", domain.ReviewStateCommented, t0)},
			expected: domain.OverallStatusCommentedOnly,
		},
		{
			name:     "Comment without reviewer or time",
			events:   []domain.ReviewEvent{{State: domain.ReviewStateCommented}},
			expected: domain.OverallStatusCommentedOnly,
		},
		{
			name:     "Unknown state is none",
			events:   []domain.ReviewEvent{event("reviewer1", "UNKNOWN", t0)},
			expected: domain.OverallStatusNone,
		},
		{
			name:     "Dismissed left in by caller is none",
			events:   []domain.ReviewEvent{event("reviewer1", domain.ReviewStateDismissed, t0)},
			expected: domain.OverallStatusNone,
		},
		{
			name: "All approved",
			events: []domain.ReviewEvent{
				event("reviewer1", domain.ReviewStateApproved, t0),
				event("reviewer2", domain.ReviewStateApproved, t1),
			},
			expected: domain.OverallStatusApproved,
		},
		{
			name: "Changes requested wins over approvals",
			events: []domain.ReviewEvent{
				event("reviewer1", domain.ReviewStateApproved, t0),
				event("reviewer2", domain.ReviewStateChangesRequested, t0),
				event("reviewer3", domain.ReviewStateApproved, t1),
				event("reviewer4", domain.ReviewStateApproved, t2),
			},
			expected: domain.OverallStatusChangesRequested,
		},
		{
			name: "Later approval replaces earlier comment from same reviewer",
			events: []domain.ReviewEvent{
				event("reviewer1", domain.ReviewStateCommented, t0),
				event("reviewer1", domain.ReviewStateApproved, t1),
			},
			expected: domain.OverallStatusApproved,
		},
		{
			name: "Later approval clears earlier changes request",
			events: []domain.ReviewEvent{
				event("reviewer1", domain.ReviewStateApproved, t2),
				event("reviewer1", domain.ReviewStateChangesRequested, t0),
			},
			expected: domain.OverallStatusApproved,
		},
		{
			name: "Reviewer grouping ignores case",
			events: []domain.ReviewEvent{
				event("Reviewer1", domain.ReviewStateChangesRequested, t0),
				event("reviewer1", domain.ReviewStateApproved, t1),
			},
			expected: domain.OverallStatusApproved,
		},
		{
			name: "Anonymous events are never merged",
			events: []domain.ReviewEvent{
				event("", domain.ReviewStateChangesRequested, t0),
				event("", domain.ReviewStateApproved, t1),
			},
			expected: domain.OverallStatusChangesRequested,
		},
		{
			name: "Missing time loses to a known time",
			events: []domain.ReviewEvent{
				event("reviewer1", domain.ReviewStateChangesRequested, nil),
				event("reviewer1", domain.ReviewStateApproved, t0),
			},
			expected: domain.OverallStatusApproved,
		},
		{
			name: "Single approval without time",
			events: []domain.ReviewEvent{
				event("reviewer1", domain.ReviewStateApproved, nil),
			},
			expected: domain.OverallStatusApproved,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ComputeOverallStatus(tc.events))
		})
	}
}

func TestComputeOverallStatus_DuplicateTimestamps(t *testing.T) {
	t0 := at(t, "2023-01-01T00:00:00Z")

	result := ComputeOverallStatus([]domain.ReviewEvent{
		event("reviewer1", domain.ReviewStateApproved, t0),
		event("reviewer1", domain.ReviewStateChangesRequested, t0),
	})

	assert.Contains(t, []domain.OverallReviewStatus{
		domain.OverallStatusApproved,
		domain.OverallStatusChangesRequested,
	}, result)
}

func TestComputeOverallStatus_ChangesRequestedAlwaysWins(t *testing.T) {
	t0 := at(t, "2023-01-01T00:00:00Z")

	for approvals := 0; approvals < 20; approvals++ {
		events := []domain.ReviewEvent{event("blocker", domain.ReviewStateChangesRequested, t0)}
		for i := 0; i < approvals; i++ {
			ts := t0.Add(time.Duration(i+1) * time.Minute)
			events = append(events, event("approver"+string(rune('a'+i)), domain.ReviewStateApproved, &ts))
		}

		assert.Equal(t, domain.OverallStatusChangesRequested, ComputeOverallStatus(events), "approvals=%d", approvals)
	}
}

func TestPickLatestDecision(t *testing.T) {
	t0 := at(t, "2023-01-01T00:00:00Z")
	t1 := at(t, "2023-01-01T00:01:00Z")

	testCases := []struct {
		name     string
		viewer   string
		events   []domain.ReviewEvent
		expected domain.Decision
	}{
		{
			name:     "No matching reviewer",
			viewer:   "user",
			events:   []domain.ReviewEvent{event("otheruser", domain.ReviewStateApproved, t0)},
			expected: domain.DecisionNone,
		},
		{
			name:     "Approved",
			viewer:   "user",
			events:   []domain.ReviewEvent{event("user", domain.ReviewStateApproved, t0)},
			expected: domain.DecisionApproved,
		},
		{
			name:     "Changes requested",
			viewer:   "user",
			events:   []domain.ReviewEvent{event("user", domain.ReviewStateChangesRequested, t0)},
			expected: domain.DecisionChangesRequested,
		},
		{
			name:     "Commented",
			viewer:   "user",
			events:   []domain.ReviewEvent{event("user", domain.ReviewStateCommented, t0)},
			expected: domain.DecisionCommented,
		},
		{
			name:   "Latest of several",
			viewer: "user",
			events: []domain.ReviewEvent{
				event("user", domain.ReviewStateCommented, t0),
				event("user", domain.ReviewStateApproved, t1),
			},
			expected: domain.DecisionApproved,
		},
		{
			name:   "Order in input does not matter",
			viewer: "user",
			events: []domain.ReviewEvent{
				event("user", domain.ReviewStateApproved, t1),
				event("user", domain.ReviewStateCommented, t0),
			},
			expected: domain.DecisionApproved,
		},
		{
			name:   "Dismissed is ignored",
			viewer: "user",
			events: []domain.ReviewEvent{
				event("user", domain.ReviewStateApproved, t0),
				event("user", domain.ReviewStateDismissed, t1),
			},
			expected: domain.DecisionApproved,
		},
		{
			name:   "Pending is ignored",
			viewer: "user",
			events: []domain.ReviewEvent{
				event("user", domain.ReviewStatePending, t0),
				event("user", domain.ReviewStateApproved, t1),
			},
			expected: domain.DecisionApproved,
		},
		{
			name:   "Only dismissed and pending",
			viewer: "user",
			events: []domain.ReviewEvent{
				event("user", domain.ReviewStateDismissed, t0),
				event("user", domain.ReviewStatePending, t1),
			},
			expected: domain.DecisionNone,
		},
		{
			name:     "Login is case-insensitive",
			viewer:   "user",
			events:   []domain.ReviewEvent{event("User", domain.ReviewStateApproved, t0)},
			expected: domain.DecisionApproved,
		},
		{
			name:     "Missing submission time still counts",
			viewer:   "user",
			events:   []domain.ReviewEvent{event("user", domain.ReviewStateApproved, nil)},
			expected: domain.DecisionApproved,
		},
		{
			name:     "Missing login never matches",
			viewer:   "user",
			events:   []domain.ReviewEvent{event("", domain.ReviewStateApproved, t0)},
			expected: domain.DecisionNone,
		},
		{
			name:     "Unknown viewer matches nothing",
			viewer:   "",
			events:   []domain.ReviewEvent{event("", domain.ReviewStateApproved, t0)},
			expected: domain.DecisionNone,
		},
		{
			name:     "Unknown latest state gives no decision",
			viewer:   "user",
			events:   []domain.ReviewEvent{event("user", "SOMETHING_NEW", t0)},
			expected: domain.DecisionNone,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, PickLatestDecision(tc.viewer, tc.events))
		})
	}
}

func TestComputeMyStatus(t *testing.T) {
	testCases := []struct {
		name      string
		myLatest  domain.Decision
		requested []string
		overall   domain.OverallReviewStatus
		viewer    string
		expected  domain.MyReviewStatus
	}{
		{
			name:     "Own decision is reported as author",
			myLatest: domain.DecisionApproved,
			overall:  domain.OverallStatusPending,
			viewer:   "alice",
			expected: domain.MyReviewAsAuthor{Decision: domain.DecisionApproved},
		},
		{
			name:     "Own decision wins even without viewer",
			myLatest: domain.DecisionCommented,
			overall:  domain.OverallStatusCommentedOnly,
			expected: domain.MyReviewAsAuthor{Decision: domain.DecisionCommented},
		},
		{
			name:     "No viewer is unknown",
			overall:  domain.OverallStatusPending,
			expected: domain.MyReviewUnknown{},
		},
		{
			name:      "Requested and pending",
			requested: []string{"alice"},
			overall:   domain.OverallStatusPending,
			viewer:    "alice",
			expected:  domain.MyReviewNeeded{},
		},
		{
			name:      "Requested and none",
			requested: []string{"alice"},
			overall:   domain.OverallStatusNone,
			viewer:    "alice",
			expected:  domain.MyReviewNeeded{},
		},
		{
			name:      "Requested with different case",
			requested: []string{"alice"},
			overall:   domain.OverallStatusNone,
			viewer:    "Alice",
			expected:  domain.MyReviewNeeded{},
		},
		{
			name:      "Requested but already approved",
			requested: []string{"alice"},
			overall:   domain.OverallStatusApproved,
			viewer:    "alice",
			expected:  domain.MyReviewNotNeeded{},
		},
		{
			name:      "Requested but changes requested",
			requested: []string{"alice"},
			overall:   domain.OverallStatusChangesRequested,
			viewer:    "alice",
			expected:  domain.MyReviewNotNeeded{},
		},
		{
			name:     "Not requested",
			overall:  domain.OverallStatusPending,
			viewer:   "alice",
			expected: domain.MyReviewNotNeeded{},
		},
		{
			name:      "Unrecognised overall status",
			requested: []string{"alice"},
			overall:   domain.OverallReviewStatus("invalid_status"),
			viewer:    "alice",
			expected:  domain.MyReviewNotNeeded{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeMyStatus(tc.myLatest, tc.requested, tc.overall, tc.viewer)

			assert.Equal(t, tc.expected, got)
			assert.Equal(t, tc.expected.Kind(), got.Kind())
		})
	}
}
