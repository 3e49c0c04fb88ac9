package domain

import "time"

// ReviewState is the raw state string reported by the provider for a review.
// Values outside the known constants are kept as-is.
type ReviewState string

const (
	ReviewStateApproved         ReviewState = "APPROVED"
	ReviewStateChangesRequested ReviewState = "CHANGES_REQUESTED"
	ReviewStateCommented        ReviewState = "COMMENTED"
	ReviewStateDismissed        ReviewState = "DISMISSED"
	ReviewStatePending          ReviewState = "PENDING"
)

// ReviewEvent is one review record. An empty ReviewerLogin means the provider
// did not report a reviewer; a nil SubmittedAt means the time was missing.
type ReviewEvent struct {
	ReviewerLogin string
	State         ReviewState
	SubmittedAt   *time.Time
}

// Decision is a reviewer's latest verdict on a change request.
type Decision string

const (
	// DecisionNone means the reviewer has no decision on record.
	DecisionNone             Decision = ""
	DecisionApproved         Decision = "approved"
	DecisionChangesRequested Decision = "changes_requested"
	DecisionCommented        Decision = "commented"
)

// OverallReviewStatus summarizes the latest decisions of all reviewers.
type OverallReviewStatus string

const (
	OverallStatusPending          OverallReviewStatus = "pending"
	OverallStatusNone             OverallReviewStatus = "none"
	OverallStatusApproved         OverallReviewStatus = "approved"
	OverallStatusChangesRequested OverallReviewStatus = "changes_requested"
	OverallStatusCommentedOnly    OverallReviewStatus = "commented_only"
)

// MyReviewKind names the variant of a MyReviewStatus.
type MyReviewKind string

const (
	MyReviewKindUnknown   MyReviewKind = "unknown"
	MyReviewKindAsAuthor  MyReviewKind = "as_author"
	MyReviewKindNeeded    MyReviewKind = "needed"
	MyReviewKindNotNeeded MyReviewKind = "not_needed"
)

// MyReviewStatus describes the viewer's relation to a change request's review.
// It is closed over MyReviewUnknown, MyReviewAsAuthor, MyReviewNeeded and MyReviewNotNeeded.
type MyReviewStatus interface {
	Kind() MyReviewKind
	myReviewStatus()
}

// MyReviewUnknown is reported when no viewer identity is available.
type MyReviewUnknown struct{}

// MyReviewAsAuthor is reported when the viewer has submitted a review of their own.
type MyReviewAsAuthor struct {
	Decision Decision
}

// MyReviewNeeded is reported when the viewer is a requested reviewer and no decision exists yet.
type MyReviewNeeded struct{}

// MyReviewNotNeeded is reported when nothing is expected from the viewer.
type MyReviewNotNeeded struct{}

func (MyReviewUnknown) Kind() MyReviewKind   { return MyReviewKindUnknown }
func (MyReviewAsAuthor) Kind() MyReviewKind  { return MyReviewKindAsAuthor }
func (MyReviewNeeded) Kind() MyReviewKind    { return MyReviewKindNeeded }
func (MyReviewNotNeeded) Kind() MyReviewKind { return MyReviewKindNotNeeded }

func (MyReviewUnknown) myReviewStatus()   {}
func (MyReviewAsAuthor) myReviewStatus()  {}
func (MyReviewNeeded) myReviewStatus()    {}
func (MyReviewNotNeeded) myReviewStatus() {}
