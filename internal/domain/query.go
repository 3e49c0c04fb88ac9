package domain

import "time"

type SortOrder string

const (
	SortNone        SortOrder = ""
	SortUpdatedAsc  SortOrder = "updated_asc"
	SortUpdatedDesc SortOrder = "updated_desc"
)

type ChangeRequestFilter struct {
	States        []ChangeRequestState
	NeedsMyReview bool
}

// ChangeRequestQuery is evaluated partly by the ingestion engine (Since) and
// partly by the calling use case (Filter, Sort, Limit).
type ChangeRequestQuery struct {
	Since  *time.Time
	Filter ChangeRequestFilter
	Sort   SortOrder
	Limit  int
}
