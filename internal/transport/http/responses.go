package http

import (
	"time"

	"github.com/YusovID/pr-dashboard/internal/domain"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type myStatusResponse struct {
	Kind     string `json:"kind"`
	Decision string `json:"decision,omitempty"`
}

type reviewSummaryResponse struct {
	HasAnyReviewActivity bool             `json:"has_any_review_activity"`
	OverallStatus        string           `json:"overall_status"`
	MyStatus             myStatusResponse `json:"my_status"`
	HasComments          bool             `json:"has_comments"`
	IsMyPR               bool             `json:"is_my_pr"`
}

type changeRequestResponse struct {
	Owner        string                `json:"owner"`
	Repo         string                `json:"repo"`
	Number       int                   `json:"number"`
	Title        string                `json:"title"`
	Author       string                `json:"author"`
	TargetBranch string                `json:"target_branch"`
	SourceBranch string                `json:"source_branch"`
	State        string                `json:"state"`
	IsDraft      bool                  `json:"is_draft"`
	UpdatedAt    time.Time             `json:"updated_at"`
	URL          string                `json:"url"`
	Review       reviewSummaryResponse `json:"review"`
}

type userResponse struct {
	Login string `json:"login"`
}

type watermarkResponse struct {
	Owner    string `json:"owner"`
	Repo     string `json:"repo"`
	Scope    string `json:"scope"`
	SyncedAt string `json:"synced_at"`
}

func toMyStatusResponse(status domain.MyReviewStatus) myStatusResponse {
	switch s := status.(type) {
	case domain.MyReviewAsAuthor:
		return myStatusResponse{Kind: string(s.Kind()), Decision: string(s.Decision)}
	case nil:
		return myStatusResponse{Kind: string(domain.MyReviewKindUnknown)}
	default:
		return myStatusResponse{Kind: string(s.Kind())}
	}
}

func toChangeRequestResponse(cr domain.ChangeRequest) changeRequestResponse {
	return changeRequestResponse{
		Owner:        cr.ID.Owner,
		Repo:         cr.ID.Repo,
		Number:       cr.ID.Number,
		Title:        cr.Title,
		Author:       cr.Author.Login,
		TargetBranch: cr.TargetBranch,
		SourceBranch: cr.SourceBranch,
		State:        string(cr.State),
		IsDraft:      cr.IsDraft,
		UpdatedAt:    cr.UpdatedAt.UTC(),
		URL:          cr.URL,
		Review: reviewSummaryResponse{
			HasAnyReviewActivity: cr.Review.HasAnyReviewActivity,
			OverallStatus:        string(cr.Review.OverallStatus),
			MyStatus:             toMyStatusResponse(cr.Review.MyStatus),
			HasComments:          cr.Review.HasComments,
			IsMyPR:               cr.Review.IsMyPR,
		},
	}
}

func toChangeRequestsResponse(crs []domain.ChangeRequest) []changeRequestResponse {
	out := make([]changeRequestResponse, 0, len(crs))
	for _, cr := range crs {
		out = append(out, toChangeRequestResponse(cr))
	}

	return out
}

func toWatermarksResponse(watermarks []domain.Watermark) []watermarkResponse {
	out := make([]watermarkResponse, 0, len(watermarks))
	for _, w := range watermarks {
		out = append(out, watermarkResponse{
			Owner:    w.Owner,
			Repo:     w.Repo,
			Scope:    w.Scope,
			SyncedAt: w.SyncedAt,
		})
	}

	return out
}
