package domain

import (
	"strconv"
	"time"
)

// UnknownAuthor is the login used when the provider omits the author of a change request.
const UnknownAuthor = "unknown"

type RepoRef struct {
	Owner string
	Repo  string
}

func (r RepoRef) String() string {
	return r.Owner + "/" + r.Repo
}

type ChangeRequestID struct {
	Owner  string
	Repo   string
	Number int
}

func (id ChangeRequestID) RepoRef() RepoRef {
	return RepoRef{Owner: id.Owner, Repo: id.Repo}
}

func (id ChangeRequestID) String() string {
	return id.Owner + "/" + id.Repo + "#" + strconv.Itoa(id.Number)
}

// UserRef identifies a provider account. Logins compare case-insensitively.
type UserRef struct {
	Login string
}

type ChangeRequestState string

const (
	ChangeRequestStateOpen   ChangeRequestState = "open"
	ChangeRequestStateClosed ChangeRequestState = "closed"
	ChangeRequestStateMerged ChangeRequestState = "merged"
)

type ReviewSummary struct {
	HasAnyReviewActivity bool
	OverallStatus        OverallReviewStatus
	MyStatus             MyReviewStatus
	HasComments          bool
	IsMyPR               bool
}

type ChangeRequest struct {
	ID           ChangeRequestID
	Title        string
	Author       UserRef
	TargetBranch string
	SourceBranch string
	State        ChangeRequestState
	IsDraft      bool
	UpdatedAt    time.Time
	URL          string
	Review       ReviewSummary
}

// WatermarkScope separates the sync timestamps of open and closed listings.
type WatermarkScope string

const (
	WatermarkScopeOpen   WatermarkScope = "open"
	WatermarkScopeClosed WatermarkScope = "closed"
)

type WatermarkKey struct {
	Repo  RepoRef
	Scope WatermarkScope
}

type Watermark struct {
	Owner    string `db:"owner"`
	Repo     string `db:"repo"`
	Scope    string `db:"scope"`
	SyncedAt string `db:"synced_at"`
}
