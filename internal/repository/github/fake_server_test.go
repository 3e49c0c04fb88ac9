package github

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/YusovID/pr-dashboard/internal/config"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

// fakeProvider serves the subset of the GitHub REST API the gateway calls.
type fakeProvider struct {
	mu sync.Mutex

	viewer       string
	pulls        map[string][]map[string]any
	pull         map[int]map[string]any
	reviews      map[int][]map[string]any
	failList     bool
	failReviews  map[int]bool
	reviewCalls  []int
	listQueries  []string
	authHeaders  []string
	rawReviewDoc map[int]string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		viewer:       "alice",
		pulls:        map[string][]map[string]any{},
		pull:         map[int]map[string]any{},
		reviews:      map[int][]map[string]any{},
		failReviews:  map[int]bool{},
		rawReviewDoc: map[int]string{},
	}
}

func (f *fakeProvider) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)

		f.mu.Lock()
		viewer := f.viewer
		f.mu.Unlock()

		if viewer == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Bad credentials"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"login": viewer})
	})

	mux.HandleFunc("GET /repos/{owner}/{repo}/pulls", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)

		f.mu.Lock()
		f.listQueries = append(f.listQueries, r.URL.RawQuery)
		fail := f.failList
		items := f.pulls[r.URL.Query().Get("state")]
		f.mu.Unlock()

		if fail {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "boom"})
			return
		}

		if items == nil {
			items = []map[string]any{}
		}

		writeJSON(w, http.StatusOK, items)
	})

	mux.HandleFunc("GET /repos/{owner}/{repo}/pulls/{number}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)

		number, _ := strconv.Atoi(r.PathValue("number"))

		f.mu.Lock()
		item, ok := f.pull[number]
		f.mu.Unlock()

		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
			return
		}

		writeJSON(w, http.StatusOK, item)
	})

	mux.HandleFunc("GET /repos/{owner}/{repo}/pulls/{number}/reviews", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)

		number, _ := strconv.Atoi(r.PathValue("number"))

		f.mu.Lock()
		f.reviewCalls = append(f.reviewCalls, number)
		fail := f.failReviews[number]
		raw, hasRaw := f.rawReviewDoc[number]
		items := f.reviews[number]
		f.mu.Unlock()

		if fail {
			writeJSON(w, http.StatusBadGateway, map[string]any{"message": "upstream"})
			return
		}

		if hasRaw {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, raw)
			return
		}

		if items == nil {
			items = []map[string]any{}
		}

		writeJSON(w, http.StatusOK, items)
	})

	return mux
}

func (f *fakeProvider) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.authHeaders = append(f.authHeaders, r.Header.Get("Authorization"))
}

func (f *fakeProvider) reviewCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.reviewCalls)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type pullOpt func(map[string]any)

func withState(state string) pullOpt {
	return func(p map[string]any) { p["state"] = state }
}

func withMergedAt(at time.Time) pullOpt {
	return func(p map[string]any) { p["merged_at"] = at.Format(time.RFC3339) }
}

func withAuthor(login string) pullOpt {
	return func(p map[string]any) { p["user"] = map[string]any{"login": login} }
}

func withRequested(logins ...string) pullOpt {
	return func(p map[string]any) {
		users := make([]map[string]any, 0, len(logins))
		for _, l := range logins {
			users = append(users, map[string]any{"login": l})
		}

		p["requested_reviewers"] = users
	}
}

func pullJSON(number int, updatedAt time.Time, opts ...pullOpt) map[string]any {
	p := map[string]any{
		"number":     number,
		"title":      fmt.Sprintf("change %d", number),
		"state":      "open",
		"draft":      false,
		"updated_at": updatedAt.Format(time.RFC3339),
		"html_url":   fmt.Sprintf("https://example.test/octo/repo/pull/%d", number),
		"user":       map[string]any{"login": "bob"},
		"base":       map[string]any{"ref": "main"},
		"head":       map[string]any{"ref": fmt.Sprintf("feature-%d", number)},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func reviewJSON(login, state string, submittedAt time.Time) map[string]any {
	return map[string]any{
		"user":         map[string]any{"login": login},
		"state":        state,
		"submitted_at": submittedAt.Format(time.RFC3339),
	}
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConnector(t *testing.T, provider *fakeProvider) *Connector {
	t.Helper()

	srv := httptest.NewServer(provider.handler())
	t.Cleanup(srv.Close)

	connector, err := NewConnector(config.GitHub{
		BaseURL:  srv.URL,
		PageSize: 50,
		Timeout:  5 * time.Second,
	}, newTestLogger())
	require.NoError(t, err)

	return connector
}
