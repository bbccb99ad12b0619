package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"talentmatch/internal/config"
	tmerrors "talentmatch/internal/errors"
)

func newTestClient(postingsURL, candidatesURL string) *Client {
	logger, _ := tmerrors.New("error")
	return NewClient(config.SourcesConfig{
		PostingsURL:   postingsURL,
		CandidatesURL: candidatesURL,
		Timeout:       5 * time.Second,
	}, logger)
}

func appErrorCode(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := err.(*tmerrors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

func TestFetchPostings(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		status   int
		wantLen  int
		wantCode string
	}{
		{
			name:    "wrapped object",
			body:    `{"postings": [{"id": "42", "text": "Backend Engineer"}]}`,
			status:  http.StatusOK,
			wantLen: 1,
		},
		{
			name:    "bare array",
			body:    `[{"id": "42", "text": "Backend Engineer"}, {"id": "43", "text": "SRE"}]`,
			status:  http.StatusOK,
			wantLen: 2,
		},
		{
			name:    "wrapper without list field",
			body:    `{"meta": {"page": 1}}`,
			status:  http.StatusOK,
			wantLen: 0,
		},
		{
			name:    "records missing id or title are dropped",
			body:    `{"postings": [{"id": "42", "text": "Backend Engineer"}, {"id": "", "text": "Nameless"}, {"id": "44"}]}`,
			status:  http.StatusOK,
			wantLen: 1,
		},
		{
			name:     "upstream error status",
			body:     `oops`,
			status:   http.StatusBadGateway,
			wantCode: tmerrors.ErrCodeDataSourceUnavailable,
		},
		{
			name:     "scalar payload",
			body:     `"not a list"`,
			status:   http.StatusOK,
			wantCode: tmerrors.ErrCodeMalformedResponse,
		},
		{
			name:     "non-json payload",
			body:     `<html>maintenance</html>`,
			status:   http.StatusOK,
			wantCode: tmerrors.ErrCodeMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := newTestClient(srv.URL, srv.URL)
			postings, err := client.FetchPostings(context.Background())

			if tt.wantCode != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if code := appErrorCode(t, err); code != tt.wantCode {
					t.Errorf("error code = %s, want %s", code, tt.wantCode)
				}
				return
			}

			if err != nil {
				t.Fatalf("FetchPostings() error = %v", err)
			}
			if len(postings) != tt.wantLen {
				t.Errorf("got %d postings, want %d", len(postings), tt.wantLen)
			}
		})
	}
}

func TestFetchCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": [
			{"id": "c1", "name": "Alex Doe", "emails": ["alex@example.com"]},
			{"id": "c2", "name": ""},
			{"id": "c3", "name": "Sam Roe", "resume_url": "https://example.com/resume.pdf"}
		]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, srv.URL)
	candidates, err := client.FetchCandidates(context.Background())
	if err != nil {
		t.Fatalf("FetchCandidates() error = %v", err)
	}

	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}
	if candidates[0].PrimaryEmail() != "alex@example.com" {
		t.Errorf("PrimaryEmail() = %q, want alex@example.com", candidates[0].PrimaryEmail())
	}
	if candidates[1].ResumeURL != "https://example.com/resume.pdf" {
		t.Errorf("ResumeURL = %q", candidates[1].ResumeURL)
	}
}

func TestFetchAllFailsWhenEitherSourceFails(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer good.Close()

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	client := newTestClient(good.URL, bad.URL)
	_, _, err := client.FetchAll(context.Background())
	if err == nil {
		t.Fatal("expected error when candidate source fails")
	}
	if code := appErrorCode(t, err); code != tmerrors.ErrCodeDataSourceUnavailable {
		t.Errorf("error code = %s, want %s", code, tmerrors.ErrCodeDataSourceUnavailable)
	}
}

func TestFetchAll(t *testing.T) {
	postings := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"postings": [{"id": "42", "text": "Backend Engineer"}]}`))
	}))
	defer postings.Close()

	candidates := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": [{"id": "c1", "name": "Alex Doe"}]}`))
	}))
	defer candidates.Close()

	client := newTestClient(postings.URL, candidates.URL)
	gotPostings, gotCandidates, err := client.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if len(gotPostings) != 1 || gotPostings[0].Title != "Backend Engineer" {
		t.Errorf("unexpected postings: %+v", gotPostings)
	}
	if len(gotCandidates) != 1 || gotCandidates[0].Name != "Alex Doe" {
		t.Errorf("unexpected candidates: %+v", gotCandidates)
	}
}
