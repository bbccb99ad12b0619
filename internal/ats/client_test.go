package ats

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"talentmatch/internal/config"
	tmerrors "talentmatch/internal/errors"
)

func newTestClient(baseURL, apiKey string) *Client {
	logger, _ := tmerrors.New("error")
	return NewClient(config.ATSConfig{
		BaseURL:     baseURL,
		APIKey:      apiKey,
		NextStageID: "next-stage-id",
		Timeout:     5 * time.Second,
	}, logger)
}

func TestAdvanceStage(t *testing.T) {
	var gotPath, gotAuth string
	var gotPayload map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotPayload)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ok, err := newTestClient(srv.URL, "lever-key").AdvanceStage(context.Background(), "c1")
	if err != nil {
		t.Fatalf("AdvanceStage() error = %v", err)
	}
	if !ok {
		t.Error("expected reported success")
	}

	if gotPath != "/candidates/c1/stage" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer lever-key" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotPayload["stage"] != "next-stage-id" {
		t.Errorf("payload = %v", gotPayload)
	}
}

func TestAdvanceStageReportsFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	ok, err := newTestClient(srv.URL, "lever-key").AdvanceStage(context.Background(), "c1")
	if err != nil {
		t.Fatalf("AdvanceStage() error = %v", err)
	}
	if ok {
		t.Error("expected reported failure for non-200 status")
	}
}

func TestAdvanceStageMissingAPIKey(t *testing.T) {
	_, err := newTestClient("http://example.com", "").AdvanceStage(context.Background(), "c1")
	if err == nil {
		t.Fatal("expected error without api key")
	}
	appErr, ok := err.(*tmerrors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T", err)
	}
	if appErr.Code != tmerrors.ErrCodeMissingAPIKey {
		t.Errorf("code = %s, want %s", appErr.Code, tmerrors.ErrCodeMissingAPIKey)
	}
}

func TestAdvanceStageUnreachable(t *testing.T) {
	_, err := newTestClient("http://127.0.0.1:1", "lever-key").AdvanceStage(context.Background(), "c1")
	if err == nil {
		t.Fatal("expected error for unreachable ATS")
	}
	appErr, ok := err.(*tmerrors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T", err)
	}
	if appErr.Code != tmerrors.ErrCodeStageChangeFailed {
		t.Errorf("code = %s, want %s", appErr.Code, tmerrors.ErrCodeStageChangeFailed)
	}
}
