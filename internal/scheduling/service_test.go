package scheduling

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"talentmatch/internal/config"
	tmerrors "talentmatch/internal/errors"
	"talentmatch/internal/types"
)

func newTestService(baseURL, apiKey string) *Service {
	logger, _ := tmerrors.New("error")
	return NewService(config.SchedulingConfig{
		BaseURL:       baseURL,
		APIKey:        apiKey,
		MaxEventCount: 1,
		Timeout:       5 * time.Second,
	}, nil, logger)
}

func invitationRequest() types.InvitationRequest {
	return types.InvitationRequest{
		CandidateID:    "c1",
		CandidateName:  "Alex Doe",
		CandidateEmail: "alex@example.com",
		JobTitle:       "Backend Engineer",
	}
}

func TestSendInvitation(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotPayload)
		_, _ = w.Write([]byte(`{"resource": {"booking_url": "https://calendly.com/d/abc123"}}`))
	}))
	defer srv.Close()

	got, err := newTestService(srv.URL, "calendly-key").SendInvitation(context.Background(), invitationRequest())
	if err != nil {
		t.Fatalf("SendInvitation() error = %v", err)
	}

	if gotAuth != "Bearer calendly-key" {
		t.Errorf("auth = %q", gotAuth)
	}
	if count, _ := gotPayload["max_event_count"].(float64); count != 1 {
		t.Errorf("max_event_count = %v, want 1", gotPayload["max_event_count"])
	}
	if gotPayload["owner_type"] != "EventType" {
		t.Errorf("owner_type = %v", gotPayload["owner_type"])
	}

	if got.Status != "success" {
		t.Errorf("Status = %q", got.Status)
	}
	if got.Message != "Calendly link sent to alex@example.com" {
		t.Errorf("Message = %q", got.Message)
	}
	if got.Link != "https://calendly.com/d/abc123" {
		t.Errorf("Link = %q", got.Link)
	}
	for _, want := range []string{
		"Dear Alex Doe,",
		"Congratulations! You've been shortlisted for the Backend Engineer role.",
		"https://calendly.com/d/abc123",
		"Best regards,\nRecruitment Team",
	} {
		if !strings.Contains(got.Body, want) {
			t.Errorf("Body missing %q", want)
		}
	}
}

func TestSendInvitationLinkFailures(t *testing.T) {
	errorStatus := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer errorStatus.Close()

	missingURL := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"resource": {}}`))
	}))
	defer missingURL.Close()

	notJSON := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer notJSON.Close()

	tests := []struct {
		name string
		url  string
	}{
		{"provider error status", errorStatus.URL},
		{"missing booking url", missingURL.URL},
		{"non-json response", notJSON.URL},
		{"unreachable provider", "http://127.0.0.1:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestService(tt.url, "calendly-key").SendInvitation(context.Background(), invitationRequest())
			if err == nil {
				t.Fatal("expected error")
			}
			appErr, ok := err.(*tmerrors.AppError)
			if !ok {
				t.Fatalf("expected *AppError, got %T", err)
			}
			if appErr.Code != tmerrors.ErrCodeNotificationFailed {
				t.Errorf("code = %s, want %s", appErr.Code, tmerrors.ErrCodeNotificationFailed)
			}
		})
	}
}

func TestSendInvitationMissingAPIKey(t *testing.T) {
	_, err := newTestService("http://example.com", "").SendInvitation(context.Background(), invitationRequest())
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

func TestNewMailer(t *testing.T) {
	logger, _ := tmerrors.New("error")

	if m := NewMailer(config.SMTPConfig{DispatchEnabled: false}, logger); m != nil {
		t.Error("expected nil mailer when dispatch is disabled")
	}

	incomplete := config.SMTPConfig{DispatchEnabled: true, Host: "smtp.gmail.com"}
	if m := NewMailer(incomplete, logger); m != nil {
		t.Error("expected nil mailer without credentials")
	}

	complete := config.SMTPConfig{
		DispatchEnabled: true,
		Host:            "smtp.gmail.com",
		Port:            587,
		Username:        "recruiting@example.com",
		Password:        "secret",
		From:            "recruiting@example.com",
	}
	if m := NewMailer(complete, logger); m == nil {
		t.Error("expected mailer with complete config")
	}
}
