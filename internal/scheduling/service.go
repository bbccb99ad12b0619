// Package scheduling generates single-use scheduling links and composes
// the invitation email sent to shortlisted candidates.
package scheduling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"talentmatch/internal/config"
	"talentmatch/internal/errors"
	"talentmatch/internal/types"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// The scheduling provider keys link generation to an event type owner.
const ownerEventType = "https://api.calendly.com/event_types/012345678901234567890"

// Service generates scheduling links and dispatches invitation emails
type Service struct {
	httpClient *http.Client
	cfg        config.SchedulingConfig
	mailer     *Mailer
	logger     *errors.Logger
}

// NewService creates a scheduling service. mailer may be nil; the
// composed email is then returned without any dispatch attempt.
func NewService(cfg config.SchedulingConfig, mailer *Mailer, logger *errors.Logger) *Service {
	return &Service{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		cfg:    cfg,
		mailer: mailer,
		logger: logger,
	}
}

// SendInvitation generates a single-use scheduling link for the candidate,
// composes the invitation email embedding it, and (when dispatch is
// enabled) sends the email. The composed message is always part of the
// returned Invitation so callers can inspect or resend it.
func (s *Service) SendInvitation(ctx context.Context, req types.InvitationRequest) (types.Invitation, error) {
	link, err := s.generateLink(ctx)
	if err != nil {
		return types.Invitation{}, err
	}

	subject := fmt.Sprintf("Meeting Invitation for %s", req.JobTitle)
	body := composeBody(req.CandidateName, req.JobTitle, link)

	if s.mailer != nil {
		if err := s.mailer.Send(ctx, req.CandidateEmail, subject, body); err != nil {
			return types.Invitation{}, err
		}
	}

	s.logger.Info("Scheduling invitation prepared",
		"candidate_id", req.CandidateID,
		"candidate_email", req.CandidateEmail,
		"job_title", req.JobTitle,
		"dispatched", s.mailer != nil)

	return types.Invitation{
		Status:  "success",
		Message: fmt.Sprintf("Calendly link sent to %s", req.CandidateEmail),
		Link:    link,
		Body:    body,
	}, nil
}

// generateLink requests a scheduling link limited to the configured
// number of bookings (one, by default).
func (s *Service) generateLink(ctx context.Context) (string, error) {
	if s.cfg.APIKey == "" {
		return "", errors.NewConfigError(errors.ErrCodeMissingAPIKey,
			"Scheduling provider API key is not configured", nil)
	}

	payload, err := json.Marshal(map[string]any{
		"max_event_count": s.cfg.MaxEventCount,
		"owner":           ownerEventType,
		"owner_type":      "EventType",
	})
	if err != nil {
		return "", errors.NewInternalError(errors.ErrCodeNotificationFailed,
			"Failed to encode scheduling link payload", err)
	}

	url := s.cfg.BaseURL + "/scheduling_links"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", errors.NewInternalError(errors.ErrCodeNotificationFailed,
			"Failed to build scheduling link request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", errors.NewNotificationError(errors.ErrCodeNotificationFailed,
			"Failed to generate scheduling link", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.NewNotificationError(errors.ErrCodeNotificationFailed,
			fmt.Sprintf("Scheduling provider returned status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewNotificationError(errors.ErrCodeNotificationFailed,
			"Failed to read scheduling link response", err)
	}

	var parsed struct {
		Resource struct {
			BookingURL string `json:"booking_url"`
		} `json:"resource"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errors.NewNotificationError(errors.ErrCodeNotificationFailed,
			"Scheduling provider returned an unexpected payload", err)
	}
	if parsed.Resource.BookingURL == "" {
		return "", errors.NewNotificationError(errors.ErrCodeNotificationFailed,
			"Scheduling provider response is missing the booking url", nil)
	}

	return parsed.Resource.BookingURL, nil
}

func composeBody(candidateName, jobTitle, link string) string {
	return fmt.Sprintf("Dear %s,\n\n"+
		"Congratulations! You've been shortlisted for the %s role.\n"+
		"Please use the following link to book a meeting at your convenience:\n\n"+
		"%s\n\n"+
		"Best regards,\nRecruitment Team",
		candidateName, jobTitle, link)
}
