// Package ats talks to the applicant tracking system's stage-change
// endpoint. The client keeps no local pipeline state: the ATS owns the
// pipeline, this just requests one transition.
package ats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"talentmatch/internal/config"
	"talentmatch/internal/errors"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client issues stage-change requests
type Client struct {
	httpClient *http.Client
	cfg        config.ATSConfig
	logger     *errors.Logger
}

// NewClient creates an ATS client with the configured timeout
func NewClient(cfg config.ATSConfig, logger *errors.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		cfg:    cfg,
		logger: logger,
	}
}

// AdvanceStage asks the ATS to move the candidate to the configured next
// stage. The returned bool is the success the ATS reported; repeating the
// call for an already-advanced candidate is the ATS's problem, not ours.
func (c *Client) AdvanceStage(ctx context.Context, candidateID string) (bool, error) {
	if c.cfg.APIKey == "" {
		return false, errors.NewConfigError(errors.ErrCodeMissingAPIKey,
			"ATS API key is not configured", nil)
	}

	payload, err := json.Marshal(map[string]string{"stage": c.cfg.NextStageID})
	if err != nil {
		return false, errors.NewInternalError(errors.ErrCodeStageChangeFailed,
			"Failed to encode stage-change payload", err)
	}

	url := fmt.Sprintf("%s/candidates/%s/stage", c.cfg.BaseURL, candidateID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return false, errors.NewInternalError(errors.ErrCodeStageChangeFailed,
			"Failed to build stage-change request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, errors.NewUpstreamError(errors.ErrCodeStageChangeFailed,
			"Stage-change request failed", err).WithContext("candidate_id", candidateID)
	}
	defer func() { _ = resp.Body.Close() }()

	success := resp.StatusCode == http.StatusOK
	c.logger.Info("Stage-change response",
		"candidate_id", candidateID,
		"stage", c.cfg.NextStageID,
		"status_code", resp.StatusCode,
		"success", success)

	return success, nil
}
