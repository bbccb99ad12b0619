package review

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"talentmatch/internal/errors"
	"talentmatch/internal/types"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client is a thin HTTP client for the talentmatch API, used by the
// interactive review session and scriptable tooling.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *errors.Logger
}

// NewClient creates an API client for the given server
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *errors.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  logger,
	}
}

// FetchPostings lists the job postings currently available for review
func (c *Client) FetchPostings(ctx context.Context) ([]types.JobPosting, error) {
	body, err := c.do(ctx, http.MethodGet, "/postings", nil)
	if err != nil {
		return nil, err
	}

	var postings []types.JobPosting
	if err := json.Unmarshal(body, &postings); err != nil {
		return nil, errors.NewUpstreamError(errors.ErrCodeMalformedResponse,
			"Unexpected postings response shape", err)
	}
	return postings, nil
}

// Match runs a scoring pass for the given posting and model
func (c *Client) Match(ctx context.Context, jobID, model string) ([]types.MatchResult, error) {
	payload := types.MatchRequest{JobID: jobID, ModelName: model}
	body, err := c.do(ctx, http.MethodPost, "/match", payload)
	if err != nil {
		return nil, err
	}

	var results []types.MatchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, errors.NewUpstreamError(errors.ErrCodeMalformedResponse,
			"Unexpected match response shape", err)
	}
	return results, nil
}

// SendInvitation sends a scheduling invitation for a candidate
func (c *Client) SendInvitation(ctx context.Context, req types.InvitationRequest) (types.Invitation, error) {
	body, err := c.do(ctx, http.MethodPost, "/generate-calendly-link-send-email", req)
	if err != nil {
		return types.Invitation{}, err
	}

	var invitation types.Invitation
	if err := json.Unmarshal(body, &invitation); err != nil {
		return types.Invitation{}, errors.NewUpstreamError(errors.ErrCodeMalformedResponse,
			"Unexpected invitation response shape", err)
	}
	return invitation, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.NewInternalError(errors.ErrCodeInvalidRequest,
				"Failed to encode request payload", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeInvalidRequest,
			"Failed to build API request", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewUpstreamError(errors.ErrCodeDataSourceUnavailable,
			"API request failed", err).WithContext("path", path)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("Failed to close API response body", "path", path, "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewUpstreamError(errors.ErrCodeMalformedResponse,
			"Failed to read API response", err).WithContext("path", path)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.NewNotFoundError(errors.ErrCodeJobNotFound,
			apiErrorMessage(body, "Not found"), nil).WithContext("path", path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.NewUpstreamError(errors.ErrCodeDataSourceUnavailable,
			apiErrorMessage(body, fmt.Sprintf("API returned status %d", resp.StatusCode)), nil).
			WithContext("path", path).
			WithContext("status", resp.StatusCode)
	}

	return body, nil
}

// apiErrorMessage extracts the error field from an API error response,
// falling back to the given message
func apiErrorMessage(body []byte, fallback string) string {
	var resp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Error == "" {
		return fallback
	}
	if resp.Message != "" {
		return fmt.Sprintf("%s: %s", resp.Error, resp.Message)
	}
	return resp.Error
}
