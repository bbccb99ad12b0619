// Package gateway fetches job postings and candidates from the external
// HR data sources. Failures surface to the caller without retries; the
// sources are mocks or third-party exports and a stale failure is more
// useful than a slow one.
package gateway

import (
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

// Client fetches posting and candidate lists over HTTP
type Client struct {
	httpClient *http.Client
	cfg        config.SourcesConfig
	logger     *errors.Logger
}

// NewClient creates a data source client with the configured timeout
func NewClient(cfg config.SourcesConfig, logger *errors.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		cfg:    cfg,
		logger: logger,
	}
}

// FetchPostings retrieves the job posting list
func (c *Client) FetchPostings(ctx context.Context) ([]types.JobPosting, error) {
	body, err := c.get(ctx, c.cfg.PostingsURL)
	if err != nil {
		return nil, err
	}

	var postings []types.JobPosting
	if err := decodeList(body, "postings", &postings); err != nil {
		return nil, errors.NewUpstreamError(errors.ErrCodeMalformedResponse,
			"Postings source returned an unexpected payload shape", err)
	}

	return c.validPostings(postings), nil
}

// FetchCandidates retrieves the candidate list
func (c *Client) FetchCandidates(ctx context.Context) ([]types.Candidate, error) {
	body, err := c.get(ctx, c.cfg.CandidatesURL)
	if err != nil {
		return nil, err
	}

	var candidates []types.Candidate
	if err := decodeList(body, "candidates", &candidates); err != nil {
		return nil, errors.NewUpstreamError(errors.ErrCodeMalformedResponse,
			"Candidates source returned an unexpected payload shape", err)
	}

	valid := c.validCandidates(candidates)
	c.logger.Info("Fetched candidates", "count", len(valid))
	return valid, nil
}

// FetchAll retrieves both lists. Either fetch failing fails the whole call.
func (c *Client) FetchAll(ctx context.Context) ([]types.JobPosting, []types.Candidate, error) {
	postings, err := c.FetchPostings(ctx)
	if err != nil {
		return nil, nil, err
	}

	candidates, err := c.FetchCandidates(ctx)
	if err != nil {
		return nil, nil, err
	}

	return postings, candidates, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewUpstreamError(errors.ErrCodeDataSourceUnavailable,
			fmt.Sprintf("Failed to build request for %s", url), err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewUpstreamError(errors.ErrCodeDataSourceUnavailable,
			fmt.Sprintf("Data source unreachable: %s", url), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewUpstreamError(errors.ErrCodeDataSourceUnavailable,
			fmt.Sprintf("Data source returned status %d", resp.StatusCode), nil).
			WithContext("url", url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewUpstreamError(errors.ErrCodeDataSourceUnavailable,
			"Failed to read data source response", err)
	}

	return body, nil
}

// decodeList accepts either a bare JSON array or an object wrapping the
// array under the given field name. Anything else is a malformed response.
func decodeList(body []byte, field string, dst any) error {
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapper); err == nil {
		raw, ok := wrapper[field]
		if !ok {
			// Wrapped object without the list field means an empty list,
			// matching a `.get(field, [])` consumer.
			return nil
		}
		return json.Unmarshal(raw, dst)
	}

	return json.Unmarshal(body, dst)
}

// validPostings drops records without the fields every downstream
// consumer keys on.
func (c *Client) validPostings(postings []types.JobPosting) []types.JobPosting {
	valid := make([]types.JobPosting, 0, len(postings))
	for _, p := range postings {
		if p.ID == "" || p.Title == "" {
			c.logger.Warn("Dropping posting without id or title", "id", p.ID)
			continue
		}
		valid = append(valid, p)
	}
	return valid
}

func (c *Client) validCandidates(candidates []types.Candidate) []types.Candidate {
	valid := make([]types.Candidate, 0, len(candidates))
	for _, cand := range candidates {
		if cand.ID == "" || cand.Name == "" {
			c.logger.Warn("Dropping candidate without id or name", "id", cand.ID)
			continue
		}
		valid = append(valid, cand)
	}
	return valid
}
