// Package resume downloads candidate resumes and reduces them to a short
// plain-text summary for prompt assembly. Extraction is best-effort: any
// failure degrades to a placeholder string so one broken resume never
// fails a whole match run.
package resume

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"talentmatch/internal/config"
	"talentmatch/internal/errors"
	"talentmatch/internal/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Extractor fetches resumes over HTTP and extracts their text
type Extractor struct {
	httpClient *http.Client
	cfg        config.ResumeConfig
	logger     *errors.Logger
}

// NewExtractor creates a resume extractor with the configured timeout
func NewExtractor(cfg config.ResumeConfig, logger *errors.Logger) *Extractor {
	return &Extractor{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		cfg:    cfg,
		logger: logger,
	}
}

// Summarize downloads the resume at url and returns its text, truncated to
// the configured budget with control characters stripped. It never returns
// an error: download or extraction failure yields a placeholder summary
// that is passed to the model as-is.
func (e *Extractor) Summarize(ctx context.Context, url string) string {
	text, err := e.fetch(ctx, url)
	if err != nil {
		e.logger.Warn("Resume extraction failed", "url", url, "error", err.Error())
		return fmt.Sprintf("Failed to fetch resume: %s", err)
	}

	return utils.Sanitize(utils.Truncate(text, e.cfg.MaxSummaryChars))
}

func (e *Extractor) fetch(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("no resume url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("resume download returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	switch detectKind(resp.Header.Get("Content-Type"), body) {
	case kindPDF:
		return extractPDF(body)
	case kindHTML:
		return extractHTML(body)
	default:
		return string(body), nil
	}
}

type documentKind int

const (
	kindText documentKind = iota
	kindPDF
	kindHTML
)

// detectKind prefers the magic bytes over the declared content type since
// resume hosting services frequently mislabel uploads.
func detectKind(contentType string, body []byte) documentKind {
	if bytes.HasPrefix(body, []byte("%PDF-")) {
		return kindPDF
	}

	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "pdf"):
		return kindPDF
	case strings.Contains(ct, "html"):
		return kindHTML
	}

	if strings.Contains(http.DetectContentType(body), "html") {
		return kindHTML
	}
	return kindText
}

// extractPDF concatenates the plain text of every page. The pdf package
// panics on some malformed documents, so the recover converts those into
// the same degraded path as a parse error.
func extractPDF(body []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdf extraction panicked: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", err
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// extractHTML strips markup and non-content elements, then collapses
// whitespace runs so the summary spends its budget on words.
func extractHTML(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, noscript, nav, footer, header").Remove()

	text := doc.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Text()
	}

	return strings.Join(strings.Fields(text), " "), nil
}
