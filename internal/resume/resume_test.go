package resume

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"talentmatch/internal/config"
	tmerrors "talentmatch/internal/errors"
)

func newTestExtractor(maxChars int) *Extractor {
	logger, _ := tmerrors.New("error")
	return NewExtractor(config.ResumeConfig{
		Timeout:         5 * time.Second,
		MaxSummaryChars: maxChars,
	}, logger)
}

func TestSummarizePlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("Ten years of Go and distributed systems experience."))
	}))
	defer srv.Close()

	got := newTestExtractor(1000).Summarize(context.Background(), srv.URL)
	if got != "Ten years of Go and distributed systems experience." {
		t.Errorf("Summarize() = %q", got)
	}
}

func TestSummarizeTruncatesAndSanitizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("abc\x00def" + strings.Repeat("x", 2000)))
	}))
	defer srv.Close()

	got := newTestExtractor(100).Summarize(context.Background(), srv.URL)
	if len(got) != 99 { // 100-char budget minus the stripped NUL
		t.Errorf("len = %d, want 99", len(got))
	}
	if strings.ContainsRune(got, 0x00) {
		t.Error("control character survived sanitization")
	}
}

func TestSummarizeHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><style>p{color:red}</style></head>
			<body><nav>menu</nav><p>Senior  engineer,</p> <p>Berlin</p><script>track()</script></body></html>`))
	}))
	defer srv.Close()

	got := newTestExtractor(1000).Summarize(context.Background(), srv.URL)
	if got != "Senior engineer, Berlin" {
		t.Errorf("Summarize() = %q", got)
	}
}

func TestSummarizeDegradesToPlaceholder(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer notFound.Close()

	brokenPDF := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 this is not a real pdf"))
	}))
	defer brokenPDF.Close()

	extractor := newTestExtractor(1000)

	tests := []struct {
		name string
		url  string
	}{
		{"not found", notFound.URL},
		{"unreachable", "http://127.0.0.1:1/resume.pdf"},
		{"empty url", ""},
		{"malformed pdf", brokenPDF.URL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractor.Summarize(context.Background(), tt.url)
			if !strings.HasPrefix(got, "Failed to fetch resume: ") {
				t.Errorf("Summarize() = %q, want placeholder", got)
			}
		})
	}
}

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        []byte
		want        documentKind
	}{
		{"pdf magic wins over content type", "text/plain", []byte("%PDF-1.7 etc"), kindPDF},
		{"pdf content type", "application/pdf", []byte("binary"), kindPDF},
		{"html content type", "text/html; charset=utf-8", []byte("<p>hi</p>"), kindHTML},
		{"sniffed html", "application/octet-stream", []byte("<!DOCTYPE html><html></html>"), kindHTML},
		{"plain text", "text/plain", []byte("just words"), kindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectKind(tt.contentType, tt.body); got != tt.want {
				t.Errorf("detectKind() = %v, want %v", got, tt.want)
			}
		})
	}
}
