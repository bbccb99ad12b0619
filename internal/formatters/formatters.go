package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"talentmatch/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "MatchResults", &MatchResultsTextFormatter{})
	registry.RegisterFormatter("markdown", "MatchResults", &MatchResultsMarkdownFormatter{})
	registry.RegisterFormatter("text", "JobPostings", &JobPostingsTextFormatter{})
	registry.RegisterFormatter("text", "Invitation", &InvitationTextFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case []types.MatchResult:
		return "MatchResults"
	case []types.JobPosting:
		return "JobPostings"
	case types.Invitation:
		return "Invitation"
	default:
		return "unknown"
	}
}

// JSONFormatter formats any data as indented JSON
type JSONFormatter struct{}

func (f *JSONFormatter) Format(data any) (string, error) {
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal to JSON: %w", err)
	}
	return string(output) + "\n", nil
}

func (f *JSONFormatter) SupportedType() string {
	return "any"
}

// MatchResultsTextFormatter renders scored candidates as plain text
type MatchResultsTextFormatter struct{}

func (f *MatchResultsTextFormatter) Format(data any) (string, error) {
	results, ok := data.([]types.MatchResult)
	if !ok {
		return "", fmt.Errorf("expected []MatchResult, got %T", data)
	}

	var sb strings.Builder
	if len(results) == 0 {
		sb.WriteString("No candidates were scored.\n")
		return sb.String(), nil
	}

	sb.WriteString(fmt.Sprintf("Scored %d candidate(s) for %q\n", len(results), results[0].JobTitle))
	sb.WriteString(strings.Repeat("=", 60) + "\n\n")

	for i, r := range results {
		sb.WriteString(fmt.Sprintf("%d. %s (score: %.1f)\n", i+1, r.Name, r.MatchScore))
		if r.Email != "" {
			sb.WriteString(fmt.Sprintf("   Email: %s\n", r.Email))
		}
		sb.WriteString(fmt.Sprintf("   Candidate ID: %s\n", r.CandidateID))
		sb.WriteString(fmt.Sprintf("   Assessment: %s\n\n", r.Assessment))
	}

	return sb.String(), nil
}

func (f *MatchResultsTextFormatter) SupportedType() string {
	return "MatchResults"
}

// MatchResultsMarkdownFormatter renders scored candidates as Markdown
type MatchResultsMarkdownFormatter struct{}

func (f *MatchResultsMarkdownFormatter) Format(data any) (string, error) {
	results, ok := data.([]types.MatchResult)
	if !ok {
		return "", fmt.Errorf("expected []MatchResult, got %T", data)
	}

	var sb strings.Builder
	if len(results) == 0 {
		sb.WriteString("No candidates were scored.\n")
		return sb.String(), nil
	}

	sb.WriteString(fmt.Sprintf("# Match Results: %s\n\n", results[0].JobTitle))
	sb.WriteString("| # | Candidate | Score | Email |\n")
	sb.WriteString("|---|-----------|-------|-------|\n")
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("| %d | %s | %.1f | %s |\n", i+1, r.Name, r.MatchScore, r.Email))
	}

	sb.WriteString("\n## Assessments\n\n")
	for _, r := range results {
		sb.WriteString(fmt.Sprintf("### %s\n\n%s\n\n", r.Name, r.Assessment))
	}

	return sb.String(), nil
}

func (f *MatchResultsMarkdownFormatter) SupportedType() string {
	return "MatchResults"
}

// JobPostingsTextFormatter renders job postings as plain text
type JobPostingsTextFormatter struct{}

func (f *JobPostingsTextFormatter) Format(data any) (string, error) {
	postings, ok := data.([]types.JobPosting)
	if !ok {
		return "", fmt.Errorf("expected []JobPosting, got %T", data)
	}

	var sb strings.Builder
	if len(postings) == 0 {
		sb.WriteString("No job postings available.\n")
		return sb.String(), nil
	}

	sb.WriteString(fmt.Sprintf("%d job posting(s):\n\n", len(postings)))
	for _, p := range postings {
		sb.WriteString(fmt.Sprintf("  [%s] %s\n", p.ID, p.Title))
		if p.Categories.Location != "" {
			sb.WriteString(fmt.Sprintf("       Location: %s", p.Categories.Location))
			if p.Categories.Commitment != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", p.Categories.Commitment))
			}
			sb.WriteString("\n")
		}
		if p.Categories.Team != "" {
			sb.WriteString(fmt.Sprintf("       Team: %s\n", p.Categories.Team))
		}
	}

	return sb.String(), nil
}

func (f *JobPostingsTextFormatter) SupportedType() string {
	return "JobPostings"
}

// InvitationTextFormatter renders a scheduling invitation as plain text
type InvitationTextFormatter struct{}

func (f *InvitationTextFormatter) Format(data any) (string, error) {
	inv, ok := data.(types.Invitation)
	if !ok {
		return "", fmt.Errorf("expected Invitation, got %T", data)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Status:  %s\n", inv.Status))
	sb.WriteString(fmt.Sprintf("Message: %s\n", inv.Message))
	sb.WriteString(fmt.Sprintf("Link:    %s\n\n", inv.Link))
	sb.WriteString(inv.Body + "\n")

	return sb.String(), nil
}

func (f *InvitationTextFormatter) SupportedType() string {
	return "Invitation"
}

// GlobalRegistry is the default formatter registry
var GlobalRegistry = NewFormatterRegistry()
