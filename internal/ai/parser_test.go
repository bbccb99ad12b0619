package ai

import (
	"strings"
	"testing"

	"talentmatch/internal/types"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name           string
		raw            string
		wantOK         bool
		wantScore      float64
		wantAssessment string
	}{
		{
			name:           "plain json",
			raw:            `{"score": 80, "assessment": "Strong fit"}`,
			wantOK:         true,
			wantScore:      80,
			wantAssessment: "Strong fit",
		},
		{
			name:           "json fence",
			raw:            "```json\n{\"score\": 55, \"assessment\": \"Partial match\"}\n```",
			wantOK:         true,
			wantScore:      55,
			wantAssessment: "Partial match",
		},
		{
			name:           "generic fence",
			raw:            "```\n{\"score\": 91, \"assessment\": \"Excellent\"}\n```",
			wantOK:         true,
			wantScore:      91,
			wantAssessment: "Excellent",
		},
		{
			name:           "score as string",
			raw:            `{"score": "72", "assessment": "Good"}`,
			wantOK:         true,
			wantScore:      72,
			wantAssessment: "Good",
		},
		{
			name:           "missing score defaults to zero",
			raw:            `{"assessment": "No score given"}`,
			wantOK:         true,
			wantScore:      0,
			wantAssessment: "No score given",
		},
		{
			name:   "empty response",
			raw:    "",
			wantOK: false,
		},
		{
			name:   "fence with nothing inside",
			raw:    "```json\n```",
			wantOK: false,
		},
		{
			name:   "non-json prose",
			raw:    "The candidate looks like a good fit overall.",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseVerdict(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ParseVerdict() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Score != tt.wantScore {
				t.Errorf("Score = %v, want %v", got.Score, tt.wantScore)
			}
			if got.Assessment != tt.wantAssessment {
				t.Errorf("Assessment = %q, want %q", got.Assessment, tt.wantAssessment)
			}
		})
	}
}

func TestIsEmptyResponse(t *testing.T) {
	if !IsEmptyResponse("   \n") {
		t.Error("expected whitespace-only response to be empty")
	}
	if !IsEmptyResponse("```json\n```") {
		t.Error("expected empty fence to be empty")
	}
	if IsEmptyResponse(`{"score": 1}`) {
		t.Error("expected json payload to be non-empty")
	}
}

func TestBuildUserPrompt(t *testing.T) {
	posting := samplePosting()
	candidate := sampleCandidate()

	prompt := BuildUserPrompt(DefaultUserPromptTemplate, posting, candidate, "10 years of Go experience")

	for _, want := range []string{
		"Title: Backend Engineer",
		"Commitment: Full-time",
		"Requirements: Must have: Go, PostgreSQL\nNice to have: Kubernetes",
		"Headline: Senior Engineer at Acme",
		`Resume Summary: "10 years of Go experience"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func samplePosting() types.JobPosting {
	return types.JobPosting{
		ID:    "42",
		Title: "Backend Engineer",
		Categories: types.PostingCategories{
			Commitment:   "Full-time",
			Location:     "Berlin",
			Team:         "Platform",
			AllLocations: []string{"Berlin", "Remote"},
		},
		Tags: []string{"go", "backend"},
		Content: types.PostingContent{
			Description: "Build and run backend services.",
			Lists: []types.RequirementSection{
				{Text: "Must have", Content: "Go, PostgreSQL"},
				{Text: "Nice to have", Content: "Kubernetes"},
			},
		},
		Country:       "DE",
		WorkplaceType: "hybrid",
	}
}

func sampleCandidate() types.Candidate {
	return types.Candidate{
		ID:                  "cand-1",
		Name:                "Alex Doe",
		Headline:            "Senior Engineer at Acme",
		Location:            "Berlin",
		Tags:                []string{"go", "grpc"},
		Origin:              "applied",
		OpportunityLocation: "Berlin",
		Emails:              []string{"alex@example.com"},
	}
}
