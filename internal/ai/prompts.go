package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"talentmatch/internal/config"
	"talentmatch/internal/types"
)

// DefaultSystemPrompt provides the default evaluator instructions
const DefaultSystemPrompt = `You are an AI talent evaluator. Your task is to assess how well a candidate matches a job posting based on their skills, experience, and qualifications.

Instructions:
Evaluate the candidate objectively without bias or unnecessary criticism.
Ensure no humiliation or negative wording in your assessment.
Return only a structured JSON response - no extra explanations or text.`

// DefaultUserPromptTemplate provides the default assessment prompt template.
// Placeholders are filled in order: title, commitment, location, team,
// all locations, tags, description, requirements, country, workplace type,
// headline, candidate location, candidate tags, origin, opportunity
// location, resume summary.
const DefaultUserPromptTemplate = `Job Posting Details:
Title: %s
Commitment: %s
Location: %s
Team: %s
All Locations: %s
Tags: %s
Description: %s
Requirements: %s
Country: %s
Workplace Type: %s

Candidate Details:
Headline: %s
Location: %s
Tags: %s
Origin: %s
Opportunity Location: %s
Resume Summary: %s

Evaluation Criteria:
Assess the candidate based on:

Skill & Experience Match - Does the candidate's experience align with job requirements?
Location Fit - Is the candidate located in an eligible area or open to relocation?
Education & Qualifications - Do they meet or exceed the required credentials?
Language Proficiency - Are they fluent in the necessary languages?

Output Format (JSON Only)
Return your response in the exact format below, with a match score (0-100) and a concise, constructive assessment.

{
  "score": <number>,
  "assessment": "<brief, neutral explanation of strengths and areas for improvement>"
}`

// ResolvePrompts returns the system and user prompts for assessment,
// preferring operator-supplied prompts (inline or file-based) over the
// built-in defaults.
func ResolvePrompts() (system, user string) {
	loaded := config.GetLoadedPrompts()

	system = DefaultSystemPrompt
	if loaded.System != "" {
		system = loaded.System
	}

	user = DefaultUserPromptTemplate
	if loaded.User != "" {
		user = loaded.User
	}

	return system, user
}

// BuildUserPrompt fills the assessment template with posting and candidate
// details. The resume summary is JSON-encoded so that embedded newlines and
// quotes survive as a single prompt field.
func BuildUserPrompt(template string, posting types.JobPosting, candidate types.Candidate, resumeSummary string) string {
	encodedResume, err := json.Marshal(resumeSummary)
	if err != nil {
		encodedResume = []byte(`""`)
	}

	return fmt.Sprintf(template,
		posting.Title,
		posting.Categories.Commitment,
		posting.Categories.Location,
		posting.Categories.Team,
		strings.Join(posting.Categories.AllLocations, ", "),
		strings.Join(posting.Tags, ", "),
		posting.Content.Description,
		formatRequirements(posting.Content.Lists),
		posting.Country,
		posting.WorkplaceType,
		candidate.Headline,
		candidate.Location,
		strings.Join(candidate.Tags, ", "),
		candidate.Origin,
		candidate.OpportunityLocation,
		string(encodedResume),
	)
}

// formatRequirements flattens posting requirement sections into
// "heading: content" lines.
func formatRequirements(lists []types.RequirementSection) string {
	lines := make([]string, 0, len(lists))
	for _, section := range lists {
		lines = append(lines, fmt.Sprintf("%s: %s", section.Text, section.Content))
	}
	return strings.Join(lines, "\n")
}
