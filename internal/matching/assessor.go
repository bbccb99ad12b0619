package matching

import (
	"context"

	"talentmatch/internal/ai"
	"talentmatch/internal/errors"
	"talentmatch/internal/types"
	"talentmatch/internal/utils"
)

// CompletionProvider is the slice of the AI provider the assessor needs.
type CompletionProvider interface {
	Complete(ctx context.Context, req ai.CompletionRequest) (ai.Completion, error)
}

// ResumeSummarizer produces a short plain-text resume summary for a URL.
type ResumeSummarizer interface {
	Summarize(ctx context.Context, url string) string
}

// Assessor scores one candidate against one posting via the model.
// Assess never fails: every failure mode degrades to a zero-score outcome
// with a fixed assessment string, so a flaky model or resume host costs
// one row, not the run.
type Assessor struct {
	provider CompletionProvider
	resumes  ResumeSummarizer
	logger   *errors.Logger
}

// NewAssessor creates an assessor
func NewAssessor(provider CompletionProvider, resumes ResumeSummarizer, logger *errors.Logger) *Assessor {
	return &Assessor{
		provider: provider,
		resumes:  resumes,
		logger:   logger,
	}
}

// Degraded-outcome assessments. These exact strings reach API consumers.
const (
	assessmentNoResponse    = "No response from LLM"
	assessmentInvalidFormat = "Invalid response format from LLM"
	assessmentFailed        = "Error generating assessment"
)

// Assess scores candidate against posting using the given model identifier.
func (a *Assessor) Assess(ctx context.Context, candidate types.Candidate, posting types.JobPosting, model string) types.AssessmentOutcome {
	candidate = sanitizeCandidate(candidate)
	summary := utils.Sanitize(a.resumes.Summarize(ctx, candidate.ResumeURL))

	system, template := ai.ResolvePrompts()
	prompt := ai.BuildUserPrompt(template, posting, candidate, summary)

	completion, err := a.provider.Complete(ctx, ai.CompletionRequest{
		Model:        model,
		SystemPrompt: system,
		UserPrompt:   prompt,
	})
	if err != nil {
		a.logger.LogError(err, "Assessment completion failed",
			"candidate_id", candidate.ID,
			"job_id", posting.ID,
			"model", model)
		return degraded(assessmentFailed, "completion_failed")
	}

	if ai.IsEmptyResponse(completion.Text) {
		a.logger.Warn("Empty model response", "candidate_id", candidate.ID, "model", model)
		return degraded(assessmentNoResponse, "empty_response")
	}

	verdict, ok := ai.ParseVerdict(completion.Text)
	if !ok {
		a.logger.Warn("Unparseable model response",
			"candidate_id", candidate.ID,
			"model", model,
			"raw_response", utils.Truncate(completion.Text, 500))
		return degraded(assessmentInvalidFormat, "parse_failed")
	}

	// Out-of-range scores pass through untouched. Clamping would hide a
	// misbehaving model or prompt; downstream consumers see what it said.
	if verdict.Score < 0 || verdict.Score > 100 {
		a.logger.Warn("Model returned out-of-range score",
			"candidate_id", candidate.ID,
			"model", model,
			"score", verdict.Score)
	}

	return types.AssessmentOutcome{
		Score:      verdict.Score,
		Assessment: verdict.Assessment,
		Status:     types.AssessmentOK,
	}
}

func degraded(assessment, reason string) types.AssessmentOutcome {
	return types.AssessmentOutcome{
		Score:      0,
		Assessment: assessment,
		Status:     types.AssessmentDegraded,
		Reason:     reason,
	}
}

// sanitizeCandidate strips control characters from every string-valued
// field before any of them reach a prompt.
func sanitizeCandidate(c types.Candidate) types.Candidate {
	c.ID = utils.Sanitize(c.ID)
	c.Name = utils.Sanitize(c.Name)
	c.Headline = utils.Sanitize(c.Headline)
	c.Location = utils.Sanitize(c.Location)
	c.Tags = utils.SanitizeAll(c.Tags)
	c.Origin = utils.Sanitize(c.Origin)
	c.OpportunityLocation = utils.Sanitize(c.OpportunityLocation)
	c.Emails = utils.SanitizeAll(c.Emails)
	c.ResumeURL = utils.Sanitize(c.ResumeURL)
	return c
}
