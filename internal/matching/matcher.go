// Package matching runs a match: fetch postings and candidates, sample,
// score each sampled candidate against the requested posting, and apply
// the optional auto-advance policy.
package matching

import (
	"context"
	"math/rand/v2"

	"talentmatch/internal/config"
	"talentmatch/internal/errors"
	"talentmatch/internal/types"
)

// DataSource provides the posting and candidate lists.
type DataSource interface {
	FetchAll(ctx context.Context) ([]types.JobPosting, []types.Candidate, error)
}

// CandidateAssessor scores one candidate against one posting.
type CandidateAssessor interface {
	Assess(ctx context.Context, candidate types.Candidate, posting types.JobPosting, model string) types.AssessmentOutcome
}

// StageAdvancer moves a candidate to the next pipeline stage in the ATS.
type StageAdvancer interface {
	AdvanceStage(ctx context.Context, candidateID string) (bool, error)
}

// InvitationSender generates a scheduling link and composes the
// notification email.
type InvitationSender interface {
	SendInvitation(ctx context.Context, req types.InvitationRequest) (types.Invitation, error)
}

// MetricsRecorder receives business-level counters from a match run.
// A nil recorder disables recording.
type MetricsRecorder interface {
	RecordMatchRun(jobID string, sampled int)
	RecordAssessment(degraded bool)
	RecordStageAdvance(success bool)
	RecordNotification(success bool)
}

// Matcher orchestrates match runs. Results are never cached: every run
// re-fetches the sources and re-invokes the model.
type Matcher struct {
	source   DataSource
	assessor CandidateAssessor
	advancer StageAdvancer
	notifier InvitationSender
	metrics  MetricsRecorder
	cfg      config.MatchingConfig
	logger   *errors.Logger
}

// NewMatcher creates a matcher. advancer, notifier and metrics may be nil;
// a nil advancer disables the auto-advance policy even when configured.
func NewMatcher(source DataSource, assessor CandidateAssessor, advancer StageAdvancer, notifier InvitationSender, metrics MetricsRecorder, cfg config.MatchingConfig, logger *errors.Logger) *Matcher {
	return &Matcher{
		source:   source,
		assessor: assessor,
		advancer: advancer,
		notifier: notifier,
		metrics:  metrics,
		cfg:      cfg,
		logger:   logger,
	}
}

// Match scores a random sample of candidates against the posting with the
// given id, using the caller-chosen model. Results come back in sampling
// order, one row per sampled candidate.
func (m *Matcher) Match(ctx context.Context, jobID, model string) ([]types.MatchResult, error) {
	postings, candidates, err := m.source.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	posting, found := findPosting(postings, jobID)
	if !found {
		return nil, errors.NewNotFoundError(errors.ErrCodeJobNotFound,
			"Job posting not found", nil).WithContext("job_id", jobID)
	}

	sampled := sampleCandidates(candidates, m.cfg.SampleSize)
	m.logger.Info("Starting match run",
		"job_id", jobID,
		"job_title", posting.Title,
		"model", model,
		"total_candidates", len(candidates),
		"sampled", len(sampled))
	if m.metrics != nil {
		m.metrics.RecordMatchRun(jobID, len(sampled))
	}

	results := make([]types.MatchResult, 0, len(sampled))
	for _, candidate := range sampled {
		outcome := m.assessor.Assess(ctx, candidate, posting, model)
		if m.metrics != nil {
			m.metrics.RecordAssessment(outcome.Degraded())
		}
		if outcome.Degraded() {
			m.logger.Warn("Assessment degraded",
				"candidate_id", candidate.ID,
				"reason", outcome.Reason)
		}

		result := types.MatchResult{
			CandidateID: candidate.ID,
			Name:        candidate.Name,
			MatchScore:  outcome.Score,
			Email:       candidate.PrimaryEmail(),
			Assessment:  outcome.Assessment,
			JobTitle:    posting.Title,
		}
		results = append(results, result)

		m.maybeAutoAdvance(ctx, candidate, posting, outcome)
	}

	return results, nil
}

// maybeAutoAdvance applies the auto-advance policy to one scored
// candidate. Policy failures are logged, never fatal to the run.
func (m *Matcher) maybeAutoAdvance(ctx context.Context, candidate types.Candidate, posting types.JobPosting, outcome types.AssessmentOutcome) {
	policy := m.cfg.AutoAdvance
	if !policy.Enabled || outcome.Degraded() || outcome.Score <= policy.Threshold {
		return
	}
	if m.advancer == nil {
		m.logger.Warn("Auto-advance enabled but no stage advancer configured",
			"candidate_id", candidate.ID)
		return
	}

	advanced, err := m.advancer.AdvanceStage(ctx, candidate.ID)
	if m.metrics != nil {
		m.metrics.RecordStageAdvance(err == nil && advanced)
	}
	if err != nil {
		m.logger.LogError(err, "Auto-advance stage change failed",
			"candidate_id", candidate.ID,
			"score", outcome.Score)
		return
	}
	m.logger.Info("Candidate auto-advanced",
		"candidate_id", candidate.ID,
		"score", outcome.Score,
		"reported_success", advanced)

	if !policy.GateNotification || !advanced || m.notifier == nil {
		return
	}
	email := candidate.PrimaryEmail()
	if email == "" {
		m.logger.Warn("Skipping auto-advance notification: candidate has no email",
			"candidate_id", candidate.ID)
		return
	}

	_, err = m.notifier.SendInvitation(ctx, types.InvitationRequest{
		CandidateID:    candidate.ID,
		CandidateName:  candidate.Name,
		CandidateEmail: email,
		JobTitle:       posting.Title,
	})
	if m.metrics != nil {
		m.metrics.RecordNotification(err == nil)
	}
	if err != nil {
		m.logger.LogError(err, "Auto-advance notification failed",
			"candidate_id", candidate.ID)
	}
}

func findPosting(postings []types.JobPosting, jobID string) (types.JobPosting, bool) {
	for _, p := range postings {
		if p.ID == jobID {
			return p, true
		}
	}
	return types.JobPosting{}, false
}

// sampleCandidates picks min(size, len) candidates uniformly without
// replacement; the returned order is the sampling order.
func sampleCandidates(candidates []types.Candidate, size int) []types.Candidate {
	if size <= 0 {
		return nil
	}
	if len(candidates) <= size {
		shuffled := make([]types.Candidate, len(candidates))
		copy(shuffled, candidates)
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		return shuffled
	}

	sampled := make([]types.Candidate, 0, size)
	for _, idx := range rand.Perm(len(candidates))[:size] {
		sampled = append(sampled, candidates[idx])
	}
	return sampled
}
