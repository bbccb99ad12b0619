package matching

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"talentmatch/internal/config"
	tmerrors "talentmatch/internal/errors"
	"talentmatch/internal/types"
)

type stubSource struct {
	postings   []types.JobPosting
	candidates []types.Candidate
	err        error
}

func (s *stubSource) FetchAll(context.Context) ([]types.JobPosting, []types.Candidate, error) {
	return s.postings, s.candidates, s.err
}

// scriptedAssessor returns a fixed score per candidate id.
type scriptedAssessor struct {
	scores map[string]float64
	calls  int
}

func (s *scriptedAssessor) Assess(_ context.Context, candidate types.Candidate, _ types.JobPosting, _ string) types.AssessmentOutcome {
	s.calls++
	score, ok := s.scores[candidate.ID]
	if !ok {
		return types.AssessmentOutcome{
			Assessment: "Error generating assessment",
			Status:     types.AssessmentDegraded,
			Reason:     "completion_failed",
		}
	}
	return types.AssessmentOutcome{
		Score:      score,
		Assessment: fmt.Sprintf("scored %.0f", score),
		Status:     types.AssessmentOK,
	}
}

type stubAdvancer struct {
	advanced []string
	result   bool
	err      error
}

func (s *stubAdvancer) AdvanceStage(_ context.Context, candidateID string) (bool, error) {
	s.advanced = append(s.advanced, candidateID)
	return s.result, s.err
}

type stubNotifier struct {
	sent []types.InvitationRequest
	err  error
}

func (s *stubNotifier) SendInvitation(_ context.Context, req types.InvitationRequest) (types.Invitation, error) {
	s.sent = append(s.sent, req)
	if s.err != nil {
		return types.Invitation{}, s.err
	}
	return types.Invitation{Status: "success"}, nil
}

func matchingConfig() config.MatchingConfig {
	return config.MatchingConfig{SampleSize: 10}
}

func candidates(n int) []types.Candidate {
	out := make([]types.Candidate, 0, n)
	for i := range n {
		out = append(out, types.Candidate{
			ID:     fmt.Sprintf("c%d", i+1),
			Name:   fmt.Sprintf("Candidate %d", i+1),
			Emails: []string{fmt.Sprintf("c%d@example.com", i+1)},
		})
	}
	return out
}

func TestMatch(t *testing.T) {
	source := &stubSource{
		postings:   []types.JobPosting{{ID: "42", Title: "Backend Engineer"}},
		candidates: candidates(3),
	}
	assessor := &scriptedAssessor{scores: map[string]float64{"c1": 80, "c2": 40, "c3": 65}}

	matcher := NewMatcher(source, assessor, nil, nil, nil, matchingConfig(), testLogger())
	results, err := matcher.Match(context.Background(), "42", "gemini-2.0-flash")
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if assessor.calls != 3 {
		t.Errorf("assessor called %d times, want 3", assessor.calls)
	}

	seen := map[string]bool{}
	for _, r := range results {
		seen[r.CandidateID] = true
		if r.JobTitle != "Backend Engineer" {
			t.Errorf("JobTitle = %q", r.JobTitle)
		}
		if r.Email == "" {
			t.Errorf("candidate %s missing email", r.CandidateID)
		}
	}
	if len(seen) != 3 {
		t.Errorf("results contain duplicates: %v", seen)
	}
}

func TestMatchJobNotFound(t *testing.T) {
	source := &stubSource{
		postings:   []types.JobPosting{{ID: "42", Title: "Backend Engineer"}},
		candidates: candidates(2),
	}
	assessor := &scriptedAssessor{}

	matcher := NewMatcher(source, assessor, nil, nil, nil, matchingConfig(), testLogger())
	_, err := matcher.Match(context.Background(), "99", "gemini-2.0-flash")
	if err == nil {
		t.Fatal("expected error for unknown job id")
	}

	appErr, ok := err.(*tmerrors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T", err)
	}
	if appErr.Code != tmerrors.ErrCodeJobNotFound {
		t.Errorf("code = %s, want %s", appErr.Code, tmerrors.ErrCodeJobNotFound)
	}
	if assessor.calls != 0 {
		t.Error("assessor must not run for an unknown job id")
	}
}

func TestMatchSourceFailure(t *testing.T) {
	source := &stubSource{err: errors.New("data source unreachable")}
	matcher := NewMatcher(source, &scriptedAssessor{}, nil, nil, nil, matchingConfig(), testLogger())

	_, err := matcher.Match(context.Background(), "42", "gemini-2.0-flash")
	if err == nil {
		t.Fatal("expected error when source fails")
	}
}

func TestMatchSamplesWithoutReplacement(t *testing.T) {
	source := &stubSource{
		postings:   []types.JobPosting{{ID: "42", Title: "Backend Engineer"}},
		candidates: candidates(25),
	}
	assessor := &scriptedAssessor{scores: map[string]float64{}}
	for i := range 25 {
		assessor.scores[fmt.Sprintf("c%d", i+1)] = 50
	}

	matcher := NewMatcher(source, assessor, nil, nil, nil, matchingConfig(), testLogger())
	results, err := matcher.Match(context.Background(), "42", "gemini-2.0-flash")
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}

	if len(results) != 10 {
		t.Fatalf("got %d results, want sample of 10", len(results))
	}
	seen := map[string]bool{}
	for _, r := range results {
		if seen[r.CandidateID] {
			t.Fatalf("candidate %s sampled twice", r.CandidateID)
		}
		seen[r.CandidateID] = true
	}
}

func TestMatchNoCandidates(t *testing.T) {
	source := &stubSource{
		postings: []types.JobPosting{{ID: "42", Title: "Backend Engineer"}},
	}
	matcher := NewMatcher(source, &scriptedAssessor{}, nil, nil, nil, matchingConfig(), testLogger())

	results, err := matcher.Match(context.Background(), "42", "gemini-2.0-flash")
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestAutoAdvance(t *testing.T) {
	cfg := matchingConfig()
	cfg.AutoAdvance = config.AutoAdvanceConfig{
		Enabled:          true,
		Threshold:        70,
		GateNotification: true,
	}

	tests := []struct {
		name          string
		scores        map[string]float64
		advanceResult bool
		advanceErr    error
		wantAdvanced  []string
		wantNotified  int
	}{
		{
			name:          "strictly above threshold advances and notifies",
			scores:        map[string]float64{"c1": 71, "c2": 70, "c3": 30},
			advanceResult: true,
			wantAdvanced:  []string{"c1"},
			wantNotified:  1,
		},
		{
			name:          "advance reported unsuccessful suppresses notification",
			scores:        map[string]float64{"c1": 90, "c2": 10, "c3": 10},
			advanceResult: false,
			wantAdvanced:  []string{"c1"},
			wantNotified:  0,
		},
		{
			name:         "advance error suppresses notification",
			scores:       map[string]float64{"c1": 90, "c2": 10, "c3": 10},
			advanceErr:   errors.New("ats unavailable"),
			wantAdvanced: []string{"c1"},
			wantNotified: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &stubSource{
				postings:   []types.JobPosting{{ID: "42", Title: "Backend Engineer"}},
				candidates: candidates(3),
			}
			assessor := &scriptedAssessor{scores: tt.scores}
			advancer := &stubAdvancer{result: tt.advanceResult, err: tt.advanceErr}
			notifier := &stubNotifier{}

			matcher := NewMatcher(source, assessor, advancer, notifier, nil, cfg, testLogger())
			if _, err := matcher.Match(context.Background(), "42", "gemini-2.0-flash"); err != nil {
				t.Fatalf("Match() error = %v", err)
			}

			if len(advancer.advanced) != len(tt.wantAdvanced) {
				t.Fatalf("advanced %v, want %v", advancer.advanced, tt.wantAdvanced)
			}
			for i, id := range tt.wantAdvanced {
				if advancer.advanced[i] != id {
					t.Errorf("advanced[%d] = %s, want %s", i, advancer.advanced[i], id)
				}
			}
			if len(notifier.sent) != tt.wantNotified {
				t.Errorf("notified %d times, want %d", len(notifier.sent), tt.wantNotified)
			}
		})
	}
}

func TestAutoAdvanceDisabledByDefault(t *testing.T) {
	source := &stubSource{
		postings:   []types.JobPosting{{ID: "42", Title: "Backend Engineer"}},
		candidates: candidates(2),
	}
	assessor := &scriptedAssessor{scores: map[string]float64{"c1": 99, "c2": 99}}
	advancer := &stubAdvancer{result: true}

	matcher := NewMatcher(source, assessor, advancer, &stubNotifier{}, nil, matchingConfig(), testLogger())
	if _, err := matcher.Match(context.Background(), "42", "gemini-2.0-flash"); err != nil {
		t.Fatalf("Match() error = %v", err)
	}

	if len(advancer.advanced) != 0 {
		t.Errorf("advanced %v, want none with policy disabled", advancer.advanced)
	}
}

func TestAutoAdvanceSkipsDegradedOutcomes(t *testing.T) {
	cfg := matchingConfig()
	cfg.AutoAdvance = config.AutoAdvanceConfig{Enabled: true, Threshold: -1}

	source := &stubSource{
		postings:   []types.JobPosting{{ID: "42", Title: "Backend Engineer"}},
		candidates: candidates(1),
	}
	// No scripted score: the assessor degrades with score 0, which is
	// above the -1 threshold but must still not advance.
	assessor := &scriptedAssessor{}
	advancer := &stubAdvancer{result: true}

	matcher := NewMatcher(source, assessor, advancer, &stubNotifier{}, nil, cfg, testLogger())
	if _, err := matcher.Match(context.Background(), "42", "gemini-2.0-flash"); err != nil {
		t.Fatalf("Match() error = %v", err)
	}

	if len(advancer.advanced) != 0 {
		t.Errorf("advanced %v, want none for degraded outcome", advancer.advanced)
	}
}
