package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tmerrors "talentmatch/internal/errors"
	"talentmatch/internal/types"

	"github.com/manifoldco/promptui"
)

// MatchService is the API surface the review session drives
type MatchService interface {
	FetchPostings(ctx context.Context) ([]types.JobPosting, error)
	Match(ctx context.Context, jobID, model string) ([]types.MatchResult, error)
	SendInvitation(ctx context.Context, req types.InvitationRequest) (types.Invitation, error)
}

// StageAdvancer moves a candidate forward in the hiring pipeline
type StageAdvancer interface {
	AdvanceStage(ctx context.Context, candidateID string) (bool, error)
}

const (
	ActionAdvance = "Advance and send invitation"
	ActionReject  = "Reject"
	ActionEdit    = "Edit assessment"
	ActionSkip    = "Skip"
	ActionBack    = "Back to postings"
	ActionQuit    = "Quit"

	DispositionAdvanced = "advanced"
	DispositionRejected = "rejected"
)

var errQuit = errors.New("quit requested")

// candidateReview is the per-candidate session state. It exists only for
// the lifetime of one match run.
type candidateReview struct {
	Disposition          string
	Assessment           string
	NotificationEligible bool
}

type reviewState struct {
	reviews map[string]*candidateReview
}

func newReviewState(results []types.MatchResult) *reviewState {
	state := &reviewState{reviews: make(map[string]*candidateReview, len(results))}
	for _, r := range results {
		state.reviews[r.CandidateID] = &candidateReview{
			Assessment:           r.Assessment,
			NotificationEligible: r.Email != "",
		}
	}
	return state
}

func (s *reviewState) review(candidateID string) *candidateReview {
	return s.reviews[candidateID]
}

func (s *reviewState) counts() (advanced, rejected int) {
	for _, r := range s.reviews {
		switch r.Disposition {
		case DispositionAdvanced:
			advanced++
		case DispositionRejected:
			rejected++
		}
	}
	return advanced, rejected
}

// Session is an interactive terminal review loop over a match service.
// All review state is session-local and discarded on exit.
type Session struct {
	api          MatchService
	advancer     StageAdvancer
	defaultModel string
	logger       *tmerrors.Logger
}

// NewSession creates a review session
func NewSession(api MatchService, advancer StageAdvancer, defaultModel string, logger *tmerrors.Logger) *Session {
	return &Session{
		api:          api,
		advancer:     advancer,
		defaultModel: defaultModel,
		logger:       logger,
	}
}

// Run drives the posting → match → per-candidate review loop until the
// reviewer quits or the postings list is exhausted
func (s *Session) Run(ctx context.Context) error {
	for {
		postings, err := s.api.FetchPostings(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch job postings: %w", err)
		}
		if len(postings) == 0 {
			fmt.Println("No job postings available.")
			return nil
		}

		posting, err := s.selectPosting(postings)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}

		model, err := s.promptModel()
		if err != nil {
			return err
		}

		if err := s.reviewPosting(ctx, posting, model); errors.Is(err, errQuit) {
			return nil
		} else if err != nil {
			return err
		}
	}
}

func (s *Session) selectPosting(postings []types.JobPosting) (types.JobPosting, error) {
	items := make([]string, 0, len(postings)+1)
	for _, p := range postings {
		items = append(items, fmt.Sprintf("%s (%s, %s)", p.Title, p.Categories.Location, p.Categories.Team))
	}
	items = append(items, ActionQuit)

	prompt := promptui.Select{
		Label: "Select a job posting",
		Items: items,
		Size:  10,
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return types.JobPosting{}, fmt.Errorf("posting selection failed: %w", err)
	}
	if idx == len(postings) {
		return types.JobPosting{}, errQuit
	}
	return postings[idx], nil
}

func (s *Session) promptModel() (string, error) {
	prompt := promptui.Prompt{
		Label:   "Model",
		Default: s.defaultModel,
	}
	model, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("model prompt failed: %w", err)
	}
	return strings.TrimSpace(model), nil
}

func (s *Session) reviewPosting(ctx context.Context, posting types.JobPosting, model string) error {
	fmt.Printf("Running match for %q with model %s...\n", posting.Title, model)

	results, err := s.api.Match(ctx, posting.ID, model)
	if err != nil {
		// An individual match failure should not end the session
		fmt.Printf("Match failed: %v\n", err)
		return nil
	}
	if len(results) == 0 {
		fmt.Println("No candidates available for this posting.")
		return nil
	}

	state := newReviewState(results)

	for i := 0; i < len(results); {
		result := results[i]
		review := state.review(result.CandidateID)
		s.displayCandidate(i+1, len(results), result, review)

		action, err := s.selectAction(review)
		if err != nil {
			return err
		}

		switch action {
		case ActionAdvance:
			invitation, err := s.AdvanceCandidate(ctx, result, review)
			if err != nil {
				fmt.Printf("Failed to advance candidate: %v\n", err)
				continue
			}
			fmt.Printf("Candidate advanced. %s\n", invitationSummary(invitation, review))
			i++
		case ActionReject:
			review.Disposition = DispositionRejected
			i++
		case ActionEdit:
			edited, err := s.promptAssessment(review.Assessment)
			if err != nil {
				return err
			}
			review.Assessment = edited
		case ActionSkip:
			i++
		case ActionBack:
			return nil
		case ActionQuit:
			s.displaySummary(state)
			return errQuit
		}
	}

	s.displaySummary(state)
	return nil
}

func (s *Session) selectAction(review *candidateReview) (string, error) {
	items := []string{ActionAdvance, ActionReject, ActionEdit, ActionSkip, ActionBack, ActionQuit}
	prompt := promptui.Select{
		Label: "Action",
		Items: items,
	}
	_, action, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("action selection failed: %w", err)
	}
	return action, nil
}

func (s *Session) promptAssessment(current string) (string, error) {
	prompt := promptui.Prompt{
		Label:   "Assessment",
		Default: current,
	}
	edited, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("assessment prompt failed: %w", err)
	}
	return edited, nil
}

// AdvanceCandidate moves the candidate to the next pipeline stage and, when
// the candidate has a contact email, sends the scheduling invitation
func (s *Session) AdvanceCandidate(ctx context.Context, result types.MatchResult, review *candidateReview) (types.Invitation, error) {
	moved, err := s.advancer.AdvanceStage(ctx, result.CandidateID)
	if err != nil {
		return types.Invitation{}, err
	}
	if !moved {
		return types.Invitation{}, tmerrors.NewUpstreamError(tmerrors.ErrCodeStageChangeFailed,
			"Stage change was not applied", nil).WithContext("candidate_id", result.CandidateID)
	}

	review.Disposition = DispositionAdvanced

	if !review.NotificationEligible {
		s.logger.Warn("Candidate has no contact email, skipping invitation",
			"candidate_id", result.CandidateID)
		return types.Invitation{}, nil
	}

	invitation, err := s.api.SendInvitation(ctx, types.InvitationRequest{
		CandidateID:    result.CandidateID,
		CandidateName:  result.Name,
		CandidateEmail: result.Email,
		JobTitle:       result.JobTitle,
	})
	if err != nil {
		// The stage change already happened; report the notification
		// failure without rolling back the disposition.
		return types.Invitation{}, err
	}
	return invitation, nil
}

func (s *Session) displayCandidate(position, total int, result types.MatchResult, review *candidateReview) {
	fmt.Printf("\n[%d/%d] %s (score %.1f)\n", position, total, result.Name, result.MatchScore)
	if result.Email != "" {
		fmt.Printf("Email: %s\n", result.Email)
	} else {
		fmt.Println("Email: none on file")
	}
	fmt.Printf("Assessment: %s\n", review.Assessment)
}

func (s *Session) displaySummary(state *reviewState) {
	advanced, rejected := state.counts()
	fmt.Printf("\nReview complete: %d advanced, %d rejected, %d undecided\n",
		advanced, rejected, len(state.reviews)-advanced-rejected)
}

func invitationSummary(invitation types.Invitation, review *candidateReview) string {
	if !review.NotificationEligible {
		return "No invitation sent (no contact email)."
	}
	if invitation.Link != "" {
		return fmt.Sprintf("Invitation sent: %s", invitation.Link)
	}
	return "Invitation sent."
}
