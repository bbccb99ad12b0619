package types

// PostingCategories holds the classification attributes of a job posting
type PostingCategories struct {
	Commitment   string   `json:"commitment"`
	Location     string   `json:"location"`
	Team         string   `json:"team"`
	AllLocations []string `json:"allLocations"`
}

// RequirementSection is one titled block of posting requirements
type RequirementSection struct {
	Text    string `json:"text"`
	Content string `json:"content"`
}

// PostingContent holds the free-form body of a job posting
type PostingContent struct {
	Description string               `json:"description"`
	Lists       []RequirementSection `json:"lists"`
}

// JobPosting represents one job posting fetched from the HR data source
type JobPosting struct {
	ID            string            `json:"id"`
	Title         string            `json:"text"`
	Categories    PostingCategories `json:"categories"`
	Tags          []string          `json:"tags"`
	Content       PostingContent    `json:"content"`
	Country       string            `json:"country"`
	WorkplaceType string            `json:"workplaceType"`
}

// Candidate represents one candidate record fetched from the HR data source
type Candidate struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Headline            string   `json:"headline"`
	Location            string   `json:"location"`
	Tags                []string `json:"tags"`
	Origin              string   `json:"origin"`
	OpportunityLocation string   `json:"opportunityLocation"`
	Emails              []string `json:"emails"`
	ResumeURL           string   `json:"resume_url"`
}

// PrimaryEmail returns the first listed contact email, or "" when the
// candidate has none. An empty email is non-fatal; it only makes
// notification impossible for that candidate.
func (c Candidate) PrimaryEmail() string {
	if len(c.Emails) == 0 {
		return ""
	}
	return c.Emails[0]
}

// AssessmentStatus distinguishes a genuine model verdict from a
// zero-score fallback produced when the model call or parse failed.
type AssessmentStatus string

const (
	AssessmentOK       AssessmentStatus = "ok"
	AssessmentDegraded AssessmentStatus = "degraded"
)

// AssessmentOutcome is the result of scoring one candidate against one
// posting. Status and Reason never reach the wire; they exist so logs
// and metrics can tell degradation apart from a real low score.
type AssessmentOutcome struct {
	Score      float64          `json:"score"`
	Assessment string           `json:"assessment"`
	Status     AssessmentStatus `json:"-"`
	Reason     string           `json:"-"`
}

// Degraded reports whether this outcome is a fallback rather than a
// model verdict.
func (o AssessmentOutcome) Degraded() bool {
	return o.Status == AssessmentDegraded
}

// MatchResult is one row of a match run, produced once per sampled
// candidate. Results are never cached; re-running the same inputs
// re-invokes the model.
type MatchResult struct {
	CandidateID string  `json:"candidate_id"`
	Name        string  `json:"name"`
	MatchScore  float64 `json:"match_score"`
	Email       string  `json:"email"`
	Assessment  string  `json:"assessment"`
	JobTitle    string  `json:"job_title"`
}

// MatchRequest is the body of POST /match
type MatchRequest struct {
	JobID     string `json:"job_id" validate:"required"`
	ModelName string `json:"model_name" validate:"required"`
}

// InvitationRequest is the body of POST /generate-calendly-link-send-email
type InvitationRequest struct {
	CandidateID    string `json:"candidate_id" validate:"required"`
	CandidateName  string `json:"candidate_name" validate:"required"`
	CandidateEmail string `json:"candidate_email" validate:"required,email"`
	JobTitle       string `json:"job_title" validate:"required"`
}

// Invitation is the composed scheduling invitation returned to the caller
type Invitation struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Link    string `json:"link"`
	Body    string `json:"msg"`
}
