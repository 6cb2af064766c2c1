package jobapps

import (
	"errors"
	"time"
)

// Application review statuses.
const (
	StatusPending     = "pending"
	StatusReviewed    = "reviewed"
	StatusShortlisted = "shortlisted"
	StatusRejected    = "rejected"
	StatusHired       = "hired"
)

// Screening statuses recorded by the async scorer.
const (
	ScreeningQueued    = "queued"
	ScreeningCompleted = "completed"
	ScreeningFailed    = "failed"
	ScreeningSkipped   = "skipped"
)

var (
	ErrNotFound          = errors.New("Application not found")
	ErrInvalidStatus     = errors.New("Invalid status")
	ErrJobNotFound       = errors.New("Job not found")
	ErrJobClosed         = errors.New("This job is no longer accepting applications")
	ErrAlreadyApplied    = errors.New("You have already applied to this job")
	ErrInvalidResumeType = errors.New("Only PDF and DOCX files are allowed")
)

// Application is a candidate's application to a job posting.
type Application struct {
	ID                 string    `json:"id"`
	JobID              string    `json:"job_id"`
	CandidateID        string    `json:"candidate_id"`
	CandidateName      string    `json:"candidate_name"`
	CandidateEmail     string    `json:"candidate_email"`
	ResumePath         string    `json:"resume_path,omitempty"`
	ResumeURL          string    `json:"resume_url,omitempty"`
	CoverLetter        string    `json:"cover_letter,omitempty"`
	RelevantExperience string    `json:"relevant_experience,omitempty"`
	OverallExperience  string    `json:"overall_experience,omitempty"`
	CurrentLocation    string    `json:"current_location,omitempty"`
	PreferredLocation  string    `json:"preferred_location,omitempty"`
	CurrentCTC         string    `json:"current_ctc,omitempty"`
	ExpectedCTC        string    `json:"expected_ctc,omitempty"`
	CurrentCompany     string    `json:"current_company,omitempty"`
	NoticePeriod       string    `json:"notice_period,omitempty"`
	Status             string    `json:"status"`
	AIScore            *float64  `json:"ai_score,omitempty"`
	AIExplanation      string    `json:"ai_explanation,omitempty"`
	ScreeningStatus    string    `json:"screening_status,omitempty"`
	JobTitle           string    `json:"job_title,omitempty"`
	CompanyName        string    `json:"company_name,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// ApplyInput carries the optional form fields of an application.
type ApplyInput struct {
	ApplicantName      string `form:"applicant_name"`
	CoverLetter        string `form:"cover_letter"`
	RelevantExperience string `form:"relevant_experience"`
	OverallExperience  string `form:"overall_experience"`
	CurrentLocation    string `form:"current_location"`
	PreferredLocation  string `form:"preferred_location"`
	CurrentCTC         string `form:"current_ctc"`
	ExpectedCTC        string `form:"expected_ctc"`
	CurrentCompany     string `form:"current_company"`
	NoticePeriod       string `form:"notice_period"`
}

// Applicant identifies the authenticated candidate.
type Applicant struct {
	ID    string
	Name  string
	Email string
}

// Resume is an uploaded resume file.
type Resume struct {
	FileName string
	Data     []byte
}

// Screening is the outcome of scoring an application's resume.
type Screening struct {
	Status      string
	Score       *float64
	Explanation string
}

// Stats summarizes applications and postings for the HR dashboard.
type Stats struct {
	TotalApplications int `json:"total_applications"`
	Pending           int `json:"pending"`
	Reviewed          int `json:"reviewed"`
	Shortlisted       int `json:"shortlisted"`
	Rejected          int `json:"rejected"`
	Hired             int `json:"hired"`
	TotalJobs         int `json:"total_jobs"`
	ActiveJobs        int `json:"active_jobs"`
}

// ValidStatus reports whether s is an accepted review status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusReviewed, StatusShortlisted, StatusRejected, StatusHired:
		return true
	default:
		return false
	}
}
