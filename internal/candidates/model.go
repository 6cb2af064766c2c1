package candidates

import (
	"errors"
	"time"
)

// Application statuses.
const (
	StatusPending     = "pending"
	StatusShortlisted = "shortlisted"
	StatusRejected    = "rejected"
)

// Defaults used when the scoring flow has no candidate details.
const (
	DefaultCandidateName = "Unknown Candidate"
	DefaultJobRole       = "Applicant"
)

var (
	ErrNotFound      = errors.New("Application not found")
	ErrInvalidStatus = errors.New("Invalid status")
	ErrInvalidInput  = errors.New("invalid input")
)

// Application is a resume scored through the screening flow.
type Application struct {
	ID             string    `json:"id"`
	CandidateName  string    `json:"candidate_name"`
	CandidateEmail string    `json:"candidate_email,omitempty"`
	JobRole        string    `json:"job_role"`
	Score          float64   `json:"score"`
	MatchDetails   string    `json:"match_details"`
	Status         string    `json:"status"`
	ResumePath     string    `json:"resume_path,omitempty"`
	ResumeURL      string    `json:"resume_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Stats summarizes scored applications for the dashboard.
type Stats struct {
	Total       int `json:"total"`
	Shortlisted int `json:"shortlisted"`
	Rejected    int `json:"rejected"`
	Pending     int `json:"pending"`
	AvgScore    int `json:"avg_score"`
}

// ValidStatus reports whether s is an accepted application status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusShortlisted, StatusRejected:
		return true
	default:
		return false
	}
}
