package jobs

import (
	"errors"
	"time"
)

// Posting statuses.
const (
	StatusActive = "active"
	StatusClosed = "closed"
	StatusDraft  = "draft"
)

var (
	ErrNotFound      = errors.New("Job not found")
	ErrInvalidStatus = errors.New("Invalid status")
	ErrInvalidInput  = errors.New("invalid input")
)

// Job is a posting candidates can apply to.
type Job struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	CompanyName      string    `json:"company_name"`
	Description      string    `json:"description"`
	ExperienceLevel  string    `json:"experience_level,omitempty"`
	Location         string    `json:"location,omitempty"`
	Responsibilities string    `json:"responsibilities,omitempty"`
	Skills           string    `json:"skills,omitempty"`
	Status           string    `json:"status"`
	CreatedBy        string    `json:"created_by,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// CreateInput carries the fields accepted when posting a job.
type CreateInput struct {
	Title            string `json:"title" form:"title" validate:"required"`
	CompanyName      string `json:"company_name" form:"company_name" validate:"required"`
	Description      string `json:"description" form:"description" validate:"required"`
	ExperienceLevel  string `json:"experience_level" form:"experience_level"`
	Location         string `json:"location" form:"location"`
	Responsibilities string `json:"responsibilities" form:"responsibilities"`
	Skills           string `json:"skills" form:"skills"`
}

// Counts reports posting totals for dashboards.
type Counts struct {
	Total  int
	Active int
}

// ValidStatus reports whether s is an accepted posting status.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusClosed, StatusDraft:
		return true
	default:
		return false
	}
}
