package jobs

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service contains business logic for job postings.
type Service struct {
	Repo    Repo
	Cascade Cascader
	now     func() time.Time
}

// NewService constructs a Service. cascade may be nil when the store removes dependents itself.
func NewService(repo Repo, cascade Cascader) *Service {
	return &Service{Repo: repo, Cascade: cascade, now: time.Now}
}

// Create stores an active posting owned by createdBy.
func (s *Service) Create(ctx context.Context, in CreateInput, createdBy string) (Job, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.CompanyName) == "" || strings.TrimSpace(in.Description) == "" {
		return Job{}, ErrInvalidInput
	}
	job := Job{
		ID:               uuid.NewString(),
		Title:            in.Title,
		CompanyName:      in.CompanyName,
		Description:      in.Description,
		ExperienceLevel:  in.ExperienceLevel,
		Location:         in.Location,
		Responsibilities: in.Responsibilities,
		Skills:           in.Skills,
		Status:           StatusActive,
		CreatedBy:        createdBy,
		CreatedAt:        s.clock().UTC(),
	}
	if err := s.Repo.Create(ctx, job); err != nil {
		return Job{}, err
	}
	return job, nil
}

func (s *Service) List(ctx context.Context, status string) ([]Job, error) {
	return s.Repo.List(ctx, strings.TrimSpace(status))
}

func (s *Service) Get(ctx context.Context, id string) (Job, error) {
	if strings.TrimSpace(id) == "" {
		return Job{}, ErrNotFound
	}
	return s.Repo.Get(ctx, id)
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	return s.Repo.UpdateStatus(ctx, id, status)
}

// Delete removes a posting and every application to it.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.Cascade != nil {
		return s.Cascade.DeleteByJob(ctx, id)
	}
	return nil
}

func (s *Service) Counts(ctx context.Context) (Counts, error) {
	return s.Repo.Counts(ctx)
}

func (s *Service) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
