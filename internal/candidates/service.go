package candidates

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"talentflow-api/internal/shared/storage/object"
	"talentflow-api/internal/shared/telemetry"
)

// Service contains business logic for scored applications.
type Service struct {
	Repo   Repo
	Store  object.ObjectStore
	URLTTL time.Duration
	now    func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, store object.ObjectStore, urlTTL time.Duration) *Service {
	return &Service{Repo: repo, Store: store, URLTTL: urlTTL, now: time.Now}
}

// Create records a scored application as pending. Missing name and role get defaults.
func (s *Service) Create(ctx context.Context, app Application) (Application, error) {
	if strings.TrimSpace(app.CandidateName) == "" {
		app.CandidateName = DefaultCandidateName
	}
	if strings.TrimSpace(app.JobRole) == "" {
		app.JobRole = DefaultJobRole
	}
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	app.Status = StatusPending
	app.CreatedAt = s.clock().UTC()

	if err := s.Repo.Create(ctx, app); err != nil {
		return Application{}, err
	}
	return app, nil
}

// List returns every application, newest first, with a resume link when a file was stored.
func (s *Service) List(ctx context.Context) ([]Application, error) {
	apps, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range apps {
		if apps[i].ResumePath == "" || s.Store == nil {
			continue
		}
		link, err := s.Store.URL(ctx, apps[i].ResumePath, s.URLTTL)
		if err != nil {
			telemetry.Warn("candidates.resume_url_failed", map[string]any{"application_id": apps[i].ID, "error": err.Error()})
			continue
		}
		apps[i].ResumeURL = link
	}
	return apps, nil
}

// UpdateStatus changes an application's status.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	return s.Repo.UpdateStatus(ctx, id, status)
}

// Stats returns dashboard counters.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.Repo.Stats(ctx)
}

func (s *Service) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
