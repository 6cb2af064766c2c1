package jobapps

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"talentflow-api/internal/jobs"
	"talentflow-api/internal/queue"
	"talentflow-api/internal/shared/storage/object"
	"talentflow-api/internal/shared/telemetry"
	"talentflow-api/internal/shared/util"
)

// JobLookup reads postings.
type JobLookup interface {
	Get(ctx context.Context, id string) (jobs.Job, error)
	Counts(ctx context.Context) (jobs.Counts, error)
}

// Service contains business logic for job applications.
type Service struct {
	Repo   Repo
	Jobs   JobLookup
	Store  object.ObjectStore
	Queue  queue.Client
	URLTTL time.Duration
	now    func() time.Time
}

// NewService constructs a Service. q may be nil, in which case resumes are stored but not screened.
func NewService(repo Repo, jobLookup JobLookup, store object.ObjectStore, q queue.Client, urlTTL time.Duration) *Service {
	return &Service{Repo: repo, Jobs: jobLookup, Store: store, Queue: q, URLTTL: urlTTL, now: time.Now}
}

// Apply records an application to an active posting and queues resume screening.
func (s *Service) Apply(ctx context.Context, jobID string, who Applicant, in ApplyInput, resume *Resume) (Application, error) {
	job, err := s.Jobs.Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return Application{}, ErrJobNotFound
		}
		return Application{}, err
	}
	if job.Status != jobs.StatusActive {
		return Application{}, ErrJobClosed
	}

	exists, err := s.Repo.Exists(ctx, jobID, who.ID)
	if err != nil {
		return Application{}, err
	}
	if exists {
		return Application{}, ErrAlreadyApplied
	}

	var ext string
	if resume != nil && resume.FileName != "" {
		ext = filepath.Ext(resume.FileName)
		switch strings.ToLower(ext) {
		case ".pdf", ".docx", ".doc":
		default:
			return Application{}, ErrInvalidResumeType
		}
	}

	name := strings.TrimSpace(in.ApplicantName)
	if name == "" {
		name = who.Name
	}

	app := Application{
		ID:                 uuid.NewString(),
		JobID:              jobID,
		CandidateID:        who.ID,
		CandidateName:      name,
		CandidateEmail:     who.Email,
		CoverLetter:        in.CoverLetter,
		RelevantExperience: in.RelevantExperience,
		OverallExperience:  in.OverallExperience,
		CurrentLocation:    in.CurrentLocation,
		PreferredLocation:  in.PreferredLocation,
		CurrentCTC:         in.CurrentCTC,
		ExpectedCTC:        in.ExpectedCTC,
		CurrentCompany:     in.CurrentCompany,
		NoticePeriod:       in.NoticePeriod,
		Status:             StatusPending,
		JobTitle:           job.Title,
		CompanyName:        job.CompanyName,
		CreatedAt:          s.clock().UTC(),
	}

	if ext != "" {
		key := "resumes/" + uuid.NewString() + ext
		if _, err := s.Store.Put(ctx, key, util.ContentTypeFor(resume.FileName), bytes.NewReader(resume.Data)); err != nil {
			return Application{}, err
		}
		app.ResumePath = key
		if s.Queue != nil {
			app.ScreeningStatus = ScreeningQueued
		}
	}

	if err := s.Repo.Create(ctx, app); err != nil {
		if app.ResumePath != "" {
			if derr := s.Store.Delete(ctx, app.ResumePath); derr != nil {
				telemetry.Warn("jobapps.resume_cleanup_failed", map[string]any{"key": app.ResumePath, "error": derr.Error()})
			}
		}
		return Application{}, err
	}

	if app.ScreeningStatus == ScreeningQueued {
		s.enqueue(ctx, &app)
	}
	s.attachURL(ctx, &app)
	return app, nil
}

func (s *Service) enqueue(ctx context.Context, app *Application) {
	msg := queue.Message{
		ApplicationID: app.ID,
		RequestID:     telemetry.RequestIDFromContext(ctx),
		EnqueuedAt:    s.clock().UTC().Format(time.RFC3339),
		Version:       queue.MessageVersion,
	}
	if err := s.Queue.Send(ctx, msg); err != nil {
		telemetry.Error("jobapps.enqueue_failed", map[string]any{"application_id": app.ID, "error": err.Error()})
		failed := Screening{Status: ScreeningFailed, Explanation: "Screening could not be queued."}
		if err := s.Repo.SetScreening(ctx, app.ID, failed); err == nil {
			app.ScreeningStatus = failed.Status
			app.AIExplanation = failed.Explanation
		}
	}
}

// List returns applications for HR, optionally limited to one posting.
func (s *Service) List(ctx context.Context, jobID string) ([]Application, error) {
	apps, err := s.Repo.List(ctx, strings.TrimSpace(jobID))
	if err != nil {
		return nil, err
	}
	s.decorate(ctx, apps)
	return apps, nil
}

// ListMine returns the caller's applications.
func (s *Service) ListMine(ctx context.Context, candidateID string) ([]Application, error) {
	apps, err := s.Repo.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	s.decorate(ctx, apps)
	return apps, nil
}

func (s *Service) Get(ctx context.Context, id string) (Application, error) {
	app, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Application{}, err
	}
	apps := []Application{app}
	s.decorate(ctx, apps)
	return apps[0], nil
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	return s.Repo.UpdateStatus(ctx, id, status)
}

// SetScreening stores the async scoring outcome.
func (s *Service) SetScreening(ctx context.Context, id string, result Screening) error {
	return s.Repo.SetScreening(ctx, id, result)
}

// Stats combines application and posting counters.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	stats, err := s.Repo.Stats(ctx)
	if err != nil {
		return Stats{}, err
	}
	counts, err := s.Jobs.Counts(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats.TotalJobs = counts.Total
	stats.ActiveJobs = counts.Active
	return stats, nil
}

// decorate fills posting details the store did not join and attaches resume links.
func (s *Service) decorate(ctx context.Context, apps []Application) {
	seen := map[string]jobs.Job{}
	for i := range apps {
		if apps[i].JobTitle == "" {
			job, ok := seen[apps[i].JobID]
			if !ok {
				if found, err := s.Jobs.Get(ctx, apps[i].JobID); err == nil {
					job = found
					seen[apps[i].JobID] = found
				}
			}
			apps[i].JobTitle = job.Title
			apps[i].CompanyName = job.CompanyName
		}
		s.attachURL(ctx, &apps[i])
	}
}

func (s *Service) attachURL(ctx context.Context, app *Application) {
	if app.ResumePath == "" || s.Store == nil {
		return
	}
	link, err := s.Store.URL(ctx, app.ResumePath, s.URLTTL)
	if err != nil {
		telemetry.Warn("jobapps.resume_url_failed", map[string]any{"application_id": app.ID, "error": err.Error()})
		return
	}
	app.ResumeURL = link
}

func (s *Service) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
