package screening

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"talentflow-api/internal/extract"
	"talentflow-api/internal/jobapps"
	"talentflow-api/internal/jobs"
	"talentflow-api/internal/shared/metrics"
	"talentflow-api/internal/shared/storage/object"
	"talentflow-api/internal/shared/telemetry"
)

// ApplicationSource reads job applications and stores screening outcomes.
type ApplicationSource interface {
	Get(ctx context.Context, id string) (jobapps.Application, error)
	SetScreening(ctx context.Context, id string, s jobapps.Screening) error
}

// JobSource reads job postings.
type JobSource interface {
	Get(ctx context.Context, id string) (jobs.Job, error)
}

// Screener scores queued job applications against their posting.
type Screener struct {
	Apps      ApplicationSource
	Jobs      JobSource
	Store     object.ObjectStore
	Extractor TextExtractor
	Scorer    Scorer
}

// NewScreener constructs a Screener.
func NewScreener(apps ApplicationSource, jobSource JobSource, store object.ObjectStore, extractor TextExtractor, scorer Scorer) *Screener {
	return &Screener{Apps: apps, Jobs: jobSource, Store: store, Extractor: extractor, Scorer: scorer}
}

// ProcessApplication screens one application. Scoring outcomes, including failures, are
// stored on the application; only storage and lookup errors are returned.
func (s *Screener) ProcessApplication(ctx context.Context, applicationID string) error {
	fields := map[string]any{
		"application_id": applicationID,
		"request_id":     telemetry.RequestIDFromContext(ctx),
	}

	app, err := s.Apps.Get(ctx, applicationID)
	if err != nil {
		if errors.Is(err, jobapps.ErrNotFound) {
			telemetry.Warn("screening.application_missing", fields)
			metrics.IncScreeningJob("dropped")
			return nil
		}
		return fmt.Errorf("load application: %w", err)
	}

	outcome, err := s.screen(ctx, app)
	if err != nil {
		return err
	}
	if err := s.Apps.SetScreening(ctx, app.ID, outcome); err != nil {
		return fmt.Errorf("store screening: %w", err)
	}

	metrics.IncScreeningJob(outcome.Status)
	fields["screening_status"] = outcome.Status
	if outcome.Score != nil {
		fields["score"] = *outcome.Score
	}
	telemetry.Info("screening.processed", fields)
	return nil
}

func (s *Screener) screen(ctx context.Context, app jobapps.Application) (jobapps.Screening, error) {
	if app.ResumePath == "" {
		return skipped("No resume attached."), nil
	}
	fileType, err := extract.DetectType(app.ResumePath)
	if err != nil {
		return skipped("Unsupported resume format."), nil
	}

	job, err := s.Jobs.Get(ctx, app.JobID)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return skipped("Job posting no longer exists."), nil
		}
		return jobapps.Screening{}, fmt.Errorf("load job: %w", err)
	}

	data, err := s.readResume(ctx, app.ResumePath)
	if err != nil {
		return jobapps.Screening{}, err
	}

	text, err := s.Extractor.Extract(ctx, data, fileType)
	if err != nil {
		return failed("Could not read the resume: " + err.Error()), nil
	}
	if strings.TrimSpace(text) == "" {
		return skipped(ErrEmptyExtraction.Error()), nil
	}

	result, err := s.Scorer.Score(ctx, text, job.Description)
	if err != nil {
		return failed("Screening failed: " + err.Error()), nil
	}
	score := result.Score
	return jobapps.Screening{Status: jobapps.ScreeningCompleted, Score: &score, Explanation: result.Explanation}, nil
}

func (s *Screener) readResume(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.Store.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("open resume: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read resume: %w", err)
	}
	return data, nil
}

func skipped(reason string) jobapps.Screening {
	return jobapps.Screening{Status: jobapps.ScreeningSkipped, Explanation: reason}
}

func failed(reason string) jobapps.Screening {
	return jobapps.Screening{Status: jobapps.ScreeningFailed, Explanation: reason}
}
