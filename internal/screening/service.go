// Package screening scores uploaded resumes against job descriptions and records the outcome.
package screening

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"talentflow-api/internal/candidates"
	"talentflow-api/internal/extract"
	"talentflow-api/internal/scoring"
	"talentflow-api/internal/shared/storage/object"
	"talentflow-api/internal/shared/telemetry"
	"talentflow-api/internal/shared/util"
)

// ErrEmptyExtraction means the document produced no usable text.
var ErrEmptyExtraction = errors.New("Could not extract any text from the resume.")

// TextExtractor converts document bytes into text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, declaredType string) (string, error)
}

// Scorer rates resume text against a job description.
type Scorer interface {
	Score(ctx context.Context, resumeText, jobDescription string) (scoring.Result, error)
}

// ApplicationRecorder persists scored applications.
type ApplicationRecorder interface {
	Create(ctx context.Context, app candidates.Application) (candidates.Application, error)
}

// Upload is one resume submitted for scoring.
type Upload struct {
	FileName      string
	Data          []byte
	CandidateName string
}

// Service runs the synchronous scoring flows.
type Service struct {
	Extractor TextExtractor
	Scorer    Scorer
	Store     object.ObjectStore
	Apps      ApplicationRecorder
}

// NewService constructs a Service.
func NewService(extractor TextExtractor, scorer Scorer, store object.ObjectStore, apps ApplicationRecorder) *Service {
	return &Service{Extractor: extractor, Scorer: scorer, Store: store, Apps: apps}
}

// ScoreResume extracts, scores, stores and records a single resume.
func (s *Service) ScoreResume(ctx context.Context, jobDescription string, up Upload) (scoring.Result, error) {
	text, err := s.extractText(ctx, up)
	if err != nil {
		return scoring.Result{}, err
	}

	result, err := s.Scorer.Score(ctx, text, jobDescription)
	if err != nil {
		return scoring.Result{}, err
	}

	if err := s.record(ctx, up, result); err != nil {
		return scoring.Result{}, err
	}
	return result, nil
}

func (s *Service) extractText(ctx context.Context, up Upload) (string, error) {
	fileType, err := extract.DetectType(up.FileName)
	if err != nil {
		return "", err
	}
	text, err := s.Extractor.Extract(ctx, up.Data, fileType)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyExtraction
	}
	return text, nil
}

// record stores the resume bytes and creates the pending application.
func (s *Service) record(ctx context.Context, up Upload, result scoring.Result) error {
	key := "resumes/" + uuid.NewString() + filepath.Ext(up.FileName)
	size, err := s.Store.Put(ctx, key, util.ContentTypeFor(up.FileName), bytes.NewReader(up.Data))
	if err != nil {
		return err
	}

	app, err := s.Apps.Create(ctx, candidates.Application{
		CandidateName: up.CandidateName,
		Score:         result.Score,
		MatchDetails:  result.Explanation,
		ResumePath:    key,
	})
	if err != nil {
		return err
	}
	telemetry.Info("screening.recorded", map[string]any{
		"application_id": app.ID,
		"resume_bytes":   size,
		"score":          result.Score,
	})
	return nil
}
