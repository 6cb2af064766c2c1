package screening

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"talentflow-api/internal/shared/util"
)

// MaxBatchFiles caps a batch request. Files past the cap are ignored.
const MaxBatchFiles = 5

// BatchFile is one entry of a batch upload. ReadErr is set when the upload could not be read.
type BatchFile struct {
	FileName string
	Data     []byte
	ReadErr  error
}

// BatchResult is the per-file outcome, in input order.
type BatchResult struct {
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
	Filename    string  `json:"filename"`
}

// ScoreBatch scores each file in isolation. One file failing never affects the others.
func (s *Service) ScoreBatch(ctx context.Context, jobDescription string, files []BatchFile) []BatchResult {
	if len(files) > MaxBatchFiles {
		files = files[:MaxBatchFiles]
	}

	results := make([]BatchResult, len(files))
	var g errgroup.Group
	g.SetLimit(MaxBatchFiles)
	for i, f := range files {
		g.Go(func() error {
			results[i] = s.scoreOne(ctx, jobDescription, f)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *Service) scoreOne(ctx context.Context, jobDescription string, f BatchFile) BatchResult {
	out := BatchResult{Filename: f.FileName}
	if f.ReadErr != nil {
		out.Explanation = "Error processing file: " + f.ReadErr.Error()
		return out
	}

	up := Upload{FileName: f.FileName, Data: f.Data, CandidateName: util.Stem(f.FileName)}
	result, err := s.ScoreResume(ctx, jobDescription, up)
	switch {
	case errors.Is(err, ErrEmptyExtraction):
		out.Explanation = "Could not extract text from this file."
	case err != nil:
		out.Explanation = "Error processing file: " + err.Error()
	default:
		out.Score = result.Score
		out.Explanation = result.Explanation
	}
	return out
}
