package jobapps

import "context"

// Repo defines persistence operations for job applications.
type Repo interface {
	Create(ctx context.Context, app Application) error
	Exists(ctx context.Context, jobID, candidateID string) (bool, error)
	List(ctx context.Context, jobID string) ([]Application, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]Application, error)
	Get(ctx context.Context, id string) (Application, error)
	UpdateStatus(ctx context.Context, id, status string) error
	SetScreening(ctx context.Context, id string, s Screening) error
	Stats(ctx context.Context) (Stats, error)
}
