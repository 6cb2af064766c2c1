package jobs

import "context"

// Repo defines persistence operations for job postings.
type Repo interface {
	Create(ctx context.Context, job Job) error
	List(ctx context.Context, status string) ([]Job, error)
	Get(ctx context.Context, id string) (Job, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	Counts(ctx context.Context) (Counts, error)
}

// Cascader removes records owned by a posting. Postgres handles this with a foreign key.
type Cascader interface {
	DeleteByJob(ctx context.Context, jobID string) error
}
