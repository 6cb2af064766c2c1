package candidates

import "context"

// Repo defines persistence operations for scored applications.
type Repo interface {
	Create(ctx context.Context, app Application) error
	List(ctx context.Context) ([]Application, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Stats(ctx context.Context) (Stats, error)
}
