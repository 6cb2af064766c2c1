package candidates

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Application
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Application)}
}

func (r *MemoryRepo) Create(ctx context.Context, app Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[app.ID] = app
	return nil
}

// List returns applications newest first.
func (r *MemoryRepo) List(ctx context.Context) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Application, 0, len(r.data))
	for _, app := range r.data {
		out = append(out, app)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	app.Status = status
	r.data[id] = app
	return nil
}

func (r *MemoryRepo) Stats(ctx context.Context) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		stats Stats
		sum   float64
	)
	for _, app := range r.data {
		stats.Total++
		sum += app.Score
		switch app.Status {
		case StatusShortlisted:
			stats.Shortlisted++
		case StatusRejected:
			stats.Rejected++
		case StatusPending:
			stats.Pending++
		}
	}
	if stats.Total > 0 {
		stats.AvgScore = int(sum / float64(stats.Total))
	}
	return stats, nil
}
