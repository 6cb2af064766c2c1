package jobapps

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
	for _, existing := range r.data {
		if existing.JobID == app.JobID && existing.CandidateID == app.CandidateID {
			return ErrAlreadyApplied
		}
	}
	r.data[app.ID] = app
	return nil
}

func (r *MemoryRepo) Exists(ctx context.Context, jobID, candidateID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, app := range r.data {
		if app.JobID == jobID && app.CandidateID == candidateID {
			return true, nil
		}
	}
	return false, nil
}

// List returns applications newest first, optionally limited to one posting.
func (r *MemoryRepo) List(ctx context.Context, jobID string) ([]Application, error) {
	return r.filter(ctx, func(app Application) bool {
		return jobID == "" || app.JobID == jobID
	})
}

func (r *MemoryRepo) ListByCandidate(ctx context.Context, candidateID string) ([]Application, error) {
	return r.filter(ctx, func(app Application) bool {
		return app.CandidateID == candidateID
	})
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.data[id]
	if !ok {
		return Application{}, ErrNotFound
	}
	return app, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.update(ctx, id, func(app *Application) {
		app.Status = status
	})
}

func (r *MemoryRepo) SetScreening(ctx context.Context, id string, s Screening) error {
	return r.update(ctx, id, func(app *Application) {
		app.ScreeningStatus = s.Status
		app.AIScore = s.Score
		app.AIExplanation = s.Explanation
	})
}

func (r *MemoryRepo) Stats(ctx context.Context) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var stats Stats
	for _, app := range r.data {
		stats.TotalApplications++
		switch app.Status {
		case StatusPending:
			stats.Pending++
		case StatusReviewed:
			stats.Reviewed++
		case StatusShortlisted:
			stats.Shortlisted++
		case StatusRejected:
			stats.Rejected++
		case StatusHired:
			stats.Hired++
		}
	}
	return stats, nil
}

// DeleteByJob drops every application to a posting.
func (r *MemoryRepo) DeleteByJob(ctx context.Context, jobID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, app := range r.data {
		if app.JobID == jobID {
			delete(r.data, id)
		}
	}
	return nil
}

func (r *MemoryRepo) filter(ctx context.Context, keep func(Application) bool) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Application, 0, len(r.data))
	for _, app := range r.data {
		if keep(app) {
			out = append(out, app)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) update(ctx context.Context, id string, fn func(*Application)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	fn(&app)
	r.data[id] = app
	return nil
}
