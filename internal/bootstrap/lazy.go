package bootstrap

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"talentflow-api/internal/shared/config"
)

// Lazy builds an App on first use and keeps it for the life of the process.
// Concurrent callers share one build; a failed build is retried on the next call.
type Lazy struct {
	load  func() config.Config
	build func(context.Context, config.Config) (*App, error)

	group singleflight.Group
	mu    sync.Mutex
	app   *App
}

// NewLazy returns a Lazy that reads configuration with load.
func NewLazy(load func() config.Config) *Lazy {
	return &Lazy{load: load, build: Build}
}

// Get returns the shared App, building it if needed. Cancellation of ctx
// does not abort a build other callers are waiting on.
func (l *Lazy) Get(ctx context.Context) (*App, error) {
	l.mu.Lock()
	app := l.app
	l.mu.Unlock()
	if app != nil {
		return app, nil
	}

	v, err, _ := l.group.Do("app", func() (any, error) {
		l.mu.Lock()
		existing := l.app
		l.mu.Unlock()
		if existing != nil {
			return existing, nil
		}
		built, err := l.build(context.WithoutCancel(ctx), l.load())
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.app = built
		l.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*App), nil
}
