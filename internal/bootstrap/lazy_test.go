package bootstrap

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentflow-api/internal/shared/config"
)

func TestLazyRetriesAfterFailedBuild(t *testing.T) {
	var calls int32
	l := NewLazy(func() config.Config { return config.Config{} })
	l.build = func(context.Context, config.Config) (*App, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, errors.New("database unreachable")
		}
		return &App{}, nil
	}

	_, err := l.Get(context.Background())
	require.Error(t, err)

	first, err := l.Get(context.Background())
	require.NoError(t, err)
	second, err := l.Get(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestLazySharesConcurrentBuild(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	l := NewLazy(func() config.Config { return config.Config{} })
	l.build = func(context.Context, config.Config) (*App, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return &App{}, nil
	}

	var wg sync.WaitGroup
	apps := make([]*App, 8)
	for i := range apps {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			app, err := l.Get(context.Background())
			assert.NoError(t, err)
			apps[i] = app
		}(i)
	}
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	for _, app := range apps {
		assert.NotNil(t, app)
	}
	assert.Same(t, apps[0], apps[len(apps)-1])
}
