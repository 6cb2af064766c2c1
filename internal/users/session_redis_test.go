package users

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisSessionRepo(t *testing.T) {
	client := newFakeRedis()
	repo := NewRedisSessionRepo(client)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	s := Session{ID: "s-1", UserID: "u-1", TokenHash: "abc", ExpiresAt: now.Add(30 * time.Minute), CreatedAt: now}
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("create: %v", err)
	}
	if ttl := client.ttls[sessionKeyPrefix+"abc"]; ttl != 30*time.Minute {
		t.Fatalf("unexpected ttl %s", ttl)
	}

	got, err := repo.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != "s-1" || got.UserID != "u-1" || got.TokenHash != "abc" || !got.ExpiresAt.Equal(s.ExpiresAt) {
		t.Fatalf("unexpected session %+v", got)
	}

	if removed, err := repo.Delete(ctx, "abc"); err != nil || !removed {
		t.Fatalf("expected removal, got %v %v", removed, err)
	}
	if _, err := repo.Get(ctx, "abc"); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRedisSessionRepoRejectsExpired(t *testing.T) {
	repo := NewRedisSessionRepo(newFakeRedis())
	now := time.Now()
	repo.now = func() time.Time { return now }
	if err := repo.Create(context.Background(), Session{ID: "s", TokenHash: "h", ExpiresAt: now.Add(-time.Second)}); err == nil {
		t.Fatalf("expected error for expired session")
	}
}
