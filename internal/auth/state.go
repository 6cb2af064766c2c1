package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateStore keeps the OAuth state parameter and its PKCE verifier between
// the redirect to Google and the callback. Take is single use.
type StateStore interface {
	Save(ctx context.Context, state, verifier string, ttl time.Duration) error
	Take(ctx context.Context, state string) (verifier string, ok bool, err error)
}

type pendingState struct {
	verifier string
	expires  time.Time
}

// MemoryStateStore holds states in process. Expired entries are swept on Save.
type MemoryStateStore struct {
	mu    sync.Mutex
	items map[string]pendingState
	now   func() time.Time
}

// NewMemoryStateStore returns an empty MemoryStateStore.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{items: make(map[string]pendingState), now: time.Now}
}

func (m *MemoryStateStore) Save(_ context.Context, state, verifier string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for k, v := range m.items {
		if now.After(v.expires) {
			delete(m.items, k)
		}
	}
	m.items[state] = pendingState{verifier: verifier, expires: now.Add(ttl)}
	return nil
}

func (m *MemoryStateStore) Take(_ context.Context, state string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[state]
	if !ok {
		return "", false, nil
	}
	delete(m.items, state)
	if m.now().After(p.expires) {
		return "", false, nil
	}
	return p.verifier, true, nil
}

const stateKeyPrefix = "talentflow:oauth_state:"

type redisStateAPI interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	GetDel(ctx context.Context, key string) *redis.StringCmd
}

// RedisStateStore shares OAuth state across instances. Redis expiry enforces the TTL.
type RedisStateStore struct {
	client redisStateAPI
}

// NewRedisStateStore wraps a go-redis client.
func NewRedisStateStore(client redisStateAPI) *RedisStateStore {
	return &RedisStateStore{client: client}
}

func (r *RedisStateStore) Save(ctx context.Context, state, verifier string, ttl time.Duration) error {
	return r.client.Set(ctx, stateKeyPrefix+state, verifier, ttl).Err()
}

func (r *RedisStateStore) Take(ctx context.Context, state string) (string, bool, error) {
	verifier, err := r.client.GetDel(ctx, stateKeyPrefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return verifier, true, nil
}
