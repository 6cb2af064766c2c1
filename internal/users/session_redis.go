package users

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "talentflow:session:"

// redisAPI is the subset of the redis client the session store needs.
type redisAPI interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisSessionRepo stores sessions in Redis with the session expiry as TTL.
type RedisSessionRepo struct {
	client redisAPI
	now    func() time.Time
}

// NewRedisSessionRepo wraps a redis client.
func NewRedisSessionRepo(client redisAPI) *RedisSessionRepo {
	return &RedisSessionRepo{client: client, now: time.Now}
}

type redisSession struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r *RedisSessionRepo) Create(ctx context.Context, s Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	payload, err := json.Marshal(redisSession{ID: s.ID, UserID: s.UserID, ExpiresAt: s.ExpiresAt, CreatedAt: s.CreatedAt})
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKeyPrefix+s.TokenHash, payload, ttl).Err()
}

func (r *RedisSessionRepo) Get(ctx context.Context, tokenHash string) (Session, error) {
	raw, err := r.client.Get(ctx, sessionKeyPrefix+tokenHash).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, err
	}
	var stored redisSession
	if err := json.Unmarshal(raw, &stored); err != nil {
		return Session{}, err
	}
	return Session{
		ID:        stored.ID,
		UserID:    stored.UserID,
		TokenHash: tokenHash,
		ExpiresAt: stored.ExpiresAt,
		CreatedAt: stored.CreatedAt,
	}, nil
}

func (r *RedisSessionRepo) Delete(ctx context.Context, tokenHash string) (bool, error) {
	n, err := r.client.Del(ctx, sessionKeyPrefix+tokenHash).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
