package store

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/redis/go-redis/v9"

	authflow "github.com/hakbeom/go-authflow"
)

// RedisStore adapts a go-redis client to the TokenStore contract. Key misses
// (redis.Nil) translate to authflow.ErrRecordNotFound; every other failure
// surfaces as a transient infrastructure error so callers never mistake an
// unavailable store for an absent record.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps an already-configured client. The client's lifecycle
// belongs to the caller; construct it once at process start and pass it in.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "token store set failed").
			WithTextCode(authflow.TextCodeStoreUnavailable)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if goerrors.Is(err, redis.Nil) {
			return "", authflow.ErrRecordNotFound
		}
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "token store get failed").
			WithTextCode(authflow.TextCodeStoreUnavailable)
	}
	return value, nil
}

// GetDel uses the server-side GETDEL so consumption is atomic: of two
// racing callers exactly one receives the value.
func (s *RedisStore) GetDel(ctx context.Context, key string) (string, error) {
	value, err := s.client.GetDel(ctx, key).Result()
	if err != nil {
		if goerrors.Is(err, redis.Nil) {
			return "", authflow.ErrRecordNotFound
		}
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "token store getdel failed").
			WithTextCode(authflow.TextCodeStoreUnavailable)
	}
	return value, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "token store delete failed").
			WithTextCode(authflow.TextCodeStoreUnavailable)
	}
	return nil
}

var _ authflow.TokenStore = (*RedisStore)(nil)
