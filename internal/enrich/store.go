package enrich

import (
	"context"
	"fmt"
	"time"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/generation"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/redisx"
	"github.com/redis/go-redis/v9"
)

// Store keeps generation task state shared by the API and the worker.
type Store interface {
	Put(ctx context.Context, t generation.Task) error
	Get(ctx context.Context, id generation.TaskID) (generation.Task, bool, error)
	// Claim returns false when the task was already taken by a worker.
	Claim(ctx context.Context, id generation.TaskID) (bool, error)
	// Release drops a claim so a redelivered job is processed again.
	Release(ctx context.Context, id generation.TaskID) error
}

type RedisStore struct {
	Redis   redis.Cmdable
	TTL     time.Duration
	Service string
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) ttl() time.Duration {
	if s.TTL <= 0 {
		return redisx.TTLTask
	}
	return s.TTL
}

func (s *RedisStore) Put(ctx context.Context, t generation.Task) error {
	if err := t.Check(); err != nil {
		return err
	}
	return redisx.SetJSON(ctx, s.Redis, fmt.Sprintf(redisx.KeyTask, t.ID), t, s.ttl())
}

func (s *RedisStore) Get(ctx context.Context, id generation.TaskID) (generation.Task, bool, error) {
	var t generation.Task
	ok, err := redisx.GetJSON(ctx, s.Redis, fmt.Sprintf(redisx.KeyTask, id), &t)
	return t, ok, err
}

func (s *RedisStore) Claim(ctx context.Context, id generation.TaskID) (bool, error) {
	return redisx.Claim(ctx, s.Redis, fmt.Sprintf(redisx.KeyDedup, s.Service, id), redisx.TTLDedup)
}

func (s *RedisStore) Release(ctx context.Context, id generation.TaskID) error {
	return s.Redis.Del(ctx, fmt.Sprintf(redisx.KeyDedup, s.Service, id)).Err()
}
