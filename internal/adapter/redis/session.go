package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Temutjin2k/safebike-web/internal/domain/types"
	wrap "github.com/Temutjin2k/safebike-web/pkg/logger/wrapper"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// SessionStorage keeps every session in one hash, session:<key>, whose
// fields are the slot names. Each write refreshes the hash TTL.
type SessionStorage struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewSessionStorage(client redis.Cmdable, ttl time.Duration) *SessionStorage {
	return &SessionStorage{
		client: client,
		ttl:    ttl,
	}
}

func (s *SessionStorage) Get(ctx context.Context, key, slot string) (string, error) {
	const op = "SessionStorage.Get"

	value, err := s.client.HGet(ctx, keyPrefix+key, slot).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", types.ErrSessionNotFound
		}
		ctx = wrap.WithAction(ctx, types.ActionSessionStorageFailed)
		return "", wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	return value, nil
}

func (s *SessionStorage) Set(ctx context.Context, key, slot, value string) error {
	const op = "SessionStorage.Set"

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, keyPrefix+key, slot, value)
		if s.ttl > 0 {
			pipe.Expire(ctx, keyPrefix+key, s.ttl)
		}
		return nil
	})
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionSessionStorageFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	return nil
}

func (s *SessionStorage) Delete(ctx context.Context, key string, slots ...string) error {
	const op = "SessionStorage.Delete"
	if len(slots) == 0 {
		return nil
	}

	if err := s.client.HDel(ctx, keyPrefix+key, slots...).Err(); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionSessionStorageFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	return nil
}
