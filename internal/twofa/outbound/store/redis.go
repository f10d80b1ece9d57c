package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"github.com/shandysiswandi/seedotp/internal/twofa/entity"
)

// DefaultRedisKey is used when no key is configured.
const DefaultRedisKey = "seedotp:seed"

// Redis keeps the seed under a single key with no expiry.
type Redis struct {
	client redis.Cmdable
	key    string
	ins    instrument.Instrumentation
}

func NewRedis(client redis.Cmdable, key string, ins instrument.Instrumentation) *Redis {
	if key == "" {
		key = DefaultRedisKey
	}
	return &Redis{client: client, key: key, ins: ins}
}

func (r *Redis) Write(ctx context.Context, seed entity.HexSeed) (err error) {
	ctx, span := startSpan(ctx, r.ins, "Redis.Write")
	defer func() { endSpan(span, err) }()

	err = r.client.Set(ctx, r.key, string(seed), 0).Err()
	return err
}

func (r *Redis) Read(ctx context.Context) (_ entity.HexSeed, err error) {
	ctx, span := startSpan(ctx, r.ins, "Redis.Read")
	defer func() { endSpan(span, err) }()

	raw, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", goerror.ErrNotFound
	}
	if err != nil {
		return "", err
	}

	return parseStored(raw)
}

func (r *Redis) Exists(ctx context.Context) (_ bool, err error) {
	ctx, span := startSpan(ctx, r.ins, "Redis.Exists")
	defer func() { endSpan(span, err) }()

	n, err := r.client.Exists(ctx, r.key).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}
