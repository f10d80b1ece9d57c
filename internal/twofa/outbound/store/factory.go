package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"github.com/shandysiswandi/seedotp/internal/pkg/storage"
)

const (
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverObject   = "object"
)

var (
	// ErrUnknownDriver is returned for a driver name New does not know.
	ErrUnknownDriver = errors.New("store: unknown driver")
	// ErrMissingBackend is returned when the selected driver has no client.
	ErrMissingBackend = errors.New("store: backend client is required")
)

// Drivers lists the supported driver names.
func Drivers() []string {
	return []string{DriverFile, DriverRedis, DriverPostgres, DriverObject}
}

// Options carries the backend for every driver; only the selected one is used.
type Options struct {
	FilePath string

	Redis    redis.Cmdable
	RedisKey string

	Postgres PgxConn

	Object    storage.Storage
	Bucket    string
	ObjectKey string

	Instrument instrument.Instrumentation
}

// New builds the store for driver. The postgres driver creates its table.
func New(ctx context.Context, driver string, opts Options) (Store, error) {
	if !lo.Contains(Drivers(), driver) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	ins := opts.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	switch driver {
	case DriverRedis:
		if opts.Redis == nil {
			return nil, fmt.Errorf("%w: redis", ErrMissingBackend)
		}
		return NewRedis(opts.Redis, opts.RedisKey, ins), nil

	case DriverPostgres:
		if opts.Postgres == nil {
			return nil, fmt.Errorf("%w: postgres", ErrMissingBackend)
		}
		pg := NewPostgres(opts.Postgres, ins)
		if err := pg.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate seed table: %w", err)
		}
		return pg, nil

	case DriverObject:
		if opts.Object == nil || opts.Bucket == "" || opts.ObjectKey == "" {
			return nil, fmt.Errorf("%w: object", ErrMissingBackend)
		}
		return NewObject(opts.Object, opts.Bucket, opts.ObjectKey, ins), nil

	default:
		if opts.FilePath == "" {
			return nil, fmt.Errorf("%w: file path", ErrMissingBackend)
		}
		return NewFile(opts.FilePath, ins), nil
	}
}
