package goroutine_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shandysiswandi/seedotp/internal/pkg/goroutine"
	"github.com/stretchr/testify/assert"
)

func TestManager_CollectsErrors(t *testing.T) {
	t.Parallel()

	m := goroutine.NewManager(4)
	errBoom := errors.New("boom")

	var ran atomic.Int32
	for i := range 3 {
		assert.True(t, m.Go(context.Background(), func(context.Context) error {
			ran.Add(1)
			if i == 0 {
				return errBoom
			}
			return nil
		}))
	}

	err := m.Wait()
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, int32(3), ran.Load())

	assert.False(t, m.Go(context.Background(), func(context.Context) error { return nil }))
}

func TestManager_DetachesCancellation(t *testing.T) {
	t.Parallel()

	type key struct{}
	m := goroutine.NewManager(1)

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), key{}, "v"))
	release := make(chan struct{})

	var sawErr error
	var sawVal any
	m.Go(ctx, func(ctx context.Context) error {
		<-release
		sawErr = ctx.Err()
		sawVal = ctx.Value(key{})
		return nil
	})

	cancel()
	close(release)

	assert.NoError(t, m.Wait())
	assert.NoError(t, sawErr)
	assert.Equal(t, "v", sawVal)
}

func TestManager_LimitAndPanic(t *testing.T) {
	t.Parallel()

	m := goroutine.NewManager(1)
	release := make(chan struct{})

	assert.True(t, m.Go(context.Background(), func(context.Context) error {
		<-release
		panic("boom")
	}))
	assert.False(t, m.Go(context.Background(), func(context.Context) error { return nil }))

	close(release)
	assert.ErrorIs(t, m.Wait(), goroutine.ErrPanicked)

	var nilManager *goroutine.Manager
	assert.False(t, nilManager.Go(context.Background(), nil))
	assert.NoError(t, nilManager.Wait())
}

func TestManager_TaskTimeout(t *testing.T) {
	t.Parallel()

	m := goroutine.NewManager(1, goroutine.WithTaskTimeout(20*time.Millisecond))

	assert.True(t, m.Go(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))

	assert.ErrorIs(t, m.Wait(), context.DeadlineExceeded)
}
