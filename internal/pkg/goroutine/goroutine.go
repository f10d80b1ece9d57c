// Package goroutine runs fire-and-forget work with a concurrency cap and
// collects its errors for shutdown.
package goroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/shandysiswandi/seedotp/internal/pkg/stacktrace"
)

// DefaultMaxGoroutine is multiplied by NumCPU when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 100

// ErrPanicked wraps the value recovered from a task that panicked.
var ErrPanicked = errors.New("goroutine: task panicked")

// Option configures a Manager.
type Option func(*Manager)

// WithTaskTimeout bounds every task's context. Zero means no bound.
func WithTaskTimeout(d time.Duration) Option {
	return func(m *Manager) { m.timeout = d }
}

// Manager runs functions in goroutines with a configurable concurrency limit.
type Manager struct {
	sema    chan struct{}
	timeout time.Duration
	wg      sync.WaitGroup

	// guards closed; Go holds it shared so Wait cannot close mid-schedule
	stateMu sync.RWMutex
	closed  bool

	errMu sync.Mutex
	errs  []error
}

// NewManager creates a Manager running at most maxGoroutine tasks at once.
func NewManager(maxGoroutine int, opts ...Option) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = runtime.NumCPU() * DefaultMaxGoroutine
	}

	m := &Manager{sema: make(chan struct{}, maxGoroutine)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Go schedules f if capacity is available and reports whether it was scheduled.
//
// f receives a context that keeps pCtx values (correlation id, span) but not
// its cancellation, so work started by a request outlives the request.
func (g *Manager) Go(pCtx context.Context, f func(ctx context.Context) error) bool {
	if g == nil {
		return false
	}

	g.stateMu.RLock()
	defer g.stateMu.RUnlock()

	if g.closed {
		slog.WarnContext(pCtx, "goroutine manager is closed, skipping new goroutine")
		return false
	}

	select {
	case g.sema <- struct{}{}:
	default:
		slog.WarnContext(pCtx, "maximum goroutine limit reached, failed to start new goroutine")
		return false
	}

	ctx := context.WithoutCancel(pCtx)
	g.wg.Go(func() {
		defer func() { <-g.sema }()
		if err := g.run(ctx, f); err != nil {
			g.errMu.Lock()
			g.errs = append(g.errs, err)
			g.errMu.Unlock()
		}
	})

	return true
}

func (g *Manager) run(ctx context.Context, f func(ctx context.Context) error) (err error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	defer func() {
		rvr := recover()
		if rvr == nil {
			return
		}

		stack := debug.Stack()
		var where any = string(stack)
		if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
			where = paths
		}
		slog.ErrorContext(ctx, "panic occurred in goroutine", "panic", rvr, "stack", where)
		err = fmt.Errorf("%w: %v", ErrPanicked, rvr)
	}()

	return f(ctx)
}

// Wait stops accepting new work, blocks until scheduled goroutines finish and
// returns the collected errors.
func (g *Manager) Wait() error {
	if g == nil {
		return nil
	}

	g.stateMu.Lock()
	g.closed = true
	g.stateMu.Unlock()

	g.wg.Wait()

	g.errMu.Lock()
	defer g.errMu.Unlock()
	return errors.Join(g.errs...)
}
