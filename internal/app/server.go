package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Start serves HTTP on the configured address. The returned channel is closed
// once a termination signal arrives and the drain period has elapsed.
func (a *App) Start() <-chan struct{} {
	done := make(chan struct{})

	go func() {
		slog.Info("http server listening", "address", a.httpServer.Addr)
		if err := a.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to listen and serve http server", "error", err)
			os.Exit(1)
		}
	}()
	a.ready.Store(true)

	go func() {
		defer close(done)

		sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
		defer stop()
		<-sigCtx.Done()

		a.ready.Store(false)
		a.drain()
		slog.Info("termination signal received, shutting down")
	}()

	return done
}

// Serve runs the HTTP server on l until Stop is called.
func (a *App) Serve(l net.Listener) <-chan error {
	errs := make(chan error, 1)

	a.ready.Store(true)
	go func() {
		defer close(errs)
		errs <- a.httpServer.Serve(l)
	}()

	return errs
}

// drain keeps serving while /health reports 503 so load balancers stop
// routing new requests before the listener closes.
func (a *App) drain() {
	d := a.config.GetSecond("app.server.drain_seconds")
	if d <= 0 {
		return
	}

	slog.Info("draining http server", "duration", d.String())
	t := time.NewTimer(d)
	defer t.Stop()
	<-t.C
}

// Stop shuts the server down, waits for background publishes and releases
// resources in reverse order of acquisition.
func (a *App) Stop(ctx context.Context) {
	a.ready.Store(false)
	if a.cancel != nil {
		a.cancel()
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
	}

	slog.InfoContext(ctx, "waiting for background goroutines")
	if err := a.goroutine.Wait(); err != nil {
		slog.ErrorContext(ctx, "error from goroutines executions", "error", err)
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", c.name, "error", err)
		}
	}

	slog.InfoContext(ctx, "application stopped")
}
