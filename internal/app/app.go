package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/seedotp/internal/pkg/clock"
	"github.com/shandysiswandi/seedotp/internal/pkg/config"
	"github.com/shandysiswandi/seedotp/internal/pkg/goroutine"
	"github.com/shandysiswandi/seedotp/internal/pkg/hash"
	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"github.com/shandysiswandi/seedotp/internal/pkg/messaging"
	"github.com/shandysiswandi/seedotp/internal/pkg/otp"
	"github.com/shandysiswandi/seedotp/internal/pkg/router"
	"github.com/shandysiswandi/seedotp/internal/pkg/rsacrypt"
	"github.com/shandysiswandi/seedotp/internal/pkg/storage"
	"github.com/shandysiswandi/seedotp/internal/pkg/uid"
	"github.com/shandysiswandi/seedotp/internal/pkg/validator"
	"github.com/shandysiswandi/seedotp/internal/twofa/outbound/store"
	"go.uber.org/atomic"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	uuid      uid.StringID
	totp      otp.OTP
	decrypter *rsacrypt.OAEP

	// resources, only the ones the seed store driver needs are set
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	storage   storage.Storage
	seedStore store.Store
	messaging messaging.Messaging

	// server
	router     *router.Router
	httpServer *http.Server
	ready      *atomic.Bool

	// released in reverse registration order on Stop
	closers []closer
}

type closer struct {
	name string
	fn   func(context.Context) error
}

func (a *App) onClose(name string, fn func(context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
		ready:  atomic.NewBool(false),
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initDecrypter()
	app.initSeedStore()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()

	return app
}
