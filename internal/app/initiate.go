package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/nsqio/go-nsq"
	libOTP "github.com/pquerna/otp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/segmentio/kafka-go"
	"github.com/sethvargo/go-retry"
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
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

const pingMaxRetries = 5

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	if tz := cfg.GetString("app.tz"); tz != "" {
		//nolint:errcheck,gosec // ignore error
		os.Setenv("TZ", tz)
	}

	a.config = cfg
	a.onClose("Config", func(context.Context) error { return cfg.Close() })
}

func (a *App) initInstrument() {
	ins, err := instrument.New(a.ctx, &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		LogLevel:         a.config.GetString("instrument.log_level"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
	a.onClose("Instrument", ins.Shutdown)
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(
		a.config.GetInt("app.server.max_goroutine"),
		goroutine.WithTaskTimeout(a.config.GetSecond("app.server.task_timeout_seconds")),
	)

	hmac, err := hash.NewHMACSHA256(a.config.GetString("hash.hmac.secret"))
	if err != nil {
		slog.Error("failed to init hmac, set hash.hmac.secret", "error", err)
		os.Exit(1)
	}
	a.hmac = hmac

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	a.totp = otp.NewTOTP(
		a.config.GetUint("twofa.totp.period"),
		a.config.GetUint("twofa.totp.skew"),
		libOTP.DigitsSix,
	)
}

func (a *App) initDecrypter() {
	var loader rsacrypt.KeyLoader
	if pemData := a.config.GetBinary("twofa.private_key.pem"); len(pemData) > 0 {
		static, err := rsacrypt.NewStaticKeyLoader(pemData)
		if err != nil {
			slog.Error("failed to parse inline private key", "error", err)
			os.Exit(1)
		}
		loader = static
	} else {
		path := a.str("twofa.private_key.path")
		if _, err := os.Stat(path); err != nil {
			slog.Warn("private key file is not readable yet, decrypt requests will fail until it is", "path", path, "error", err)
		}
		loader = rsacrypt.NewFileKeyLoader(path)
	}

	oaep, err := rsacrypt.NewOAEP(loader, a.config.GetString("twofa.private_key.oaep_hash"))
	if err != nil {
		slog.Error("failed to init rsa oaep decrypter", "error", err)
		os.Exit(1)
	}

	a.decrypter = oaep
}

func (a *App) initSeedStore() {
	driver := strings.ToLower(a.str("seed_store.driver"))
	if driver == "" {
		driver = store.DriverFile
	}

	opts := store.Options{
		FilePath:   a.str("seed_store.file.path"),
		RedisKey:   a.str("seed_store.redis.key"),
		Bucket:     a.str("seed_store.object.bucket"),
		ObjectKey:  a.str("seed_store.object.key"),
		Instrument: a.ins,
	}

	switch driver {
	case store.DriverRedis:
		a.initCache()
		opts.Redis = a.cacheConn
	case store.DriverPostgres:
		a.initDatabase()
		opts.Postgres = a.dbConn
	case store.DriverObject:
		a.initStorage()
		opts.Object = a.storage
	}

	seedStore, err := store.New(a.ctx, driver, opts)
	if err != nil {
		slog.Error("failed to init seed store", "driver", driver, "error", err)
		os.Exit(1)
	}

	slog.Info("seed store ready", "driver", driver)
	a.seedStore = seedStore
}

func (a *App) initDatabase() {
	config, err := pgxpool.ParseConfig(a.config.GetString("database.url"))
	if err != nil {
		slog.Error("failed to parse DB connection string.", "error", err)
		os.Exit(1)
	}

	config.MaxConns = a.config.GetInt32("database.pool.max_conns")
	config.MinConns = a.config.GetInt32("database.pool.min_conns")
	config.MaxConnLifetime = a.config.GetSecond("database.pool.max_conn_lifetime_seconds")
	config.MaxConnIdleTime = a.config.GetSecond("database.pool.max_conn_idle_seconds")
	config.HealthCheckPeriod = a.config.GetSecond("database.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(a.ctx, config)
	if err != nil {
		slog.Error("failed to create DB connection pool", "error", err)
		os.Exit(1)
	}

	if err := a.ping("Database", pool.Ping); err != nil {
		slog.Error("failed to ping DB", "error", err)
		os.Exit(1)
	}

	a.dbConn = pool
	a.onClose("Database", func(context.Context) error {
		pool.Close()
		return nil
	})
}

func (a *App) initCache() {
	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	if err := a.ping("Redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() }); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
	a.onClose("Redis", func(context.Context) error { return rdb.Close() })
}

// str reads a trimmed string config value.
func (a *App) str(key string) string {
	return strings.TrimSpace(a.config.GetString(key))
}

// ping retries fn with a capped Fibonacci backoff.
func (a *App) ping(name string, fn func(ctx context.Context) error) error {
	b := retry.NewFibonacci(200 * time.Millisecond)
	b = retry.WithCappedDuration(5*time.Second, b)
	b = retry.WithMaxRetries(pingMaxRetries, b)

	return retry.Do(a.ctx, b, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := fn(pingCtx); err != nil {
			slog.WarnContext(ctx, "ping failed, retrying", "name", name, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (a *App) googleClientOptions(prefix string, scopes ...string) []option.ClientOption {
	opts := []option.ClientOption{}
	if a.config.GetBool(prefix + ".without_auth") {
		opts = append(opts, option.WithoutAuthentication())
	}
	if v := a.str(prefix + ".credentials_file"); v != "" {
		// #nosec G304 -- path is from trusted config file.
		credsJSON, err := os.ReadFile(v)
		if err != nil {
			slog.Error("failed to read google credentials file", "prefix", prefix, "error", err)
			os.Exit(1)
		}
		creds, err := google.CredentialsFromJSON(a.ctx, credsJSON, scopes...)
		if err != nil {
			slog.Error("failed to parse google credentials file", "prefix", prefix, "error", err)
			os.Exit(1)
		}
		opts = append(opts, option.WithCredentials(creds))
	}
	if v := a.config.GetBinary(prefix + ".credentials_json"); len(v) > 0 {
		creds, err := google.CredentialsFromJSON(a.ctx, v, scopes...)
		if err != nil {
			slog.Error("failed to parse google credentials json", "prefix", prefix, "error", err)
			os.Exit(1)
		}
		opts = append(opts, option.WithCredentials(creds))
	}
	if v := a.str(prefix + ".endpoint"); v != "" {
		opts = append(opts, option.WithEndpoint(v))
	}
	if v := a.str(prefix + ".user_agent"); v != "" {
		opts = append(opts, option.WithUserAgent(v))
	}
	return opts
}

func (a *App) initStorage() {
	driver := a.str("storage.driver")

	var gcsOptions []option.ClientOption
	if driver == storage.DriverGCS {
		gcsOptions = a.googleClientOptions("storage.gcs", gcs.ScopeFullControl)
	}

	stg, err := storage.NewFromDriver(a.ctx, driver, storage.FactoryOptions{
		S3:    a.s3Credentials("storage.s3"),
		GCS:   storage.GCSOptions{ClientOptions: gcsOptions},
		MinIO: a.minioOptions(),
	})
	if err != nil {
		slog.Error("failed to init storage", "error", err)
		os.Exit(1)
	}

	a.storage = stg
	a.onClose("Storage", func(context.Context) error { return stg.Close() })
}

func (a *App) s3Credentials(prefix string) storage.S3Options {
	return storage.S3Options{
		Region:       a.str(prefix + ".region"),
		Endpoint:     a.str(prefix + ".endpoint"),
		AccessKey:    a.str(prefix + ".access_key"),
		SecretKey:    a.str(prefix + ".secret_key"),
		SessionToken: a.str(prefix + ".session_token"),
		UsePathStyle: a.config.GetBool(prefix + ".use_path_style"),
	}
}

// minioOptions shares the S3 credential keys; MinIO uses TLS instead of path style.
func (a *App) minioOptions() storage.MinIOOptions {
	creds := a.s3Credentials("storage.minio")
	return storage.MinIOOptions{
		Region:       creds.Region,
		Endpoint:     creds.Endpoint,
		AccessKey:    creds.AccessKey,
		SecretKey:    creds.SecretKey,
		SessionToken: creds.SessionToken,
		UseSSL:       a.config.GetBool("storage.minio.use_ssl"),
	}
}

func (a *App) initMessaging() {
	driver := messaging.DriverNoop
	if a.config.GetBool("messaging.enabled") {
		driver = a.config.GetString("messaging.driver")
	}

	var pubsubOptions []option.ClientOption
	if driver == messaging.DriverGooglePubSub {
		pubsubOptions = a.googleClientOptions("messaging.pubsub", "https://www.googleapis.com/auth/pubsub")
	}

	client, err := messaging.NewFromDriver(a.ctx, driver, messaging.FactoryOptions{
		NSQ: messaging.NSQConfig{
			ProducerAddr:   a.config.GetString("messaging.nsq.producer_addr"),
			ProducerConfig: a.nsqProducerConfig(),
		},
		NATS: messaging.NATSConfig{
			URL:     a.config.GetString("messaging.nats.url"),
			Options: a.natsOptions(),
		},
		Kafka: messaging.KafkaConfig{
			Brokers: a.config.GetArray("messaging.kafka.brokers"),
			Dialer: &kafka.Dialer{
				ClientID:  a.config.GetString("messaging.kafka.client_id"),
				Timeout:   a.config.GetSecond("messaging.kafka.dial_timeout_seconds"),
				DualStack: true,
			},
		},
		PubSub: messaging.PubSubConfig{
			ProjectID:     a.config.GetString("messaging.pubsub.project_id"),
			ClientOptions: pubsubOptions,
		},
	})
	if err != nil {
		slog.Error("failed to init messaging", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.messaging = client
	a.onClose("Messaging", func(context.Context) error { return client.Close() })
}

func (a *App) nsqProducerConfig() *nsq.Config {
	cfg := nsq.NewConfig()
	cfg.DialTimeout = a.config.GetSecond("messaging.nsq.producer_config.dial_timeout_seconds")
	cfg.ReadTimeout = a.config.GetSecond("messaging.nsq.producer_config.read_timeout_seconds")
	cfg.WriteTimeout = a.config.GetSecond("messaging.nsq.producer_config.write_timeout_seconds")
	return cfg
}

func (a *App) natsOptions() []nats.Option {
	const p = "messaging.nats."
	return []nats.Option{
		nats.Name(a.config.GetString(p + "name")),
		nats.MaxReconnects(a.config.GetInt(p + "max_reconnects")),
		nats.Timeout(a.config.GetSecond(p + "timeout_seconds")),
		nats.ReconnectWait(a.config.GetSecond(p + "reconnect_wait_seconds")),
		nats.PingInterval(a.config.GetSecond(p + "ping_interval_seconds")),
		nats.MaxPingsOutstanding(a.config.GetInt(p + "max_pings_outstanding")),
		nats.RetryOnFailedConnect(a.config.GetBool(p + "retry_on_failed_connect")),
	}
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
	})
	a.router.GET("/health", a.health)

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}
