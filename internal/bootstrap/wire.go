package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/ecomm-platform/auth-gateway/internal/application/auth"
	"github.com/ecomm-platform/auth-gateway/internal/config"
	"github.com/ecomm-platform/auth-gateway/internal/infrastructure/db/postgres"
	"github.com/ecomm-platform/auth-gateway/internal/infrastructure/keycloak"
	"github.com/ecomm-platform/auth-gateway/internal/infrastructure/local"
	"github.com/ecomm-platform/auth-gateway/internal/infrastructure/memory"
	rabbitmq_pub "github.com/ecomm-platform/auth-gateway/internal/infrastructure/messaging/rabbitmq"
	"github.com/ecomm-platform/auth-gateway/internal/infrastructure/redis"
	"github.com/ecomm-platform/auth-gateway/internal/infrastructure/security"
	"github.com/ecomm-platform/auth-gateway/internal/logger"
	http_handlers "github.com/ecomm-platform/auth-gateway/internal/transport/http/handlers"
	"github.com/ecomm-platform/auth-gateway/internal/transport/http/middleware"
	"github.com/ecomm-platform/auth-gateway/internal/transport/http/response"
	"github.com/ecomm-platform/auth-gateway/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing.
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(addr string) (*sql.DB, error)

	NewRedis func(addr, password string, db int) RedisClient

	NewPublisher func(url, exchange string) (auth.EventPublisher, error)

	// NewBackend overrides identity-backend construction in tests.
	NewBackend func(cfg *config.Config) (auth.IdentityBackend, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

// dbPinger adapts *sql.DB to the health handler's probe interface.
type dbPinger struct{ db *sql.DB }

func (p dbPinger) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()

	// 1) identity backend
	var backend auth.IdentityBackend
	var readyProbe http_handlers.Pinger

	switch {
	case deps.NewBackend != nil:
		backend, err = deps.NewBackend(cfg)
		if err != nil {
			return nil, nil, err
		}

	case cfg.AuthBackend == config.BackendKeycloak:
		logger.Logger.Info().
			Str("base_url", cfg.Keycloak.BaseURL).
			Str("realm", cfg.Keycloak.Realm).
			Msg("using keycloak identity backend")

		backend = keycloak.NewBackend(keycloak.NewClient(keycloak.Config{
			BaseURL:      cfg.Keycloak.BaseURL,
			Realm:        cfg.Keycloak.Realm,
			ClientID:     cfg.Keycloak.ClientID,
			ClientSecret: cfg.Keycloak.ClientSecret,
			AdminUser:    cfg.Keycloak.AdminUser,
			AdminPass:    cfg.Keycloak.AdminPass,
		}))

	default:
		db, err := deps.NewDB(cfg.DBAddr)
		if err != nil {
			return nil, nil, err
		}
		cleanupFns = append(cleanupFns, func() { _ = db.Close() })

		if err := postgres.RunMigrations(context.Background(), db); err != nil {
			runCleanup(cleanupFns)
			return nil, nil, err
		}

		logger.Logger.Info().Msg("using local identity backend")
		backend = local.NewBackend(postgres.NewUserRepo(db), security.NewBcryptHasher(12))
		readyProbe = dbPinger{db: db}
	}

	// 2) redis (best-effort, rate limiting only)
	var redisCli RedisClient
	if deps.NewRedis != nil && cfg.RedisAddr != "" {
		c := deps.NewRedis(cfg.RedisAddr, "", 0)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := c.Ping(ctx); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; rate limiting disabled")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			redisCli = c
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	// 3) publisher
	var pub auth.EventPublisher
	if deps.NewPublisher != nil && cfg.RabbitURL != "" {
		pub, err = deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			if cfg.IsDev() {
				logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
				pub = memory.NewNoopPublisher()
			} else {
				runCleanup(cleanupFns)
				return nil, nil, err
			}
		}
	} else {
		pub = memory.NewNoopPublisher()
	}
	if c, ok := pub.(interface{ Close() error }); ok {
		cleanupFns = append(cleanupFns, func() { _ = c.Close() })
	}

	// 4) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt signer")
	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)

	// 5) service
	authSvc := auth.NewService(backend, signer, pub, auth.Config{
		AccessTTL: cfg.AccessTokenTTL,
	})

	authSvc = authSvc.WithAudit(func(action string, fields map[string]string) {
		evt := logger.Logger.Info().
			Bool("audit", true).
			Str("action", action)
		for k, v := range fields {
			evt = evt.Str(k, v)
		}
		evt.Msg("audit")
	})

	// 6) handlers + middleware
	authH := http_handlers.NewAuthHandler(authSvc)
	healthH := http_handlers.NewHealthHandler(readyProbe)

	var authMW func(http.Handler) http.Handler
	if cfg.ProfileAuth == config.ProfileAuthBearer {
		authMW = middleware.Auth(signer, response.WriteError)
	} else {
		logger.Logger.Warn().Msg("profile routes are unauthenticated (PROFILE_AUTH=none)")
	}

	// rate limit (fail-open)
	var fwLimiter *redis.FixedWindowLimiter
	if rc, ok := redisCli.(*redis.Client); ok {
		fwLimiter = redis.NewFixedWindowLimiter(rc)
	}

	rl := func(key string, limit int, window time.Duration) func(http.Handler) http.Handler {
		if fwLimiter == nil {
			return nil
		}
		return middleware.RateLimitFixedWindow(
			fwLimiter,
			middleware.FixedWindowConfig{
				RouteKey: key,
				Limit:    limit,
				Window:   window,
			},
			response.WriteError,
		)
	}

	// 7) router
	mux, err := deps.NewRouter(router.Deps{
		RequestIDMW:   middleware.RequestID,
		Auth:          authH,
		Health:        healthH,
		AuthMW:        authMW,
		SignupLimitMW: rl("auth.signup", 3, time.Minute),
		LoginLimitMW:  rl("auth.login", 5, time.Minute),
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 8) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewPublisher: func(url, exchange string) (auth.EventPublisher, error) {
			return rabbitmq_pub.NewPublisher(url, exchange)
		},
		NewRouter: router.New,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
