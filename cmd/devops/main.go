package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Asjad-Ilahi/devops/internal/application/auth"
	"github.com/Asjad-Ilahi/devops/internal/application/ports"
	"github.com/Asjad-Ilahi/devops/internal/application/project"
	"github.com/Asjad-Ilahi/devops/internal/config"
	infraauth "github.com/Asjad-Ilahi/devops/internal/infrastructure/auth"
	httprouter "github.com/Asjad-Ilahi/devops/internal/infrastructure/http"
	"github.com/Asjad-Ilahi/devops/internal/infrastructure/http/handlers"
	"github.com/Asjad-Ilahi/devops/internal/infrastructure/http/middleware"
	"github.com/Asjad-Ilahi/devops/internal/infrastructure/lockout"
	"github.com/Asjad-Ilahi/devops/internal/infrastructure/queue"
	"github.com/Asjad-Ilahi/devops/internal/infrastructure/security"
	"github.com/Asjad-Ilahi/devops/internal/infrastructure/session"
	"github.com/Asjad-Ilahi/devops/internal/infrastructure/telemetry"
	"github.com/Asjad-Ilahi/devops/internal/infrastructure/webhook"
)

const serviceName = "devops"

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("load config")
	}
	log := newLogger(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	if cfg.JWT.Secret == config.DefaultJWTSecret && cfg.JWT.PrivateKeyPath == "" {
		log.Warn().Msg("using the development JWT secret; set JWT_SECRET")
	}

	ctx := context.Background()
	shutdownTracing := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: serviceName,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
	}, log)

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("open storage")
	}
	defer st.close()
	healthChecks := []handlers.HealthCheck{st.health}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("parse REDIS_URL")
		}
		redisClient = redis.NewClient(opt)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; continuing without redis")
			redisClient = nil
		} else {
			rdb := redisClient
			healthChecks = append(healthChecks, handlers.HealthCheck{
				Name: "redis",
				Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
			})
		}
	}

	var taskEnqueuer ports.TaskEnqueuer = queue.NewNoopEnqueuer()
	var asynqWorker *queue.Worker
	if cfg.Webhook.URL != "" {
		var opts []webhook.HTTPEmitterOption
		if cfg.Webhook.AuthHeader != "" {
			opts = append(opts, webhook.WithHeader("Authorization", cfg.Webhook.AuthHeader))
		}
		opts = append(opts, webhook.WithSigningSecret(cfg.Webhook.SigningSecret))
		emitter := webhook.NewHTTPEmitter(cfg.Webhook.URL, opts...)
		if redisClient != nil {
			asynqOpt, err := asynq.ParseRedisURI(cfg.Redis.URL)
			if err != nil {
				log.Fatal().Err(err).Msg("parse REDIS_URL for asynq")
			}
			enq := queue.NewAsynqEnqueuer(asynqOpt, log)
			defer enq.Close()
			taskEnqueuer = enq
			asynqWorker = queue.NewWorker(asynqOpt, emitter, log)
			go func() {
				if err := asynqWorker.Run(); err != nil {
					log.Warn().Err(err).Msg("asynq worker stopped")
				}
			}()
		} else {
			taskEnqueuer = queue.NewDirectEnqueuer(emitter, log)
		}
	}

	hasher, err := security.NewHasher(cfg.Password.Hasher, cfg.Password.BcryptCost, security.Argon2Params{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("create password hasher")
	}

	issuer, err := newTokenIssuer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("create token issuer")
	}
	cookies := session.NewCookieManager(cfg.Session.CookieMaxAge, issuer.TTL(), cfg.IsProduction())

	var lockoutStore ports.LoginLockoutStore
	if cfg.Lockout.MaxAttempts > 0 {
		if redisClient != nil {
			lockoutStore = lockout.NewRedisStore(redisClient, cfg.Lockout.MaxAttempts, cfg.Lockout.CooldownSeconds, log)
		} else {
			lockoutStore = lockout.NewMemoryStore(cfg.Lockout.MaxAttempts, cfg.Lockout.CooldownSeconds)
		}
	}

	signUpUC := auth.NewSignUp(st.users, hasher)
	loginUC := auth.NewLogin(st.users, hasher, issuer, lockoutStore)
	currentUserUC := auth.NewCurrentUser(st.users)
	createProjectUC := project.NewCreateProject(st.projects)
	listProjectsUC := project.NewListProjects(st.projects)

	ipLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.PerIP, redisClient)
	if err != nil {
		log.Fatal().Err(err).Msg("create IP rate limiter")
	}

	auditor := handlers.NewAuditor(log, taskEnqueuer)
	router := httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler:     handlers.NewAuthHandler(signUpUC, loginUC, cookies, auditor, log),
		UsersHandler:    handlers.NewUsersHandler(currentUserUC, log),
		ProjectsHandler: handlers.NewProjectsHandler(createProjectUC, listProjectsUC, auditor, log),
		HealthHandler:   handlers.NewHealthHandler(healthChecks...),
		Session:         middleware.NewSessionResolver(issuer, cookies, log),
		Log:             log,
		Secure:          middleware.NewSecure(middleware.SecureOptions(!cfg.IsProduction())),
		CORS:            middleware.CORS(cfg.CORS.AllowedOrigins, nil, nil),
		AuthRateLimit:   ipLimit,
		Metrics:         true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      otelhttp.NewHandler(router, serviceName),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("storage", cfg.Storage.Driver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if asynqWorker != nil {
		asynqWorker.Shutdown()
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("tracer shutdown")
	}
	log.Info().Msg("server stopped")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if cfg.IsProduction() {
		return zerolog.New(os.Stderr).Level(level).With().Timestamp().Str("service", serviceName).Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// newTokenIssuer prefers RS256 when a private key is configured.
func newTokenIssuer(cfg *config.Config) (*infraauth.TokenIssuer, error) {
	opts := []infraauth.Option{
		infraauth.WithIssuer(cfg.JWT.Issuer),
		infraauth.WithTTL(cfg.Session.TTL),
	}
	if cfg.JWT.PrivateKeyPath != "" {
		key, err := infraauth.LoadRSAPrivateKeyFile(cfg.JWT.PrivateKeyPath)
		if err != nil {
			return nil, err
		}
		return infraauth.NewRSATokenIssuer(key, opts...), nil
	}
	return infraauth.NewHMACTokenIssuer([]byte(cfg.JWT.Secret), opts...)
}
