package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Asjad-Ilahi/devops/internal/infrastructure/http/handlers"
	"github.com/Asjad-Ilahi/devops/internal/infrastructure/http/middleware"
)

// APIVersion is sent on every response as X-API-Version.
const APIVersion = "1"

type RouterConfig struct {
	AuthHandler     *handlers.AuthHandler
	UsersHandler    *handlers.UsersHandler
	ProjectsHandler *handlers.ProjectsHandler
	HealthHandler   *handlers.HealthHandler
	Session         *middleware.SessionResolver
	Log             zerolog.Logger
	Secure          func(http.Handler) http.Handler
	CORS            func(http.Handler) http.Handler
	AuthRateLimit   func(http.Handler) http.Handler // per-IP limit on signup and login
	Metrics         bool                            // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	if cfg.CORS != nil {
		r.Use(cfg.CORS)
	}
	r.Use(middleware.APIVersion(APIVersion))

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(cfg.Session.Handler)

		r.Get("/logout", cfg.AuthHandler.Logout)
		r.Post("/logout", cfg.AuthHandler.Logout)

		r.Route("/api", func(r chi.Router) {
			r.Use(chimid.AllowContentType("application/json", "application/x-www-form-urlencoded", "multipart/form-data"))

			r.Route("/auth", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					if cfg.AuthRateLimit != nil {
						r.Use(cfg.AuthRateLimit)
					}
					r.Post("/signup", cfg.AuthHandler.Signup)
					r.Post("/login", cfg.AuthHandler.Login)
				})
				r.Get("/logout", cfg.AuthHandler.Logout)
				r.Post("/logout", cfg.AuthHandler.Logout)
			})

			r.Get("/user", cfg.UsersHandler.Me)

			r.Get("/projects", cfg.ProjectsHandler.List)
			r.Post("/projects", cfg.ProjectsHandler.Create)
		})
	})

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info().
				Str("request_id", chimid.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
