package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	auth "github.com/mind-engage/studyquiz/internal/auth/middleware"
	"github.com/mind-engage/studyquiz/internal/platform/logger"
	"github.com/mind-engage/studyquiz/internal/rbac"
	"github.com/mind-engage/studyquiz/internal/study"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RouterConfig struct {
	Service     *study.Service
	Auth        *auth.AuthService
	Log         *logger.Logger
	CORSOrigins []string
	DB          Pinger // optional; backs /readyz
}

func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, RequestLogger(log), middleware.Recoverer)
	r.Use(middleware.Timeout(90 * time.Second))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if cfg.DB != nil {
			if err := cfg.DB.PingContext(r.Context()); err != nil {
				http.Error(w, "db: "+err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(200)
	})

	require := rbac.Allow
	if cfg.Auth.Enabled() {
		require = rbac.Require
	}
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(cfg.Auth))
		Mount(pr, cfg.Service, require)
	})
	return r
}
