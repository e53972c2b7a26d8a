package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/puoklam/spot-backend/env"
	"github.com/puoklam/spot-backend/middleware"
	"github.com/rs/zerolog"
)

// SetupMiddlewares installs the middlewares shared by every route. It must
// run before any route is registered on r.
func SetupMiddlewares(r *chi.Mux, cfg env.Config, l zerolog.Logger) {
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(l))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", cfg.TokenHeader},
		MaxAge:         300,
	}))
}

func New(h http.Handler, cfg env.Config) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
