package server

import (
	"github.com/go-chi/chi/v5"
	authapi "github.com/puoklam/spot-backend/api/auth"
	"github.com/puoklam/spot-backend/api/comment"
	"github.com/puoklam/spot-backend/api/friendship"
	"github.com/puoklam/spot-backend/api/group"
	"github.com/puoklam/spot-backend/api/membership"
	"github.com/puoklam/spot-backend/api/post"
	"github.com/puoklam/spot-backend/api/user"
	"github.com/puoklam/spot-backend/auth"
	"github.com/puoklam/spot-backend/db"
	"github.com/puoklam/spot-backend/env"
	"github.com/puoklam/spot-backend/middleware"
	"github.com/rs/zerolog"
)

// NewRouter wires every resource's handlers onto one router.
func NewRouter(cfg env.Config, store *db.Store, l zerolog.Logger) *chi.Mux {
	tokens := auth.NewTokens([]byte(cfg.HS256Secret), cfg.TokenTTL, cfg.TokenIssuer)
	guard := middleware.NewGuard(cfg.TokenHeader, tokens, store, l)

	r := chi.NewRouter()
	SetupMiddlewares(r, cfg, l)

	authapi.NewHandlers(l, store, guard, tokens, cfg.BcryptCost).SetupRoutes(r)
	user.NewHandlers(l, store, guard).SetupRoutes(r)
	friendship.NewHandlers(l, store, guard).SetupRoutes(r)
	group.NewHandlers(l, store, guard).SetupRoutes(r)
	membership.NewHandlers(l, store, guard).SetupRoutes(r)
	post.NewHandlers(l, store, guard).SetupRoutes(r)
	comment.NewHandlers(l, store, guard).SetupRoutes(r)
	return r
}
