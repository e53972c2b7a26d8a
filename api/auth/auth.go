package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/puoklam/spot-backend/api"
	"github.com/puoklam/spot-backend/api/serializers"
	authn "github.com/puoklam/spot-backend/auth"
	"github.com/puoklam/spot-backend/db"
	"github.com/puoklam/spot-backend/db/model"
	"github.com/puoklam/spot-backend/middleware"
	"github.com/rs/zerolog"
)

type Handlers struct {
	logger     zerolog.Logger
	store      *db.Store
	guard      *middleware.Guard
	tokens     *authn.Tokens
	bcryptCost int
}

type inRegister struct {
	Username  string `json:"username" validate:"required,max=32"`
	Email     string `json:"email" validate:"required,email,max=32"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url,max=2048"`
}

type inLogin struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type outToken struct {
	Token string `json:"token"`
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var body inRegister
	if err := api.Decode(r, &body); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	if len(body.Password) > authn.MaxPasswordBytes {
		api.Error(w, h.logger, api.BadRequest("password must be at most 72 bytes"))
		return
	}
	exists, err := h.store.UserExists(r.Context(), body.Email, body.Username)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	if exists {
		api.Error(w, h.logger, db.ErrUserExists)
		return
	}
	hash, err := authn.HashPassword(body.Password, h.bcryptCost)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	u := &model.User{
		Username:     body.Username,
		Email:        body.Email,
		PasswordHash: hash,
		AvatarURL:    body.AvatarURL,
	}
	if err := h.store.CreateUser(r.Context(), u); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	h.logger.Info().Uint("user_id", u.ID).Msg("user registered")
	api.JSON(w, http.StatusCreated, serializers.User(u))
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var body inLogin
	if err := api.Decode(r, &body); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	u, err := h.store.UserByEmail(r.Context(), body.Email)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		api.Error(w, h.logger, err)
		return
	}
	if u == nil || !authn.CheckPassword(u.PasswordHash, body.Password) {
		api.JSON(w, http.StatusUnauthorized, api.Message{Message: "invalid credentials"})
		return
	}
	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, outToken{Token: token})
}

func (h *Handlers) user(w http.ResponseWriter, r *http.Request) {
	u := middleware.CurrentUser(r.Context())
	api.JSON(w, http.StatusOK, serializers.User(u))
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Group(func(r chi.Router) {
			r.Use(h.guard.Authenticator)
			r.With(middleware.NoCache).Get("/user", h.user)
		})
	})
}

func NewHandlers(l zerolog.Logger, store *db.Store, guard *middleware.Guard, tokens *authn.Tokens, bcryptCost int) *Handlers {
	return &Handlers{
		logger:     l,
		store:      store,
		guard:      guard,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}
