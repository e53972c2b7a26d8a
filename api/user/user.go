package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/puoklam/spot-backend/api"
	"github.com/puoklam/spot-backend/api/serializers"
	"github.com/puoklam/spot-backend/db"
	"github.com/puoklam/spot-backend/middleware"
	"github.com/rs/zerolog"
)

type Handlers struct {
	logger zerolog.Logger
	store  *db.Store
	guard  *middleware.Guard
}

type inUpdateUser struct {
	Username  string `json:"username" validate:"required,max=32"`
	Email     string `json:"email" validate:"required,email,max=32"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url,max=2048"`
}

func (h *Handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.Users(r.Context())
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, serializers.Users(users))
}

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, serializers.User(middleware.CurrentUser(r.Context())))
}

func (h *Handlers) getUser(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, serializers.User(middleware.Opponent(r.Context())))
}

func (h *Handlers) userPosts(w http.ResponseWriter, r *http.Request) {
	u := middleware.Opponent(r.Context())
	posts, err := h.store.PostsByUser(r.Context(), u.ID)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, serializers.Posts(posts))
}

func (h *Handlers) updateMe(w http.ResponseWriter, r *http.Request) {
	var body inUpdateUser
	if err := api.Decode(r, &body); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	u := *middleware.CurrentUser(r.Context())
	u.Username = body.Username
	u.Email = body.Email
	u.AvatarURL = body.AvatarURL
	if err := h.store.UpdateUser(r.Context(), &u); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, serializers.User(&u))
}

func (h *Handlers) deleteMe(w http.ResponseWriter, r *http.Request) {
	u := middleware.CurrentUser(r.Context())
	if err := h.store.DeleteUser(r.Context(), u.ID); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	h.logger.Info().Uint("user_id", u.ID).Msg("user deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Route("/users", func(r chi.Router) {
		r.Use(h.guard.Authenticator)
		r.Get("/", h.listUsers)
		r.With(middleware.NoCache).Get("/me", h.me)
		r.Put("/me", h.updateMe)
		r.Delete("/me", h.deleteMe)
		r.Group(func(r chi.Router) {
			r.Use(middleware.WithOpponent(h.store, h.logger))
			r.Get("/{userID}", h.getUser)
			r.Get("/{userID}/posts", h.userPosts)
		})
	})
}

func NewHandlers(l zerolog.Logger, store *db.Store, guard *middleware.Guard) *Handlers {
	return &Handlers{logger: l, store: store, guard: guard}
}
