package friendship

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/puoklam/spot-backend/api"
	"github.com/puoklam/spot-backend/api/serializers"
	"github.com/puoklam/spot-backend/db"
	"github.com/puoklam/spot-backend/db/model"
	"github.com/puoklam/spot-backend/middleware"
	"github.com/rs/zerolog"
)

type Handlers struct {
	logger zerolog.Logger
	store  *db.Store
	guard  *middleware.Guard
}

type inTarget struct {
	UserID uint `json:"user_id" validate:"required"`
}

// target decodes the body and loads the other user. Befriending oneself is
// rejected.
func (h *Handlers) target(r *http.Request) (*model.User, *model.User, error) {
	var body inTarget
	if err := api.Decode(r, &body); err != nil {
		return nil, nil, err
	}
	u := middleware.CurrentUser(r.Context())
	if body.UserID == u.ID {
		return nil, nil, api.BadRequest("cannot befriend yourself")
	}
	other, err := h.store.UserByID(r.Context(), body.UserID)
	if err != nil {
		return nil, nil, err
	}
	return u, other, nil
}

func (h *Handlers) friends(w http.ResponseWriter, r *http.Request) {
	u := middleware.CurrentUser(r.Context())
	users, err := h.store.Friends(r.Context(), u.ID)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, serializers.Users(users))
}

func (h *Handlers) nonFriends(w http.ResponseWriter, r *http.Request) {
	u := middleware.CurrentUser(r.Context())
	users, err := h.store.NonFriends(r.Context(), u.ID)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, serializers.Users(users))
}

func (h *Handlers) requests(w http.ResponseWriter, r *http.Request) {
	u := middleware.CurrentUser(r.Context())
	fs, err := h.store.PendingRequests(r.Context(), u.ID)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, serializers.Friendships(fs))
}

// add sends a friend request, or accepts the pending request the target
// already sent to the caller.
func (h *Handlers) add(w http.ResponseWriter, r *http.Request) {
	u, other, err := h.target(r)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	ctx := r.Context()
	rev, err := h.store.Friendship(ctx, other.ID, u.ID)
	switch {
	case err == nil && rev.Accepted:
		api.Error(w, h.logger, db.ErrAssociationConflict)
		return
	case err == nil:
		rev.Accepted = true
		if err := h.store.UpdateFriendship(ctx, rev); err != nil {
			api.Error(w, h.logger, err)
			return
		}
		api.JSON(w, http.StatusOK, serializers.Friendship(rev))
		return
	case !errors.Is(err, db.ErrNotFound):
		api.Error(w, h.logger, err)
		return
	}

	f := &model.Friendship{RequesterID: u.ID, RecipientID: other.ID}
	if err := h.store.CreateFriendship(ctx, f); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	f.Requester, f.Recipient = u, other
	api.JSON(w, http.StatusCreated, serializers.Friendship(f))
}

func (h *Handlers) accept(w http.ResponseWriter, r *http.Request) {
	u, other, err := h.target(r)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	f, err := h.store.Friendship(r.Context(), other.ID, u.ID)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	f.Accepted = true
	if err := h.store.UpdateFriendship(r.Context(), f); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, serializers.Friendship(f))
}

func (h *Handlers) remove(w http.ResponseWriter, r *http.Request) {
	u, other, err := h.target(r)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	f, err := h.store.FriendshipBetween(r.Context(), u.ID, other.ID)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	if err := h.store.DeleteFriendship(r.Context(), f.RequesterID, f.RecipientID); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Authenticator, middleware.NoCache)
		r.Get("/friends", h.friends)
		r.Get("/non-friends", h.nonFriends)
		r.Route("/friend", func(r chi.Router) {
			r.Get("/requests", h.requests)
			r.Put("/add", h.add)
			r.Put("/accept", h.accept)
			r.Put("/remove", h.remove)
		})
	})
}

func NewHandlers(l zerolog.Logger, store *db.Store, guard *middleware.Guard) *Handlers {
	return &Handlers{logger: l, store: store, guard: guard}
}
