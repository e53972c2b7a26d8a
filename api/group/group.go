package group

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

type inCreateGroup struct {
	Name string `json:"name" validate:"required,max=32"`
}

func (h *Handlers) listGroups(w http.ResponseWriter, r *http.Request) {
	grps, err := h.store.Groups(r.Context())
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, serializers.Groups(grps))
}

func (h *Handlers) createGroup(w http.ResponseWriter, r *http.Request) {
	var body inCreateGroup
	if err := api.Decode(r, &body); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	u := middleware.CurrentUser(r.Context())
	g := &model.Group{Name: body.Name}
	if err := h.store.CreateGroup(r.Context(), g, u.ID); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	h.logger.Info().Uint("group_id", g.ID).Uint("user_id", u.ID).Msg("group created")
	api.JSON(w, http.StatusCreated, serializers.Group(g))
}

func (h *Handlers) getGroup(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, serializers.Group(middleware.CurrentGroup(r.Context())))
}

func (h *Handlers) deleteGroup(w http.ResponseWriter, r *http.Request) {
	u := middleware.CurrentUser(r.Context())
	g := middleware.CurrentGroup(r.Context())
	if err := h.requireAdmin(r, g.ID, u.ID); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	if err := h.store.DeleteGroup(r.Context(), g.ID); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	h.logger.Info().Uint("group_id", g.ID).Msg("group deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) requireAdmin(r *http.Request, groupID, userID uint) error {
	m, err := h.store.Membership(r.Context(), groupID, userID)
	switch {
	case errors.Is(err, db.ErrNotFound):
		return api.Forbidden("group admin only")
	case err != nil:
		return err
	case !m.Admin:
		return api.Forbidden("group admin only")
	}
	return nil
}

func (h *Handlers) joinGroup(w http.ResponseWriter, r *http.Request) {
	u := middleware.CurrentUser(r.Context())
	g := middleware.CurrentGroup(r.Context())
	m := &model.Membership{GroupID: g.ID, UserID: u.ID}
	if err := h.store.CreateMembership(r.Context(), m); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	m.Group, m.User = g, u
	api.JSON(w, http.StatusCreated, serializers.Membership(m))
}

func (h *Handlers) leaveGroup(w http.ResponseWriter, r *http.Request) {
	u := middleware.CurrentUser(r.Context())
	g := middleware.CurrentGroup(r.Context())
	if err := h.store.DeleteMembership(r.Context(), g.ID, u.ID); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) members(w http.ResponseWriter, r *http.Request) {
	g := middleware.CurrentGroup(r.Context())
	ms, err := h.store.MembershipsByGroup(r.Context(), g.ID)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, serializers.Memberships(ms))
}

func (h *Handlers) posts(w http.ResponseWriter, r *http.Request) {
	g := middleware.CurrentGroup(r.Context())
	ps, err := h.store.PostsByGroup(r.Context(), g.ID)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, serializers.Posts(ps))
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Route("/groups", func(r chi.Router) {
		r.Use(h.guard.Authenticator)
		r.Get("/", h.listGroups)
		r.Post("/", h.createGroup)
		r.Route("/{groupID}", func(r chi.Router) {
			r.Use(middleware.WithGroup(h.store, h.logger))
			r.Get("/", h.getGroup)
			r.Delete("/", h.deleteGroup)
			r.Post("/join", h.joinGroup)
			r.Delete("/leave", h.leaveGroup)
			r.Get("/members", h.members)
			r.Get("/posts", h.posts)
		})
	})
}

func NewHandlers(l zerolog.Logger, store *db.Store, guard *middleware.Guard) *Handlers {
	return &Handlers{logger: l, store: store, guard: guard}
}
