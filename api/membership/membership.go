package membership

import (
	"errors"
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

type inUpdateMembership struct {
	Admin *bool `json:"admin" validate:"required"`
}

func (h *Handlers) listMemberships(w http.ResponseWriter, r *http.Request) {
	u := middleware.CurrentUser(r.Context())
	ms, err := h.store.MembershipsByUser(r.Context(), u.ID)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, serializers.Memberships(ms))
}

// updateMembership lets a group admin grant or revoke admin rights.
func (h *Handlers) updateMembership(w http.ResponseWriter, r *http.Request) {
	u := middleware.CurrentUser(r.Context())
	g := middleware.CurrentGroup(r.Context())
	uid, err := api.IDParam(r, "userID")
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}

	self, err := h.store.Membership(r.Context(), g.ID, u.ID)
	if errors.Is(err, db.ErrNotFound) || (err == nil && !self.Admin) {
		api.Error(w, h.logger, api.Forbidden("group admin only"))
		return
	}
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}

	var body inUpdateMembership
	if err := api.Decode(r, &body); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	m, err := h.store.Membership(r.Context(), g.ID, uid)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	m.Admin = *body.Admin
	if err := h.store.UpdateMembership(r.Context(), m); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, serializers.Membership(m))
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Route("/memberships", func(r chi.Router) {
		r.Use(h.guard.Authenticator)
		r.With(middleware.NoCache).Get("/", h.listMemberships)
		r.With(middleware.WithGroup(h.store, h.logger)).Put("/{groupID}/{userID}", h.updateMembership)
	})
}

func NewHandlers(l zerolog.Logger, store *db.Store, guard *middleware.Guard) *Handlers {
	return &Handlers{logger: l, store: store, guard: guard}
}
