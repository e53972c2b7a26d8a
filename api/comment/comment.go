package comment

import (
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

type inCreateComment struct {
	Text   string `json:"text" validate:"required"`
	PostID uint   `json:"post_id" validate:"required"`
}

type inUpdateComment struct {
	Text string `json:"text" validate:"required"`
}

func (h *Handlers) createComment(w http.ResponseWriter, r *http.Request) {
	u := middleware.CurrentUser(r.Context())
	var body inCreateComment
	if err := api.Decode(r, &body); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	if _, err := h.store.PostByID(r.Context(), body.PostID); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	c := &model.Comment{Text: body.Text, PostID: body.PostID, UserID: u.ID}
	if err := h.store.CreateComment(r.Context(), c); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusCreated, serializers.Comment(c))
}

func (h *Handlers) ownComment(r *http.Request) (*model.Comment, error) {
	id, err := api.IDParam(r, "commentID")
	if err != nil {
		return nil, err
	}
	c, err := h.store.CommentByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if c.UserID != middleware.CurrentUser(r.Context()).ID {
		return nil, api.Forbidden("not the author of this comment")
	}
	return c, nil
}

func (h *Handlers) updateComment(w http.ResponseWriter, r *http.Request) {
	c, err := h.ownComment(r)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	var body inUpdateComment
	if err := api.Decode(r, &body); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	c.Text = body.Text
	if err := h.store.UpdateComment(r.Context(), c); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, serializers.Comment(c))
}

func (h *Handlers) deleteComment(w http.ResponseWriter, r *http.Request) {
	c, err := h.ownComment(r)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	if err := h.store.DeleteComment(r.Context(), c.ID); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Route("/comment", func(r chi.Router) {
		r.Use(h.guard.Authenticator)
		r.Post("/", h.createComment)
		r.Put("/{commentID}", h.updateComment)
		r.Delete("/{commentID}", h.deleteComment)
	})
}

func NewHandlers(l zerolog.Logger, store *db.Store, guard *middleware.Guard) *Handlers {
	return &Handlers{logger: l, store: store, guard: guard}
}
