package post

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

type inPost struct {
	Text      string  `json:"text" validate:"required"`
	VideoURL  string  `json:"video_url" validate:"omitempty,url,max=2048"`
	Longitude float64 `json:"longitude" validate:"longitude"`
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Category  string  `json:"category" validate:"max=32"`
	GroupID   *uint   `json:"group_id" validate:"omitempty,gt=0"`
}

func (h *Handlers) feed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.Posts(r.Context())
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, serializers.Posts(posts))
}

func (h *Handlers) getPost(w http.ResponseWriter, r *http.Request) {
	p, err := h.loadPost(r)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, serializers.Post(p))
}

func (h *Handlers) comments(w http.ResponseWriter, r *http.Request) {
	p, err := h.loadPost(r)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	cs, err := h.store.CommentsByPost(r.Context(), p.ID)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, serializers.Comments(cs))
}

func (h *Handlers) loadPost(r *http.Request) (*model.Post, error) {
	id, err := api.IDParam(r, "postID")
	if err != nil {
		return nil, err
	}
	return h.store.PostByID(r.Context(), id)
}

// checkGroup verifies that uid may post into the group referenced by body.
func (h *Handlers) checkGroup(r *http.Request, body *inPost, uid uint) error {
	if body.GroupID == nil {
		return nil
	}
	if _, err := h.store.GroupByID(r.Context(), *body.GroupID); err != nil {
		return err
	}
	ok, err := h.store.IsMember(r.Context(), *body.GroupID, uid)
	if err != nil {
		return err
	}
	if !ok {
		return api.Forbidden("not a member of this group")
	}
	return nil
}

func (h *Handlers) createPost(w http.ResponseWriter, r *http.Request) {
	u := middleware.CurrentUser(r.Context())
	var body inPost
	if err := api.Decode(r, &body); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	if err := h.checkGroup(r, &body, u.ID); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	p := &model.Post{
		Text:      body.Text,
		VideoURL:  body.VideoURL,
		Longitude: body.Longitude,
		Latitude:  body.Latitude,
		Category:  body.Category,
		UserID:    u.ID,
		GroupID:   body.GroupID,
	}
	if err := h.store.CreatePost(r.Context(), p); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusCreated, serializers.Post(p))
}

func (h *Handlers) ownPost(r *http.Request) (*model.Post, error) {
	p, err := h.loadPost(r)
	if err != nil {
		return nil, err
	}
	if p.UserID != middleware.CurrentUser(r.Context()).ID {
		return nil, api.Forbidden("not the author of this post")
	}
	return p, nil
}

func (h *Handlers) updatePost(w http.ResponseWriter, r *http.Request) {
	p, err := h.ownPost(r)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	var body inPost
	if err := api.Decode(r, &body); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	if err := h.checkGroup(r, &body, p.UserID); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	p.Text = body.Text
	p.VideoURL = body.VideoURL
	p.Longitude = body.Longitude
	p.Latitude = body.Latitude
	p.Category = body.Category
	p.GroupID = body.GroupID
	p.Group = nil
	if err := h.store.UpdatePost(r.Context(), p); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	api.JSON(w, http.StatusOK, serializers.Post(p))
}

func (h *Handlers) deletePost(w http.ResponseWriter, r *http.Request) {
	p, err := h.ownPost(r)
	if err != nil {
		api.Error(w, h.logger, err)
		return
	}
	if err := h.store.DeletePost(r.Context(), p.ID); err != nil {
		api.Error(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Get("/feed", h.feed)
	r.Get("/feed/post={postID}", h.getPost)
	r.Get("/comments/post={postID}", h.comments)
	r.Route("/post", func(r chi.Router) {
		r.Use(h.guard.Authenticator)
		r.Post("/", h.createPost)
		r.Put("/{postID}", h.updatePost)
		r.Delete("/{postID}", h.deletePost)
	})
}

func NewHandlers(l zerolog.Logger, store *db.Store, guard *middleware.Guard) *Handlers {
	return &Handlers{logger: l, store: store, guard: guard}
}
