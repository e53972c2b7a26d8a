package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/puoklam/spot-backend/auth"
	"github.com/puoklam/spot-backend/db"
	"github.com/rs/zerolog"
)

var (
	ErrBadRequest = errors.New("bad request")
	ErrForbidden  = errors.New("forbidden")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Message is the body of every error response.
type Message struct {
	Timeout bool   `json:"timeout,omitempty"`
	Message string `json:"message"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error maps err to a status code and message body. Unclassified errors are
// logged and reported as 500.
func Error(w http.ResponseWriter, l zerolog.Logger, err error) {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		JSON(w, http.StatusUnauthorized, Message{Message: auth.ErrMissingToken.Error()})
	case errors.Is(err, auth.ErrInvalidToken):
		JSON(w, http.StatusUnauthorized, Message{Timeout: true, Message: auth.ErrInvalidToken.Error()})
	case errors.Is(err, auth.ErrUnknownIdentity):
		JSON(w, http.StatusUnauthorized, Message{Message: auth.ErrUnknownIdentity.Error()})
	case errors.Is(err, db.ErrNotFound):
		JSON(w, http.StatusNotFound, Message{Message: err.Error()})
	case errors.Is(err, db.ErrUserExists):
		JSON(w, http.StatusConflict, Message{Message: db.ErrUserExists.Error()})
	case errors.Is(err, db.ErrAssociationConflict):
		JSON(w, http.StatusConflict, Message{Message: err.Error()})
	case errors.Is(err, ErrForbidden):
		JSON(w, http.StatusForbidden, Message{Message: err.Error()})
	case errors.Is(err, ErrBadRequest):
		JSON(w, http.StatusBadRequest, Message{Message: err.Error()})
	default:
		l.Error().Err(err).Msg("request failed")
		JSON(w, http.StatusInternalServerError, Message{Message: "internal error"})
	}
}

// Decode reads a JSON body into dst and validates its struct tags.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return BadRequest("invalid json: " + err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		return BadRequest(err.Error())
	}
	return nil
}

func BadRequest(msg string) error {
	return &wrapped{ErrBadRequest, msg}
}

func Forbidden(msg string) error {
	return &wrapped{ErrForbidden, msg}
}

type wrapped struct {
	err error
	msg string
}

func (e *wrapped) Error() string { return e.msg }
func (e *wrapped) Unwrap() error { return e.err }

// IDParam parses the named chi URL parameter as a record id.
func IDParam(r *http.Request, name string) (uint, error) {
	v := chi.URLParam(r, name)
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil || id == 0 {
		return 0, BadRequest("invalid " + name)
	}
	return uint(id), nil
}
