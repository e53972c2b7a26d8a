package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/puoklam/spot-backend/api"
	"github.com/puoklam/spot-backend/auth"
	"github.com/puoklam/spot-backend/db"
	"github.com/puoklam/spot-backend/db/model"
	"github.com/rs/zerolog"
)

type ctxKey int

const (
	userKey ctxKey = iota
	groupKey
	opponentKey
)

type TokenVerifier interface {
	Verify(token string) (uint, error)
}

type UserFinder interface {
	UserByID(ctx context.Context, id uint) (*model.User, error)
}

// Guard lets a request through only when it carries a valid token for an
// existing user.
type Guard struct {
	header string
	tokens TokenVerifier
	users  UserFinder
	logger zerolog.Logger
}

func NewGuard(header string, tokens TokenVerifier, users UserFinder, l zerolog.Logger) *Guard {
	return &Guard{header: header, tokens: tokens, users: users, logger: l}
}

// Identify resolves the acting user of r. It returns auth.ErrMissingToken,
// auth.ErrInvalidToken or auth.ErrUnknownIdentity on rejection.
func (g *Guard) Identify(r *http.Request) (*model.User, error) {
	token := r.Header.Get(g.header)
	if token == "" {
		return nil, auth.ErrMissingToken
	}
	uid, err := g.tokens.Verify(token)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	u, err := g.users.UserByID(r.Context(), uid)
	if errors.Is(err, db.ErrNotFound) {
		return nil, auth.ErrUnknownIdentity
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user %d: %w", uid, err)
	}
	return u, nil
}

// Authenticator is the middleware form of Identify. The resolved user is
// available to the wrapped handler through CurrentUser.
func (g *Guard) Authenticator(h http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		u, err := g.Identify(r)
		if err != nil {
			g.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("request rejected")
			api.Error(w, g.logger, err)
			return
		}
		h.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	}
	return http.HandlerFunc(fn)
}

func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// CurrentUser returns the user attached by Authenticator, or nil.
func CurrentUser(ctx context.Context) *model.User {
	u, _ := ctx.Value(userKey).(*model.User)
	return u
}
