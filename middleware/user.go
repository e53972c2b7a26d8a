package middleware

import (
	"context"
	"net/http"

	"github.com/puoklam/spot-backend/api"
	"github.com/puoklam/spot-backend/db/model"
	"github.com/rs/zerolog"
)

// WithOpponent loads the user named by the userID URL parameter.
func WithOpponent(users UserFinder, l zerolog.Logger) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			id, err := api.IDParam(r, "userID")
			if err != nil {
				api.Error(w, l, err)
				return
			}
			u, err := users.UserByID(r.Context(), id)
			if err != nil {
				api.Error(w, l, err)
				return
			}
			ctx := context.WithValue(r.Context(), opponentKey, u)
			h.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

func Opponent(ctx context.Context) *model.User {
	u, _ := ctx.Value(opponentKey).(*model.User)
	return u
}
