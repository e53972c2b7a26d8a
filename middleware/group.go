package middleware

import (
	"context"
	"net/http"

	"github.com/puoklam/spot-backend/api"
	"github.com/puoklam/spot-backend/db/model"
	"github.com/rs/zerolog"
)

type GroupFinder interface {
	GroupByID(ctx context.Context, id uint) (*model.Group, error)
}

// WithGroup loads the group named by the groupID URL parameter.
func WithGroup(groups GroupFinder, l zerolog.Logger) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			gid, err := api.IDParam(r, "groupID")
			if err != nil {
				api.Error(w, l, err)
				return
			}
			grp, err := groups.GroupByID(r.Context(), gid)
			if err != nil {
				api.Error(w, l, err)
				return
			}
			ctx := context.WithValue(r.Context(), groupKey, grp)
			h.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

func CurrentGroup(ctx context.Context) *model.Group {
	g, _ := ctx.Value(groupKey).(*model.Group)
	return g
}
