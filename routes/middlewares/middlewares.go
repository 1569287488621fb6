package middlewares

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/oauth"

	"github.com/Alexotieno1717/bonga-survey-sub000/httpx"
	"github.com/Alexotieno1717/bonga-survey-sub000/log"
)

type ownerKey struct{}

// Authorized checks the bearer token and puts the user id it carries in the
// request context.
func Authorized(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return chi.Chain(oauth.Authorize(secret, nil), owner).Handler(next)
	}
}

func owner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := r.Context().Value(oauth.ClaimsContext).(map[string]string)

		id, err := strconv.ParseInt(claims[httpx.ClaimUserID], 10, 64)
		if err != nil {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "auth.claims.user_id")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), id)))
	})
}

func WithOwner(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, ownerKey{}, id)
}

// Owner returns the authenticated user id, or 0 outside Authorized routes.
func Owner(r *http.Request) int64 {
	id, _ := r.Context().Value(ownerKey{}).(int64)
	return id
}
