package auth

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
)

type contextKey struct{}

// UserFrom returns the authenticated caller stored by Middleware.
func UserFrom(ctx context.Context) (*UserInfo, bool) {
	u, ok := ctx.Value(contextKey{}).(*UserInfo)
	return u, ok
}

// Middleware rejects requests without a valid bearer token and stores the
// resolved UserInfo on the request context.
func Middleware(a Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := ExtractBearer(r)
			if err != nil {
				writeUnauthorized(w)
				return
			}
			user, err := a.Authorize(r.Context(), token)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("token rejected")
				writeUnauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, user)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized","code":401}`))
}
