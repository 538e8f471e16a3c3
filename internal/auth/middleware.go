package auth

import (
	"net/http"
	"strings"
)

// RequireBearer rejects requests without a bearer token and stores the raw
// token on the context. Resolving the token to a collaborator is the guard's
// job, done per operation so each one states its allowed departments.
func RequireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		raw := strings.TrimPrefix(h, "Bearer ")
		next.ServeHTTP(w, r.WithContext(WithToken(r.Context(), raw)))
	})
}
