package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/parlorlabs/parlor/pkg/handlers"

	"log/slog"
)

type contextKey string

const userKey contextKey = "user-email"

// IdentityHeader carries the caller identity resolved by the upstream
// gateway. The server trusts this value; authentication itself happens
// before requests reach this service.
const IdentityHeader = "X-User-Email"

// Identity returns middleware that extracts the caller identity from the
// identity header and stores it on the request context. API requests
// without an identity are rejected; non-API paths pass through.
func Identity(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				next.ServeHTTP(w, r)
				return
			}

			email := strings.TrimSpace(r.Header.Get(IdentityHeader))
			if email == "" {
				handlers.RespondError(w, logger, http.StatusUnauthorized, errMissingIdentity)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserEmail returns the caller identity stored on the context, or the empty
// string when no identity was resolved.
func UserEmail(ctx context.Context) string {
	email, _ := ctx.Value(userKey).(string)
	return email
}

type identityError string

func (e identityError) Error() string { return string(e) }

const errMissingIdentity identityError = "caller identity required"
