package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sakif/student-records/internal/model"
)

// contextKey is an unexported type for this package's context keys.
//
// context.WithValue keys of a package-private type cannot collide with (or be
// shadowed by) keys from any other package — only this package can construct
// one, so only this package can read or write the identity.
type contextKey string

const identityKey contextKey = "identity"

// RequireAuth enforces authentication on protected routes.
//
// It reads the JWT from the Authorization header ("Bearer <token>"),
// validates it, and stores the caller's identity in the request context.
// Missing or invalid tokens get 401 before the handler ever runs.
//
// The clients of this API are admin dashboards and scripts, not browsers on
// untrusted pages, so a bearer header is simpler than cookie plumbing and
// sidesteps CSRF entirely.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, err := extractIdentity(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"success":false,"message":"Not authorized to access this route"}`))
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the authenticated caller from the request
// context. Returns (zero, false) on an unauthenticated request — which only
// happens if a handler was wired outside RequireAuth by mistake.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(identityKey).(Identity)
	return ident, ok && ident.UserID != ""
}

// RoleFromContext is a convenience for handlers that only need the role.
// Returns RoleNone for unauthenticated requests.
func RoleFromContext(ctx context.Context) model.Role {
	ident, ok := IdentityFromContext(ctx)
	if !ok {
		return model.RoleNone
	}
	return ident.Role
}

func extractIdentity(r *http.Request, tokens *TokenService) (Identity, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return Identity{}, errors.New("auth: missing bearer token")
	}

	return tokens.Validate(token)
}
