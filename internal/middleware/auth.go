package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/caddieai/caddie/internal/ctxkeys"
	"github.com/caddieai/caddie/internal/model"
	"github.com/caddieai/caddie/internal/response"
)

// TokenVerifier validates an access token and returns the user id it was issued for.
type TokenVerifier interface {
	VerifyJWT(token string) (string, error)
}

// UserLoader fetches the user an access token belongs to.
type UserLoader interface {
	ByID(ctx context.Context, id string) (*model.User, error)
}

// AuthMiddleware checks for a bearer token and adds the user to the context if valid.
// Requests without a valid token continue anonymously; RequireAuth rejects them.
func AuthMiddleware(verifier TokenVerifier, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := verifier.VerifyJWT(token)
			if err != nil {
				slog.Debug("rejected access token", "error", err, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.ByID(r.Context(), userID)
			if err != nil {
				// Token outlived its account.
				next.ServeHTTP(w, r)
				return
			}

			// Security: Remove password hash from context
			user.PasswordHash = nil

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken reads "Authorization: Bearer <jwt>". Websocket handshakes cannot
// set headers from browsers, so they may pass the token as access_token instead.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}

	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		return r.URL.Query().Get("access_token")
	}

	return ""
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil {
			response.Error(w, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
			return
		}

		next.ServeHTTP(w, r)
	}
}

// RequireAdmin rejects anonymous requests with 401 and non-admins with 403.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if !user.IsAdmin() {
			slog.Warn("admin access denied", "user_id", user.ID, "path", r.URL.Path)
			response.Error(w, http.StatusForbidden, response.CodeForbidden, "Administrator access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
