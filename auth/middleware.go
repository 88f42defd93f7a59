package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"chat-core/errors"
)

type contextKey string

const (
	UserIDKey      contextKey = "user_id"
	DisplayNameKey contextKey = "display_name"
	EmailKey       contextKey = "email"
)

// BearerToken extracts the credential from the standard "Bearer <token>"
// Authorization header. Returns an empty string when the header is missing
// or malformed.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// Middleware validates the bearer credential on every request and injects
// the verified identity into the request context for downstream handlers.
// The verifier call is bounded so an unresponsive identity service cannot
// hang the request path.
func Middleware(verifier IdentityVerifier, verifyTimeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := BearerToken(r)
			if credential == "" {
				http.Error(w, "authorization token is missing", http.StatusUnauthorized)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), verifyTimeout)
			defer cancel()

			identity, err := verifier.Verify(ctx, credential)
			if err != nil {
				http.Error(w, "invalid or expired token", errors.MapToHTTPStatus(err))
				return
			}

			newCtx := context.WithValue(r.Context(), UserIDKey, identity.UserID)
			newCtx = context.WithValue(newCtx, DisplayNameKey, identity.DisplayName)
			newCtx = context.WithValue(newCtx, EmailKey, identity.Email)
			next.ServeHTTP(w, r.WithContext(newCtx))
		})
	}
}

// CallerID retrieves the verified user identifier injected by Middleware.
func CallerID(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}
