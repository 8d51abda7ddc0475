package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartclinicmelbourne/patient-resources/backend/pkg/config"
)

type contextKey string

const sessionContextKey contextKey = "session_id"

// SessionMiddleware assigns every visitor an opaque session ID via a cookie.
// Selections are keyed by this ID; no authentication is involved and the
// cookie carries no other meaning.
func SessionMiddleware(cfg config.SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(cfg.CookieName); err == nil && cookie.Value != "" {
				if _, err := uuid.Parse(cookie.Value); err == nil {
					sessionID = cookie.Value
				}
			}

			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   cfg.TTLSeconds,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionID extracts the visitor session ID set by SessionMiddleware.
// Returns empty when the middleware did not run.
func SessionID(ctx context.Context) string {
	if id, ok := ctx.Value(sessionContextKey).(string); ok {
		return id
	}
	return ""
}
