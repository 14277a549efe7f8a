package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Harshitk-cp/menugate/internal/domain"
	"github.com/Harshitk-cp/menugate/internal/session"
	"go.uber.org/zap"
)

type contextKey string

const sessionContextKey contextKey = "session"

func SessionFromContext(ctx context.Context) *domain.Session {
	s, _ := ctx.Value(sessionContextKey).(*domain.Session)
	return s
}

// RequireSession rejects API requests without a valid session token.
func RequireSession(provider *session.Provider, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := provider.ForRequest(r).GetSession(r.Context())
			if err != nil {
				logger.Debug("session rejected",
					zap.String("request_id", RequestIDFromContext(r.Context())),
					zap.Error(err),
				)
				writeError(w, http.StatusUnauthorized, "invalid session")
				return
			}
			if s == nil {
				writeError(w, http.StatusUnauthorized, "missing session")
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
