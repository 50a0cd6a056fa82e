package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"gudangsewa-backend/internal/domain"
	"gudangsewa-backend/internal/logger"
	"gudangsewa-backend/internal/security"
)

type contextKey string

const (
	actorKey     contextKey = "actor"
	requestIDKey contextKey = "request_id"
)

// ActorFromContext returns the authenticated caller. The zero Actor means
// the request skipped the auth middleware.
func ActorFromContext(ctx context.Context) domain.Actor {
	a, _ := ctx.Value(actorKey).(domain.Actor)
	return a
}

// RequestID tags every request with a fresh id for log correlation.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		logger.Debug("Request received", "request_id", id, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authenticator validates the Bearer token and injects the resulting Actor
// into the request context. The client-supplied identity is never trusted;
// only the token claims are.
func Authenticator(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authorization token is not provided"})
				return
			}
			token := header
			if len(token) > 7 && strings.EqualFold(token[:7], "Bearer ") {
				token = token[7:]
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
				return
			}

			ctx := context.WithValue(r.Context(), actorKey, claims.Actor())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a route to admin actors. Must run after Authenticator.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ActorFromContext(r.Context()).IsAdmin() {
			writeJSON(w, http.StatusForbidden, errorBody{Error: "admin role required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
