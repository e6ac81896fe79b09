package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"parlor/pkg/requestcontext"
)

// SessionChecker reports whether the browser session behind ctx is signed in.
type SessionChecker interface {
	IsAuthenticated(ctx context.Context) bool
}

// SessionCheckerFunc adapts a function to SessionChecker.
type SessionCheckerFunc func(ctx context.Context) bool

func (f SessionCheckerFunc) IsAuthenticated(ctx context.Context) bool { return f(ctx) }

// RequireAuth rejects requests whose browser session is not authenticated.
func RequireAuth(checker SessionChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if !checker.IsAuthenticated(ctx) {
				logger.WarnContext(ctx, "unauthorized access - session not signed in",
					"request_id", requestcontext.RequestID(ctx),
					"browser_session", requestcontext.BrowserSessionID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				if _, err := w.Write([]byte(`{"error":"unauthorized","error_description":"login required"}`)); err != nil {
					logger.ErrorContext(ctx, "failed to write unauthorized response",
						"error", err,
						"request_id", requestcontext.RequestID(ctx),
					)
				}
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
