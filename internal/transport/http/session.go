package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"parlor/internal/websession"
	"parlor/pkg/requestcontext"
)

// CookieBrowserSession carries the opaque browser session id.
const CookieBrowserSession = "parlor_sid"

type contextKeySession struct{}

// SessionStore is the registry view the transport needs.
type SessionStore interface {
	Get(id string) (*websession.Session, bool)
	Create(ctx context.Context, device string) *websession.Session
}

// BrowserSession resolves the caller's session from its cookie, starting a new one
// when the cookie is missing or stale. The cookie is re-issued on every request.
func BrowserSession(store SessionStore, ttl time.Duration, secure bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var session *websession.Session
			if c, err := r.Cookie(CookieBrowserSession); err == nil {
				session, _ = store.Get(c.Value)
			}
			if session == nil {
				session = store.Create(ctx, requestcontext.Device(ctx))
				logger.DebugContext(ctx, "issued browser session cookie",
					"request_id", requestcontext.RequestID(ctx),
					"browser_session", session.ID(),
				)
			}
			// The registry expires sessions by idle time, so the cookie slides with
			// every request instead of expiring ttl after the first visit.
			http.SetCookie(w, &http.Cookie{
				Name:     CookieBrowserSession,
				Value:    session.ID(),
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx = requestcontext.WithBrowserSessionID(ctx, session.ID())
			ctx = context.WithValue(ctx, contextKeySession{}, session)
			session.Touch(ctx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFrom(ctx context.Context) *websession.Session {
	s, _ := ctx.Value(contextKeySession{}).(*websession.Session)
	return s
}

func isAuthenticated(ctx context.Context) bool {
	s := sessionFrom(ctx)
	return s != nil && s.Auth().IsAuthenticated
}
