// Package httptransport is the thin HTTP layer of the web session core. Handlers
// resolve the browser session and delegate; navigation decisions come back from
// the session as destinations and leave as redirects.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"parlor/internal/platform/metrics"
	"parlor/internal/platform/middleware"
	dErrors "parlor/pkg/domain-errors"
	"parlor/pkg/platform/httputil"
	"parlor/pkg/platform/middleware/device"
	"parlor/pkg/platform/middleware/metadata"
	"parlor/pkg/platform/middleware/requesttime"
	"parlor/pkg/requestcontext"
)

// Config wires the router.
type Config struct {
	Sessions       SessionStore
	SessionTTL     time.Duration
	SecureCookies  bool
	RequestTimeout time.Duration

	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	// Health reports backing service health; nil means always healthy.
	Health func(ctx context.Context) error
}

// Handler holds the dependencies shared by route handlers.
type Handler struct {
	logger *slog.Logger
	health func(ctx context.Context) error
}

// NewRouter builds the chi router with every public route.
func NewRouter(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	h := &Handler{logger: logger, health: cfg.Health}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(device.Middleware)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.LatencyMiddleware(cfg.Metrics))

	r.Get("/healthz", h.handleHealth)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
		r.Use(BrowserSession(cfg.Sessions, cfg.SessionTTL, cfg.SecureCookies, logger))

		r.Get("/auth/callback", h.handleOAuthCallback)
		r.Post("/auth/login", h.handleLogin)
		r.Post("/auth/logout", h.handleLogout)
		r.Get("/auth/session", h.handleSession)
		r.Get("/signup", h.handleSignupPrefill)
		r.Post("/signup", h.handleSignupComplete)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(middleware.SessionCheckerFunc(isAuthenticated), logger))
			r.Get("/me/balance", h.handleBalance)
			r.Post("/me/balance/invalidate", h.handleBalanceInvalidate)
			r.Post("/curators/{curatorID}/chat", h.handleSelectCurator)
			r.Get("/chat/{sessionID}", h.handleChat)
		})
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			h.logger.ErrorContext(r.Context(), "health check failed", "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeError logs server-side failures and writes the error envelope.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"browser_session", requestcontext.BrowserSessionID(ctx),
		"error", err,
	}
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal, dErrors.CodeUnavailable, dErrors.CodeTimeout:
		h.logger.ErrorContext(ctx, msg, attrs...)
	default:
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}
