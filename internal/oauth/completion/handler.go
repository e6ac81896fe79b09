// Package completion finishes a third-party sign-in after the provider redirects
// back to the client.
//
// A Handler is one mount of the callback page. It reads the transient redirect
// signals once, decides between the success, continue and failure outcomes, drives
// the auth state and returns where to navigate. Run is latched: repeated calls on
// the same Handler return the first result without touching the remote API again.
package completion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"parlor/internal/auth/models"
	"parlor/internal/platform/metrics"
	"parlor/pkg/requestcontext"
)

var tracer = otel.Tracer("parlor/oauth/completion")

// RemoteAPI is the slice of the remote API the completion flow calls.
type RemoteAPI interface {
	RefreshToken(ctx context.Context) (models.TokenResult, error)
	ProviderPendingEmail(ctx context.Context) (string, error)
}

// CredentialWriter stores the refreshed credential.
type CredentialWriter interface {
	Set(ctx context.Context, cred models.Credential) error
}

// AuthTransitions are the auth state transitions the flow may drive.
type AuthTransitions interface {
	CompleteOAuthSuccess(user models.User)
	CompleteOAuthContinue(identity models.PendingIdentity)
}

// Routes are the navigation targets of each outcome.
type Routes struct {
	Landing string
	Signup  string
	Login   string
}

// Dependencies are shared by every mount of one browser session.
type Dependencies struct {
	API         RemoteAPI
	Credentials CredentialWriter
	Auth        AuthTransitions
	Routes      Routes
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
}

// Result is the terminal state of a run.
type Result struct {
	Outcome Outcome
	// Destination is where to navigate; empty when Abandoned.
	Destination string
	// Email pre-fills the signup form on the continue path; may be empty.
	Email string
	// Reason explains a failure for logs. Never shown to users.
	Reason string
}

// Handler is one mount of the callback page. It is safe for concurrent use;
// concurrent Run calls wait for the first to finish.
type Handler struct {
	deps    Dependencies
	signals SignalReader

	once   sync.Once
	result Result
	closed atomic.Bool
}

// New mounts a handler for one signal set.
func New(deps Dependencies, signals SignalReader) *Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Handler{deps: deps, signals: signals}
}

// Close marks the mount as gone. A run still waiting on the remote API will not
// commit state or navigate once it resumes.
func (h *Handler) Close() {
	h.closed.Store(true)
}

// Run completes the sign-in once. It never returns an error or panics: every
// failure resolves into a navigation to the login entry point.
func (h *Handler) Run(ctx context.Context) Result {
	result, _ := h.RunOnce(ctx)
	return result
}

// RunOnce is Run that also reports whether this call executed the flow. A false
// ran means the result is the latched one and its side effects already happened.
func (h *Handler) RunOnce(ctx context.Context) (result Result, ran bool) {
	h.once.Do(func() {
		ran = true
		h.result = h.run(ctx)
		h.deps.Metrics.IncrementOAuthCompletion(string(h.result.Outcome))
	})
	return h.result, ran
}

func (h *Handler) run(ctx context.Context) (result Result) {
	ctx, span := tracer.Start(ctx, "oauth.completion")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			result = h.failure(ctx, fmt.Sprintf("panic: %v", r))
		}
		span.SetAttributes(attribute.String("oauth.outcome", string(result.Outcome)))
		if result.Outcome == OutcomeFailure {
			span.SetStatus(codes.Error, result.Reason)
		}
	}()

	if !h.live(ctx) {
		return h.abandoned(ctx, "mount closed before run")
	}

	switch parseOutcome(h.signals.Status()) {
	case OutcomeSuccess:
		return h.completeSuccess(ctx)
	case OutcomeContinue:
		return h.completeContinue(ctx)
	default:
		status, _ := h.signals.Status()
		return h.failure(ctx, fmt.Sprintf("missing or unrecognized status %q", status))
	}
}

// completeSuccess exchanges the provider's success signal for a credential.
func (h *Handler) completeSuccess(ctx context.Context) Result {
	token, err := h.deps.API.RefreshToken(ctx)
	if !h.live(ctx) {
		return h.abandoned(ctx, "mount closed during token refresh")
	}
	if err != nil {
		return h.failure(ctx, "token refresh failed: "+err.Error())
	}
	if token.AccessToken.IsZero() {
		return h.failure(ctx, "token refresh returned no credential")
	}
	if err := h.deps.Credentials.Set(ctx, token.AccessToken); err != nil {
		return h.failure(ctx, "store credential: "+err.Error())
	}
	h.deps.Auth.CompleteOAuthSuccess(token.User)

	h.deps.Logger.InfoContext(ctx, "oauth sign-in completed",
		"browser_session", requestcontext.BrowserSessionID(ctx),
		"user_id", token.User.ID,
	)
	return Result{Outcome: OutcomeSuccess, Destination: h.deps.Routes.Landing}
}

// completeContinue records the pending identity and sends the user to signup.
// The email lookup is best effort.
func (h *Handler) completeContinue(ctx context.Context) Result {
	raw, _ := h.signals.ProviderInfo()
	identity, err := DecodeProviderToken(raw)
	if err != nil {
		return h.failure(ctx, err.Error())
	}
	h.deps.Auth.CompleteOAuthContinue(identity)

	email, err := h.deps.API.ProviderPendingEmail(ctx)
	if !h.live(ctx) {
		return h.abandoned(ctx, "mount closed during email lookup")
	}
	if err != nil {
		h.deps.Logger.WarnContext(ctx, "pending email lookup failed, continuing without pre-fill",
			"browser_session", requestcontext.BrowserSessionID(ctx),
			"provider", identity.Provider,
			"error", err,
		)
		email = ""
	}

	return Result{
		Outcome:     OutcomeContinue,
		Destination: h.deps.Routes.Signup,
		Email:       strings.TrimSpace(email),
	}
}

func (h *Handler) failure(ctx context.Context, reason string) Result {
	h.deps.Logger.WarnContext(ctx, "oauth completion failed",
		"browser_session", requestcontext.BrowserSessionID(ctx),
		"reason", reason,
	)
	return Result{Outcome: OutcomeFailure, Destination: h.deps.Routes.Login, Reason: reason}
}

func (h *Handler) abandoned(ctx context.Context, reason string) Result {
	h.deps.Logger.InfoContext(ctx, "oauth completion abandoned",
		"browser_session", requestcontext.BrowserSessionID(ctx),
		"reason", reason,
	)
	return Result{Outcome: OutcomeAbandoned, Reason: reason}
}

func (h *Handler) live(ctx context.Context) bool {
	return !h.closed.Load() && ctx.Err() == nil
}
