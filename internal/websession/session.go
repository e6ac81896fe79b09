// Package websession owns the per-browser-session context: the credential store,
// auth state, balance cache, selection handoff slot and the OAuth completion mount
// for one browser. Every page surface reaches these components through a Session
// rather than through process-wide state.
package websession

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"parlor/internal/auth/models"
	"parlor/internal/auth/state"
	"parlor/internal/balance"
	"parlor/internal/handoff"
	handoffmodels "parlor/internal/handoff/models"
	"parlor/internal/oauth/completion"
	"parlor/internal/platform/metrics"
	"parlor/internal/remote"
	dErrors "parlor/pkg/domain-errors"
	"parlor/pkg/platform/sentinel"
	"parlor/pkg/requestcontext"
)

// RemoteAPI is everything a browser session asks of the backend.
type RemoteAPI interface {
	completion.RemoteAPI
	handoff.SessionAPI
	Login(ctx context.Context, email, password string) (models.TokenResult, error)
	Signup(ctx context.Context, req remote.SignupRequest) (models.TokenResult, error)
	Logout(ctx context.Context) error
	Balance(ctx context.Context) (int64, error)
}

// CredentialStore holds the session's bearer credential.
type CredentialStore interface {
	Get(ctx context.Context) (models.Credential, bool, error)
	Set(ctx context.Context, cred models.Credential) error
	Clear(ctx context.Context) error
}

// toucher is implemented by stores whose entries expire on their own.
type toucher interface {
	Touch(ctx context.Context) error
}

// Dependencies wire one Session.
type Dependencies struct {
	API         RemoteAPI
	Credentials CredentialStore
	Routes      completion.Routes
	ChatRoute   string
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
}

// SignupForm is what the signup page submits for a pending identity.
type SignupForm struct {
	Email       string   `json:"email"`
	DisplayName string   `json:"displayName"`
	Agreements  []string `json:"agreements"`
}

// Session is one browser's context. It is safe for concurrent use since a browser
// may have several requests in flight.
type Session struct {
	id        string
	device    string
	createdAt time.Time

	api      RemoteAPI
	creds    CredentialStore
	auth     *state.State
	balance  *balance.Cache
	slot     *handoff.Slot
	selector *handoff.Selector
	resolver *handoff.Resolver

	routes  completion.Routes
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu           sync.Mutex
	lastSeen     time.Time
	mount        *completion.Handler
	mountSignals completion.Signals
	signupEmail  string
}

// New builds a Session with fresh components.
func New(id, device string, now time.Time, deps Dependencies) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("browser_session", id)
	slot := handoff.NewSlot()
	return &Session{
		id:        id,
		device:    device,
		createdAt: now,
		lastSeen:  now,
		api:       deps.API,
		creds:     deps.Credentials,
		auth:      state.New(),
		balance:   balance.New(balance.WithLogger(logger), balance.WithMetrics(deps.Metrics)),
		slot:      slot,
		selector:  handoff.NewSelector(deps.API, slot, deps.ChatRoute),
		resolver:  handoff.NewResolver(deps.API, slot, logger, deps.Metrics),
		routes:    deps.Routes,
		logger:    logger,
		metrics:   deps.Metrics,
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Device() string { return s.device }

// Auth returns a copy of the auth state.
func (s *Session) Auth() models.AuthSession {
	return s.auth.Snapshot()
}

// SignupEmail is the provider email captured by the last continue outcome.
func (s *Session) SignupEmail() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signupEmail
}

// Touch records activity and extends expiring credential entries.
func (s *Session) Touch(ctx context.Context) {
	s.mu.Lock()
	s.lastSeen = requestcontext.Now(ctx)
	s.mu.Unlock()

	if t, ok := s.creds.(toucher); ok {
		if err := t.Touch(ctx); err != nil {
			s.logger.WarnContext(ctx, "failed to extend credential expiry", "error", err)
		}
	}
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// CompleteOAuth runs the completion handler for the callback page. Revisiting the
// page with the same signals reuses the current mount and its latched result; new
// signals replace the mount. An abandoned run releases its mount so the next visit
// starts over.
func (s *Session) CompleteOAuth(ctx context.Context, signals completion.Signals) completion.Result {
	s.mu.Lock()
	if s.mount == nil || s.mountSignals != signals {
		if s.mount != nil {
			s.mount.Close()
		}
		s.mount = completion.New(completion.Dependencies{
			API:         s.api,
			Credentials: s.creds,
			Auth:        s.auth,
			Routes:      s.routes,
			Logger:      s.logger,
			Metrics:     s.metrics,
		}, signals)
		s.mountSignals = signals
	}
	h := s.mount
	s.mu.Unlock()

	result, ran := h.RunOnce(ctx)
	if !ran {
		return result
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch result.Outcome {
	case completion.OutcomeAbandoned:
		if s.mount == h {
			s.mount = nil
		}
	case completion.OutcomeSuccess:
		s.balance.Reset()
	case completion.OutcomeContinue:
		s.signupEmail = result.Email
	}
	return result
}

// Login signs in with email and password.
func (s *Session) Login(ctx context.Context, email, password string) (models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.User{}, dErrors.New(dErrors.CodeInvalidInput, "email and password are required")
	}

	result, err := s.api.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, sentinel.ErrUnauthorized) {
			return models.User{}, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid email or password")
		}
		return models.User{}, remoteError(err, "login failed")
	}
	if err := s.commitCredential(ctx, result); err != nil {
		return models.User{}, err
	}
	s.auth.CompleteLogin(result.User)
	s.balance.Reset()
	s.logger.InfoContext(ctx, "user logged in", "user_id", result.User.ID)
	return result.User, nil
}

// CompleteSignup registers the pending identity and signs the new account in.
func (s *Session) CompleteSignup(ctx context.Context, form SignupForm) (models.User, error) {
	snap := s.auth.Snapshot()
	if snap.PendingIdentity == nil {
		return models.User{}, dErrors.New(dErrors.CodeInvalidState, "no pending sign-up")
	}
	form.Email = strings.TrimSpace(form.Email)
	form.DisplayName = strings.TrimSpace(form.DisplayName)
	if form.Email == "" || form.DisplayName == "" {
		return models.User{}, dErrors.New(dErrors.CodeInvalidInput, "email and display name are required")
	}
	s.auth.RecordConsent(form.Agreements...)
	consent := s.auth.Snapshot().Consent
	if len(consent) == 0 {
		return models.User{}, dErrors.New(dErrors.CodeMissingConsent, "agreements are required")
	}

	result, err := s.api.Signup(ctx, remote.SignupRequest{
		Provider:    snap.PendingIdentity.Provider,
		ProviderID:  snap.PendingIdentity.ProviderID,
		Email:       form.Email,
		DisplayName: form.DisplayName,
		Agreements:  consent,
	})
	if err != nil {
		return models.User{}, remoteError(err, "sign-up failed")
	}
	if err := s.commitCredential(ctx, result); err != nil {
		return models.User{}, err
	}
	s.auth.SignupComplete(result.User)
	s.balance.Reset()

	s.mu.Lock()
	s.signupEmail = ""
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "sign-up completed", "user_id", result.User.ID, "provider", snap.PendingIdentity.Provider)
	return result.User, nil
}

func (s *Session) commitCredential(ctx context.Context, result models.TokenResult) error {
	if result.AccessToken.IsZero() {
		return dErrors.New(dErrors.CodeUnavailable, "remote returned no credential")
	}
	if err := s.creds.Set(ctx, result.AccessToken); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to store credential")
	}
	return nil
}

// Logout signs out locally even when the remote call fails. Everything the
// session knew about the user is discarded.
func (s *Session) Logout(ctx context.Context) error {
	if s.auth.Status() == models.StatusAuthenticated {
		if err := s.api.Logout(ctx); err != nil {
			s.logger.WarnContext(ctx, "remote logout failed, clearing local session anyway", "error", err)
		}
	}

	s.auth.Logout()
	clearErr := s.creds.Clear(ctx)
	s.balance.Reset()
	s.slot.Clear()

	s.mu.Lock()
	if s.mount != nil {
		s.mount.Close()
		s.mount = nil
	}
	s.mountSignals = completion.Signals{}
	s.signupEmail = ""
	s.mu.Unlock()

	s.metrics.IncrementLogouts()
	if clearErr != nil {
		return dErrors.Wrap(clearErr, dErrors.CodeUnavailable, "failed to clear credential")
	}
	return nil
}

// Balance returns the cached balance, fetching it first when dirty. On a failed
// fetch the stale record is returned alongside the error.
func (s *Session) Balance(ctx context.Context) (balance.Record, error) {
	if s.auth.Status() != models.StatusAuthenticated {
		return balance.Record{}, dErrors.New(dErrors.CodeUnauthorized, "login required")
	}
	if _, err := s.balance.RefreshIfDirty(ctx, s.api.Balance); err != nil {
		return s.balance.Snapshot(), remoteError(err, "failed to load balance")
	}
	return s.balance.Snapshot(), nil
}

// InvalidateBalance marks the balance stale after a spend or earn elsewhere.
func (s *Session) InvalidateBalance() {
	s.balance.MarkDirty()
}

// Select opens a chat session with the counterpart and returns where to go.
func (s *Session) Select(ctx context.Context, counterpartID int64) (string, error) {
	if s.auth.Status() != models.StatusAuthenticated {
		return "", dErrors.New(dErrors.CodeUnauthorized, "login required")
	}
	return s.selector.Open(ctx, counterpartID)
}

// ResolveChat loads the chat session for the destination page.
func (s *Session) ResolveChat(ctx context.Context, sessionID string) (handoffmodels.Record, handoffmodels.Source, error) {
	if s.auth.Status() != models.StatusAuthenticated {
		return handoffmodels.Record{}, "", dErrors.New(dErrors.CodeUnauthorized, "login required")
	}
	return s.resolver.Resolve(ctx, sessionID)
}

// Close releases the session when it expires. Stored credentials are left to
// their own expiry.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mount != nil {
		s.mount.Close()
		s.mount = nil
	}
}

func remoteError(err error, msg string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrUnauthorized):
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, "login required")
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, msg)
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.Wrap(err, dErrors.CodeBadRequest, msg)
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, msg)
	default:
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
	}
}
