// Package remote is the REST client for the backend API that owns users,
// balances and chat rooms.
//
// One Client serves one browser session: it carries that session's upstream
// cookie jar (the refresh cookie lives there) and reads the bearer credential
// from that session's credential store on every protected call.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	authmodels "parlor/internal/auth/models"
	handoffmodels "parlor/internal/handoff/models"
	"parlor/pkg/platform/circuit"
	"parlor/pkg/platform/sentinel"
	"parlor/pkg/requestcontext"
)

const (
	pathRefresh      = "/auth/refresh"
	pathPendingEmail = "/auth/oauth/pending-email"
	pathLogin        = "/auth/login"
	pathSignup       = "/auth/oauth/signup"
	pathLogout       = "/auth/logout"
	pathBalance      = "/points/balance"
	pathChatRooms    = "/chat/rooms"

	headerRequestID = "X-Request-ID"
	maxErrorBody    = 4 << 10
)

// CredentialSource yields the current bearer credential, if any.
type CredentialSource interface {
	Get(ctx context.Context) (authmodels.Credential, bool, error)
}

// Client calls the remote API on behalf of one browser session.
type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialSource
	breaker *circuit.Breaker
}

// Option configures a Client.
type Option func(*Client)

// WithBreaker short-circuits calls while the remote is failing. The breaker is
// normally shared by every session's client.
func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Client) { c.breaker = b }
}

// New builds a Client. The http.Client should carry a cookie jar private to the
// browser session.
func New(baseURL string, httpClient *http.Client, creds CredentialSource, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		creds:   creds,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type emailResponse struct {
	Email string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest registers a pending provider identity as a local account.
type SignupRequest struct {
	Provider    string   `json:"provider"`
	ProviderID  string   `json:"providerId"`
	Email       string   `json:"email"`
	DisplayName string   `json:"displayName"`
	Agreements  []string `json:"agreements"`
}

type balanceResponse struct {
	TotalValue *int64 `json:"totalValue"`
}

type createRoomRequest struct {
	CuratorID int64 `json:"curatorId"`
}

type counterpartResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
	Persona  string `json:"persona"`
}

type roomResponse struct {
	SessionID   string              `json:"sessionId"`
	Counterpart counterpartResponse `json:"counterpart"`
}

func (r roomResponse) toRecord() handoffmodels.Record {
	return handoffmodels.Record{
		SessionID:     r.SessionID,
		CounterpartID: r.Counterpart.ID,
		Counterpart: handoffmodels.CounterpartInfo{
			Name:        r.Counterpart.Name,
			ImageURL:    r.Counterpart.ImageURL,
			Description: r.Counterpart.Persona,
		},
	}
}

// RefreshToken trades the upstream refresh cookie for a fresh credential.
func (c *Client) RefreshToken(ctx context.Context) (authmodels.TokenResult, error) {
	var out authmodels.TokenResult
	if err := c.do(ctx, http.MethodPost, pathRefresh, nil, false, &out); err != nil {
		return authmodels.TokenResult{}, err
	}
	return out, nil
}

// ProviderPendingEmail returns the email the provider reported for a pending
// identity. An empty string means the provider shared none.
func (c *Client) ProviderPendingEmail(ctx context.Context) (string, error) {
	var out emailResponse
	if err := c.do(ctx, http.MethodGet, pathPendingEmail, nil, false, &out); err != nil {
		return "", err
	}
	return out.Email, nil
}

// Login exchanges email and password for a credential.
func (c *Client) Login(ctx context.Context, email, password string) (authmodels.TokenResult, error) {
	var out authmodels.TokenResult
	body := loginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, pathLogin, body, false, &out); err != nil {
		return authmodels.TokenResult{}, err
	}
	return out, nil
}

// Signup completes registration for a pending provider identity.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (authmodels.TokenResult, error) {
	var out authmodels.TokenResult
	if err := c.do(ctx, http.MethodPost, pathSignup, req, false, &out); err != nil {
		return authmodels.TokenResult{}, err
	}
	return out, nil
}

// Logout ends the upstream session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, pathLogout, nil, true, nil)
}

// Balance returns the user's point total.
func (c *Client) Balance(ctx context.Context) (int64, error) {
	var out balanceResponse
	if err := c.do(ctx, http.MethodGet, pathBalance, nil, true, &out); err != nil {
		return 0, err
	}
	if out.TotalValue == nil {
		return 0, fmt.Errorf("balance response without totalValue: %w", sentinel.ErrMalformed)
	}
	return *out.TotalValue, nil
}

// CreateSession opens a chat room with the curator.
func (c *Client) CreateSession(ctx context.Context, counterpartID int64) (handoffmodels.Record, error) {
	var out roomResponse
	body := createRoomRequest{CuratorID: counterpartID}
	if err := c.do(ctx, http.MethodPost, pathChatRooms, body, true, &out); err != nil {
		return handoffmodels.Record{}, err
	}
	return out.toRecord(), nil
}

// ChatSession fetches an existing chat room.
func (c *Client) ChatSession(ctx context.Context, sessionID string) (handoffmodels.Record, error) {
	var out roomResponse
	path := pathChatRooms + "/" + url.PathEscape(sessionID)
	if err := c.do(ctx, http.MethodGet, path, nil, true, &out); err != nil {
		return handoffmodels.Record{}, err
	}
	return out.toRecord(), nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, protected bool, out any) error {
	if c.breaker == nil {
		return c.send(ctx, method, path, body, protected, out)
	}
	if !c.breaker.Allow() {
		return fmt.Errorf("%s %s: circuit %s open: %w", method, path, c.breaker.Name(), sentinel.ErrUnavailable)
	}
	err := c.send(ctx, method, path, body, protected, out)
	switch {
	case err == nil:
		c.breaker.RecordSuccess()
	case errors.Is(err, sentinel.ErrUnavailable):
		c.breaker.RecordFailure()
	case ctx.Err() == nil:
		// Any other answer proves the remote is reachable.
		c.breaker.RecordSuccess()
	}
	return err
}

func (c *Client) send(ctx context.Context, method, path string, body any, protected bool, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := requestcontext.RequestID(ctx); id != "" {
		req.Header.Set(headerRequestID, id)
	}
	if protected {
		if err := c.authorize(ctx, req); err != nil {
			return err
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", method, path, ctxErr)
		}
		return fmt.Errorf("%s %s: %w: %w", method, path, sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w: %w", method, path, sentinel.ErrMalformed, err)
	}
	return nil
}

func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	if c.creds == nil {
		return fmt.Errorf("no credential source: %w", sentinel.ErrUnauthorized)
	}
	cred, ok, err := c.creds.Get(ctx)
	if err != nil {
		return fmt.Errorf("read credential: %w", err)
	}
	if !ok {
		return fmt.Errorf("no credential: %w", sentinel.ErrUnauthorized)
	}
	req.Header.Set("Authorization", "Bearer "+cred.String())
	return nil
}

// StatusError is a non-2xx answer from the remote API.
type StatusError struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return "remote returned " + strconv.Itoa(e.StatusCode)
	}
	return fmt.Sprintf("remote returned %d: %s", e.StatusCode, e.Message)
}

func (e *StatusError) Unwrap() error {
	return e.kind
}

func statusError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	message := ""
	if json.Unmarshal(raw, &body) == nil {
		message = body.Message
		if message == "" {
			message = body.Error
		}
	}

	se := &StatusError{StatusCode: resp.StatusCode, Message: message}
	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		se.kind = sentinel.ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		se.kind = sentinel.ErrNotFound
	case resp.StatusCode >= 500, resp.StatusCode == http.StatusTooManyRequests:
		se.kind = sentinel.ErrUnavailable
	default:
		se.kind = sentinel.ErrInvalidState
	}
	return se
}
