package websession

import (
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/redis/go-redis/v9"

	"parlor/internal/auth/store/credential"
	"parlor/internal/oauth/completion"
	"parlor/internal/platform/metrics"
	"parlor/internal/remote"
	"parlor/pkg/platform/circuit"
)

// FactoryConfig describes how new browser sessions reach the backend.
type FactoryConfig struct {
	APIBaseURL string
	APITimeout time.Duration
	// Transport is shared by every session; only the cookie jar is per session.
	Transport http.RoundTripper
	// Breaker, when set, is shared by every session's client.
	Breaker *circuit.Breaker

	Routes    completion.Routes
	ChatRoute string

	// Redis, when set, keeps credentials in redis for CredentialTTL.
	Redis         *redis.Client
	CredentialTTL time.Duration

	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// NewFactory returns a Factory that wires real remote clients.
func NewFactory(cfg FactoryConfig) Factory {
	var opts []remote.Option
	if cfg.Breaker != nil {
		opts = append(opts, remote.WithBreaker(cfg.Breaker))
	}
	return func(id, device string, now time.Time) *Session {
		var creds CredentialStore
		if cfg.Redis != nil {
			creds = credential.NewRedis(cfg.Redis, id, cfg.CredentialTTL)
		} else {
			creds = credential.NewInMemory()
		}

		// cookiejar.New only fails on a bad public suffix list; we pass none.
		jar, _ := cookiejar.New(nil)
		httpClient := &http.Client{
			Jar:       jar,
			Timeout:   cfg.APITimeout,
			Transport: cfg.Transport,
		}

		return New(id, device, now, Dependencies{
			API:         remote.New(cfg.APIBaseURL, httpClient, creds, opts...),
			Credentials: creds,
			Routes:      cfg.Routes,
			ChatRoute:   cfg.ChatRoute,
			Logger:      cfg.Logger,
			Metrics:     cfg.Metrics,
		})
	}
}
