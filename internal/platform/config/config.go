package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server captures the web process configuration.
type Server struct {
	Addr            string        `env:"PARLOR_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"PARLOR_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogLevel        string        `env:"PARLOR_LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"PARLOR_LOG_FORMAT" envDefault:"json"`

	API      APIConfig      `envPrefix:"PARLOR_API_"`
	Sessions SessionsConfig `envPrefix:"PARLOR_SESSION_"`
	Routes   RoutesConfig   `envPrefix:"PARLOR_ROUTE_"`
	Redis    RedisConfig    `envPrefix:"PARLOR_REDIS_"`
}

// APIConfig points at the remote REST API that owns users, balances and chat rooms.
type APIConfig struct {
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:9000"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`

	// Consecutive transport or 5xx failures before calls short-circuit.
	BreakerFailures int           `env:"BREAKER_FAILURES" envDefault:"5"`
	BreakerCooldown time.Duration `env:"BREAKER_COOLDOWN" envDefault:"5s"`
}

// SessionsConfig controls browser session lifetime and cookies.
type SessionsConfig struct {
	TTL           time.Duration `env:"TTL" envDefault:"12h"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"5m"`
	SecureCookies bool          `env:"SECURE_COOKIES" envDefault:"true"`
}

// RoutesConfig names the pages the session core navigates to.
type RoutesConfig struct {
	Landing string `env:"LANDING" envDefault:"/"`
	Signup  string `env:"SIGNUP" envDefault:"/signup"`
	Login   string `env:"LOGIN" envDefault:"/login"`
	Chat    string `env:"CHAT" envDefault:"/chat"`
}

// RedisConfig enables the redis credential store when URL is set.
type RedisConfig struct {
	URL          string        `env:"URL"`
	PoolSize     int           `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"3s"`
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the session core cannot run with.
func (c Server) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("PARLOR_API_BASE_URL is required")
	}
	if c.Sessions.TTL <= 0 {
		return fmt.Errorf("PARLOR_SESSION_TTL must be positive")
	}
	if c.Sessions.SweepInterval <= 0 {
		return fmt.Errorf("PARLOR_SESSION_SWEEP_INTERVAL must be positive")
	}
	for name, path := range map[string]string{
		"landing": c.Routes.Landing,
		"signup":  c.Routes.Signup,
		"login":   c.Routes.Login,
		"chat":    c.Routes.Chat,
	} {
		if !strings.HasPrefix(path, "/") {
			return fmt.Errorf("%s route must be an absolute path, got %q", name, path)
		}
	}
	return nil
}
