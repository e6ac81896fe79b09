package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"parlor/internal/oauth/completion"
	"parlor/internal/platform/config"
	"parlor/internal/platform/httpserver"
	"parlor/internal/platform/logger"
	"parlor/internal/platform/metrics"
	"parlor/internal/platform/redis"
	httptransport "parlor/internal/transport/http"
	"parlor/internal/websession"
	"parlor/pkg/platform/circuit"
)

// main wires dependencies and owns the process lifecycle. Behaviour lives in the
// internal packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "parlor: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	var credentialRedis *goredis.Client
	health := func(context.Context) error { return nil }
	if redisClient != nil {
		defer redisClient.Close()
		credentialRedis = redisClient.Client
		health = redisClient.Health
		log.Info("credentials stored in redis")
	} else {
		log.Info("credentials stored in memory; set PARLOR_REDIS_URL to persist them")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	breaker := circuit.New("remote-api",
		circuit.WithFailureThreshold(cfg.API.BreakerFailures),
		circuit.WithCooldown(cfg.API.BreakerCooldown),
	)
	factory := websession.NewFactory(websession.FactoryConfig{
		APIBaseURL: cfg.API.BaseURL,
		APITimeout: cfg.API.Timeout,
		Routes: completion.Routes{
			Landing: cfg.Routes.Landing,
			Signup:  cfg.Routes.Signup,
			Login:   cfg.Routes.Login,
		},
		ChatRoute:     cfg.Routes.Chat,
		Breaker:       breaker,
		Redis:         credentialRedis,
		CredentialTTL: cfg.Sessions.TTL,
		Logger:        log,
		Metrics:       m,
	})
	registry := websession.NewRegistry(factory, cfg.Sessions.TTL,
		websession.WithRegistryLogger(log),
		websession.WithRegistryMetrics(m),
	)

	router := httptransport.NewRouter(httptransport.Config{
		Sessions:       registry,
		SessionTTL:     cfg.Sessions.TTL,
		SecureCookies:  cfg.Sessions.SecureCookies,
		RequestTimeout: cfg.API.Timeout * 3,
		Logger:         log,
		Metrics:        m,
		Gatherer:       reg,
		Health:         health,
	})

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting parlor", "addr", ln.Addr().String(), "api", cfg.API.BaseURL)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Serve(gctx, srv, ln, cfg.ShutdownTimeout)
	})
	g.Go(func() error {
		return registry.Run(gctx, cfg.Sessions.SweepInterval)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("parlor stopped")
	return nil
}
