package main

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"CartBridge/internal/cart"
	"CartBridge/internal/pricing"
	"CartBridge/internal/session"
	"CartBridge/pkg/kit"
)

type config struct {
	Port string `env:"PORT" envDefault:"8080"`
	Env  string `env:"APP_ENV" envDefault:"development"`

	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"15m"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"10m"`

	// SweepInterval > 0 enables the background reaper for expired
	// sessions and idempotency records; expiry is lazy otherwise.
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"0"`

	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	MetricsToken   string `env:"METRICS_TOKEN"`

	RateLimit       int `env:"RATE_LIMIT" envDefault:"0"`
	RateLimitWindow int `env:"RATE_LIMIT_WINDOW_SECONDS" envDefault:"60"`
}

func main() {
	service := "cart"

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		zap.Must(zap.NewProduction()).Fatal("parse env", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.Env)
	defer func() { _ = log.Sync() }()

	sessions := session.NewMemStore(cfg.SessionTTL)
	carts := cart.NewMemStore()
	idem := cart.NewMemIdemStore()
	pricer := pricing.NewEngine(pricing.NewCatalog())

	svc := cart.NewService(sessions, carts, idem, pricer, cfg.IdempotencyTTL)

	if cfg.SweepInterval > 0 {
		go sweep(cfg.SweepInterval, sessions, idem, log)
	}

	registry := prometheus.NewRegistry()

	s := &cart.Server{
		Service:    svc,
		Log:        log,
		Production: cfg.Env == "production",
	}

	h := cart.NewHandler(s, cart.HTTPDeps{
		Log:             log,
		Service:         service,
		Registry:        registry,
		MetricsEnabled:  cfg.MetricsEnabled,
		MetricsToken:    cfg.MetricsToken,
		RateLimit:       cfg.RateLimit,
		RateLimitWindow: cfg.RateLimitWindow,
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

type sweeper interface {
	Sweep() int
}

func sweep(interval time.Duration, sessions, idem sweeper, log *zap.Logger) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for range t.C {
		if n := sessions.Sweep(); n > 0 {
			log.Info("swept expired sessions", zap.Int("count", n))
		}
		if n := idem.Sweep(); n > 0 {
			log.Info("swept expired idempotency records", zap.Int("count", n))
		}
	}
}
