package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"wellspring/internal/admin/gate"
	"wellspring/internal/identity/store/user"
	"wellspring/internal/identity/verifier"
	"wellspring/internal/platform/config"
	"wellspring/internal/platform/database"
	"wellspring/internal/platform/health"
	"wellspring/internal/platform/httpserver"
	"wellspring/internal/platform/logger"
	"wellspring/internal/platform/metrics"
	"wellspring/internal/session/service"
	"wellspring/internal/session/token"
	httptransport "wellspring/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing wellspring",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
	)

	// Configuration defects must stop the process, never degrade into a
	// server that hands out unauthenticated results.
	if cfg.SessionSigningKey == "" {
		log.Error("SESSION_SIGNING_KEY is not set")
		os.Exit(1)
	}
	if cfg.GoogleClientID == "" {
		log.Error("GOOGLE_CLIENT_ID is not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}

	var users user.Store
	if pool != nil {
		if err := database.Migrate(ctx, pool.DB()); err != nil {
			log.Error("migrations failed", "error", err)
			os.Exit(1)
		}
		users = user.NewPostgres(pool.DB())
		log.Info("using postgres user store")
	} else {
		users = user.NewMemory()
		log.Warn("DATABASE_URL not set, using in-memory user store")
	}

	googleVerifier, err := verifier.New(ctx, cfg.GoogleIssuer, cfg.GoogleClientID)
	if err != nil {
		log.Error("identity provider discovery failed", "issuer", cfg.GoogleIssuer, "error", err)
		os.Exit(1)
	}

	tokens, err := token.NewService(cfg.SessionSigningKey, "wellspring")
	if err != nil {
		log.Error("token service init failed", "error", err)
		os.Exit(1)
	}

	sessions := service.NewService(users, tokens,
		service.WithLogger(log),
		service.WithMetrics(m),
	)

	secureCookies := cfg.Environment == "production"
	adminGate := gate.New(tokens,
		gate.WithLogger(log),
		gate.WithMetrics(m),
		gate.WithSecureCookies(secureCookies),
	)

	healthHandler := health.New(cfg.Environment)
	if pool != nil {
		healthHandler.RegisterCheck("database", func() error {
			return pool.Health(ctx)
		})
	}

	authHandler := httptransport.NewAuthHandler(
		googleVerifier,
		sessions,
		token.PolicyMobileAPI(cfg.MobileSessionTTL),
		token.PolicyAdminWeb(cfg.AdminSessionTTL),
		log,
		m,
		secureCookies,
	)
	router := httptransport.NewRouter(authHandler, tokens, adminGate, healthHandler, log)

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server gracefully")
		return httpserver.Shutdown(srv, 10*time.Second)
	})

	err = g.Wait()

	if pool != nil {
		if closeErr := pool.Close(); closeErr != nil {
			log.Error("closing database pool", "error", closeErr)
		}
	}
	if err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
