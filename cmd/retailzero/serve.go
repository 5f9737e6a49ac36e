package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/retailzero/brand-gateway/internal/api"
	"github.com/retailzero/brand-gateway/internal/core/ports"
	"github.com/retailzero/brand-gateway/internal/core/service"
	"github.com/retailzero/brand-gateway/internal/infrastructure/brands"
	"github.com/retailzero/brand-gateway/internal/infrastructure/config"
	"github.com/retailzero/brand-gateway/internal/infrastructure/db/memory"
	redisdb "github.com/retailzero/brand-gateway/internal/infrastructure/db/redis"
	"github.com/retailzero/brand-gateway/internal/infrastructure/identity"
	"github.com/retailzero/brand-gateway/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP gateway.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "retailzero-gateway",
	})

	registry, err := brands.Load(cfg.BrandsFile)
	if err != nil {
		return err
	}

	var (
		rdb     *goredis.Client
		latches ports.LatchStore
	)
	if cfg.Session.Store == "redis" {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		latches = redisdb.NewLatchStore(rdb, cfg.Session.Lifetime)
	} else {
		log.Warn().Msg("sessions and redirect latches are kept in memory; do not run more than one replica")
		latches = memory.NewLatchStore(cfg.Session.Lifetime)
	}

	sm := identity.NewSessionManager(identity.SessionOptions{
		Lifetime:     cfg.Session.Lifetime,
		CookieName:   cfg.Session.CookieName,
		CookieSecure: cfg.Session.CookieSecure,
	}, rdb)
	store := identity.NewSessionStore(sm)

	authenticator, err := identity.NewAuthenticator(ctx, identity.Config{
		Domain:       cfg.Auth0.Domain,
		ClientID:     cfg.Auth0.ClientID,
		ClientSecret: cfg.Auth0.ClientSecret,
		CallbackURL:  cfg.CallbackURL(),
		Audience:     cfg.Auth0.Audience,
	})
	if err != nil {
		return err
	}

	claims := service.NewClaimsReader(cfg.Auth0.ClaimsNamespace)
	sessions := service.NewSessionService(store, authenticator, claims, logger.Component("session"))
	brandContext := service.NewBrandContext(registry, store)
	access := service.NewAccessService(cfg.AccessPolicy(), logger.Component("access"))
	redirects := service.NewRedirectRouter(latches, registry, brandContext, cfg.LandingRoutes(), logger.Component("redirect"))

	e := api.NewRouter(api.Dependencies{
		Sessions:  sm,
		Redis:     rdb,
		Registry:  registry,
		Brands:    brandContext,
		Identity:  sessions,
		Access:    access,
		Redirects: redirects,
		Claims:    claims,
		Routes:    cfg.LandingRoutes(),
		BaseURL:   cfg.AppBaseURL,
		Log:       logger.Component("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Int("brands", len(registry.All())).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
