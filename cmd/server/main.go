package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/gestor/backend/internal/application/billing"
	identityapp "github.com/gestor/backend/internal/application/identity"
	insightapp "github.com/gestor/backend/internal/application/insight"
	seedapp "github.com/gestor/backend/internal/application/seed"
	settingsapp "github.com/gestor/backend/internal/application/settings"
	syncapp "github.com/gestor/backend/internal/application/sheetsync"
	tradeapp "github.com/gestor/backend/internal/application/trade"
	domainbilling "github.com/gestor/backend/internal/domain/billing"
	"github.com/gestor/backend/internal/infrastructure/auth"
	"github.com/gestor/backend/internal/infrastructure/billing"
	"github.com/gestor/backend/internal/infrastructure/config"
	"github.com/gestor/backend/internal/infrastructure/logger"
	"github.com/gestor/backend/internal/infrastructure/persistence"
	"github.com/gestor/backend/internal/interfaces/http/handler"
	"github.com/gestor/backend/internal/interfaces/http/middleware"
	"github.com/gestor/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Log)
	defer func() { _ = log.Sync() }()

	log.Info("starting",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("database", cfg.Database.Path))

	db, err := persistence.Open(cfg.Database, logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level)))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = db.Close() }()

	stores := persistence.NewStores(db)
	ctx := context.Background()

	// Application services.
	tokens := auth.NewTokenService(cfg.JWT)
	configService := settingsapp.NewConfigService(db, stores, log)
	authService := identityapp.NewAuthService(stores, tokens, log)
	saleService := tradeapp.NewSaleService(db, stores, log)
	insightService := insightapp.NewService(stores, log)

	var provider domainbilling.StatusProvider
	if cfg.Payment.Provider == "stripe" {
		stripeProvider, err := billing.NewStripeProvider(cfg.Payment, log)
		if err != nil {
			return fmt.Errorf("init payment provider: %w", err)
		}
		provider = stripeProvider
	}
	subscriptionService := billingapp.NewSubscriptionService(stores, provider, log)
	syncService := syncapp.NewService(db, stores, insightService, nil, log)

	// First-run bootstrap: default config, seed data, master account.
	if _, err := configService.Get(ctx); err != nil {
		return fmt.Errorf("bootstrap config: %w", err)
	}
	if err := seedapp.NewService(stores, log).Run(ctx, cfg.App.SeedDemo); err != nil {
		return fmt.Errorf("seed store: %w", err)
	}
	if err := authService.EnsureAdmin(ctx, "admin", "admin"); err != nil {
		return fmt.Errorf("bootstrap admin account: %w", err)
	}

	// HTTP surface.
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(middleware.Recovery(log), middleware.RequestLogger(log))

	r := router.NewRouter(engine)
	r.Register(handler.NewSystemHandler(db, cfg.App.Name)).
		Register(handler.NewAuthHandler(authService, tokens)).
		Register(handler.NewConfigHandler(configService)).
		Register(handler.NewProductHandler(stores.Products)).
		Register(handler.NewSaleHandler(saleService)).
		Register(handler.NewFinanceHandler(stores.Transactions, stores.Categories)).
		Register(handler.NewInsightHandler(insightService)).
		Register(handler.NewSyncHandler(syncService)).
		Register(handler.NewSubscriptionHandler(subscriptionService))
	r.Setup()

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("stopped")
	return nil
}
