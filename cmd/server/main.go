package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fieldline/backend/internal/application/analytics"
	"github.com/fieldline/backend/internal/application/catalogsync"
	"github.com/fieldline/backend/internal/application/hierarchy"
	"github.com/fieldline/backend/internal/application/orderentry"
	"github.com/fieldline/backend/internal/infrastructure/auth"
	"github.com/fieldline/backend/internal/infrastructure/cache"
	"github.com/fieldline/backend/internal/infrastructure/config"
	"github.com/fieldline/backend/internal/infrastructure/event"
	"github.com/fieldline/backend/internal/infrastructure/logger"
	"github.com/fieldline/backend/internal/infrastructure/persistence"
	"github.com/fieldline/backend/internal/infrastructure/remote"
	"github.com/fieldline/backend/internal/interfaces/http/router"
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

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("starting fieldline backend",
		zap.String("env", cfg.App.Env),
		zap.String("manager_id", cfg.Team.ManagerID),
		zap.String("db_driver", cfg.Database.Driver))

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := persistence.Migrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	ledgerRepo := persistence.NewGormLedgerRepository(db)

	bus := event.NewInMemoryEventBus(log)

	snapshotCache, err := cache.New(cfg, log)
	if err != nil {
		return fmt.Errorf("init snapshot cache: %w", err)
	}

	remoteClient := remote.NewClient(&cfg.Remote, log)
	catalogSvc := catalogsync.NewService(remoteClient, snapshotCache, bus, cfg.Team.ManagerID, log)
	catalogSvc.WarmStart(context.Background())

	analyticsSvc := analytics.NewService(ledgerRepo, catalogSvc, cfg.Analytics.WindowDays, log)
	bus.Subscribe(analyticsSvc)

	orderEntrySvc := orderentry.NewService(ledgerRepo, catalogSvc, remoteClient, bus, log)
	hierarchySvc := hierarchy.NewService(ledgerRepo, catalogSvc, bus, log)

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)

	engine := router.New(cfg, router.Services{
		Analytics:  analyticsSvc,
		OrderEntry: orderEntrySvc,
		Hierarchy:  hierarchySvc,
		Catalog:    catalogSvc,
	}, jwtManager, log)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// First refresh in the background so startup does not block on the
	// remote store being reachable.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Remote.TimeoutSeconds)*4*time.Second)
		defer cancel()
		if err := catalogSvc.Refresh(ctx); err != nil {
			log.Warn("initial catalog refresh failed", zap.Error(err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close() //nolint:errcheck
	}
	log.Info("stopped")
	return nil
}
