package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"expense-ledger/internal/auth"
	"expense-ledger/internal/config"
	"expense-ledger/internal/database"
	"expense-ledger/internal/forecast"
	"expense-ledger/internal/logger"
	"expense-ledger/internal/router"
	"expense-ledger/internal/service"
	"expense-ledger/internal/store"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	appLog := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logger.SetDefault(appLog)

	// init database
	db, err := database.Init(cfg.Database, appLog)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	defer database.Close(db)

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWT)
	if err != nil {
		log.Fatalf("init tokens: %v", err)
	}
	st := store.New(db)
	users := service.NewUserService(st, auth.NewHasher(cfg.Security.BcryptCost), tokens, appLog)
	ledger := service.NewLedgerService(st, forecast.NewEstimator(forecast.WithMaxDays(cfg.Forecast.MaxDays)), appLog)

	// setup router
	r := router.SetupRouter(cfg, router.Deps{
		DB:       db,
		Users:    users,
		Ledger:   ledger,
		Log:      appLog,
		TokenTTL: tokens.TTL(),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLog.Info("server listening", "addr", srv.Addr, "db_driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLog.Info("shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLog.Error("graceful shutdown failed", "error", err)
	}
}
