package main

import (
	"context"
	"errors"
	"fleet-route-service/internal/api"
	"fleet-route-service/internal/app"
	"fleet-route-service/internal/config"
	"fleet-route-service/internal/platform/logging"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// main is the application composition root.
// It wires concrete adapters (Postgres or files, ORS or haversine, Redis or
// memory) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.Wire(ctx, cfg)
	if err != nil {
		logger.Fatal("wire dependencies", zap.Error(err))
	}
	defer deps.Close()

	defaults, err := app.PlanDefaults(cfg)
	if err != nil {
		logger.Fatal("plan defaults", zap.Error(err))
	}

	router := api.NewRouter(deps.Repo, deps.Store, defaults)

	// Write timeout covers a cold matrix build plus the search time limit.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120*time.Second + cfg.SearchTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	logger.Info("server listening", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("listen", zap.Error(err))
	}
}
