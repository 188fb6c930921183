package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docsync/config"
	"docsync/config/database"
	"docsync/pkg/logger"
	"docsync/router"
	"docsync/socket"
)

func main() {
	logger.Init()
	defer logger.Log.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Sugar.Fatalf("Configuration error: %v", err)
	}

	db := database.Connect(cfg.DatabaseURL)
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		logger.Sugar.Fatalf("Failed to ensure schema: %v", err)
	}

	hub := socket.NewHub(cfg.AllowedOrigin)
	go hub.Run()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router.Setup(db, hub, cfg.AllowedOrigin),
	}

	go func() {
		logger.Sugar.Infof("Backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM: stop accepting requests, then
	// let the deferred Close drop the database pool.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Sugar.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar.Errorf("Forced shutdown: %v", err)
	}
	logger.Sugar.Info("Server stopped")
}
