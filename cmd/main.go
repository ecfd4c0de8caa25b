/*
Package main is the entry point for the codesync server.

It loads configuration, initializes the global logging system, wires the
collaboration core (store, hub, event router, execution dispatcher) into the
HTTP server, starts the keepalive self-pinger, and handles operating system
interrupt signals for a graceful shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codesync/internal/app/collab"
	"codesync/internal/app/piston"
	"codesync/internal/configs"
	"codesync/internal/handler"
	"codesync/internal/pkg/keepalive"
	"codesync/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("execution_url", cfg.ExecutionURL).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Wire the collaboration core: an injectable store per process, the
	// transport hub, the execution dispatcher, and the event router on top.
	store := collab.NewStore()
	hub := collab.NewHub()
	executor := piston.NewClient(cfg.ExecutionURL, piston.WithTimeout(cfg.ExecutionTimeout))
	eventRouter := collab.NewRouter(store, hub, executor)

	// Setup HTTP server and routes
	router := handler.Router(&handler.AppDeps{
		Router: eventRouter,
		Config: cfg,
	})

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Keep the hosted instance warm. No-op when KEEPALIVE_URL is unset.
	pinger := keepalive.NewPinger(cfg.KeepAliveURL, cfg.KeepAliveInterval)
	go pinger.Run(ctx)

	go func() {
		logx.Info(fmt.Sprintf("codesync server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	logx.Info("Server gracefully stopped.")
}
