package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bloglist/config"
	"bloglist/config/database"
	"bloglist/internal/auth"
	"bloglist/middleware"
	"bloglist/pkg/logger"
	"bloglist/router"
	"bloglist/socket"

	"github.com/go-chi/docgen"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

var routes = flag.Bool("routes", false, "Print the API routes as markdown and exit")

func main() {
	flag.Parse()

	// 1. Configuration comes from .env and the process environment.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Sugar.Errorf("Server stopped: %v", err)
		logger.Sync()
		os.Exit(1)
	}
}

// printRoutes renders the route tree without touching the database.
func printRoutes(cfg *config.Config) error {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	hub := socket.NewHub()
	r := router.Setup(db, hub, auth.NewIssuer(cfg.Secret, cfg.TokenTTL), middleware.NewMetrics(prometheus.NewRegistry()))
	fmt.Println(docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
		ProjectPath: "bloglist",
		Intro:       "Blog list and notes REST API.",
	}))
	return nil
}

func run(cfg *config.Config) error {
	if *routes {
		return printRoutes(cfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to PostgreSQL and bring the schema up to date.
	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	// 3. The hub fans committed writes out to /ws subscribers.
	hub := socket.NewHub()
	go hub.Run()
	defer hub.Stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	issuer := auth.NewIssuer(cfg.Secret, cfg.TokenTTL)
	r := router.Setup(db, hub, issuer, middleware.NewMetrics(registry))

	// 4. Diagnostics listen on their own address so /metrics is never public.
	diagMux := http.NewServeMux()
	diagMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	diag := &http.Server{Addr: cfg.DiagAddr, Handler: diagMux}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Sugar.Infof("Diagnostics listening on %s", cfg.DiagAddr)
		if err := diag.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("diagnostics server: %w", err)
		}
	}()
	go func() {
		logger.Sugar.Infof("Server running on port %s (%s)", cfg.Port, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("api server: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Sugar.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown api server: %w", err)
	}
	return diag.Shutdown(shutdownCtx)
}
