// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command spotlightd runs the Spotlight pack as a standalone dev server.
//
// Inside a host application the pack's routes are mounted onto the host's
// router; spotlightd exposes the exact same routes on its own port so
// frontend work does not need a full host running.
//
// Usage:
//
//	go run ./cmd/spotlightd
//	go run ./cmd/spotlightd -port 9090 -debug
//
// Environment overrides (flags win over environment):
//
//	SPOTLIGHT_PORT, SPOTLIGHT_WEB_DIR, SPOTLIGHT_USER_DIR,
//	SPOTLIGHT_SEARCH_TIMEOUT, SPOTLIGHT_AGE_TIMEOUT,
//	SPOTLIGHT_CACHE_DIR, SPOTLIGHT_CACHE_TTL, SPOTLIGHT_DEBUG
//
// Example requests:
//
//	curl http://localhost:8188/health
//	curl http://localhost:8188/spotlight/user_plugins/
//	curl 'http://localhost:8188/ovum/spotlight/google?q=comfy'
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/AleutianAI/spotlight/pkg/logging"
	"github.com/AleutianAI/spotlight/pkg/nodes"
	"github.com/AleutianAI/spotlight/services/spotlight/bootstrap"
	"github.com/AleutianAI/spotlight/services/spotlight/cache"
	"github.com/AleutianAI/spotlight/services/spotlight/config"
	"github.com/AleutianAI/spotlight/services/spotlight/handlers"
	"github.com/AleutianAI/spotlight/services/spotlight/manifest"
	"github.com/AleutianAI/spotlight/services/spotlight/markdown"
	"github.com/AleutianAI/spotlight/services/spotlight/middleware"
	"github.com/AleutianAI/spotlight/services/spotlight/observability"
	"github.com/AleutianAI/spotlight/services/spotlight/routes"
	"github.com/AleutianAI/spotlight/services/spotlight/watcher"
)

func main() {
	port := flag.Int("port", 0, "Port to listen on (overrides SPOTLIGHT_PORT)")
	debug := flag.Bool("debug", false, "Enable debug mode")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *debug {
		cfg.Debug = true
	}

	level := logging.LevelInfo
	if cfg.Debug {
		level = logging.LevelDebug
	}
	logger, err := logging.New(logging.Config{
		Level:   level,
		JSON:    !cfg.Debug,
		Service: "spotlightd",
	})
	if err != nil {
		slog.Error("failed to set up logging", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer logger.Close()
	slog.SetDefault(logger.Logger)

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg); err != nil {
		slog.Error("spotlightd failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	packDir := filepath.Dir(cfg.WebDir)
	mf := manifest.LoadOrDefault(filepath.Join(packDir, manifest.DefaultPath))
	slog.Info("Starting Spotlight dev server",
		slog.String("pack", mf.Name), slog.String("version", mf.Version),
		slog.Int("nodes", nodes.Default().Count()),
		slog.String("web_dir", cfg.WebDir), slog.String("user_dir", cfg.UserDir))

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

	userPluginsDir := filepath.Join(cfg.UserDir, "spotlight", "user_plugins")
	boot := &bootstrap.Bootstrapper{
		DefaultsDir: filepath.Join(packDir, "user_plugins.default"),
	}
	if err := boot.EnsureInitialized(userPluginsDir); err != nil {
		return fmt.Errorf("bootstrap user plugins: %w", err)
	}
	metrics.BootstrapFilesCopied.Add(float64(boot.Copied()))

	store, err := cache.Open(cache.Config{Path: cfg.CacheDir})
	if err != nil {
		return fmt.Errorf("open search cache: %w", err)
	}
	defer store.Close()

	hub := handlers.NewEventHub()
	watch := watcher.New(userPluginsDir, watcher.DefaultDebounce, func(paths []string) {
		slog.Info("user plugins changed", slog.Int("count", len(paths)))
		hub.Broadcast(paths)
	}, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := watch.Start(ctx); err != nil {
		return fmt.Errorf("start plugin watcher: %w", err)
	}
	defer watch.Stop()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	if cfg.Debug {
		router.Use(gin.Logger())
	}

	routes.SetupRoutes(router, routes.Deps{
		WebDir:         cfg.WebDir,
		UserPluginsDir: userPluginsDir,
		Manifest:       mf,
		Renderer:       markdown.NewRenderer(),
		Client:         &http.Client{},
		Hub:            hub,
		Cache:          store,
		Metrics:        metrics,
		SearchTimeout:  cfg.SearchTimeout,
		AgeTimeout:     cfg.AgeTimeout,
		CacheTTL:       cfg.CacheTTL,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Listening", slog.String("address", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		slog.Info("Shutting down Spotlight dev server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}
