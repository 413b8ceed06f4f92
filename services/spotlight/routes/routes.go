// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/spotlight/services/spotlight/cache"
	"github.com/AleutianAI/spotlight/services/spotlight/handlers"
	"github.com/AleutianAI/spotlight/services/spotlight/manifest"
	"github.com/AleutianAI/spotlight/services/spotlight/markdown"
	"github.com/AleutianAI/spotlight/services/spotlight/observability"
)

// Deps bundles everything the route table needs. Client and Hub may not
// be nil; Cache and Metrics are optional.
type Deps struct {
	// WebDir is the pack's bundled frontend assets directory.
	WebDir string
	// UserPluginsDir is the per-user plugin directory.
	UserPluginsDir string

	Manifest manifest.Manifest
	Renderer *markdown.Renderer
	Client   handlers.HTTPClient
	Hub      *handlers.EventHub
	Cache    *cache.Store
	Metrics  *observability.Metrics

	SearchTimeout time.Duration
	AgeTimeout    time.Duration
	CacheTTL      time.Duration
}

// SetupRoutes mounts every Spotlight endpoint on router. The path shapes
// mirror what the host application exposes for an installed pack, so
// frontend code works unchanged against the standalone dev server.
func SetupRoutes(router *gin.Engine, deps Deps) {
	router.GET("/health", handlers.Health(deps.Manifest))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Bundled frontend assets, plus the vendored node_modules shipped
	// under the web dist tree.
	router.GET("/ovum-spotlight/web/*filepath",
		handlers.ServeStatic(deps.WebDir, "/ovum-spotlight/web", "web",
			deps.Renderer, deps.Metrics))
	router.GET("/ovum-spotlight/node_modules/*filepath",
		handlers.ServeStatic(filepath.Join(deps.WebDir, "dist", "node_modules"),
			"/ovum-spotlight/node_modules", "node_modules",
			deps.Renderer, deps.Metrics))

	router.GET(handlers.UserPluginsBase+"/*filepath",
		handlers.UserPlugins(deps.UserPluginsDir, deps.Metrics))

	// Proxy endpoints used by the pack's frontend nodes.
	proxies := router.Group("/ovum/spotlight")
	{
		proxies.GET("/google", handlers.Search(handlers.SearchConfig{
			Client:   deps.Client,
			Timeout:  deps.SearchTimeout,
			Cache:    deps.Cache,
			CacheTTL: deps.CacheTTL,
			Metrics:  deps.Metrics,
		}))
		proxies.GET("/age", handlers.Age(deps.Client, deps.AgeTimeout))
		proxies.GET("/events", handlers.Events(deps.Hub))
	}
}
