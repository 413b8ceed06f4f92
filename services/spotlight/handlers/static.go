// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers implements the Spotlight HTTP endpoints.
//
// Every handler is a closure over its dependencies, returned as a
// gin.HandlerFunc, so the same functions serve both the host-mounted
// routes and the dev server.
package handlers

import (
	"log/slog"
	"mime"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/spotlight/services/spotlight/markdown"
	"github.com/AleutianAI/spotlight/services/spotlight/observability"
	"github.com/AleutianAI/spotlight/services/spotlight/webfs"
)

func init() {
	// Windows mime registries frequently mislabel these; pin them so
	// frontend assets always arrive executable/styleable.
	_ = mime.AddExtensionType(".md", "text/markdown")
	_ = mime.AddExtensionType(".css", "text/css")
	_ = mime.AddExtensionType(".js", "application/javascript")
}

// ServeStatic serves files under baseDir at the route mounted on
// baseURL. Directory targets fall back to index.html, a rendered
// readme, then a generated listing.
//
// mount is the low-cardinality metrics label for this route
// ("web", "node_modules").
func ServeStatic(baseDir, baseURL, mount string, renderer *markdown.Renderer,
	metrics *observability.Metrics) gin.HandlerFunc {

	return func(c *gin.Context) {
		tail := c.Param("filepath")
		res := webfs.Resolve(baseDir, tail)

		status := http.StatusOK
		switch res.Kind {
		case webfs.KindForbidden:
			status = http.StatusForbidden
			c.String(status, "Forbidden")
		case webfs.KindNotFound:
			status = http.StatusNotFound
			c.String(status, "Not Found")
		case webfs.KindIndex, webfs.KindFile:
			c.File(res.Path)
		case webfs.KindReadme:
			src, err := os.ReadFile(res.Path)
			if err != nil {
				slog.Error("failed to read readme", "path", res.Path, "error", err)
				status = http.StatusInternalServerError
				c.String(status, "Internal Server Error")
				break
			}
			c.Data(http.StatusOK, "text/html; charset=utf-8", renderer.Render(src))
		case webfs.KindListing:
			c.Data(http.StatusOK, "text/html; charset=utf-8",
				webfs.ListingHTML(baseURL, res.Path, res.Rel))
		}

		if metrics != nil {
			metrics.StaticRequestsTotal.WithLabelValues(mount,
				observability.StatusClass(status)).Inc()
		}
	}
}
