// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/spotlight/pkg/validation"
	"github.com/AleutianAI/spotlight/services/spotlight/datatypes"
	"github.com/AleutianAI/spotlight/services/spotlight/observability"
	"github.com/AleutianAI/spotlight/services/spotlight/webfs"
)

// UserPluginsBase is the URL base the user-plugins route is mounted on.
const UserPluginsBase = "/spotlight/user_plugins"

// UserPlugins serves the per-user plugin directory.
//
// Directory targets (including an empty tail over a directory that does
// not exist yet) return a recursive JSON listing of .js files, excluding
// names beginning with "." or "_". File targets serve the bytes, but
// only for .js files; everything else is forbidden.
func UserPlugins(rootDir string, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		tail := strings.TrimSpace(c.Param("filepath"))
		rel := validation.SafeRelPath(tail)
		target := filepath.Join(rootDir, rel)

		if !validation.WithinBase(rootDir, target) {
			c.String(http.StatusForbidden, "Forbidden")
			return
		}

		info, err := os.Stat(target)
		switch {
		case err == nil && info.IsDir():
			listPlugins(c, rootDir, target, metrics)
		case err == nil:
			if !validation.IsServableScript(target) {
				c.String(http.StatusForbidden, "Forbidden: only .js allowed")
				return
			}
			c.File(target)
		case strings.Trim(tail, "/") == "":
			// Root listing works even before bootstrap created the
			// directory.
			listPlugins(c, rootDir, rootDir, metrics)
		default:
			c.String(http.StatusNotFound, "Not Found")
		}
	}
}

func listPlugins(c *gin.Context, rootDir, dir string, metrics *observability.Metrics) {
	scripts, err := webfs.WalkScripts(dir)
	if err != nil {
		slog.Error("failed to list user plugins", "dir", dir, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": err.Error()})
		return
	}

	files := make([]datatypes.PluginFile, 0, len(scripts))
	for _, s := range scripts {
		// Paths are reported relative to the plugins root, not the
		// listed subdirectory.
		full := filepath.Join(dir, filepath.FromSlash(s))
		rel, err := filepath.Rel(rootDir, full)
		if err != nil {
			continue
		}
		slashRel := filepath.ToSlash(rel)
		files = append(files, datatypes.PluginFile{
			Path: slashRel,
			URL:  UserPluginsBase + "/" + slashRel,
		})
	}

	if metrics != nil {
		metrics.PluginListingsTotal.Inc()
	}
	c.JSON(http.StatusOK, datatypes.PluginListing{Base: UserPluginsBase, Files: files})
}
