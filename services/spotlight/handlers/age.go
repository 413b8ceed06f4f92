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
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/spotlight/services/spotlight/datatypes"
)

const agifyBaseURL = "https://api.agify.io"

// Age proxies name-to-estimated-age lookups to agify.io, so browser
// frontends are not blocked by that API's CORS policy.
//
// Upstream failures surface as 502 with an error body; a missing name
// is the caller's fault and gets 400.
func Age(client HTTPClient, timeout time.Duration) gin.HandlerFunc {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return func(c *gin.Context) {
		name := c.Query("name")
		if name == "" {
			c.JSON(http.StatusBadRequest, datatypes.AgeResponse{
				Error:   true,
				Message: "missing name",
			})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			agifyBaseURL+"/?name="+url.QueryEscape(name), nil)
		if err != nil {
			c.JSON(http.StatusBadGateway, datatypes.AgeResponse{
				Error:   true,
				Message: err.Error(),
			})
			return
		}

		resp, err := client.Do(req)
		if err != nil {
			slog.Info("spotlight age fetch failed", "name", name, "error", err)
			c.JSON(http.StatusBadGateway, datatypes.AgeResponse{
				Name:    name,
				Error:   true,
				Message: "fetch failed",
			})
			return
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			slog.Info("spotlight age fetch failed", "name", name, "error", err)
			c.JSON(http.StatusBadGateway, datatypes.AgeResponse{
				Name:    name,
				Error:   true,
				Message: "fetch failed",
			})
			return
		}

		var out datatypes.AgeResponse
		if err := json.Unmarshal(body, &out); err != nil {
			slog.Info("spotlight age returned non-JSON body", "status", resp.StatusCode)
			c.JSON(http.StatusBadGateway, datatypes.AgeResponse{
				Name:    name,
				Error:   true,
				Message: "fetch failed",
			})
			return
		}
		// The response echoes the queried name regardless of what the
		// upstream reports; only age and count are taken from it.
		out.Name = name
		// Relay upstream rate-limit and validation errors as-is; the
		// frontend distinguishes them by the error flag.
		if resp.StatusCode != http.StatusOK {
			out.Error = true
			if out.Message == "" {
				out.Message = http.StatusText(resp.StatusCode)
			}
		}
		c.JSON(http.StatusOK, out)
	}
}
