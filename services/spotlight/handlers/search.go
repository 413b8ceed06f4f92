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
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/spotlight/services/spotlight/cache"
	"github.com/AleutianAI/spotlight/services/spotlight/datatypes"
	"github.com/AleutianAI/spotlight/services/spotlight/observability"
	"github.com/AleutianAI/spotlight/services/spotlight/scrape"
)

// HTTPClient allows injecting mock HTTP clients for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// browserUserAgent keeps the upstream from serving the script-only
// degraded page.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126 Safari/537.36"

// searchURL builds the udm=14 "Web" results URL; that view has simpler,
// more stable markup than the default SERP.
func searchURL(q string) string {
	return "https://www.google.com/search?hl=en&gl=us&pws=0&num=10&udm=14&q=" + url.QueryEscape(q)
}

// SearchConfig wires the search proxy handler.
type SearchConfig struct {
	Client  HTTPClient
	Timeout time.Duration
	// Cache is optional; nil disables caching.
	Cache    *cache.Store
	CacheTTL time.Duration
	Metrics  *observability.Metrics
}

// Search proxies a query to Google's web results and screen-scrapes
// simplified results.
//
// The fetch is best-effort: any error, and any page we fail to extract
// results from, degrades to a single fallback result linking to the
// search page itself. The endpoint never returns 5xx for upstream
// trouble. Client cookies are relayed (with a minimal consent cookie
// appended) to avoid consent interstitials in some regions.
func Search(cfg SearchConfig) gin.HandlerFunc {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	return func(c *gin.Context) {
		q := c.Query("q")
		if q == "" {
			countSearch(cfg.Metrics, "bad_request")
			c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "missing q"})
			return
		}

		if cfg.Cache != nil {
			if data, err := cfg.Cache.Get("google:" + q); err == nil {
				var results []datatypes.SearchResult
				if err := json.Unmarshal(data, &results); err == nil {
					countSearch(cfg.Metrics, "cache")
					c.JSON(http.StatusOK, datatypes.SearchResponse{Query: q, Results: results})
					return
				}
			}
		}

		results, err := fetchResults(c, cfg.Client, timeout, q)
		if err != nil || len(results) == 0 {
			if err != nil {
				slog.Info("spotlight google fetch failed", "error", err)
			}
			countSearch(cfg.Metrics, "fallback")
			c.JSON(http.StatusOK, datatypes.SearchResponse{
				Query: q,
				Results: []datatypes.SearchResult{{
					Title:   fmt.Sprintf("Open Google search for '%s'", q),
					URL:     searchURL(q),
					Snippet: "Live results unavailable; click to open in browser.",
				}},
			})
			return
		}

		if cfg.Cache != nil {
			if data, err := json.Marshal(results); err == nil {
				if err := cfg.Cache.Set("google:"+q, data, cfg.CacheTTL); err != nil {
					slog.Warn("failed to cache search results", "error", err)
				}
			}
		}
		countSearch(cfg.Metrics, "live")
		c.JSON(http.StatusOK, datatypes.SearchResponse{Query: q, Results: results})
	}
}

func fetchResults(c *gin.Context, client HTTPClient, timeout time.Duration, q string) ([]datatypes.SearchResult, error) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL(q), nil)
	if err != nil {
		return nil, err
	}

	// Relay the client cookie; append a minimal consent cookie when
	// missing so the interstitial doesn't swallow the results page.
	cookie := c.GetHeader("Cookie")
	if !strings.Contains(cookie, "CONSENT=") {
		if cookie != "" {
			cookie += "; "
		}
		cookie += "CONSENT=YES+"
	}
	acceptLang := c.GetHeader("Accept-Language")
	if acceptLang == "" {
		acceptLang = "en-US,en;q=0.9"
	}

	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", acceptLang)
	req.Header.Set("Referer", "https://www.google.com/")
	req.Header.Set("Cookie", cookie)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return scrape.ExtractResults(string(body)), nil
}

func countSearch(m *observability.Metrics, outcome string) {
	if m != nil {
		m.SearchRequestsTotal.WithLabelValues(outcome).Inc()
	}
}
