// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the Spotlight
// routes.
//
// Metrics are exposed via the /metrics endpoint on the dev server; when
// mounted inside a host, the host's registry scrape picks them up the
// same way.
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "ovum"
	packSubsystem    = "spotlight"
)

// Metrics holds the pack's Prometheus instruments. Initialize once at
// mount via NewMetrics.
type Metrics struct {
	// StaticRequestsTotal counts static file requests.
	// Labels: mount (web, node_modules), status (2xx, 4xx, 5xx)
	StaticRequestsTotal *prometheus.CounterVec

	// PluginListingsTotal counts user-plugin listing responses served.
	PluginListingsTotal prometheus.Counter

	// SearchRequestsTotal counts search proxy requests by outcome.
	// Labels: outcome (live, cache, fallback, bad_request)
	SearchRequestsTotal *prometheus.CounterVec

	// BootstrapFilesCopied counts default plugin files written during
	// bootstrap.
	BootstrapFilesCopied prometheus.Counter
}

// NewMetrics registers the pack's metrics with reg. Pass
// prometheus.DefaultRegisterer in production; tests use a fresh registry
// so parallel suites don't collide.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StaticRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: packSubsystem,
			Name:      "static_requests_total",
			Help:      "Static asset requests by mount and status class.",
		}, []string{"mount", "status"}),
		PluginListingsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: packSubsystem,
			Name:      "plugin_listings_total",
			Help:      "User plugin directory listings served.",
		}),
		SearchRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: packSubsystem,
			Name:      "search_requests_total",
			Help:      "Search proxy requests by outcome.",
		}, []string{"outcome"}),
		BootstrapFilesCopied: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: packSubsystem,
			Name:      "bootstrap_files_copied_total",
			Help:      "Default plugin files written during bootstrap.",
		}),
	}
}

// StatusClass buckets an HTTP status code into "2xx", "3xx", "4xx", or
// "5xx" for low-cardinality labels.
func StatusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
