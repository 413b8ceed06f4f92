// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads Spotlight service configuration.
//
// Configuration is environment-first, matching how the host launches
// pack services: defaults are applied, SPOTLIGHT_* variables override
// them, and the result is validated before anything starts.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds everything the dev server and route mounting need.
type Config struct {
	// Port the dev server listens on.
	Port int `validate:"gte=1,lte=65535"`

	// WebDir is the pack's static asset directory.
	WebDir string `validate:"required"`

	// UserDir is the per-user data root; plugins live under
	// <UserDir>/spotlight/user_plugins.
	UserDir string `validate:"required"`

	// SearchTimeout bounds the outbound search fetch.
	SearchTimeout time.Duration `validate:"gt=0"`

	// AgeTimeout bounds the outbound age-predictor fetch.
	AgeTimeout time.Duration `validate:"gt=0"`

	// CacheDir is the search cache location; empty keeps the cache
	// in memory.
	CacheDir string

	// CacheTTL is how long live search results stay cached.
	CacheTTL time.Duration `validate:"gte=0"`

	// Debug enables gin debug mode and request logging.
	Debug bool
}

// Defaults returns the configuration used when no environment is set.
func Defaults() Config {
	return Config{
		Port:          8188,
		WebDir:        "./web",
		UserDir:       "./user",
		SearchTimeout: 8 * time.Second,
		AgeTimeout:    30 * time.Second,
		CacheTTL:      5 * time.Minute,
	}
}

// Load builds a Config from defaults plus SPOTLIGHT_* environment
// overrides, then validates it. Invalid values fail fast with the field
// name in the error.
func Load() (Config, error) {
	cfg := Defaults()

	if v := os.Getenv("SPOTLIGHT_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("SPOTLIGHT_PORT: %w", err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("SPOTLIGHT_WEB_DIR"); v != "" {
		cfg.WebDir = v
	}
	if v := os.Getenv("SPOTLIGHT_USER_DIR"); v != "" {
		cfg.UserDir = v
	}
	if v := os.Getenv("SPOTLIGHT_SEARCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("SPOTLIGHT_SEARCH_TIMEOUT: %w", err)
		}
		cfg.SearchTimeout = d
	}
	if v := os.Getenv("SPOTLIGHT_AGE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("SPOTLIGHT_AGE_TIMEOUT: %w", err)
		}
		cfg.AgeTimeout = d
	}
	if v := os.Getenv("SPOTLIGHT_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("SPOTLIGHT_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("SPOTLIGHT_CACHE_TTL: %w", err)
		}
		cfg.CacheTTL = d
	}
	if v := os.Getenv("SPOTLIGHT_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("SPOTLIGHT_DEBUG: %w", err)
		}
		cfg.Debug = debug
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
