// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package logging provides structured logging for Spotlight components.
//
// The package is a thin layer over Go's standard library slog:
//
//   - Default: stderr output for CLI compatibility (follows Unix conventions)
//   - Optional: JSON output for service deployments
//   - Optional: file logging with automatic directory creation
//
// # Basic Usage
//
//	logger := logging.Default()
//	logger.Info("pack mounted", "web_dir", webDir)
//
// # Service Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:   logging.LevelDebug,
//	    JSON:    true,
//	    LogDir:  "/var/log/spotlight",
//	    Service: "spotlightd",
//	})
//	defer logger.Close()
//
// File logging writes `{service}_{date}.log` alongside the primary output.
//
// # Security Considerations
//
// This package does NOT automatically redact sensitive data. Callers must
// ensure cookies, tokens, and user content are not logged.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Level represents log severity, ordered Debug < Info < Warn < Error.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config configures Logger behavior. The zero value logs Info+ messages
// to stderr in text format.
type Config struct {
	// Level sets the minimum log level. Default: LevelInfo.
	Level Level

	// JSON switches output to JSON records (service convention).
	JSON bool

	// LogDir enables additional file logging in the given directory.
	// The directory is created if missing.
	LogDir string

	// Service names the log file: `{service}_{date}.log`.
	// Default: "spotlight".
	Service string

	// Output overrides the primary destination. Default: os.Stderr.
	// Used by tests.
	Output io.Writer
}

// Logger wraps slog.Logger with optional file output that must be closed.
type Logger struct {
	*slog.Logger
	file *os.File
}

// Default returns a stderr text logger at Info level.
func Default() *Logger {
	l, _ := New(Config{})
	return l
}

// New creates a Logger from cfg. The only error case is a LogDir that
// cannot be created or opened.
func New(cfg Config) (*Logger, error) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var file *os.File
	if cfg.LogDir != "" {
		service := cfg.Service
		if service == "" {
			service = "spotlight"
		}
		if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		name := fmt.Sprintf("%s_%s.log", service, time.Now().Format("2006-01-02"))
		f, err := os.OpenFile(filepath.Join(cfg.LogDir, name),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
		out = io.MultiWriter(out, f)
	}

	opts := &slog.HandlerOptions{Level: cfg.Level.toSlogLevel()}
	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return &Logger{Logger: slog.New(handler), file: file}, nil
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
