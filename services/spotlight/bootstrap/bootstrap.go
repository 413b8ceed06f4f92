// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package bootstrap populates a user's plugin directory with the pack's
// default files.
//
// # Description
//
// On every mount the pack makes sure the per-user plugin tree exists,
// carries the expected skeleton of sample directories, and contains the
// shipped defaults. Copies are compare-before-write so repeated mounts
// never touch files that are already current, and user edits to files
// that no longer match a default are overwritten only when the default
// itself changed (same behavior as re-copying: byte-identical is left
// alone, anything else is refreshed).
//
// A default file may start with a "link:<path>" header line, in which
// case the *target* file's content is copied instead, with the package's
// literal content replacements applied. This lets one source file ship
// under several plugin paths without duplication in the repo.
//
// Bootstrap is strictly best-effort: every failure is logged and skipped
// so a damaged default tree can never prevent the pack from loading.
package bootstrap

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// RequiredSubdirs is the skeleton created under the user plugins root.
var RequiredSubdirs = []string{
	"typedefs",
	"samples/filters",
	"samples/keywords",
	"samples/search",
	"samples/selection_commands",
	"samples/includes",
}

// DefaultReplacements rewrites content copied through a link: header.
// Keys are exact substrings; values are their replacements.
var DefaultReplacements = map[string]string{
	`import("./spotlight-typedefs.js")`: `import("../typedefs/spotlight-typedefs.js")`,
}

// maxHeaderLines bounds the header region scanned after a link: line.
const maxHeaderLines = 9

// Bootstrapper copies a defaults tree into a user plugins directory.
type Bootstrapper struct {
	// DefaultsDir is the shipped user_plugins.default tree. May be
	// missing; bootstrap then only creates the skeleton.
	DefaultsDir string

	// Replacements applied to link-sourced content. Nil means
	// DefaultReplacements.
	Replacements map[string]string

	// Logger for warnings; nil means slog.Default().
	Logger *slog.Logger

	copied int
}

// Copied reports how many files the last EnsureInitialized wrote.
func (b *Bootstrapper) Copied() int { return b.copied }

func (b *Bootstrapper) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

func (b *Bootstrapper) replacements() map[string]string {
	if b.Replacements != nil {
		return b.Replacements
	}
	return DefaultReplacements
}

// EnsureInitialized creates the skeleton under userPluginsDir and copies
// the defaults over it. Only skeleton creation can fail hard; per-file
// copy problems are logged and skipped.
func (b *Bootstrapper) EnsureInitialized(userPluginsDir string) error {
	b.copied = 0
	if err := os.MkdirAll(userPluginsDir, 0o755); err != nil {
		return fmt.Errorf("create user plugins dir: %w", err)
	}
	for _, rel := range RequiredSubdirs {
		if err := os.MkdirAll(filepath.Join(userPluginsDir, filepath.FromSlash(rel)), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", rel, err)
		}
	}

	if b.DefaultsDir == "" {
		return nil
	}
	if info, err := os.Stat(b.DefaultsDir); err != nil || !info.IsDir() {
		b.logger().Info("default plugins not found, skipping copy",
			slog.String("path", b.DefaultsDir))
		return nil
	}

	b.copyTree(b.DefaultsDir, userPluginsDir)
	return nil
}

func (b *Bootstrapper) copyTree(srcRoot, dstRoot string) {
	_ = filepath.WalkDir(srcRoot, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			b.logger().Warn("failed to read defaults entry", slog.String("path", p), slog.String("error", err.Error()))
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcRoot, p)
		if err != nil {
			return nil
		}
		b.copyFile(p, filepath.Join(dstRoot, rel), filepath.ToSlash(rel))
		return nil
	})
}

func (b *Bootstrapper) copyFile(src, dst, rel string) {
	target, headers, isLink := extractLinkHeader(src)
	for _, h := range headers {
		b.logger().Info("default plugin header", slog.String("file", rel), slog.String("header", h))
	}

	if !isLink {
		wrote, err := copyIfChanged(src, dst)
		if err != nil {
			b.logger().Warn("failed to copy default plugin", slog.String("file", rel), slog.String("error", err.Error()))
		} else if wrote {
			b.copied++
		}
		return
	}

	// Resolve the link target relative to the file it appeared in.
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(src), target)
	}
	content, err := os.ReadFile(target)
	if err != nil {
		b.logger().Warn("linked source unavailable, copying link file itself",
			slog.String("file", rel), slog.String("target", target), slog.String("error", err.Error()))
		wrote, err := copyIfChanged(src, dst)
		if err != nil {
			b.logger().Warn("failed to copy default plugin", slog.String("file", rel), slog.String("error", err.Error()))
		} else if wrote {
			b.copied++
		}
		return
	}

	transformed := applyReplacements(string(content), b.replacements())
	if prev, err := os.ReadFile(dst); err == nil && string(prev) == transformed {
		return
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		b.logger().Warn("failed to create plugin directory", slog.String("file", rel), slog.String("error", err.Error()))
		return
	}
	if err := os.WriteFile(dst, []byte(transformed), 0o644); err != nil {
		b.logger().Warn("failed to write linked plugin", slog.String("file", rel), slog.String("error", err.Error()))
		return
	}
	b.copied++
}

// extractLinkHeader inspects a default file for a leading "link:<path>"
// line. It returns the link target, any subsequent "Key: value" header
// lines (stopped at the first blank or non-header line, bounded), and
// whether the file was a link at all.
func extractLinkHeader(path string) (target string, headers []string, isLink bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, false
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) == 0 {
		return "", nil, false
	}
	first := strings.TrimSpace(lines[0])
	if !strings.HasPrefix(strings.ToLower(first), "link:") {
		return "", nil, false
	}

	for _, line := range lines[1:min(len(lines), 1+maxHeaderLines)] {
		s := strings.TrimSpace(line)
		if s == "" {
			break
		}
		key, _, found := strings.Cut(s, ":")
		if !found || !isHeaderKey(key) {
			break
		}
		headers = append(headers, s)
	}

	target = strings.TrimSpace(first[len("link:"):])
	return filepath.FromSlash(target), headers, true
}

func isHeaderKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if r == '_' || r == '-' {
			continue
		}
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

func applyReplacements(text string, replacements map[string]string) string {
	for old, new := range replacements {
		text = strings.ReplaceAll(text, old, new)
	}
	return text
}

// copyIfChanged writes src's bytes to dst unless dst already matches,
// reporting whether a write happened. The size check short-circuits the
// byte comparison.
func copyIfChanged(src, dst string) (bool, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, err
	}
	if dstInfo, err := os.Stat(dst); err == nil && srcInfo.Size() == dstInfo.Size() {
		srcData, err1 := os.ReadFile(src)
		dstData, err2 := os.ReadFile(dst)
		if err1 == nil && err2 == nil && bytes.Equal(srcData, dstData) {
			return false, nil
		}
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
