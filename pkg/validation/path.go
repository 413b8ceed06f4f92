// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for security-critical operations.
//
// This package contains validators for request-supplied paths that end up
// in filesystem lookups. Using these validators prevents directory
// traversal out of the sandboxed asset roots the pack serves from.
package validation

import (
	"path/filepath"
	"strings"
)

// SafeRelPath normalizes a request tail into a relative path that cannot
// escape a base directory.
//
// The tail arrives POSIX-style from the URL. Empty, ".", and ".."
// segments are dropped outright rather than resolved, so "a/../../b"
// becomes "a/b", never an ancestor. The result uses the platform
// separator and is "" for an empty or fully-stripped tail.
func SafeRelPath(tail string) string {
	var parts []string
	for _, p := range strings.Split(tail, "/") {
		// Backslashes are path separators on Windows clients.
		for _, q := range strings.Split(p, "\\") {
			if q == "" || q == "." || q == ".." {
				continue
			}
			parts = append(parts, q)
		}
	}
	return filepath.Join(parts...)
}

// WithinBase reports whether target resolves to base or below it.
//
// Both paths are made absolute and have symlinks resolved before the
// prefix check, so a symlink planted inside the served tree cannot
// point the route at files outside the sandbox. This is the check
// behind every file-serving route; SafeRelPath already strips traversal
// segments, so a failure here indicates symlinked or absolute-path
// trickery.
func WithinBase(base, target string) bool {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return false
	}
	absBase = resolveSymlinks(absBase)
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	absTarget = resolveSymlinks(absTarget)
	if absTarget == absBase {
		return true
	}
	return strings.HasPrefix(absTarget, absBase+string(filepath.Separator))
}

// resolveSymlinks evaluates symlinks in path. Trailing components that
// do not exist yet are kept as-is on top of their deepest resolvable
// ancestor, so not-yet-created targets still compare correctly.
func resolveSymlinks(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	parent := filepath.Dir(path)
	if parent == path {
		return path
	}
	return filepath.Join(resolveSymlinks(parent), filepath.Base(path))
}

// HiddenOrInternal reports whether a file or directory name is excluded
// from plugin listings: anything starting with "." or "_".
func HiddenOrInternal(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// IsServableScript reports whether a file name may be served from the
// user-plugins route. Only JavaScript plugin files qualify.
func IsServableScript(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".js")
}
