// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package webfs resolves request paths inside sandboxed asset directories.
//
// # Description
//
// Every file-serving route in the pack goes through Resolve: the request
// tail is normalized, re-rooted under the base directory, and classified
// into one of the outcomes the handlers turn into HTTP responses
// (serve a file, render a readme, emit a listing, 403, 404).
//
// Directory targets fall back in order: index.html, then readme.md /
// README.md rendered as HTML, then a generated listing. An empty tail
// over a missing base still lists (as empty) so a freshly-installed pack
// responds instead of 404ing.
package webfs

import (
	"fmt"
	"html"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AleutianAI/spotlight/pkg/validation"
)

// Kind classifies a resolved request path.
type Kind int

const (
	// KindFile means Path is a regular file to serve directly.
	KindFile Kind = iota
	// KindIndex means Path is a directory's index.html.
	KindIndex
	// KindReadme means Path is a readme to render as Markdown.
	KindReadme
	// KindListing means Rel is a directory to list.
	KindListing
	// KindForbidden means the path escaped the sandbox.
	KindForbidden
	// KindNotFound means nothing exists at the path.
	KindNotFound
)

// Resolution is the outcome of resolving a request tail.
type Resolution struct {
	Kind Kind
	// Path is the absolute filesystem path for KindFile/KindIndex/KindReadme,
	// or the directory for KindListing.
	Path string
	// Rel is the directory's base-relative path for KindListing ("." at
	// the root).
	Rel string
}

// Resolve maps a request tail onto baseDir.
func Resolve(baseDir, tail string) Resolution {
	rel := validation.SafeRelPath(tail)
	target := filepath.Join(baseDir, rel)

	if !validation.WithinBase(baseDir, target) {
		return Resolution{Kind: KindForbidden}
	}

	info, err := os.Stat(target)
	switch {
	case err == nil && info.IsDir():
		if idx := filepath.Join(target, "index.html"); isFile(idx) {
			return Resolution{Kind: KindIndex, Path: idx}
		}
		for _, name := range []string{"readme.md", "README.md"} {
			if rd := filepath.Join(target, name); isFile(rd) {
				return Resolution{Kind: KindReadme, Path: rd}
			}
		}
		return Resolution{Kind: KindListing, Path: target, Rel: relOrDot(rel)}
	case err == nil:
		return Resolution{Kind: KindFile, Path: target}
	}

	// The bare mount root lists even before the directory exists.
	if strings.TrimSpace(tail) == "" {
		return Resolution{Kind: KindListing, Path: baseDir, Rel: "."}
	}
	return Resolution{Kind: KindNotFound}
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

func relOrDot(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}

// ListingHTML renders a directory index page. Directories sort before
// files, names compare case-insensitively, and directory links get a
// trailing slash. Read errors become a visible list entry rather than a
// failed response.
func ListingHTML(baseURL, dir, rel string) []byte {
	var items []string
	entries, err := os.ReadDir(dir)
	if err != nil {
		items = append(items, fmt.Sprintf("<li>Error reading directory: %s</li>", html.EscapeString(err.Error())))
	} else {
		sort.Slice(entries, func(i, j int) bool {
			di, dj := entries[i].IsDir(), entries[j].IsDir()
			if di != dj {
				return di
			}
			return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
		})
		for _, entry := range entries {
			name := entry.Name()
			display := name
			if entry.IsDir() {
				display += "/"
			}
			link := joinURL(baseURL, rel, name)
			items = append(items, fmt.Sprintf("<li><a href='%s'>%s</a></li>",
				html.EscapeString(link), html.EscapeString(display)))
		}
	}

	escapedRel := html.EscapeString(filepath.ToSlash(rel))
	return []byte(fmt.Sprintf(`<!doctype html>
<html lang="en"><head>
<meta charset='utf-8'><meta name="viewport" content="width=device-width, initial-scale=1">
<title>Index of /%s</title>
<link rel="stylesheet" href="/ovum-spotlight/web/css/base.css">
</head><body>
<h1>Index of /%s</h1>
<ul>
%s
</ul>
</body></html>
`, escapedRel, escapedRel, strings.Join(items, "\n")))
}

func joinURL(baseURL, rel, name string) string {
	parts := []string{strings.TrimRight(baseURL, "/")}
	if rel != "" && rel != "." {
		parts = append(parts, filepath.ToSlash(rel))
	}
	parts = append(parts, name)
	return path.Join(parts...)
}

// WalkScripts returns the base-relative slash paths of all .js files
// below root, skipping any file or directory whose name starts with "."
// or "_". A missing root yields an empty slice.
func WalkScripts(root string) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		if validation.HiddenOrInternal(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && validation.IsServableScript(d.Name()) {
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
