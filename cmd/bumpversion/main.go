// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command bumpversion increments the patch version in pack.toml.
//
// Intended for release hooks: it prints the old and new versions, writes
// the file in place, and exits 1 when a change was made so CI steps can
// branch on "did the version move".
//
// Usage:
//
//	go run ./cmd/bumpversion            # bumps ./pack.toml
//	go run ./cmd/bumpversion -file path/to/pack.toml
package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

var versionLine = regexp.MustCompile(`(?m)^(version\s*=\s*")(\d+)\.(\d+)\.(\d+)(")`)

func main() {
	file := flag.String("file", "pack.toml", "Manifest file to bump")
	flag.Parse()

	changed, err := bumpPatch(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bumpversion: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("CHANGED=%v\n", changed)
	if changed {
		os.Exit(1)
	}
}

// bumpPatch rewrites the first version line with the patch component
// incremented. Only that line changes; later version keys (table
// entries, dependency pins) and formatting elsewhere in the file
// survive untouched.
func bumpPatch(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	// Parse first so a malformed manifest fails before any rewrite.
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}

	loc := versionLine.FindSubmatchIndex(data)
	if loc == nil {
		return false, fmt.Errorf(`no version = "x.y.z" line in %s`, path)
	}
	major := string(data[loc[4]:loc[5]])
	minor := string(data[loc[6]:loc[7]])
	patch, err := strconv.Atoi(string(data[loc[8]:loc[9]]))
	if err != nil {
		return false, err
	}

	fmt.Printf("%s.%s.%d -> %s.%s.%d\n", major, minor, patch, major, minor, patch+1)

	// Splice the new patch number into the first match only.
	var updated []byte
	updated = append(updated, data[:loc[8]]...)
	updated = append(updated, strconv.Itoa(patch+1)...)
	updated = append(updated, data[loc[9]:]...)
	if err := os.WriteFile(path, updated, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
