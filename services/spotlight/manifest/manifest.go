// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package manifest reads the pack.toml manifest describing this node
// pack to the host's pack manager.
package manifest

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is the manifest location relative to the pack root.
const DefaultPath = "pack.toml"

// Manifest is the pack's published identity.
type Manifest struct {
	Name        string `toml:"name"`
	DisplayName string `toml:"display_name"`
	Version     string `toml:"version"`
	Description string `toml:"description"`
	// WebDirectory is the pack-relative frontend extension directory
	// the host serves.
	WebDirectory string `toml:"web_directory"`
}

// Load parses the manifest at path.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Name == "" {
		return Manifest{}, fmt.Errorf("manifest %s: missing name", path)
	}
	return m, nil
}

// LoadOrDefault loads path but falls back to a baked-in identity when
// the file is missing, so a stripped-down install still answers health
// checks sensibly.
func LoadOrDefault(path string) Manifest {
	m, err := Load(path)
	if err != nil {
		return Manifest{
			Name:         "ovum-spotlight",
			DisplayName:  "Ovum Spotlight",
			Version:      "0.0.0",
			WebDirectory: "./js",
		}
	}
	return m
}
