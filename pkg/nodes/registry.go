// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package nodes

import (
	"regexp"
	"sync"
)

// WebDirectory is the pack-relative directory the host serves as frontend
// extension scripts.
const WebDirectory = "./js"

// camelRuns scans a class name into uppercase-prefixed runs, e.g.
// "SpotlightSampleNode" → ["Spotlight", "Sample", "Node"].
var camelRuns = regexp.MustCompile(`[A-Z]*[a-z]*`)

// PrettyName derives a human-readable display name from a CamelCase class
// name by joining its letter runs with spaces. Digits and other separators
// are dropped, matching the host's legacy naming behavior.
func PrettyName(class string) string {
	runs := camelRuns.FindAllString(class, -1)
	out := make([]byte, 0, len(class)+len(runs))
	for _, r := range runs {
		if r == "" {
			continue
		}
		if len(out) > 0 {
			out = append(out, ' ')
		}
		out = append(out, r...)
	}
	return string(out)
}

// Registry holds the pack's two host-facing lookup tables.
//
// Registration follows the two conventions node modules historically used:
// a plain list of node implementations (RegisterClasses), or explicit
// class and display-name maps (RegisterMapping). Later registrations of
// the same class name replace earlier ones.
type Registry struct {
	mu       sync.RWMutex
	classes  map[string]Node
	displays map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		classes:  make(map[string]Node),
		displays: make(map[string]string),
	}
}

// defaultRegistry backs the package-level Register* helpers so node files
// can self-register from init.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry the pack hands to the host.
func Default() *Registry { return defaultRegistry }

// RegisterClasses registers nodes under their own class names. A node's
// non-blank DisplayName wins; otherwise the display name is derived via
// PrettyName.
func (r *Registry) RegisterClasses(ns ...Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range ns {
		class := n.Class()
		r.classes[class] = n
		if d := n.DisplayName(); d != "" {
			r.displays[class] = d
		} else {
			r.displays[class] = PrettyName(class)
		}
	}
}

// RegisterMapping registers explicit class and display-name maps. Classes
// missing from names, or mapped to "", fall back to PrettyName.
func (r *Registry) RegisterMapping(classes map[string]Node, names map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for class, n := range classes {
		r.classes[class] = n
		if d := names[class]; d != "" {
			r.displays[class] = d
		} else {
			r.displays[class] = PrettyName(class)
		}
	}
}

// ClassMappings returns a snapshot of the class name → node table.
func (r *Registry) ClassMappings() map[string]Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Node, len(r.classes))
	for k, v := range r.classes {
		out[k] = v
	}
	return out
}

// DisplayNameMappings returns a snapshot of the class name → display name
// table.
func (r *Registry) DisplayNameMappings() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.displays))
	for k, v := range r.displays {
		out[k] = v
	}
	return out
}

// Lookup returns the node registered under class, if any.
func (r *Registry) Lookup(class string) (Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.classes[class]
	return n, ok
}

// Count returns the number of registered node classes.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.classes)
}

// RegisterClasses registers nodes with the default registry.
func RegisterClasses(ns ...Node) { defaultRegistry.RegisterClasses(ns...) }

// RegisterMapping registers explicit maps with the default registry.
func RegisterMapping(classes map[string]Node, names map[string]string) {
	defaultRegistry.RegisterMapping(classes, names)
}
