// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package nodes defines the workflow node surface the Spotlight pack exposes
// to a node-graph host.
//
// # Description
//
// A host discovers the pack, asks the registry for its two lookup tables
// (class name → node, class name → display name), and places the nodes into
// user-authored pipelines. The pack itself never evaluates graphs; it only
// describes nodes and executes single invocations when the host asks.
//
// # Socket Types
//
// Node sockets are typed by string. Two wildcard forms exist:
//
//   - Any ("*") is link-compatible with every type.
//   - A MultiType ("FLOAT,INT") is link-compatible with another type when
//     either comma set is a subset of the other.
//
// # Thread Safety
//
// The Registry is safe for concurrent use. Individual nodes must be safe to
// execute concurrently; the demo nodes in this package are stateless.
package nodes

import "context"

// Type is a socket type identifier, e.g. "STRING", "IMAGE" or the
// wildcard "*".
type Type string

// Any is the wildcard socket type. It is link-compatible with everything.
const Any Type = "*"

// Matches reports whether a link between t and other is allowed.
//
// The rules mirror the host's frontend matcher: the wildcard matches
// anything, exact strings match themselves, and comma-separated multi
// types match when either side's set contains the other.
func (t Type) Matches(other Type) bool {
	if t == Any || other == Any {
		return true
	}
	if t == other {
		return true
	}
	a := splitTypeSet(string(t))
	b := splitTypeSet(string(other))
	return subset(a, b) || subset(b, a)
}

func splitTypeSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				set[s[start:i]] = struct{}{}
			}
			start = i + 1
		}
	}
	return set
}

func subset(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// InputSpec describes a node's input sockets, split into required and
// optional groups the way the host's node descriptor expects them.
type InputSpec struct {
	Required map[string]Type
	Optional map[string]Type
}

// Inputs carries the values the host resolved for one execution.
type Inputs map[string]any

// Outputs carries the values a node produced, ordered to match
// ReturnTypes/ReturnNames.
type Outputs []any

// Node is one unit of work the host's graph executor can schedule.
//
// Class must be unique within the pack and stable across releases; the
// host persists it in saved workflows. DisplayName may return "" to let
// the registry derive a label from the class name.
type Node interface {
	Class() string
	DisplayName() string
	Category() string
	InputTypes() InputSpec
	ReturnTypes() []Type
	ReturnNames() []string
	Execute(ctx context.Context, in Inputs) (Outputs, error)
}

// Volatile marks nodes the host must never cache: every graph run
// re-executes them regardless of unchanged inputs.
type Volatile interface {
	Node
	AlwaysChanged() bool
}
