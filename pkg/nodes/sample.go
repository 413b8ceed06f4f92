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

import "context"

// SpotlightSample is a minimal demo node. It does nothing server-side;
// it exists to showcase that the pack's nodes can also extend the
// frontend spotlight search.
type SpotlightSample struct{}

func (SpotlightSample) Class() string       { return "SpotlightSampleNode" }
func (SpotlightSample) DisplayName() string { return "Spotlight Sample Node" }
func (SpotlightSample) Category() string    { return "ovum/demo" }

func (SpotlightSample) InputTypes() InputSpec {
	return InputSpec{Optional: map[string]Type{"any": Any}}
}

func (SpotlightSample) ReturnTypes() []Type  { return []Type{Any} }
func (SpotlightSample) ReturnNames() []string { return []string{"any"} }

// AlwaysChanged opts the node out of host result caching.
func (SpotlightSample) AlwaysChanged() bool { return true }

// Execute passes the optional input through unchanged.
func (SpotlightSample) Execute(_ context.Context, in Inputs) (Outputs, error) {
	return Outputs{in["any"]}, nil
}

func init() {
	// Legacy list-style registration, same convention older node files use.
	RegisterClasses(SpotlightSample{})
}
