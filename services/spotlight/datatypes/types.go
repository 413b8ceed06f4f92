// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes holds the JSON shapes shared between handlers and the
// Spotlight frontend.
package datatypes

// PluginFile is one entry in a user-plugins directory listing.
type PluginFile struct {
	// Path is slash-separated and relative to the user-plugins root.
	Path string `json:"path"`
	// URL is the route the frontend fetches the file from.
	URL string `json:"url"`
}

// PluginListing is the JSON body returned for directory targets of the
// user-plugins route.
type PluginListing struct {
	Base  string       `json:"base"`
	Files []PluginFile `json:"files"`
}

// SearchResult is one simplified search hit.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// SearchResponse is the body of the search proxy endpoint.
type SearchResponse struct {
	Query   string         `json:"q"`
	Results []SearchResult `json:"results"`
}

// AgeResponse is the body of the age proxy endpoint. Age and Count stay
// nil when the upstream predictor has no data for the name.
type AgeResponse struct {
	Name    string `json:"name"`
	Age     *int   `json:"age"`
	Count   *int   `json:"count"`
	Error   bool   `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// ChangeEvent is pushed over the events websocket when user plugins are
// added, modified, or removed.
type ChangeEvent struct {
	Event string   `json:"event"`
	Paths []string `json:"paths"`
}
