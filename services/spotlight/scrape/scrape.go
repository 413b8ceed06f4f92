// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package scrape extracts simplified search results from Google's web
// results HTML.
//
// # Description
//
// This is deliberately best-effort screen scraping: the markup is
// unstable, so extraction prefers the simpler direct-anchor shape the
// udm=14 "Web" view emits, falls back to legacy /url?q= redirect anchors,
// and treats snippets as optional garnish. Callers must always be ready
// for zero results.
package scrape

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/AleutianAI/spotlight/services/spotlight/datatypes"
)

// MaxResults caps extraction per page.
const MaxResults = 10

var (
	// Direct outbound links, optionally wrapping a result title.
	linkDirectPattern = regexp.MustCompile(`(?is)<a[^>]+href="(https?://[^"]+)"[^>]*>\s*(?:<h3[^>]*>(.*?)</h3>)?`)

	// Legacy redirect links through /url?q=.
	linkRedirectPattern = regexp.MustCompile(`(?is)<a href="/url\?q=([^"&]+)[^>]*>\s*(?:<h3[^>]*>(.*?)</h3>)?`)

	// Known snippet containers, in preference order.
	snippetPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<div class="VwiC3b[^>]*>(.*?)</div>`),
		regexp.MustCompile(`(?is)<span class="MUxGbd[^>]*>(.*?)</span>`),
	}

	tagPattern = regexp.MustCompile(`<[^>]+>`)
)

// StripTags removes HTML tags and trims the result.
func StripTags(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}

// internalHost reports whether a result URL points back into Google's
// own properties. sites.google.com is user content and stays.
func internalHost(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Host)
	if strings.HasPrefix(host, "sites.google.com") {
		return false
	}
	for _, suffix := range []string{".google.com", ".googleusercontent.com", ".gstatic.com", ".google"} {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}

// ExtractResults scrapes up to MaxResults unique results out of a results
// page. Titles fall back to the URL when no <h3> was captured; snippets
// are paired positionally and may be empty.
func ExtractResults(html string) []datatypes.SearchResult {
	var urls []string
	var titles []string

	add := func(rawURL, rawTitle string) {
		u := strings.TrimSpace(rawURL)
		if !strings.HasPrefix(strings.ToLower(u), "http") {
			return
		}
		if internalHost(u) {
			return
		}
		for _, seen := range urls {
			if seen == u {
				return
			}
		}
		title := StripTags(rawTitle)
		if title == "" {
			title = u
		}
		urls = append(urls, u)
		titles = append(titles, title)
	}

	for _, m := range linkDirectPattern.FindAllStringSubmatch(html, -1) {
		add(m[1], m[2])
		if len(urls) >= MaxResults {
			break
		}
	}
	if len(urls) < MaxResults {
		for _, m := range linkRedirectPattern.FindAllStringSubmatch(html, -1) {
			add(m[1], m[2])
			if len(urls) >= MaxResults {
				break
			}
		}
	}

	var snippets []string
	for _, pat := range snippetPatterns {
		for _, m := range pat.FindAllStringSubmatch(html, -1) {
			if s := StripTags(m[1]); s != "" {
				snippets = append(snippets, s)
			}
		}
		if len(snippets) >= len(urls) {
			break
		}
	}

	results := make([]datatypes.SearchResult, 0, len(urls))
	for i, u := range urls {
		r := datatypes.SearchResult{Title: titles[i], URL: u}
		if i < len(snippets) {
			r.Snippet = snippets[i]
		}
		results = append(results, r)
	}
	return results
}
