// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package markdown renders README files into full HTML pages for the
// static asset routes.
package markdown

import (
	"fmt"

	commonmark "gitlab.com/golang-commonmark/markdown"
)

// page wraps a rendered Markdown body. The stylesheets are served by the
// pack's own web mount, so rendered docs pick up the host theme.
const page = `<!doctype html>
<html lang="en"><head>
<meta charset='utf-8'>
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>README</title>
<link rel="stylesheet" href="/ovum-spotlight/web/css/base.css">
<link rel="stylesheet" href="/ovum-spotlight/web/css/markdown.css">
</head><body>
%s
</body></html>
`

// Renderer converts Markdown to HTML pages with GFM-style tables,
// strikethrough, autolinked URLs, and typographic replacements enabled.
// Safe for concurrent use after construction.
type Renderer struct {
	md *commonmark.Markdown
}

// NewRenderer returns a ready Renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		md: commonmark.New(
			commonmark.HTML(true),
			commonmark.Tables(true),
			commonmark.Linkify(true),
			commonmark.Typographer(true),
		),
	}
}

// Render converts src to a complete HTML document.
func (r *Renderer) Render(src []byte) []byte {
	body := r.md.RenderToString(src)
	return []byte(fmt.Sprintf(page, body))
}
