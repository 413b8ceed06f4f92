// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for sandboxed path resolution and directory listings

package webfs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// =============================================================================
// Resolve Tests
// =============================================================================

func TestResolve_File(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "css", "base.css"), "body{}")

	res := Resolve(base, "css/base.css")
	assert.Equal(t, KindFile, res.Kind)
	assert.Equal(t, filepath.Join(base, "css", "base.css"), res.Path)
}

func TestResolve_TraversalIsNeutralized(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "secret.txt"), "x")

	// ".." segments are stripped, so this resolves inside the base and
	// simply doesn't exist.
	res := Resolve(base, "../../../etc/passwd")
	assert.Equal(t, KindNotFound, res.Kind)
}

func TestResolve_DirectoryIndexHTML(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "docs", "index.html"), "<p>hi</p>")
	writeFile(t, filepath.Join(base, "docs", "readme.md"), "# ignored")

	res := Resolve(base, "docs")
	assert.Equal(t, KindIndex, res.Kind)
	assert.Equal(t, filepath.Join(base, "docs", "index.html"), res.Path)
}

func TestResolve_DirectoryReadmeFallback(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "docs", "README.md"), "# Docs")

	res := Resolve(base, "docs")
	assert.Equal(t, KindReadme, res.Kind)
	assert.Equal(t, filepath.Join(base, "docs", "README.md"), res.Path)
}

func TestResolve_DirectoryLowercaseReadmeWins(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "docs", "readme.md"), "lower")
	writeFile(t, filepath.Join(base, "docs", "README.md"), "upper")

	res := Resolve(base, "docs")
	assert.Equal(t, KindReadme, res.Kind)
	assert.Equal(t, filepath.Join(base, "docs", "readme.md"), res.Path)
}

func TestResolve_DirectoryListing(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "assets", "a.js"), "x")

	res := Resolve(base, "assets")
	assert.Equal(t, KindListing, res.Kind)
	assert.Equal(t, "assets", res.Rel)
}

func TestResolve_EmptyTailOnMissingBase(t *testing.T) {
	base := filepath.Join(t.TempDir(), "never-created")

	res := Resolve(base, "")
	assert.Equal(t, KindListing, res.Kind)
	assert.Equal(t, ".", res.Rel)
}

func TestResolve_MissingFile(t *testing.T) {
	res := Resolve(t.TempDir(), "nope.js")
	assert.Equal(t, KindNotFound, res.Kind)
}

// =============================================================================
// ListingHTML Tests
// =============================================================================

func TestListingHTML_SortsDirectoriesFirst(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "zeta.js"), "x")
	require.NoError(t, os.MkdirAll(filepath.Join(base, "alpha"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "Beta"), 0o755))

	out := string(ListingHTML("/ovum-spotlight/web", base, "."))

	alphaIdx := indexOf(t, out, "alpha/")
	betaIdx := indexOf(t, out, "Beta/")
	fileIdx := indexOf(t, out, "zeta.js")
	assert.Less(t, alphaIdx, betaIdx, "case-insensitive name order")
	assert.Less(t, betaIdx, fileIdx, "directories precede files")
}

func TestListingHTML_LinksIncludeRel(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "x.css"), "")

	out := string(ListingHTML("/ovum-spotlight/web", base, "css/deep"))
	assert.Contains(t, out, "'/ovum-spotlight/web/css/deep/x.css'")
	assert.Contains(t, out, "Index of /css/deep")
}

func TestListingHTML_MissingDirectoryShowsError(t *testing.T) {
	out := string(ListingHTML("/base", filepath.Join(t.TempDir(), "gone"), "."))
	assert.Contains(t, out, "Error reading directory")
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	idx := strings.Index(haystack, needle)
	require.GreaterOrEqual(t, idx, 0, "expected %q in output", needle)
	return idx
}

// =============================================================================
// WalkScripts Tests
// =============================================================================

func TestWalkScripts_RecursiveWithExclusions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "samples", "keywords", "foo.js"), "x")
	writeFile(t, filepath.Join(root, "top.js"), "x")
	writeFile(t, filepath.Join(root, "notes.md"), "x")
	writeFile(t, filepath.Join(root, "_internal", "hidden.js"), "x")
	writeFile(t, filepath.Join(root, ".git", "config.js"), "x")
	writeFile(t, filepath.Join(root, "samples", "_draft.js"), "x")

	files, err := WalkScripts(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"samples/keywords/foo.js", "top.js"}, files)
}

func TestWalkScripts_MissingRoot(t *testing.T) {
	files, err := WalkScripts(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, files)
}
