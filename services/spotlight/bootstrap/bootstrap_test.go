// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for user plugin bootstrap

package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestEnsureInitialized_CreatesSkeleton(t *testing.T) {
	user := filepath.Join(t.TempDir(), "user_plugins")
	b := &Bootstrapper{}

	require.NoError(t, b.EnsureInitialized(user))

	for _, rel := range RequiredSubdirs {
		info, err := os.Stat(filepath.Join(user, filepath.FromSlash(rel)))
		require.NoError(t, err, rel)
		assert.True(t, info.IsDir())
	}
}

func TestEnsureInitialized_CopiesDefaults(t *testing.T) {
	defaults := t.TempDir()
	user := filepath.Join(t.TempDir(), "user_plugins")
	write(t, filepath.Join(defaults, "samples", "keywords", "demo.js"), "export default 1;")

	b := &Bootstrapper{DefaultsDir: defaults}
	require.NoError(t, b.EnsureInitialized(user))

	data, err := os.ReadFile(filepath.Join(user, "samples", "keywords", "demo.js"))
	require.NoError(t, err)
	assert.Equal(t, "export default 1;", string(data))
	assert.Equal(t, 1, b.Copied())

	// Second run finds everything current and writes nothing.
	require.NoError(t, b.EnsureInitialized(user))
	assert.Equal(t, 0, b.Copied())
}

func TestEnsureInitialized_UnchangedFilesUntouched(t *testing.T) {
	defaults := t.TempDir()
	user := filepath.Join(t.TempDir(), "user_plugins")
	write(t, filepath.Join(defaults, "a.js"), "same")

	b := &Bootstrapper{DefaultsDir: defaults}
	require.NoError(t, b.EnsureInitialized(user))

	dst := filepath.Join(user, "a.js")
	before, err := os.Stat(dst)
	require.NoError(t, err)

	// Push mtimes into the past so an unwanted rewrite would be visible.
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(dst, past, past))

	require.NoError(t, b.EnsureInitialized(user))
	after, err := os.Stat(dst)
	require.NoError(t, err)
	assert.True(t, after.ModTime().Before(before.ModTime()), "identical file must not be rewritten")
}

func TestEnsureInitialized_RefreshesDriftedFiles(t *testing.T) {
	defaults := t.TempDir()
	user := filepath.Join(t.TempDir(), "user_plugins")
	write(t, filepath.Join(defaults, "a.js"), "current default")

	b := &Bootstrapper{DefaultsDir: defaults}
	require.NoError(t, b.EnsureInitialized(user))

	// Same size, different bytes: the full comparison must catch it.
	write(t, filepath.Join(user, "a.js"), "Current default")
	require.NoError(t, b.EnsureInitialized(user))

	data, err := os.ReadFile(filepath.Join(user, "a.js"))
	require.NoError(t, err)
	assert.Equal(t, "current default", string(data))
}

func TestEnsureInitialized_LinkRedirection(t *testing.T) {
	defaults := t.TempDir()
	user := filepath.Join(t.TempDir(), "user_plugins")
	write(t, filepath.Join(defaults, "shared", "impl.js"),
		`const t = import("./spotlight-typedefs.js");`)
	write(t, filepath.Join(defaults, "samples", "includes", "impl.js"),
		"link: ../../shared/impl.js\nNote: shipped via link\n")

	b := &Bootstrapper{DefaultsDir: defaults}
	require.NoError(t, b.EnsureInitialized(user))

	data, err := os.ReadFile(filepath.Join(user, "samples", "includes", "impl.js"))
	require.NoError(t, err)
	assert.Equal(t, `const t = import("../typedefs/spotlight-typedefs.js");`, string(data),
		"link content copied with replacements applied")
}

func TestEnsureInitialized_BrokenLinkFallsBackToLinkFile(t *testing.T) {
	defaults := t.TempDir()
	user := filepath.Join(t.TempDir(), "user_plugins")
	write(t, filepath.Join(defaults, "broken.js"), "link: ./does-not-exist.js\n")

	b := &Bootstrapper{DefaultsDir: defaults}
	require.NoError(t, b.EnsureInitialized(user))

	data, err := os.ReadFile(filepath.Join(user, "broken.js"))
	require.NoError(t, err)
	assert.Equal(t, "link: ./does-not-exist.js\n", string(data))
}

func TestEnsureInitialized_MissingDefaultsDirIsFine(t *testing.T) {
	user := filepath.Join(t.TempDir(), "user_plugins")
	b := &Bootstrapper{DefaultsDir: filepath.Join(t.TempDir(), "absent")}
	assert.NoError(t, b.EnsureInitialized(user))
}

func TestExtractLinkHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.js")
	write(t, path, "link: ../x.js\nAuthor: someone\nnot a header because of spaces in key\nbody\n")

	target, headers, isLink := extractLinkHeader(path)
	assert.True(t, isLink)
	assert.Equal(t, filepath.FromSlash("../x.js"), target)
	assert.Equal(t, []string{"Author: someone"}, headers)
}

func TestExtractLinkHeader_PlainFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.js")
	write(t, path, "console.log('x');\n")

	_, _, isLink := extractLinkHeader(path)
	assert.False(t, isLink)
}
