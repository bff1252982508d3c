package cliutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestExpandArgsSingleFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "a.sql")
	writeTestFile(t, f, "SELECT 1;")

	out, err := ExpandArgs([]string{f})
	require.NoError(t, err)
	assert.Equal(t, []string{f}, out)
}

func TestExpandArgsWalksDirectoryRecursively(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "a.sql"), "SELECT 1;")
	writeTestFile(t, filepath.Join(dir, "sub", "b.sql"), "SELECT 2;")

	out, err := ExpandArgs([]string{dir})
	require.NoError(t, err)
	sort.Strings(out)
	require.Len(t, out, 2)
	assert.Contains(t, out[0]+out[1], "a.sql")
	assert.Contains(t, out[0]+out[1], "b.sql")
}

func TestExpandArgsSkipsExcludedDirsAndDotfiles(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "a.sql"), "SELECT 1;")
	writeTestFile(t, filepath.Join(dir, ".git", "config.sql"), "SELECT 2;")
	writeTestFile(t, filepath.Join(dir, "node_modules", "pkg", "c.sql"), "SELECT 3;")
	writeTestFile(t, filepath.Join(dir, ".hidden.sql"), "SELECT 4;")

	out, err := ExpandArgs([]string{dir})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Contains(t, out[0], "a.sql")
}

func TestExpandArgsHonorsIgnoreFile(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "keep.sql"), "SELECT 1;")
	writeTestFile(t, filepath.Join(dir, "skip.sql"), "SELECT 2;")
	writeTestFile(t, filepath.Join(dir, IgnoreFileName), "skip.sql\n")

	out, err := ExpandArgs([]string{dir})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Contains(t, out[0], "keep.sql")
}

func TestExpandArgsIgnoreFileSupportsCommentsAndBlankLines(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "keep.sql"), "SELECT 1;")
	writeTestFile(t, filepath.Join(dir, "skip.sql"), "SELECT 2;")
	writeTestFile(t, filepath.Join(dir, IgnoreFileName), "# comment\n\nskip.sql\n")

	out, err := ExpandArgs([]string{dir})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Contains(t, out[0], "keep.sql")
}

func TestExpandArgsDeduplicatesOverlappingArgs(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "a.sql")
	writeTestFile(t, f, "SELECT 1;")

	out, err := ExpandArgs([]string{f, dir})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestExpandArgsExpandsGlobPatterns(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "a.sql"), "SELECT 1;")
	writeTestFile(t, filepath.Join(dir, "b.sql"), "SELECT 2;")
	writeTestFile(t, filepath.Join(dir, "c.txt"), "not sql")

	out, err := ExpandArgs([]string{filepath.Join(dir, "*.sql")})
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestExpandArgsMissingPathErrors(t *testing.T) {
	_, err := ExpandArgs([]string{filepath.Join(t.TempDir(), "nope.sql")})
	assert.Error(t, err)
}
