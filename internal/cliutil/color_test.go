package cliutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorEnabledAlwaysIsAlwaysTrue(t *testing.T) {
	f, err := os.Open(os.DevNull)
	require.NoError(t, err)
	defer f.Close()
	assert.True(t, ColorEnabled(ColorAlways, f))
}

func TestColorEnabledNeverIsAlwaysFalse(t *testing.T) {
	f, err := os.Open(os.DevNull)
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, ColorEnabled(ColorNever, f))
}

func TestColorEnabledAutoIsFalseForRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, ColorEnabled(ColorAuto, f))
}

func TestColorizeWrapsWhenEnabled(t *testing.T) {
	out := Colorize(true, ansiRed, "boom")
	assert.Equal(t, ansiRed+"boom"+ansiReset, out)
}

func TestColorizePassesThroughWhenDisabled(t *testing.T) {
	assert.Equal(t, "boom", Colorize(false, ansiRed, "boom"))
}

func TestRedAndGreenHelpers(t *testing.T) {
	assert.Equal(t, ansiRed+"x"+ansiReset, Red(true, "x"))
	assert.Equal(t, "x", Red(false, "x"))
	assert.Equal(t, ansiGreen+"y"+ansiReset, Green(true, "y"))
	assert.Equal(t, "y", Green(false, "y"))
}
