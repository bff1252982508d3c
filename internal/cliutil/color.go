package cliutil

import (
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// ColorMode mirrors the three-way `--color auto|always|never` flag.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// Stdout returns os.Stdout wrapped for ANSI passthrough on Windows consoles
// (colorable is a no-op everywhere else) when color output is wanted.
func Stdout(mode ColorMode) io.Writer {
	if !ColorEnabled(mode, os.Stdout) {
		return os.Stdout
	}
	return colorable.NewColorableStdout()
}

// ColorEnabled decides whether ANSI codes should be emitted for the given
// stream under the given mode.
func ColorEnabled(mode ColorMode, f *os.File) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
}

const (
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiReset = "\x1b[0m"
)

// Colorize wraps s in the given ANSI color code when enabled, returning it
// unchanged otherwise.
func Colorize(enabled bool, code, s string) string {
	if !enabled {
		return s
	}
	return code + s + ansiReset
}

func Red(enabled bool, s string) string   { return Colorize(enabled, ansiRed, s) }
func Green(enabled bool, s string) string { return Colorize(enabled, ansiGreen, s) }
