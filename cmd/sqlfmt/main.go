package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/k0kubun/pp/v3"
	"golang.org/x/term"

	"github.com/vinsidious/sqlfmt"
	"github.com/vinsidious/sqlfmt/dialect"
	"github.com/vinsidious/sqlfmt/diffutil"
	"github.com/vinsidious/sqlfmt/internal/cliutil"
	"github.com/vinsidious/sqlfmt/lexer"
	"github.com/vinsidious/sqlfmt/parser"
	"github.com/vinsidious/sqlfmt/util"
)

var version = "dev"

type cliOptions struct {
	Check         bool     `long:"check" description:"Exit 1 if any input is not already formatted"`
	Diff          bool     `long:"diff" description:"With --check, emit a unified diff"`
	Write         bool     `short:"w" long:"write" description:"Overwrite each file atomically (temp file + rename)"`
	ListDifferent bool     `short:"l" long:"list-different" description:"Print filenames that would change"`
	Ignore        []string `long:"ignore" description:"Exclude files matching the glob (repeatable)" value-name:"pattern"`
	StdinFilepath string   `long:"stdin-filepath" description:"Label used in stdin error messages" value-name:"path"`
	Dialect       string   `long:"dialect" description:"SQL dialect: postgres, mysql, sqlite, tsql, oracle" value-name:"name" default:"postgres"`
	Color         string   `long:"color" description:"Colorize diagnostics: auto, always, never" value-name:"mode" default:"auto"`
	NoColor       bool     `long:"no-color" description:"Shorthand for --color never"`
	Verbose       bool     `long:"verbose" description:"Print the parsed AST of each file to stderr"`
	Quiet         bool     `short:"q" long:"quiet" description:"Suppress non-error output"`
	Help          bool     `short:"h" long:"help" description:"Show this help"`
	Version       bool     `short:"v" long:"version" description:"Show this version"`
	Args          struct {
		Paths []string `positional-arg-name:"path" description:"Files or globs to format; reads stdin if omitted"`
	} `positional-args:"yes"`
}

// CLIUsageError reports a flag-constraint violation (spec.md §7): the
// driver maps it to exit 1 with a red message, same as an I/O error.
type CLIUsageError struct {
	Message string
}

func (e *CLIUsageError) Error() string { return e.Message }

// Exit codes per spec.md §6.2/§7: 0 success; 1 check failure, usage error,
// I/O error, or unexpected error; 2 parse or tokenize error.
const (
	exitOK            = 0
	exitUsageOrFailed = 1
	exitParseOrLex    = 2
)

func main() {
	util.InitSlog()
	opts := &cliOptions{}
	p := flags.NewParser(opts, flags.PassDoubleDash)
	p.Usage = "[options] [path ...]"
	args, err := p.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsageOrFailed)
	}
	if opts.Help {
		p.WriteHelp(os.Stdout)
		os.Exit(exitOK)
	}
	if opts.Version {
		fmt.Println(version)
		os.Exit(exitOK)
	}

	opts.Args.Paths = append(opts.Args.Paths, args...)
	os.Exit(run(opts))
}

func run(opts *cliOptions) int {
	if err := validateFlags(opts); err != nil {
		fmt.Fprintln(os.Stderr, cliutil.Red(cliutil.ColorEnabled(resolveColorMode(opts), os.Stderr), err.Error()))
		return exitUsageOrFailed
	}

	colorMode := resolveColorMode(opts)
	d := resolveDialect(opts.Dialect)
	fmtOpts := &sqlfmt.Options{Dialect: d, Recover: true, AllowMetaCommands: d.Name == "postgres"}

	paths := opts.Args.Paths
	if len(paths) == 0 {
		return runStdin(opts, fmtOpts, colorMode)
	}

	files, err := cliutil.ExpandArgs(paths)
	if err != nil {
		reportError(err, "")
		return exitUsageOrFailed
	}
	files = filterIgnored(files, opts.Ignore)

	anyDifferent := false
	worstExit := exitOK
	for _, path := range files {
		changed, src, err := processFile(opts, fmtOpts, colorMode, path)
		if err != nil {
			reportError(err, src)
			worstExit = max(worstExit, exitCodeFor(err))
			continue
		}
		if changed {
			anyDifferent = true
		}
	}
	if worstExit != exitOK {
		return worstExit
	}
	if anyDifferent && (opts.Check || opts.ListDifferent) {
		return exitUsageOrFailed
	}
	return exitOK
}

func validateFlags(opts *cliOptions) error {
	if opts.Diff && !opts.Check {
		return &CLIUsageError{Message: "--diff requires --check"}
	}
	if opts.Write && (opts.Check || opts.ListDifferent) {
		return &CLIUsageError{Message: "--write conflicts with --check and --list-different"}
	}
	if (opts.Write || opts.ListDifferent) && len(opts.Args.Paths) == 0 {
		return &CLIUsageError{Message: "--write and --list-different require at least one file argument"}
	}
	if opts.Verbose && opts.Quiet {
		return &CLIUsageError{Message: "--verbose and --quiet are mutually exclusive"}
	}
	return nil
}

func resolveColorMode(opts *cliOptions) cliutil.ColorMode {
	if opts.NoColor {
		return cliutil.ColorNever
	}
	return parseColorMode(opts.Color)
}

// exitCodeFor maps an error kind to a process exit code per spec.md §7:
// TokenizeError/ParseError exit 2, everything else exits 1.
func exitCodeFor(err error) int {
	var tokErr *lexer.TokenizeError
	var parseErr *parser.ParseError
	if errors.As(err, &tokErr) || errors.As(err, &parseErr) {
		return exitParseOrLex
	}
	return exitUsageOrFailed
}

// reportError renders an error per spec.md §7: a source excerpt (offending
// line, caret under the column, message) for TokenizeError/ParseError when
// src is available, otherwise a single-line form; unknown errors get the
// "Unexpected error: ..." prefix.
func reportError(err error, src string) {
	var tokErr *lexer.TokenizeError
	if errors.As(err, &tokErr) {
		fmt.Fprintln(os.Stderr, excerpt(src, tokErr.Line, tokErr.Column, tokErr.Error()))
		return
	}
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		fmt.Fprintln(os.Stderr, excerpt(src, parseErr.Line, parseErr.Column, parseErr.Error()))
		return
	}
	var depthErr *parser.MaxDepthError
	var usageErr *CLIUsageError
	if errors.As(err, &depthErr) || errors.As(err, &usageErr) {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Fprintf(os.Stderr, "Unexpected error: %s\n", err)
}

func excerpt(src string, line, column int, message string) string {
	if src == "" {
		return message
	}
	lines := strings.Split(src, "\n")
	if line < 1 || line > len(lines) {
		return message
	}
	offending := lines[line-1]
	caretPos := column - 1
	if caretPos < 0 {
		caretPos = 0
	}
	caret := strings.Repeat(" ", caretPos) + "^"
	return fmt.Sprintf("%s\n%s\n%s", offending, caret, message)
}

func processFile(opts *cliOptions, fmtOpts *sqlfmt.Options, colorMode cliutil.ColorMode, path string) (changed bool, src string, err error) {
	if err := checkWritePathSafety(path); err != nil {
		return false, "", err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return false, "", err
	}
	src = string(raw)
	changed, err = processSource(opts, fmtOpts, colorMode, path, src, func(out string) error {
		if !opts.Write {
			_, err := os.Stdout.WriteString(out)
			return err
		}
		return cliutil.WriteFileAtomic(path, []byte(out), 0o644)
	})
	return changed, src, err
}

// checkWritePathSafety refuses a relative path that resolves outside the
// current working directory; absolute paths are trusted (spec.md §6.2).
func checkWritePathSafety(path string) error {
	if filepath.IsAbs(path) {
		return nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	abs := filepath.Join(cwd, path)
	rel, err := filepath.Rel(cwd, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return &CLIUsageError{Message: fmt.Sprintf("refusing to write outside working directory: %s", path)}
	}
	return nil
}

func runStdin(opts *cliOptions, fmtOpts *sqlfmt.Options, colorMode cliutil.ColorMode) int {
	if term.IsTerminal(int(os.Stdin.Fd())) && !opts.Quiet {
		fmt.Fprintln(os.Stderr, "reading SQL from stdin; pipe input or pass file paths")
	}
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		reportError(err, "")
		return exitUsageOrFailed
	}
	label := opts.StdinFilepath
	if label == "" {
		label = "<stdin>"
	}
	src := string(raw)
	changed, err := processSource(opts, fmtOpts, colorMode, label, src, func(out string) error {
		_, err := os.Stdout.WriteString(out)
		return err
	})
	if err != nil {
		reportError(err, src)
		return exitCodeFor(err)
	}
	if changed && opts.Check {
		return exitUsageOrFailed
	}
	return exitOK
}

func processSource(opts *cliOptions, fmtOpts *sqlfmt.Options, colorMode cliutil.ColorMode, label, src string, writeOut func(string) error) (bool, error) {
	if opts.Verbose {
		stmts, err := sqlfmt.Parse(src, fmtOpts)
		if err != nil {
			return false, err
		}
		printer := pp.New()
		printer.SetColoringEnabled(cliutil.ColorEnabled(colorMode, os.Stderr))
		printer.Fprintln(os.Stderr, stmts)
	}

	out, err := sqlfmt.Format(src, fmtOpts)
	if err != nil {
		return false, err
	}
	changed := out != src

	switch {
	case opts.Check:
		if changed && !opts.Quiet {
			fmt.Println(label)
		}
		if changed && opts.Diff {
			enabled := cliutil.ColorEnabled(colorMode, os.Stdout)
			fmt.Print(colorizeDiff(enabled, diffutil.Unified(label, label, src, out, 3)))
		}
		return changed, nil
	case opts.ListDifferent:
		if changed {
			fmt.Println(label)
		}
		return changed, nil
	case opts.Write:
		if changed {
			if err := writeOut(out); err != nil {
				return changed, err
			}
		}
		return changed, nil
	default:
		if err := writeOut(out); err != nil {
			return changed, err
		}
		return changed, nil
	}
}

func colorizeDiff(enabled bool, diff string) string {
	if !enabled || diff == "" {
		return diff
	}
	var out []byte
	for _, line := range splitKeepEmpty(diff) {
		switch {
		case len(line) > 0 && line[0] == '+':
			out = append(out, []byte(cliutil.Green(true, line))...)
		case len(line) > 0 && line[0] == '-':
			out = append(out, []byte(cliutil.Red(true, line))...)
		default:
			out = append(out, []byte(line)...)
		}
		out = append(out, '\n')
	}
	return string(out)
}

func splitKeepEmpty(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func parseColorMode(s string) cliutil.ColorMode {
	switch s {
	case "always":
		return cliutil.ColorAlways
	case "never":
		return cliutil.ColorNever
	default:
		return cliutil.ColorAuto
	}
}

func resolveDialect(name string) *dialect.Dialect {
	var d dialect.Dialect
	switch name {
	case "mysql":
		d = dialect.MySQL()
	case "sqlite":
		d = dialect.SQLite()
	case "tsql":
		d = dialect.TSQL()
	case "oracle":
		d = dialect.Oracle()
	default:
		d = dialect.Postgres()
	}
	return &d
}

func filterIgnored(files []string, extra []string) []string {
	if len(extra) == 0 {
		return files
	}
	var out []string
	for _, f := range files {
		skip := false
		for _, pat := range extra {
			if ok, _ := matchBase(pat, f); ok {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, f)
		}
	}
	return out
}

func matchBase(pattern, path string) (bool, error) {
	if ok, err := filepath.Match(pattern, path); ok || err != nil {
		return ok, err
	}
	return filepath.Match(pattern, filepath.Base(path))
}
