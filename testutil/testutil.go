// Package testutil provides the YAML-driven golden-fixture harness used by
// the formatter's package tests: each fixture file holds a map of named
// TestCase entries exercising Tokenize/Parse/Format, in the same
// table-per-YAML-file shape the teacher used for its migration fixtures.
package testutil

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinsidious/sqlfmt"
	"github.com/vinsidious/sqlfmt/dialect"
)

var stripHeredocRegex = regexp.MustCompilePOSIX("^\t*")

// TestCase is one fixture entry. Input is formatted (and, when Recover is
// unset or true, parsed in recovery mode); the result is compared against
// Output. Idempotency is checked by default: re-formatting Output must
// produce Output unchanged, since spec.md §5 requires Format to be a fixed
// point on its own output.
type TestCase struct {
	Dialect   string  `yaml:"dialect"` // default: postgres
	Input     string  `yaml:"input"`
	Output    *string `yaml:"output"` // default: Input is already formatted
	Error     *string `yaml:"error"`  // default: nil (no error expected)
	Recover   *bool   `yaml:"recover"`
	MaxDepth  int     `yaml:"max_depth"`
	LineWidth int     `yaml:"line_width"`
	SkipIdem  bool    `yaml:"skip_idempotency"`
}

func dialectByName(name string) *dialect.Dialect {
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

func (tc TestCase) recover() bool {
	if tc.Recover == nil {
		return true
	}
	return *tc.Recover
}

// Options builds the sqlfmt.Options a fixture describes.
func (tc TestCase) Options() *sqlfmt.Options {
	return &sqlfmt.Options{
		Dialect:           dialectByName(tc.Dialect),
		AllowMetaCommands: tc.Dialect == "" || tc.Dialect == "postgres",
		Recover:           tc.recover(),
		MaxDepth:          tc.MaxDepth,
		LineWidth:         tc.LineWidth,
	}
}

// ReadTests loads every YAML file matching pattern into one name->TestCase
// map, failing on duplicate names across files the way the teacher's
// ReadTests does for its own fixtures.
func ReadTests(pattern string) (map[string]TestCase, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	ret := map[string]TestCase{}
	fileOf := map[string]string{}

	for _, file := range files {
		var tests map[string]*TestCase

		buf, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}

		dec := yaml.NewDecoder(bytes.NewReader(buf), yaml.DisallowUnknownField())
		if err := dec.Decode(&tests); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}

		for name, test := range tests {
			if existing, ok := fileOf[name]; ok {
				return nil, fmt.Errorf("duplicate test case name %q: defined in both %q and %q", name, existing, file)
			}
			fileOf[name] = file
			ret[name] = *test
		}
	}

	return ret, nil
}

// RunFormatTest runs one fixture end to end: Format(Input) must match
// Output (or Input itself when Output is unset), and, unless SkipIdem is
// set, Format(Output) must equal Output (idempotency).
func RunFormatTest(t *testing.T, test TestCase) {
	t.Helper()

	opts := test.Options()
	out, err := sqlfmt.Format(test.Input, opts)

	if test.Error != nil {
		require.Error(t, err)
		assert.Contains(t, err.Error(), *test.Error)
		return
	}
	require.NoError(t, err)

	expected := test.Input
	if test.Output != nil {
		expected = *test.Output
	}
	assert.Equal(t, expected, out, "Format(input) mismatch")

	if !test.SkipIdem {
		again, err := sqlfmt.Format(out, opts)
		require.NoError(t, err)
		assert.Equal(t, out, again, "Format is not idempotent on its own output")
	}
}

// MustExecute runs an external command (e.g. the built sqlfmt binary) and
// fails the test on a nonzero exit.
func MustExecute(t *testing.T, command string, args ...string) string {
	t.Helper()
	out, err := Execute(command, args...)
	if err != nil {
		t.Fatalf("failed to execute '%s %s' (error: '%s'): `%s`", command, strings.Join(args, " "), err, out)
	}
	return out
}

// MustExecuteNoTest is like MustExecute but for use outside a *testing.T
// context (TestMain setup).
func MustExecuteNoTest(command string, args ...string) string {
	out, err := Execute(command, args...)
	if err != nil {
		log.Fatalf("failed to execute '%s %s' (error: '%s'): `%s`", command, strings.Join(args, " "), err, out)
	}
	return out
}

// BuildForTest builds the sqlfmt binary, adding -cover when GOCOVERDIR is
// set, for tests that drive it as a subprocess.
func BuildForTest() {
	args := []string{"build", "-o", "sqlfmt", "./cmd/sqlfmt"}
	if os.Getenv("GOCOVERDIR") != "" {
		args = append(args, "-cover")
	}
	MustExecuteNoTest("go", args...)
}

func Execute(command string, args ...string) (string, error) {
	cmd := exec.Command(command, args...)
	out, err := cmd.CombinedOutput()
	return strings.ReplaceAll(string(out), "\r\n", "\n"), err
}

func WriteFile(path string, content string) {
	file, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	if _, err := file.Write([]byte(content)); err != nil {
		log.Fatal(err)
	}
}

// StripHeredoc trims a leading newline and the common leading-tab prefix
// from a backtick-quoted heredoc literal, so fixtures can be written
// indented to match surrounding Go code.
func StripHeredoc(heredoc string) string {
	heredoc = strings.TrimPrefix(heredoc, "\n")
	return stripHeredocRegex.ReplaceAllLiteralString(heredoc, "")
}
