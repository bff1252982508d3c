package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFixtures(t *testing.T) {
	tests, err := ReadTests("../testdata/*.yml")
	require.NoError(t, err)
	require.NotEmpty(t, tests)

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			RunFormatTest(t, test)
		})
	}
}

func TestReadTestsRejectsDuplicateNamesAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yml"), []byte("same_name:\n  input: \"SELECT 1;\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte("same_name:\n  input: \"SELECT 2;\"\n"), 0o644))

	_, err := ReadTests(filepath.Join(dir, "*.yml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "same_name")
}

func TestStripHeredocTrimsLeadingNewlineAndTabs(t *testing.T) {
	got := StripHeredoc("\n\t\tSELECT 1;\n\t\tSELECT 2;\n")
	if got != "SELECT 1;\nSELECT 2;\n" {
		t.Fatalf("expected leading newline and tabs stripped, got %q", got)
	}
}
