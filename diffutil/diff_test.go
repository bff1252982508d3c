package diffutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnifiedNoChangesReturnsEmptyString(t *testing.T) {
	assert.Equal(t, "", Unified("a.sql", "b.sql", "SELECT 1;\n", "SELECT 1;\n", 3))
}

func TestUnifiedBothEmptyReturnsEmptyString(t *testing.T) {
	assert.Equal(t, "", Unified("a.sql", "b.sql", "", "", 3))
}

func TestUnifiedHeaderUsesLabels(t *testing.T) {
	out := Unified("before.sql", "after.sql", "a\n", "b\n", 3)
	lines := strings.Split(out, "\n")
	assert.Equal(t, "--- before.sql", lines[0])
	assert.Equal(t, "+++ after.sql", lines[1])
}

func TestUnifiedSingleLineChange(t *testing.T) {
	out := Unified("a", "b", "select 1;\n", "SELECT 1;\n", 0)
	assert.Contains(t, out, "-select 1;")
	assert.Contains(t, out, "+SELECT 1;")
	assert.Contains(t, out, "@@ -1,1 +1,1 @@")
}

func TestUnifiedPureInsertion(t *testing.T) {
	out := Unified("a", "b", "x\n", "x\ny\n", 0)
	assert.Contains(t, out, "+y")
	assert.NotContains(t, out, "-x")
}

func TestUnifiedPureDeletion(t *testing.T) {
	out := Unified("a", "b", "x\ny\n", "x\n", 0)
	assert.Contains(t, out, "-y")
}

func TestUnifiedContextLinesSurroundChange(t *testing.T) {
	before := "1\n2\n3\nCHANGED\n5\n6\n7\n"
	after := "1\n2\n3\nchanged\n5\n6\n7\n"
	out := Unified("a", "b", before, after, 1)
	assert.Contains(t, out, " 3")
	assert.Contains(t, out, "-CHANGED")
	assert.Contains(t, out, "+changed")
	assert.Contains(t, out, " 5")
	assert.NotContains(t, out, " 1\n")
	assert.NotContains(t, out, " 7")
}

func TestUnifiedAdjacentChangesMergeIntoOneHunk(t *testing.T) {
	before := "a\nb\nc\nd\ne\n"
	after := "a\nB\nC\nd\ne\n"
	out := Unified("x", "y", before, after, 1)
	assert.Equal(t, 1, strings.Count(out, "@@ -"))
}

func TestUnifiedDistantChangesProduceSeparateHunks(t *testing.T) {
	lines := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		lines = append(lines, "line")
	}
	before := strings.Join(lines, "\n") + "\n"
	afterLines := append([]string(nil), lines...)
	afterLines[0] = "changed-start"
	afterLines[19] = "changed-end"
	after := strings.Join(afterLines, "\n") + "\n"

	out := Unified("x", "y", before, after, 1)
	assert.Equal(t, 2, strings.Count(out, "@@ -"))
}
