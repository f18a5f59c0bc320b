package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangeKinds(t *testing.T) {
	assert.True(t, Change{New: "x"}.Created())
	assert.True(t, Change{Old: "x"}.Deleted())
	assert.True(t, Change{Old: "x", New: "x"}.Unchanged())
	assert.False(t, Change{Old: "x", New: "y"}.Unchanged())
}

func TestDiffMarksChangedLines(t *testing.T) {
	out := Diff(Change{
		Old: "alpha\nbeta\ngamma\n",
		New: "alpha\nBETA\ngamma\n",
	})

	assert.Contains(t, out, " alpha\n")
	assert.Contains(t, out, "-beta\n")
	assert.Contains(t, out, "+BETA\n")
	assert.Contains(t, out, " gamma\n")
}

func TestDiffCreation(t *testing.T) {
	out := Diff(Change{New: "one\ntwo\n"})
	assert.Equal(t, "+one\n+two\n", out)
}

func TestRender(t *testing.T) {
	out := Render([]Change{
		{Path: "CLAUDE.md", Old: "same\n", New: "same\n"},
		{Path: ".cursor/rules/style.mdc", New: "body\n"},
		{Path: ".rooignore", Old: "dist/\n"},
	})

	assert.Contains(t, out, "create .cursor/rules/style.mdc")
	assert.Contains(t, out, "delete .rooignore")
	assert.NotContains(t, out, "CLAUDE.md")
	assert.Contains(t, out, "2 to change, 1 unchanged")
}
