package fsx

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFileNotFound(t *testing.T) {
	fsys := afero.NewMemMapFs()

	_, err := ReadFile(fsys, "missing.md")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWriteFileCreatesParents(t *testing.T) {
	fsys := afero.NewMemMapFs()

	require.NoError(t, WriteFile(fsys, ".ruleweaver/rules/overview.md", "body"))

	content, err := ReadFile(fsys, ".ruleweaver/rules/overview.md")
	require.NoError(t, err)
	assert.Equal(t, "body", content)
}

func TestExists(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, WriteFile(fsys, "a/b.md", "x"))

	ok, err := Exists(fsys, "a/b.md")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(fsys, "a/c.md")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemoveMissingIsNoop(t *testing.T) {
	fsys := afero.NewMemMapFs()
	assert.NoError(t, Remove(fsys, "nope.md"))
}

func TestGlob(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, WriteFile(fsys, ".ruleweaver/rules/a.md", "a"))
	require.NoError(t, WriteFile(fsys, ".ruleweaver/rules/nested/b.md", "b"))
	require.NoError(t, WriteFile(fsys, ".ruleweaver/rules/c.txt", "c"))

	matches, err := Glob(fsys, ".ruleweaver/rules", "**/*.md")
	require.NoError(t, err)
	assert.Equal(t, []string{
		".ruleweaver/rules/a.md",
		".ruleweaver/rules/nested/b.md",
	}, matches)
}

func TestGlobMissingDir(t *testing.T) {
	fsys := afero.NewMemMapFs()

	matches, err := Glob(fsys, ".ruleweaver/commands", "*.md")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestValidPattern(t *testing.T) {
	assert.True(t, ValidPattern("**/*.md"))
	assert.True(t, ValidPattern("*.mdc"))
	assert.False(t, ValidPattern("[unclosed"))
}
