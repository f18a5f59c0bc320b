package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruleweaver/ruleweaver/internal/canonical"
	"github.com/ruleweaver/ruleweaver/internal/feature"
	"github.com/ruleweaver/ruleweaver/internal/target"
)

func subagentDoc(t *testing.T, name string, fm canonical.Frontmatter, body string) *canonical.Document {
	t.Helper()
	doc, err := canonical.New(feature.Subagents, canonical.Location{
		BaseDir:          ".",
		RelativeDirPath:  canonical.DomainDir(feature.Subagents),
		RelativeFilePath: name,
	}, fm, body)
	require.NoError(t, err)
	return doc
}

func subagentAdapterFor(t *testing.T, tool target.Tool) Adapter {
	t.Helper()
	reg, err := For(feature.Subagents)
	require.NoError(t, err)
	entry, err := reg.Lookup(tool)
	require.NoError(t, err)
	return entry.Adapter
}

func TestSubagentFromCanonical(t *testing.T) {
	a := subagentAdapterFor(t, target.ClaudeCode)
	doc := subagentDoc(t, "planner.md", canonical.Frontmatter{Description: "plans work"}, "You are a planner.\n")

	out, err := a.FromCanonical(doc, Options{})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, ".claude/agents", out.Location.RelativeDirPath)
	assert.Equal(t, "planner.md", out.Location.RelativeFilePath)
	assert.Equal(t, "planner", out.Frontmatter["name"])
	assert.Equal(t, "plans work", out.Frontmatter["description"])
}

func TestSubagentRoundTrip(t *testing.T) {
	a := subagentAdapterFor(t, target.ClaudeCode)
	doc := subagentDoc(t, "reviewer.md", canonical.Frontmatter{
		Description: "reviews diffs",
		Extra:       map[string]any{"claudecode": map[string]any{"model": "haiku"}},
	}, "Review carefully.\n")

	toolDoc, err := a.FromCanonical(doc, Options{})
	require.NoError(t, err)
	assert.Equal(t, "haiku", toolDoc.Frontmatter["model"])

	back, err := a.ToCanonical(toolDoc)
	require.NoError(t, err)
	assert.Equal(t, "reviewer.md", back.RelativeFilePath)
	assert.Equal(t, "reviews diffs", back.Frontmatter.Description)
	assert.Equal(t, "Review carefully.\n", back.Body)
	extra := back.Frontmatter.ToolExtra(target.ClaudeCode)
	require.NotNil(t, extra)
	assert.Equal(t, "haiku", extra["model"])
}

func TestSimulatedSubagentDeployment(t *testing.T) {
	a := subagentAdapterFor(t, target.Cursor)
	doc := subagentDoc(t, "planner.md", canonical.Frontmatter{Description: "plans"}, "You plan.\n")

	out, err := a.FromCanonical(doc, Options{})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, ".cursor/rules", out.Location.RelativeDirPath)
	assert.Equal(t, "planner.mdc", out.Location.RelativeFilePath)
	assert.Contains(t, out.Body, "# Subagent: planner")
}

func TestSimulatedSubagentCannotImport(t *testing.T) {
	a := subagentAdapterFor(t, target.Copilot)

	_, err := a.ToCanonical(&Doc{Body: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSimulated)
}

func TestSubagentValidateRequiresDescription(t *testing.T) {
	a := subagentAdapterFor(t, target.ClaudeCode)

	res := a.Validate(&Doc{Frontmatter: map[string]any{"name": "x"}})
	assert.False(t, res.Success)

	res = a.Validate(&Doc{Frontmatter: map[string]any{"name": "x", "description": "d"}})
	assert.True(t, res.Success)

	// Simulated deployments are write-only; nothing to check.
	sim := subagentAdapterFor(t, target.Cursor)
	res = sim.Validate(&Doc{})
	assert.True(t, res.Success)
}
