package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruleweaver/ruleweaver/internal/aggregate"
	"github.com/ruleweaver/ruleweaver/internal/feature"
	"github.com/ruleweaver/ruleweaver/internal/target"
)

func TestForKnownDomains(t *testing.T) {
	for _, domain := range []feature.Feature{feature.Rules, feature.Commands, feature.Subagents, feature.Ignore, feature.MCP} {
		reg, err := For(domain)
		require.NoError(t, err, domain)
		assert.Equal(t, domain, reg.Domain())
		assert.NotEmpty(t, reg.Tools(), domain)
	}
}

func TestForUnsupportedDomain(t *testing.T) {
	_, err := For(feature.Hooks)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedDomain)
	assert.Contains(t, err.Error(), "hooks")
}

func TestLookupNamesOffendingTool(t *testing.T) {
	reg, err := For(feature.Commands)
	require.NoError(t, err)

	_, err = reg.Lookup(target.Junie)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedTarget)
	assert.Contains(t, err.Error(), "junie")
}

func TestSupports(t *testing.T) {
	reg, err := For(feature.Ignore)
	require.NoError(t, err)

	assert.True(t, reg.Supports(target.Cline))
	assert.False(t, reg.Supports(target.ClaudeCode))
}

func TestRuleEntriesCarryReferenceStyle(t *testing.T) {
	reg, err := For(feature.Rules)
	require.NoError(t, err)

	claude, err := reg.Lookup(target.ClaudeCode)
	require.NoError(t, err)
	assert.Equal(t, aggregate.StylePlain, claude.Reference)

	copilot, err := reg.Lookup(target.Copilot)
	require.NoError(t, err)
	assert.Equal(t, aggregate.StyleMarkup, copilot.Reference)

	cursor, err := reg.Lookup(target.Cursor)
	require.NoError(t, err)
	assert.Equal(t, aggregate.StyleNone, cursor.Reference)
}

func TestToolsSorted(t *testing.T) {
	reg, err := For(feature.MCP)
	require.NoError(t, err)

	tools := reg.Tools()
	for i := 1; i < len(tools); i++ {
		assert.Less(t, string(tools[i-1]), string(tools[i]))
	}
}
