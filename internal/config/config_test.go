package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruleweaver/ruleweaver/internal/feature"
	"github.com/ruleweaver/ruleweaver/internal/target"
)

func TestWildcardTargetsExcludeLegacy(t *testing.T) {
	cfg, err := New(Params{Targets: []string{"*"}})
	require.NoError(t, err)

	tools := cfg.Targets()
	assert.NotContains(t, tools, target.ClaudeCodeLegacy)
	assert.NotContains(t, tools, target.AugmentCodeLegacy)
	assert.Contains(t, tools, target.ClaudeCode)
	assert.Contains(t, tools, target.Copilot)
}

func TestExplicitLegacyTarget(t *testing.T) {
	cfg, err := New(Params{Targets: []string{"claudecode-legacy"}})
	require.NoError(t, err)

	assert.Equal(t, []target.Tool{target.ClaudeCodeLegacy}, cfg.Targets())
}

func TestWildcardPlusExplicitLegacy(t *testing.T) {
	cfg, err := New(Params{Targets: []string{"*", "augmentcode-legacy"}})
	require.NoError(t, err)

	tools := cfg.Targets()
	assert.Contains(t, tools, target.AugmentCodeLegacy)
	assert.NotContains(t, tools, target.ClaudeCodeLegacy)
}

func TestEmptyTargetsMeansWildcard(t *testing.T) {
	cfg, err := New(Params{})
	require.NoError(t, err)
	assert.Equal(t, target.NonLegacy(), cfg.Targets())
}

func TestConflictingTargetsRejected(t *testing.T) {
	_, err := New(Params{Targets: []string{"augmentcode", "augmentcode-legacy"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "augmentcode")
	assert.Contains(t, err.Error(), "augmentcode-legacy")

	_, err = New(Params{Targets: []string{"claudecode", "claudecode-legacy"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "claudecode")
	assert.Contains(t, err.Error(), "claudecode-legacy")
}

func TestUnknownTargetRejected(t *testing.T) {
	_, err := New(Params{Targets: []string{"copilot", "nonsense"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonsense")
}

func TestExclusiveModesRejected(t *testing.T) {
	_, err := New(Params{DryRun: true, Delete: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")

	_, err = New(Params{Verbose: true, Quiet: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestFlatFeatures(t *testing.T) {
	cfg, err := New(Params{Features: []string{"rules", "mcp"}})
	require.NoError(t, err)

	assert.Equal(t, []feature.Feature{feature.Rules, feature.MCP}, cfg.Features())
	assert.Equal(t, []feature.Feature{feature.Rules, feature.MCP}, cfg.Features(target.Cursor))
}

func TestFeatureWildcardExpands(t *testing.T) {
	cfg, err := New(Params{Features: []string{"*"}})
	require.NoError(t, err)
	assert.Equal(t, feature.All(), cfg.Features())
}

func TestDefaultFeaturesAreAll(t *testing.T) {
	cfg, err := New(Params{})
	require.NoError(t, err)
	assert.Equal(t, feature.All(), cfg.Features())
}

func TestFeatureMapOverridesPerTarget(t *testing.T) {
	cfg, err := New(Params{FeatureMap: map[string][]string{
		"claudecode": {"*"},
		"cursor":     {"rules"},
	}})
	require.NoError(t, err)

	// Wildcard in any per-target slot dominates the union.
	assert.Equal(t, feature.All(), cfg.Features())

	assert.Equal(t, feature.All(), cfg.Features(target.ClaudeCode))
	assert.Equal(t, []feature.Feature{feature.Rules}, cfg.Features(target.Cursor))

	// A target with no entry gets nothing.
	assert.Empty(t, cfg.Features(target.Windsurf))
}

func TestFeatureMapUnion(t *testing.T) {
	cfg, err := New(Params{FeatureMap: map[string][]string{
		"claudecode": {"rules", "commands"},
		"cursor":     {"rules", "ignore"},
	}})
	require.NoError(t, err)

	union := cfg.Features()
	assert.ElementsMatch(t, []feature.Feature{feature.Rules, feature.Commands, feature.Ignore}, union)
}

func TestHasFeature(t *testing.T) {
	cfg, err := New(Params{FeatureMap: map[string][]string{"cursor": {"rules"}}})
	require.NoError(t, err)

	assert.True(t, cfg.HasFeature(target.Cursor, feature.Rules))
	assert.False(t, cfg.HasFeature(target.Cursor, feature.MCP))
	assert.False(t, cfg.HasFeature(target.ClaudeCode, feature.Rules))
}

func TestUnknownFeatureRejected(t *testing.T) {
	_, err := New(Params{Features: []string{"rules", "widgets"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "widgets")
}
