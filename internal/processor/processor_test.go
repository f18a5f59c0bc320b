package processor

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruleweaver/ruleweaver/internal/adapter"
	"github.com/ruleweaver/ruleweaver/internal/canonical"
	"github.com/ruleweaver/ruleweaver/internal/feature"
	"github.com/ruleweaver/ruleweaver/internal/target"
)

func newFixture(t *testing.T, files map[string]string) (*Processor, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}
	return New(Params{Fs: fsys, BaseDir: "."}), fsys
}

func TestLoadCanonicalDocuments(t *testing.T) {
	p, _ := newFixture(t, map[string]string{
		".ruleweaver/rules/main.md":  "---\nroot: true\n---\nproject rules\n",
		".ruleweaver/rules/style.md": "---\ndescription: styling\n---\nuse tabs\n",
	})

	docs, err := p.LoadCanonicalDocuments(context.Background(), feature.Rules)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	// fsx.Glob sorts, so main.md comes first.
	assert.True(t, docs[0].Frontmatter.Root)
	assert.Equal(t, "styling", docs[1].Frontmatter.Description)
	assert.Equal(t, "style.md", docs[1].RelativeFilePath)
}

func TestLoadCanonicalDocumentsMissingDir(t *testing.T) {
	p, _ := newFixture(t, nil)

	docs, err := p.LoadCanonicalDocuments(context.Background(), feature.Commands)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLoadCanonicalDocumentsSkipsUnparseable(t *testing.T) {
	p, _ := newFixture(t, map[string]string{
		".ruleweaver/rules/good.md":   "---\ndescription: ok\n---\nbody\n",
		".ruleweaver/rules/broken.md": "---\ndescription: never closed\nbody\n",
	})

	docs, err := p.LoadCanonicalDocuments(context.Background(), feature.Rules)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "good.md", docs[0].RelativeFilePath)
}

func TestConvertCanonicalToToolAggregatesRoot(t *testing.T) {
	p, _ := newFixture(t, map[string]string{
		".ruleweaver/rules/main.md":  "---\nroot: true\n---\nproject rules\n",
		".ruleweaver/rules/style.md": "---\ndescription: styling\nglobs: [\"**/*.css\"]\n---\nuse BEM\n",
	})

	docs, err := p.LoadCanonicalDocuments(context.Background(), feature.Rules)
	require.NoError(t, err)

	out, err := p.ConvertCanonicalToTool(docs, feature.Rules, target.ClaudeCode)
	require.NoError(t, err)
	require.Len(t, out, 2)

	var root *adapter.Doc
	for _, d := range out {
		if d.Root {
			root = d
		}
	}
	require.NotNil(t, root)
	assert.Contains(t, root.FileContent, "@.claude/memories/style.md: styling (**/*.css)")
	assert.Contains(t, root.FileContent, "project rules")
}

func TestConvertCanonicalToToolNoSatellitesLeavesRootUntouched(t *testing.T) {
	p, _ := newFixture(t, map[string]string{
		".ruleweaver/rules/main.md": "---\nroot: true\n---\nproject rules\n",
	})

	docs, err := p.LoadCanonicalDocuments(context.Background(), feature.Rules)
	require.NoError(t, err)

	out, err := p.ConvertCanonicalToTool(docs, feature.Rules, target.ClaudeCode)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "project rules\n", out[0].FileContent)
}

func TestConvertCanonicalToToolSkipsRootOnlyViolations(t *testing.T) {
	p, _ := newFixture(t, map[string]string{
		".ruleweaver/rules/main.md":  "---\nroot: true\n---\nroot\n",
		".ruleweaver/rules/extra.md": "satellite\n",
	})

	docs, err := p.LoadCanonicalDocuments(context.Background(), feature.Rules)
	require.NoError(t, err)

	out, err := p.ConvertCanonicalToTool(docs, feature.Rules, target.Junie)
	require.NoError(t, err)
	// The satellite cannot exist for a root-only tool; only the root survives.
	require.Len(t, out, 1)
	assert.Equal(t, ".junie", out[0].Location.RelativeDirPath)
	assert.Equal(t, "guidelines.md", out[0].Location.RelativeFilePath)
}

func TestConvertCanonicalToToolDropsUntargeted(t *testing.T) {
	p, _ := newFixture(t, map[string]string{
		".ruleweaver/rules/cursor-only.md": "---\ntargets: [cursor]\n---\nbody\n",
	})

	docs, err := p.LoadCanonicalDocuments(context.Background(), feature.Rules)
	require.NoError(t, err)

	out, err := p.ConvertCanonicalToTool(docs, feature.Rules, target.Windsurf)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestConvertCanonicalToToolUnknownTool(t *testing.T) {
	p, _ := newFixture(t, nil)

	_, err := p.ConvertCanonicalToTool(nil, feature.Ignore, target.ClaudeCode)
	require.Error(t, err)
	assert.ErrorIs(t, err, adapter.ErrUnsupportedTarget)
}

func TestLoadToolDocuments(t *testing.T) {
	p, _ := newFixture(t, map[string]string{
		"CLAUDE.md":                    "root\n",
		".claude/memories/style.md":    "satellite\n",
		".claude/memories/unused.txt":  "not a rule\n",
	})

	docs, err := p.LoadToolDocuments(context.Background(), feature.Rules, target.ClaudeCode, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	var roots, satellites int
	for _, d := range docs {
		if d.Root {
			roots++
		} else {
			satellites++
		}
	}
	assert.Equal(t, 1, roots)
	assert.Equal(t, 1, satellites)
}

func TestLoadToolDocumentsForDeletion(t *testing.T) {
	p, _ := newFixture(t, map[string]string{
		"CLAUDE.md":                 "root\n",
		".claude/memories/style.md": "---\nbroken frontmatter\n",
	})

	docs, err := p.LoadToolDocuments(context.Background(), feature.Rules, target.ClaudeCode, LoadOptions{ForDeletion: true})
	require.NoError(t, err)
	// Root documents are never deletable; the satellite placeholder is
	// constructible even though its content would not parse.
	require.Len(t, docs, 1)
	assert.True(t, docs[0].Deletable)
	assert.Equal(t, "style.md", docs[0].Location.RelativeFilePath)
	assert.Empty(t, docs[0].FileContent)
}

func TestLoadToolDocumentsSingleFileDomains(t *testing.T) {
	p, _ := newFixture(t, map[string]string{
		".cursorignore": "dist/\n",
	})

	docs, err := p.LoadToolDocuments(context.Background(), feature.Ignore, target.Cursor, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "dist/\n", docs[0].Body)
}

func TestConvertToolToCanonical(t *testing.T) {
	p, _ := newFixture(t, map[string]string{
		".cursor/rules/style.mdc": "---\ndescription: styling\nglobs: \"*.css\"\n---\nuse BEM\n",
	})

	docs, err := p.LoadToolDocuments(context.Background(), feature.Rules, target.Cursor, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, docs, 1)

	out, err := p.ConvertToolToCanonical(docs, feature.Rules, target.Cursor)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "style.md", out[0].RelativeFilePath)
	assert.Equal(t, []string{"cursor"}, out[0].Frontmatter.Targets)
	assert.Equal(t, []string{"*.css"}, out[0].Frontmatter.Globs)
}

func TestConvertToolToCanonicalSkipsSimulated(t *testing.T) {
	p, _ := newFixture(t, nil)

	out, err := p.ConvertToolToCanonical([]*adapter.Doc{{Body: "x"}}, feature.Subagents, target.Cursor)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestWriteAndRemoveToolDocuments(t *testing.T) {
	p, fsys := newFixture(t, nil)

	docs := []*adapter.Doc{{
		Location:    canonical.Location{BaseDir: ".", RelativeDirPath: ".windsurf/rules", RelativeFilePath: "style.md"},
		FileContent: "body\n",
		Deletable:   true,
	}}
	require.NoError(t, p.WriteToolDocuments(docs))

	content, err := afero.ReadFile(fsys, ".windsurf/rules/style.md")
	require.NoError(t, err)
	assert.Equal(t, "body\n", string(content))

	require.NoError(t, p.RemoveToolDocuments(docs))
	exists, err := afero.Exists(fsys, ".windsurf/rules/style.md")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGenerateRoundTripThroughProcessor(t *testing.T) {
	p, fsys := newFixture(t, map[string]string{
		".ruleweaver/commands/review.md": "---\ndescription: review the diff\n---\nReview:\n$ARGUMENTS\n",
	})
	ctx := context.Background()

	docs, err := p.LoadCanonicalDocuments(ctx, feature.Commands)
	require.NoError(t, err)

	out, err := p.ConvertCanonicalToTool(docs, feature.Commands, target.ClaudeCode)
	require.NoError(t, err)
	require.NoError(t, p.WriteToolDocuments(out))

	exists, err := afero.Exists(fsys, ".claude/commands/review.md")
	require.NoError(t, err)
	assert.True(t, exists)

	loaded, err := p.LoadToolDocuments(ctx, feature.Commands, target.ClaudeCode, LoadOptions{})
	require.NoError(t, err)

	back, err := p.ConvertToolToCanonical(loaded, feature.Commands, target.ClaudeCode)
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, "review the diff", back[0].Frontmatter.Description)
	assert.Equal(t, "Review:\n$ARGUMENTS\n", back[0].Body)
}
