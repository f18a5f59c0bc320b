package adapter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/ruleweaver/ruleweaver/internal/aggregate"
	"github.com/ruleweaver/ruleweaver/internal/canonical"
	"github.com/ruleweaver/ruleweaver/internal/feature"
	"github.com/ruleweaver/ruleweaver/internal/frontmatter"
	"github.com/ruleweaver/ruleweaver/internal/fsx"
	"github.com/ruleweaver/ruleweaver/internal/target"
)

// frontmatterStyle selects how a tool's satellite rule files carry their
// metadata header.
type frontmatterStyle int

const (
	// fmNone: bare markdown body, no header.
	fmNone frontmatterStyle = iota
	// fmDescriptionGlobs: description plus a globs list.
	fmDescriptionGlobs
	// fmCursor: description plus globs as a comma-joined string, the
	// .mdc convention.
	fmCursor
	// fmCopilot: description plus an applyTo pattern string.
	fmCopilot
)

// ruleSpec is the per-tool record driving the shared rule adapter.
type ruleSpec struct {
	tool      target.Tool
	paths     Paths
	global    *Paths // nil when the tool has no per-user convention
	style     frontmatterStyle
	reference aggregate.Style
	rootOnly  bool
}

var ruleSpecs = []ruleSpec{
	{
		tool:      target.AgentsMD,
		paths:     Paths{RootFile: "AGENTS.md", Dir: ".agents/memories", Ext: ".md"},
		style:     fmDescriptionGlobs,
		reference: aggregate.StyleMarkup,
	},
	{
		tool:  target.AmazonQCLI,
		paths: Paths{Dir: ".amazonq/rules", Ext: ".md"},
		style: fmNone,
	},
	{
		tool:  target.AugmentCode,
		paths: Paths{Dir: ".augment/rules", Ext: ".md"},
		style: fmDescriptionGlobs,
	},
	{
		tool:     target.AugmentCodeLegacy,
		paths:    Paths{RootFile: ".augment-guidelines"},
		rootOnly: true,
	},
	{
		tool:      target.ClaudeCode,
		paths:     Paths{RootFile: "CLAUDE.md", Dir: ".claude/memories", Ext: ".md"},
		global:    &Paths{RootDir: ".claude", RootFile: "CLAUDE.md", Dir: ".claude/memories", Ext: ".md"},
		style:     fmNone,
		reference: aggregate.StylePlain,
	},
	{
		tool:     target.ClaudeCodeLegacy,
		paths:    Paths{RootFile: "CLAUDE.md"},
		rootOnly: true,
	},
	{
		tool:  target.Cline,
		paths: Paths{Dir: ".clinerules", Ext: ".md"},
		style: fmNone,
	},
	{
		tool:      target.CodexCLI,
		paths:     Paths{RootFile: "AGENTS.md", Dir: ".codex/memories", Ext: ".md"},
		global:    &Paths{RootDir: ".codex", RootFile: "AGENTS.md", Dir: ".codex/memories", Ext: ".md"},
		style:     fmNone,
		reference: aggregate.StyleMarkup,
	},
	{
		tool:      target.Copilot,
		paths:     Paths{RootDir: ".github", RootFile: "copilot-instructions.md", Dir: ".github/instructions", Ext: ".instructions.md"},
		style:     fmCopilot,
		reference: aggregate.StyleMarkup,
	},
	{
		tool:  target.Cursor,
		paths: Paths{Dir: ".cursor/rules", Ext: ".mdc"},
		style: fmCursor,
	},
	{
		tool:      target.GeminiCLI,
		paths:     Paths{RootFile: "GEMINI.md", Dir: ".gemini/memories", Ext: ".md"},
		global:    &Paths{RootDir: ".gemini", RootFile: "GEMINI.md", Dir: ".gemini/memories", Ext: ".md"},
		style:     fmNone,
		reference: aggregate.StylePlain,
	},
	{
		tool:     target.Junie,
		paths:    Paths{RootDir: ".junie", RootFile: "guidelines.md"},
		rootOnly: true,
	},
	{
		tool:  target.Kiro,
		paths: Paths{Dir: ".kiro/steering", Ext: ".md"},
		style: fmDescriptionGlobs,
	},
	{
		tool:      target.OpenCode,
		paths:     Paths{RootFile: "AGENTS.md", Dir: ".opencode/memories", Ext: ".md"},
		global:    &Paths{RootDir: ".opencode", RootFile: "AGENTS.md", Dir: ".opencode/memories", Ext: ".md"},
		style:     fmNone,
		reference: aggregate.StyleMarkup,
	},
	{
		tool:      target.QwenCode,
		paths:     Paths{RootFile: "QWEN.md", Dir: ".qwen/memories", Ext: ".md"},
		style:     fmNone,
		reference: aggregate.StylePlain,
	},
	{
		tool:  target.Roo,
		paths: Paths{Dir: ".roo/rules", Ext: ".md"},
		style: fmDescriptionGlobs,
	},
	{
		tool:  target.Windsurf,
		paths: Paths{Dir: ".windsurf/rules", Ext: ".md"},
		style: fmDescriptionGlobs,
	},
}

func rulesRegistry() *Registry {
	entries := make(map[target.Tool]Entry, len(ruleSpecs))
	for _, spec := range ruleSpecs {
		glob := ""
		if spec.paths.Dir != "" {
			glob = "**/*" + spec.paths.Ext
		}
		entries[spec.tool] = Entry{
			Adapter:        &ruleAdapter{spec: spec},
			SupportsGlobal: spec.global != nil,
			Glob:           glob,
			Reference:      spec.reference,
		}
	}
	return NewRegistry(feature.Rules, entries)
}

// ruleAdapter implements the contract for every rule format, driven by
// its ruleSpec.
type ruleAdapter struct {
	spec ruleSpec
}

func (a *ruleAdapter) Tool() target.Tool {
	return a.spec.tool
}

func (a *ruleAdapter) SettablePaths(opts PathOptions) Paths {
	return applyPathOptions(a.spec.paths, a.spec.global, opts)
}

func (a *ruleAdapter) IsTargetedBy(doc *canonical.Document) bool {
	return doc.Frontmatter.TargetsTool(a.spec.tool)
}

func (a *ruleAdapter) FromCanonical(doc *canonical.Document, opts Options) (*Doc, error) {
	if !a.IsTargetedBy(doc) {
		return nil, nil
	}

	paths := a.SettablePaths(PathOptions{Global: opts.Global, ExcludeToolDir: opts.ExcludeToolDir})

	if doc.Frontmatter.Root {
		if paths.RootFile == "" {
			// The tool has no root document convention; nothing to emit.
			return nil, nil
		}
		return &Doc{
			Location: canonical.Location{
				BaseDir:          doc.BaseDir,
				RelativeDirPath:  paths.RootDir,
				RelativeFilePath: paths.RootFile,
			},
			Tool:        a.spec.tool,
			Domain:      feature.Rules,
			Body:        doc.Body,
			FileContent: doc.Body,
			Root:        true,
		}, nil
	}

	if a.spec.rootOnly {
		return nil, fmt.Errorf("%s %s: %w", a.spec.tool, doc.Relative(), ErrRootOnly)
	}

	fm := a.toolFrontmatter(doc)
	content, err := frontmatter.Render(fm, doc.Body)
	if err != nil {
		return nil, err
	}

	return &Doc{
		Location: canonical.Location{
			BaseDir:          doc.BaseDir,
			RelativeDirPath:  paths.Dir,
			RelativeFilePath: swapExt(doc.RelativeFilePath, paths.Ext),
		},
		Tool:        a.spec.tool,
		Domain:      feature.Rules,
		Frontmatter: fm,
		Body:        doc.Body,
		FileContent: content,
	}, nil
}

// toolFrontmatter projects canonical description/globs into the tool's
// header shape and carries over the tool's passthrough block.
func (a *ruleAdapter) toolFrontmatter(doc *canonical.Document) map[string]any {
	c := doc.Frontmatter
	if a.spec.style == fmNone {
		return nil
	}

	fm := make(map[string]any)
	if c.Description != "" {
		fm["description"] = c.Description
	}
	switch a.spec.style {
	case fmDescriptionGlobs:
		if len(c.Globs) > 0 {
			fm["globs"] = c.Globs
		}
	case fmCursor:
		if len(c.Globs) > 0 {
			fm["globs"] = strings.Join(c.Globs, ",")
		}
	case fmCopilot:
		applyTo := "**"
		if len(c.Globs) > 0 {
			applyTo = strings.Join(c.Globs, ", ")
		}
		fm["applyTo"] = applyTo
	}

	fm = mergeExtra(fm, c.ToolExtra(a.spec.tool))
	if len(fm) == 0 {
		return nil
	}
	return fm
}

func (a *ruleAdapter) ToCanonical(d *Doc) (*canonical.Document, error) {
	fm := canonical.Frontmatter{
		Root:    d.Root,
		Targets: []string{string(a.spec.tool)},
	}

	extra := make(map[string]any)
	for k, v := range d.Frontmatter {
		switch k {
		case "description":
			fm.Description, _ = v.(string)
		case "globs":
			fm.Globs = globList(v)
		case "applyTo":
			if s, ok := v.(string); ok && s != "" && s != "**" {
				fm.Globs = splitPatterns(s)
			}
		default:
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		fm.Extra = map[string]any{string(a.spec.tool): extra}
	}

	name := "main"
	if !d.Root {
		name = a.satelliteName(d.Location)
	}
	loc := canonical.Location{
		BaseDir:          d.Location.BaseDir,
		RelativeDirPath:  canonical.DomainDir(feature.Rules),
		RelativeFilePath: name + ".md",
	}
	return canonical.New(feature.Rules, loc, fm, d.Body)
}

// satelliteName strips the tool's satellite suffix, which may span more
// than one extension (e.g. ".instructions.md"). Nested paths under the
// satellite directory are preserved.
func (a *ruleAdapter) satelliteName(loc canonical.Location) string {
	rel := loc.RelativeFilePath
	if a.spec.paths.Ext != "" && strings.HasSuffix(rel, a.spec.paths.Ext) {
		return strings.TrimSuffix(rel, a.spec.paths.Ext)
	}
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}

func (a *ruleAdapter) Validate(doc *Doc) canonical.ValidationResult {
	if doc.Root || doc.Deletable {
		return canonical.Valid()
	}
	if a.spec.style == fmCopilot {
		if _, ok := doc.Frontmatter["applyTo"]; !ok {
			return canonical.Invalid(fmt.Errorf("%s: missing required applyTo frontmatter", doc.Location.Relative()))
		}
	}
	return canonical.Valid()
}

func (a *ruleAdapter) ForDeletion(loc canonical.Location) *Doc {
	return &Doc{
		Location: loc,
		Tool:     a.spec.tool,
		Domain:   feature.Rules,
		Root:     a.isRootLocation(loc),
		// Root documents often carry user-authored content; only
		// satellites are eligible for the clean-regenerate pass.
		Deletable: !a.isRootLocation(loc),
	}
}

func (a *ruleAdapter) Load(fsys afero.Fs, loc canonical.Location) (*Doc, error) {
	content, err := fsx.ReadFile(fsys, loc.Path())
	if err != nil {
		return nil, err
	}

	var fm map[string]any
	body, err := frontmatter.Parse(content, &fm)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", loc.Relative(), err)
	}

	return &Doc{
		Location:    loc,
		Tool:        a.spec.tool,
		Domain:      feature.Rules,
		Frontmatter: fm,
		Body:        body,
		FileContent: content,
		Root:        a.isRootLocation(loc),
	}, nil
}

func (a *ruleAdapter) isRootLocation(loc canonical.Location) bool {
	base := filepath.Base(loc.RelativeFilePath)
	if a.spec.paths.RootFile != "" && base == filepath.Base(a.spec.paths.RootFile) {
		return true
	}
	return a.spec.global != nil && a.spec.global.RootFile != "" && base == filepath.Base(a.spec.global.RootFile)
}

// globList normalizes the YAML decodings a globs value can arrive as.
func globList(v any) []string {
	switch g := v.(type) {
	case string:
		if g == "" {
			return nil
		}
		return splitPatterns(g)
	case []string:
		return g
	case []any:
		out := make([]string, 0, len(g))
		for _, item := range g {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// splitPatterns splits a comma-joined pattern string.
func splitPatterns(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
