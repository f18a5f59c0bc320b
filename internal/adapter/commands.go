package adapter

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/ruleweaver/ruleweaver/internal/canonical"
	"github.com/ruleweaver/ruleweaver/internal/feature"
	"github.com/ruleweaver/ruleweaver/internal/frontmatter"
	"github.com/ruleweaver/ruleweaver/internal/fsx"
	"github.com/ruleweaver/ruleweaver/internal/target"
)

// commandSpec is the per-tool record for slash-command definitions:
// markdown files with a description header, one directory per tool.
type commandSpec struct {
	tool      target.Tool
	dir       string
	globalDir string // "" when the tool has no per-user commands
	ext       string
}

var commandSpecs = []commandSpec{
	{tool: target.ClaudeCode, dir: ".claude/commands", globalDir: ".claude/commands", ext: ".md"},
	{tool: target.CodexCLI, dir: ".codex/prompts", globalDir: ".codex/prompts", ext: ".md"},
	{tool: target.Copilot, dir: ".github/prompts", ext: ".prompt.md"},
	{tool: target.Cursor, dir: ".cursor/commands", ext: ".md"},
	{tool: target.OpenCode, dir: ".opencode/command", ext: ".md"},
	{tool: target.Roo, dir: ".roo/commands", ext: ".md"},
	{tool: target.Windsurf, dir: ".windsurf/workflows", ext: ".md"},
}

func commandsRegistry() *Registry {
	entries := make(map[target.Tool]Entry, len(commandSpecs))
	for _, spec := range commandSpecs {
		entries[spec.tool] = Entry{
			Adapter:        &commandAdapter{spec: spec},
			SupportsGlobal: spec.globalDir != "",
			Glob:           "**/*" + spec.ext,
		}
	}
	return NewRegistry(feature.Commands, entries)
}

type commandAdapter struct {
	spec commandSpec
}

func (a *commandAdapter) Tool() target.Tool {
	return a.spec.tool
}

func (a *commandAdapter) SettablePaths(opts PathOptions) Paths {
	p := Paths{Dir: a.spec.dir, Ext: a.spec.ext}
	var global *Paths
	if a.spec.globalDir != "" {
		global = &Paths{Dir: a.spec.globalDir, Ext: a.spec.ext}
	}
	return applyPathOptions(p, global, opts)
}

func (a *commandAdapter) IsTargetedBy(doc *canonical.Document) bool {
	return doc.Frontmatter.TargetsTool(a.spec.tool)
}

func (a *commandAdapter) FromCanonical(doc *canonical.Document, opts Options) (*Doc, error) {
	if !a.IsTargetedBy(doc) {
		return nil, nil
	}

	paths := a.SettablePaths(PathOptions{Global: opts.Global, ExcludeToolDir: opts.ExcludeToolDir})

	fm := make(map[string]any)
	if doc.Frontmatter.Description != "" {
		fm["description"] = doc.Frontmatter.Description
	}
	fm = mergeExtra(fm, doc.Frontmatter.ToolExtra(a.spec.tool))
	if len(fm) == 0 {
		fm = nil
	}

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
		Domain:      feature.Commands,
		Frontmatter: fm,
		Body:        doc.Body,
		FileContent: content,
	}, nil
}

func (a *commandAdapter) ToCanonical(d *Doc) (*canonical.Document, error) {
	fm := canonical.Frontmatter{Targets: []string{string(a.spec.tool)}}

	extra := make(map[string]any)
	for k, v := range d.Frontmatter {
		if k == "description" {
			fm.Description, _ = v.(string)
			continue
		}
		extra[k] = v
	}
	if len(extra) > 0 {
		fm.Extra = map[string]any{string(a.spec.tool): extra}
	}

	name := strings.TrimSuffix(d.Location.RelativeFilePath, a.spec.ext)

	loc := canonical.Location{
		BaseDir:          d.Location.BaseDir,
		RelativeDirPath:  canonical.DomainDir(feature.Commands),
		RelativeFilePath: name + ".md",
	}
	return canonical.New(feature.Commands, loc, fm, d.Body)
}

func (a *commandAdapter) Validate(doc *Doc) canonical.ValidationResult {
	if doc.Deletable {
		return canonical.Valid()
	}
	if doc.Body == "" {
		return canonical.Invalid(fmt.Errorf("%s: command has no prompt body", doc.Location.Relative()))
	}
	return canonical.Valid()
}

func (a *commandAdapter) ForDeletion(loc canonical.Location) *Doc {
	return &Doc{
		Location:  loc,
		Tool:      a.spec.tool,
		Domain:    feature.Commands,
		Deletable: true,
	}
}

func (a *commandAdapter) Load(fsys afero.Fs, loc canonical.Location) (*Doc, error) {
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
		Domain:      feature.Commands,
		Frontmatter: fm,
		Body:        body,
		FileContent: content,
	}, nil
}
