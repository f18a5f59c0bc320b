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

// subagentSpec is the per-tool record for subagent definitions. Tools
// without a native subagent format get a simulated deployment: the
// definition is written as a rule file the assistant can read, which is
// why the reverse conversion is unsupported for them.
type subagentSpec struct {
	tool      target.Tool
	dir       string
	globalDir string
	ext       string
	simulated bool
}

var subagentSpecs = []subagentSpec{
	{tool: target.ClaudeCode, dir: ".claude/agents", globalDir: ".claude/agents", ext: ".md"},
	{tool: target.Copilot, dir: ".github/instructions", ext: ".instructions.md", simulated: true},
	{tool: target.Cursor, dir: ".cursor/rules", ext: ".mdc", simulated: true},
}

func subagentsRegistry() *Registry {
	entries := make(map[target.Tool]Entry, len(subagentSpecs))
	for _, spec := range subagentSpecs {
		entries[spec.tool] = Entry{
			Adapter:        &subagentAdapter{spec: spec},
			Simulated:      spec.simulated,
			SupportsGlobal: spec.globalDir != "",
			Glob:           "*" + spec.ext,
		}
	}
	return NewRegistry(feature.Subagents, entries)
}

type subagentAdapter struct {
	spec subagentSpec
}

func (a *subagentAdapter) Tool() target.Tool {
	return a.spec.tool
}

func (a *subagentAdapter) SettablePaths(opts PathOptions) Paths {
	p := Paths{Dir: a.spec.dir, Ext: a.spec.ext}
	var global *Paths
	if a.spec.globalDir != "" {
		global = &Paths{Dir: a.spec.globalDir, Ext: a.spec.ext}
	}
	return applyPathOptions(p, global, opts)
}

func (a *subagentAdapter) IsTargetedBy(doc *canonical.Document) bool {
	return doc.Frontmatter.TargetsTool(a.spec.tool)
}

func (a *subagentAdapter) FromCanonical(doc *canonical.Document, opts Options) (*Doc, error) {
	if !a.IsTargetedBy(doc) {
		return nil, nil
	}

	paths := a.SettablePaths(PathOptions{Global: opts.Global, ExcludeToolDir: opts.ExcludeToolDir})

	body := doc.Body
	var fm map[string]any
	if a.spec.simulated {
		// Simulated deployment: render the definition as a plain
		// instructions file the assistant treats like any other rule.
		body = fmt.Sprintf("# Subagent: %s\n\n%s", doc.Name(), doc.Body)
		if doc.Frontmatter.Description != "" {
			fm = map[string]any{"description": doc.Frontmatter.Description}
		}
	} else {
		fm = map[string]any{"name": doc.Name()}
		if doc.Frontmatter.Description != "" {
			fm["description"] = doc.Frontmatter.Description
		}
		fm = mergeExtra(fm, doc.Frontmatter.ToolExtra(a.spec.tool))
	}

	content, err := frontmatter.Render(fm, body)
	if err != nil {
		return nil, err
	}

	return &Doc{
		Location: canonical.Location{
			BaseDir:          doc.BaseDir,
			RelativeDirPath:  paths.Dir,
			RelativeFilePath: doc.Name() + paths.Ext,
		},
		Tool:        a.spec.tool,
		Domain:      feature.Subagents,
		Frontmatter: fm,
		Body:        body,
		FileContent: content,
	}, nil
}

func (a *subagentAdapter) ToCanonical(d *Doc) (*canonical.Document, error) {
	if a.spec.simulated {
		return nil, fmt.Errorf("%s subagents: %w", a.spec.tool, ErrSimulated)
	}

	fm := canonical.Frontmatter{Targets: []string{string(a.spec.tool)}}
	name := strings.TrimSuffix(d.Location.RelativeFilePath, a.spec.ext)

	extra := make(map[string]any)
	for k, v := range d.Frontmatter {
		switch k {
		case "name":
			if s, ok := v.(string); ok && s != "" {
				name = s
			}
		case "description":
			fm.Description, _ = v.(string)
		default:
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		fm.Extra = map[string]any{string(a.spec.tool): extra}
	}

	loc := canonical.Location{
		BaseDir:          d.Location.BaseDir,
		RelativeDirPath:  canonical.DomainDir(feature.Subagents),
		RelativeFilePath: name + ".md",
	}
	return canonical.New(feature.Subagents, loc, fm, d.Body)
}

func (a *subagentAdapter) Validate(doc *Doc) canonical.ValidationResult {
	if doc.Deletable || a.spec.simulated {
		return canonical.Valid()
	}
	if _, ok := doc.Frontmatter["description"]; !ok {
		return canonical.Invalid(fmt.Errorf("%s: subagent requires a description", doc.Location.Relative()))
	}
	return canonical.Valid()
}

func (a *subagentAdapter) ForDeletion(loc canonical.Location) *Doc {
	return &Doc{
		Location:  loc,
		Tool:      a.spec.tool,
		Domain:    feature.Subagents,
		Deletable: true,
	}
}

func (a *subagentAdapter) Load(fsys afero.Fs, loc canonical.Location) (*Doc, error) {
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
		Domain:      feature.Subagents,
		Frontmatter: fm,
		Body:        body,
		FileContent: content,
	}, nil
}
