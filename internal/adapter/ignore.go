package adapter

import (
	"fmt"
	"path"

	"github.com/spf13/afero"

	"github.com/ruleweaver/ruleweaver/internal/canonical"
	"github.com/ruleweaver/ruleweaver/internal/feature"
	"github.com/ruleweaver/ruleweaver/internal/fsx"
	"github.com/ruleweaver/ruleweaver/internal/target"
)

// ignoreSpec is the per-tool record for exclusion lists: a single file
// of gitignore-style patterns, no header block.
type ignoreSpec struct {
	tool target.Tool
	file string // relative to the project root, may contain a directory
}

var ignoreSpecs = []ignoreSpec{
	{tool: target.Cline, file: ".clineignore"},
	{tool: target.Cursor, file: ".cursorignore"},
	{tool: target.GeminiCLI, file: ".aiexclude"},
	{tool: target.Junie, file: ".aiignore"},
	{tool: target.Kiro, file: ".kiro/.aiignore"},
	{tool: target.Roo, file: ".rooignore"},
	{tool: target.Windsurf, file: ".codeiumignore"},
}

func ignoreRegistry() *Registry {
	entries := make(map[target.Tool]Entry, len(ignoreSpecs))
	for _, spec := range ignoreSpecs {
		entries[spec.tool] = Entry{
			Adapter: &ignoreAdapter{spec: spec},
			Glob:    path.Base(spec.file),
		}
	}
	return NewRegistry(feature.Ignore, entries)
}

type ignoreAdapter struct {
	spec ignoreSpec
}

func (a *ignoreAdapter) Tool() target.Tool {
	return a.spec.tool
}

func (a *ignoreAdapter) SettablePaths(opts PathOptions) Paths {
	dir := path.Dir(a.spec.file)
	if dir == "." {
		dir = ""
	}
	p := Paths{Dir: dir, RootDir: dir, RootFile: path.Base(a.spec.file)}
	if opts.ExcludeToolDir {
		p.Dir = stripToolDir(p.Dir)
		p.RootDir = stripToolDir(p.RootDir)
	}
	return p
}

func (a *ignoreAdapter) IsTargetedBy(doc *canonical.Document) bool {
	return doc.Frontmatter.TargetsTool(a.spec.tool)
}

func (a *ignoreAdapter) FromCanonical(doc *canonical.Document, opts Options) (*Doc, error) {
	if !a.IsTargetedBy(doc) {
		return nil, nil
	}

	paths := a.SettablePaths(PathOptions{Global: opts.Global, ExcludeToolDir: opts.ExcludeToolDir})

	return &Doc{
		Location: canonical.Location{
			BaseDir:          doc.BaseDir,
			RelativeDirPath:  paths.Dir,
			RelativeFilePath: paths.RootFile,
		},
		Tool:        a.spec.tool,
		Domain:      feature.Ignore,
		Body:        doc.Body,
		FileContent: doc.Body,
	}, nil
}

func (a *ignoreAdapter) ToCanonical(d *Doc) (*canonical.Document, error) {
	fm := canonical.Frontmatter{Targets: []string{string(a.spec.tool)}}
	loc := canonical.Location{
		BaseDir:          d.Location.BaseDir,
		RelativeDirPath:  canonical.DomainDir(feature.Ignore),
		RelativeFilePath: canonical.IgnoreFileName,
	}
	return canonical.New(feature.Ignore, loc, fm, d.Body)
}

func (a *ignoreAdapter) Validate(doc *Doc) canonical.ValidationResult {
	if doc.Deletable {
		return canonical.Valid()
	}
	if doc.Frontmatter != nil {
		return canonical.Invalid(fmt.Errorf("%s: ignore files carry no frontmatter", doc.Location.Relative()))
	}
	return canonical.Valid()
}

func (a *ignoreAdapter) ForDeletion(loc canonical.Location) *Doc {
	return &Doc{
		Location:  loc,
		Tool:      a.spec.tool,
		Domain:    feature.Ignore,
		Deletable: true,
	}
}

func (a *ignoreAdapter) Load(fsys afero.Fs, loc canonical.Location) (*Doc, error) {
	content, err := fsx.ReadFile(fsys, loc.Path())
	if err != nil {
		return nil, err
	}

	return &Doc{
		Location:    loc,
		Tool:        a.spec.tool,
		Domain:      feature.Ignore,
		Body:        content,
		FileContent: content,
	}, nil
}
