// Package canonical defines the tool-agnostic representation of one
// rule, command, subagent, ignore-list or MCP-config unit. Canonical
// documents are the single source of truth the per-tool adapters project
// outward from and import back into.
package canonical

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"

	"github.com/ruleweaver/ruleweaver/internal/feature"
	"github.com/ruleweaver/ruleweaver/internal/frontmatter"
	"github.com/ruleweaver/ruleweaver/internal/fsx"
	"github.com/ruleweaver/ruleweaver/internal/target"
)

// Location is the triple every document is addressed by. RelativeDirPath
// joined with RelativeFilePath is always relative to BaseDir.
type Location struct {
	BaseDir          string
	RelativeDirPath  string
	RelativeFilePath string
}

// Path returns the full path of the document on disk.
func (l Location) Path() string {
	return filepath.Join(l.BaseDir, l.RelativeDirPath, l.RelativeFilePath)
}

// Relative returns the document path relative to BaseDir.
func (l Location) Relative() string {
	return filepath.Join(l.RelativeDirPath, l.RelativeFilePath)
}

// Name returns the file name without its extension, used as the stable
// identifier when projecting a document into a tool's own layout.
func (l Location) Name() string {
	base := filepath.Base(l.RelativeFilePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Frontmatter is the structured header of a canonical document. Targets
// is common to every domain; Root only applies to rules. Extra preserves
// per-tool passthrough blocks (keyed by tool name) and any field this
// version does not model, so repeated round-trips do not drop data.
type Frontmatter struct {
	Root        bool           `yaml:"root,omitempty"`
	Targets     []string       `yaml:"targets,flow,omitempty"`
	Description string         `yaml:"description,omitempty"`
	Globs       []string       `yaml:"globs,flow,omitempty"`
	Extra       map[string]any `yaml:",inline"`
}

// ToolExtra returns the passthrough block for one tool, or nil.
func (f Frontmatter) ToolExtra(tool target.Tool) map[string]any {
	block, ok := f.Extra[string(tool)]
	if !ok {
		return nil
	}
	m, ok := block.(map[string]any)
	if !ok {
		return nil
	}
	return m
}

// TargetsTool reports whether the frontmatter selects the given tool:
// true when targets is absent, is the wildcard, or names the tool.
func (f Frontmatter) TargetsTool(tool target.Tool) bool {
	if len(f.Targets) == 0 {
		return true
	}
	for _, t := range f.Targets {
		if t == target.Wildcard || t == string(tool) {
			return true
		}
	}
	return false
}

// Document is one canonical unit. Body is the semantic payload;
// FileContent is the full serialized file and always deserializes back
// to exactly (Frontmatter, Body).
type Document struct {
	Location
	Domain      feature.Feature
	Frontmatter Frontmatter
	Body        string
	FileContent string
}

// New builds a document from parts, deriving FileContent so the
// round-trip invariant holds by construction.
func New(domain feature.Feature, loc Location, fm Frontmatter, body string) (*Document, error) {
	content, err := render(domain, fm, body)
	if err != nil {
		return nil, err
	}
	return &Document{
		Location:    loc,
		Domain:      domain,
		Frontmatter: fm,
		Body:        body,
		FileContent: content,
	}, nil
}

// Parse builds a document from raw file content.
func Parse(domain feature.Feature, loc Location, content string) (*Document, error) {
	doc := &Document{
		Location:    loc,
		Domain:      domain,
		FileContent: content,
	}

	switch domain {
	case feature.MCP:
		// Whole-file JSON, optionally with comments. Targets live at the
		// top level of the JSON object rather than in a YAML header.
		var header struct {
			Targets []string `json:"targets"`
		}
		if err := json.Unmarshal(jsonc.ToJSON([]byte(content)), &header); err != nil {
			return nil, fmt.Errorf("parse %s: %w", loc.Relative(), err)
		}
		doc.Frontmatter.Targets = header.Targets
		doc.Body = content
	default:
		body, err := frontmatter.Parse(content, &doc.Frontmatter)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", loc.Relative(), err)
		}
		doc.Body = body
	}

	return doc, nil
}

// Load reads and parses the document at loc.
func Load(fsys afero.Fs, domain feature.Feature, loc Location) (*Document, error) {
	content, err := fsx.ReadFile(fsys, loc.Path())
	if err != nil {
		return nil, err
	}
	return Parse(domain, loc, content)
}

// render serializes a frontmatter/body pair back to file content.
func render(domain feature.Feature, fm Frontmatter, body string) (string, error) {
	if domain == feature.MCP {
		return body, nil
	}
	return frontmatter.Render(fm, body)
}
