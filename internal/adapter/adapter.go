// Package adapter defines the contract every tool-specific document
// format satisfies: bidirectional conversion to and from the canonical
// form, path conventions, targeting, validation and the deletion
// placeholder constructor. Dispatch is data-driven through per-domain
// registries so "unsupported target" is a lookup failure, not a missing
// branch.
package adapter

import (
	"errors"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/ruleweaver/ruleweaver/internal/canonical"
	"github.com/ruleweaver/ruleweaver/internal/feature"
	"github.com/ruleweaver/ruleweaver/internal/target"
)

// ErrSimulated is returned by ToCanonical on simulated adapters: the
// tool's native format embeds this feature's content inside another
// feature's file and cannot be losslessly separated back out.
var ErrSimulated = errors.New("not supported: simulated deployment cannot be imported")

// ErrRootOnly is returned when a non-root document is converted for a
// tool that supports only a single root document.
var ErrRootOnly = errors.New("tool supports only a root document")

// Doc is a tool-specific document: the same location triple as a
// canonical document, but rooted under the tool's own directory
// convention and carrying the tool's own frontmatter shape.
type Doc struct {
	Location    canonical.Location
	Tool        target.Tool
	Domain      feature.Feature
	Frontmatter map[string]any
	Body        string
	FileContent string
	Root        bool

	// Deletable marks a deletion placeholder as eligible for removal
	// during a clean-regenerate pass.
	Deletable bool
}

// PathOptions select a tool's directory convention.
type PathOptions struct {
	// Global selects the per-user convention for tools that have one.
	Global bool
	// ExcludeToolDir drops the tool's hidden configuration directory
	// prefix so files land next to the root document.
	ExcludeToolDir bool
}

// Paths is a tool's directory and filename convention. Zero values mean
// the tool has no document of that kind.
type Paths struct {
	RootDir  string // directory of the root document, "" = project root
	RootFile string // filename of the root document, "" = no root document
	Dir      string // directory for satellite documents
	Ext      string // satellite filename suffix, e.g. ".md" or ".mdc"
}

// Options tune a single conversion.
type Options struct {
	Global         bool
	ExcludeToolDir bool
}

// Adapter is the capability set each tool-specific format implements.
type Adapter interface {
	// Tool names the tool this adapter serves.
	Tool() target.Tool

	// SettablePaths resolves the tool's path convention. Pure, no I/O.
	SettablePaths(opts PathOptions) Paths

	// FromCanonical builds the tool-specific document, or returns
	// (nil, nil) when the canonical document does not target this tool.
	FromCanonical(doc *canonical.Document, opts Options) (*Doc, error)

	// ToCanonical reconstructs a canonical document naming this one
	// tool in its targets. Simulated adapters return ErrSimulated.
	ToCanonical(doc *Doc) (*canonical.Document, error)

	// IsTargetedBy reports whether the canonical document selects this
	// tool: targets absent, wildcard, or naming it explicitly.
	IsTargetedBy(doc *canonical.Document) bool

	// Validate runs the tool's structural check. It never panics and
	// always returns a result.
	Validate(doc *Doc) canonical.ValidationResult

	// ForDeletion constructs a deletion placeholder for loc without
	// reading or parsing any file, so it stays constructible even when
	// the on-disk file is corrupt or in an obsolete format.
	ForDeletion(loc canonical.Location) *Doc

	// Load reads and parses one tool document. Parse errors propagate;
	// bulk callers decide whether to skip them.
	Load(fsys afero.Fs, loc canonical.Location) (*Doc, error)
}

// stripToolDir removes the leading hidden directory component from a
// path, e.g. ".claude/memories" becomes "memories".
func stripToolDir(dir string) string {
	if dir == "" {
		return dir
	}
	parts := strings.SplitN(dir, "/", 2)
	if !strings.HasPrefix(parts[0], ".") {
		return dir
	}
	if len(parts) == 1 {
		return ""
	}
	return parts[1]
}

// applyPathOptions adjusts a base convention for the requested options.
func applyPathOptions(p Paths, global *Paths, opts PathOptions) Paths {
	if opts.Global && global != nil {
		p = *global
	}
	if opts.ExcludeToolDir {
		p.RootDir = stripToolDir(p.RootDir)
		p.Dir = stripToolDir(p.Dir)
	}
	return p
}

// swapExt replaces the final extension of a relative path with the
// tool's satellite suffix, preserving nested directories.
func swapExt(rel, ext string) string {
	return strings.TrimSuffix(rel, path.Ext(rel)) + ext
}

// mergeExtra copies passthrough keys into fm without overriding the
// fields derived from canonical frontmatter.
func mergeExtra(fm map[string]any, extra map[string]any) map[string]any {
	if len(extra) == 0 {
		return fm
	}
	if fm == nil {
		fm = make(map[string]any, len(extra))
	}
	for k, v := range extra {
		if _, exists := fm[k]; !exists {
			fm[k] = v
		}
	}
	return fm
}
