// Package processor orchestrates one (base directory, feature domain,
// tool) unit of work: loading canonical documents, projecting them into
// a tool's native layout, discovering existing tool documents and
// importing them back. File-level problems are logged and skipped so a
// single malformed document never aborts a whole run; directory-level
// failures propagate.
package processor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/ruleweaver/ruleweaver/internal/adapter"
	"github.com/ruleweaver/ruleweaver/internal/aggregate"
	"github.com/ruleweaver/ruleweaver/internal/canonical"
	"github.com/ruleweaver/ruleweaver/internal/feature"
	"github.com/ruleweaver/ruleweaver/internal/fsx"
	"github.com/ruleweaver/ruleweaver/internal/logging"
	"github.com/ruleweaver/ruleweaver/internal/target"
)

// loadConcurrency bounds the per-file workers inside one load phase.
const loadConcurrency = 8

// RegistryFunc resolves the adapter registry for a domain. Tests inject
// their own to exercise the dispatch paths in isolation.
type RegistryFunc func(feature.Feature) (*adapter.Registry, error)

// Params configures a Processor.
type Params struct {
	Fs      afero.Fs
	BaseDir string

	// Global switches tools that support it to their per-user layout.
	Global bool

	// Registry defaults to the built-in per-domain registries.
	Registry RegistryFunc
}

// Processor runs the conversion pipeline for one base directory.
type Processor struct {
	fsys     afero.Fs
	baseDir  string
	global   bool
	registry RegistryFunc
}

// New builds a Processor. A nil Fs defaults to the OS filesystem.
func New(p Params) *Processor {
	if p.Fs == nil {
		p.Fs = afero.NewOsFs()
	}
	if p.BaseDir == "" {
		p.BaseDir = "."
	}
	if p.Registry == nil {
		p.Registry = adapter.For
	}
	return &Processor{
		fsys:     p.Fs,
		baseDir:  p.BaseDir,
		global:   p.Global,
		registry: p.Registry,
	}
}

// LoadCanonicalDocuments discovers and parses every canonical document
// of a domain. Documents that fail to parse are logged and skipped; a
// missing canonical directory resolves to an empty result.
func (p *Processor) LoadCanonicalDocuments(ctx context.Context, domain feature.Feature) ([]*canonical.Document, error) {
	pattern := canonical.DomainGlob(domain)
	if pattern == "" {
		return nil, fmt.Errorf("%w: %q", adapter.ErrUnsupportedDomain, domain)
	}

	dirRel := canonical.DomainDir(domain)
	dir := filepath.Join(p.baseDir, dirRel)
	matches, err := fsx.Glob(p.fsys, dir, pattern)
	if err != nil {
		return nil, err
	}

	log := logging.Component("processor")
	docs := make([]*canonical.Document, len(matches))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i, match := range matches {
		i, match := i, match
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rel, err := filepath.Rel(dir, match)
			if err != nil {
				return err
			}
			loc := canonical.Location{
				BaseDir:          p.baseDir,
				RelativeDirPath:  dirRel,
				RelativeFilePath: filepath.ToSlash(rel),
			}
			doc, err := canonical.Load(p.fsys, domain, loc)
			if err != nil {
				log.Warn().
					Str("domain", string(domain)).
					Str("path", loc.Relative()).
					Err(err).
					Msg("skipping unparseable canonical document")
				return nil
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := docs[:0]
	for _, doc := range docs {
		if doc != nil {
			out = append(out, doc)
		}
	}
	return out, nil
}

// ConvertCanonicalToTool projects canonical documents into a tool's
// native layout. Untargeted documents are dropped, documents a
// root-only tool cannot carry are logged and skipped, and for the rules
// domain the root document is rewritten with the tool's reference
// section for its satellites.
func (p *Processor) ConvertCanonicalToTool(docs []*canonical.Document, domain feature.Feature, tool target.Tool) ([]*adapter.Doc, error) {
	entry, err := p.lookup(domain, tool)
	if err != nil {
		return nil, err
	}

	log := logging.Component("processor")
	opts := adapter.Options{Global: p.global && entry.SupportsGlobal}

	var (
		out  []*adapter.Doc
		root *adapter.Doc
		refs []aggregate.Ref
	)
	for _, doc := range docs {
		converted, err := entry.Adapter.FromCanonical(doc, opts)
		if err != nil {
			if errors.Is(err, adapter.ErrRootOnly) {
				log.Warn().
					Str("domain", string(domain)).
					Str("tool", string(tool)).
					Str("path", doc.Relative()).
					Msg("tool carries only a root document, skipping")
				continue
			}
			return nil, err
		}
		if converted == nil {
			continue
		}
		out = append(out, converted)

		if domain != feature.Rules {
			continue
		}
		if converted.Root {
			root = converted
			continue
		}
		refs = append(refs, aggregate.Ref{
			Path:        filepath.ToSlash(converted.Location.Relative()),
			Description: doc.Frontmatter.Description,
			Globs:       doc.Frontmatter.Globs,
		})
	}

	if root != nil {
		section := aggregate.Section(entry.Reference, refs)
		root.Body = aggregate.Prepend(section, root.Body)
		root.FileContent = aggregate.Prepend(section, root.FileContent)
	}

	return out, nil
}

// LoadOptions tune tool document discovery.
type LoadOptions struct {
	// ForDeletion builds placeholders without reading or parsing files,
	// filtered to those eligible for removal.
	ForDeletion bool
}

// LoadToolDocuments discovers a tool's existing documents for one
// domain. In deletion mode it returns deletable placeholders without
// touching file contents; otherwise files are parsed, with per-file
// failures logged and skipped.
func (p *Processor) LoadToolDocuments(ctx context.Context, domain feature.Feature, tool target.Tool, opts LoadOptions) ([]*adapter.Doc, error) {
	entry, err := p.lookup(domain, tool)
	if err != nil {
		return nil, err
	}

	locs, err := p.discover(entry)
	if err != nil {
		return nil, err
	}

	if opts.ForDeletion {
		var out []*adapter.Doc
		for _, loc := range locs {
			if d := entry.Adapter.ForDeletion(loc); d.Deletable {
				out = append(out, d)
			}
		}
		return out, nil
	}

	log := logging.Component("processor")
	docs := make([]*adapter.Doc, len(locs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i, loc := range locs {
		i, loc := i, loc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := entry.Adapter.Load(p.fsys, loc)
			if err != nil {
				log.Warn().
					Str("domain", string(domain)).
					Str("tool", string(tool)).
					Str("path", loc.Relative()).
					Err(err).
					Msg("skipping unparseable tool document")
				return nil
			}
			docs[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := docs[:0]
	for _, d := range docs {
		if d != nil {
			out = append(out, d)
		}
	}
	return out, nil
}

// discover resolves the on-disk locations a tool's documents can occupy:
// the root document if the convention has one, plus every satellite
// matching the registry glob. Overlapping conventions are deduplicated.
func (p *Processor) discover(entry adapter.Entry) ([]canonical.Location, error) {
	paths := entry.Adapter.SettablePaths(adapter.PathOptions{Global: p.global && entry.SupportsGlobal})

	var locs []canonical.Location
	seen := make(map[string]bool)
	add := func(loc canonical.Location) {
		key := loc.Path()
		if !seen[key] {
			seen[key] = true
			locs = append(locs, loc)
		}
	}

	if paths.RootFile != "" {
		loc := canonical.Location{
			BaseDir:          p.baseDir,
			RelativeDirPath:  paths.RootDir,
			RelativeFilePath: paths.RootFile,
		}
		ok, err := fsx.Exists(p.fsys, loc.Path())
		if err != nil {
			return nil, err
		}
		if ok {
			add(loc)
		}
	}

	if paths.Dir != "" && entry.Glob != "" {
		dir := filepath.Join(p.baseDir, paths.Dir)
		matches, err := fsx.Glob(p.fsys, dir, entry.Glob)
		if err != nil {
			return nil, err
		}
		for _, match := range matches {
			rel, err := filepath.Rel(dir, match)
			if err != nil {
				return nil, err
			}
			add(canonical.Location{
				BaseDir:          p.baseDir,
				RelativeDirPath:  paths.Dir,
				RelativeFilePath: filepath.ToSlash(rel),
			})
		}
	}

	return locs, nil
}

// ConvertToolToCanonical imports tool documents back into canonical
// form. Simulated adapters are skipped wholesale with a debug log since
// their output cannot be losslessly separated back out.
func (p *Processor) ConvertToolToCanonical(docs []*adapter.Doc, domain feature.Feature, tool target.Tool) ([]*canonical.Document, error) {
	entry, err := p.lookup(domain, tool)
	if err != nil {
		return nil, err
	}

	log := logging.Component("processor")
	if entry.Simulated {
		log.Debug().
			Str("domain", string(domain)).
			Str("tool", string(tool)).
			Msg("simulated deployment, nothing to import")
		return nil, nil
	}

	out := make([]*canonical.Document, 0, len(docs))
	for _, d := range docs {
		doc, err := entry.Adapter.ToCanonical(d)
		if err != nil {
			if errors.Is(err, adapter.ErrSimulated) {
				log.Debug().
					Str("domain", string(domain)).
					Str("tool", string(tool)).
					Str("path", d.Location.Relative()).
					Msg("simulated document, skipping import")
				continue
			}
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

// WriteToolDocuments persists converted tool documents, creating parent
// directories as needed.
func (p *Processor) WriteToolDocuments(docs []*adapter.Doc) error {
	for _, d := range docs {
		if err := fsx.WriteFile(p.fsys, d.Location.Path(), d.FileContent); err != nil {
			return fmt.Errorf("write %s: %w", d.Location.Relative(), err)
		}
	}
	return nil
}

// WriteCanonicalDocuments persists imported canonical documents.
func (p *Processor) WriteCanonicalDocuments(docs []*canonical.Document) error {
	for _, doc := range docs {
		if err := fsx.WriteFile(p.fsys, doc.Path(), doc.FileContent); err != nil {
			return fmt.Errorf("write %s: %w", doc.Relative(), err)
		}
	}
	return nil
}

// RemoveToolDocuments deletes the files behind deletion placeholders.
// Non-deletable documents are left untouched.
func (p *Processor) RemoveToolDocuments(docs []*adapter.Doc) error {
	for _, d := range docs {
		if !d.Deletable {
			continue
		}
		if err := fsx.Remove(p.fsys, d.Location.Path()); err != nil {
			return fmt.Errorf("remove %s: %w", d.Location.Relative(), err)
		}
	}
	return nil
}

func (p *Processor) lookup(domain feature.Feature, tool target.Tool) (adapter.Entry, error) {
	reg, err := p.registry(domain)
	if err != nil {
		return adapter.Entry{}, err
	}
	return reg.Lookup(tool)
}
