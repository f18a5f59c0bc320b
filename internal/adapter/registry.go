package adapter

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ruleweaver/ruleweaver/internal/aggregate"
	"github.com/ruleweaver/ruleweaver/internal/feature"
	"github.com/ruleweaver/ruleweaver/internal/target"
)

// ErrUnsupportedTarget reports a registry lookup for a tool the domain
// has no adapter for.
var ErrUnsupportedTarget = errors.New("unsupported target")

// ErrUnsupportedDomain reports a feature domain without a registry.
var ErrUnsupportedDomain = errors.New("unsupported feature domain")

// Entry is one registry record: the adapter plus the dispatch metadata
// the processors need, so per-call conditional branching stays out of
// the orchestration layer.
type Entry struct {
	Adapter Adapter

	// Simulated marks adapters whose reverse conversion is unsupported.
	Simulated bool

	// SupportsGlobal marks tools with a per-user directory convention.
	SupportsGlobal bool

	// Glob is the discovery pattern for satellite documents, relative
	// to the tool's satellite directory.
	Glob string

	// Reference selects how the root aggregator renders this tool's
	// cross-reference section. Only meaningful for the rules domain.
	Reference aggregate.Style
}

// Registry maps tool identifiers to adapter entries for one domain.
type Registry struct {
	domain  feature.Feature
	entries map[target.Tool]Entry
}

// NewRegistry builds a registry from explicit entries. Tests substitute
// their own registries through this constructor.
func NewRegistry(domain feature.Feature, entries map[target.Tool]Entry) *Registry {
	return &Registry{domain: domain, entries: entries}
}

// Domain returns the feature domain this registry serves.
func (r *Registry) Domain() feature.Feature {
	return r.domain
}

// Lookup resolves the entry for tool, failing with the offending
// identifier named when the domain does not support it.
func (r *Registry) Lookup(tool target.Tool) (Entry, error) {
	entry, ok := r.entries[tool]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q has no %s adapter", ErrUnsupportedTarget, tool, r.domain)
	}
	return entry, nil
}

// Supports reports whether tool has an adapter in this domain.
func (r *Registry) Supports(tool target.Tool) bool {
	_, ok := r.entries[tool]
	return ok
}

// Tools returns the supported tools, sorted by name.
func (r *Registry) Tools() []target.Tool {
	out := make([]target.Tool, 0, len(r.entries))
	for t := range r.entries {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var buildRegistries = sync.OnceValue(func() map[feature.Feature]*Registry {
	return map[feature.Feature]*Registry{
		feature.Rules:     rulesRegistry(),
		feature.Commands:  commandsRegistry(),
		feature.Subagents: subagentsRegistry(),
		feature.Ignore:    ignoreRegistry(),
		feature.MCP:       mcpRegistry(),
	}
})

// For returns the built-in registry for a feature domain.
func For(domain feature.Feature) (*Registry, error) {
	reg, ok := buildRegistries()[domain]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDomain, domain)
	}
	return reg, nil
}
