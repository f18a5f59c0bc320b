// Package config resolves which tools and feature domains a run operates
// on. Construction is eager about caller mistakes: conflicting target
// pairs and incompatible execution modes fail immediately, while document
// level problems are left to the processors.
package config

import (
	"fmt"

	"github.com/ruleweaver/ruleweaver/internal/feature"
	"github.com/ruleweaver/ruleweaver/internal/target"
)

// Params carries the raw inputs a Config is built from, before any
// wildcard expansion or validation.
type Params struct {
	// Targets lists tool names, possibly including the wildcard "*".
	// Empty means the wildcard.
	Targets []string

	// Features is the flat form: one feature list applied to every
	// target. May contain the wildcard.
	Features []string

	// FeatureMap is the per-target form. When present it fully overrides
	// Features; a target with no entry resolves to no features.
	FeatureMap map[string][]string

	// BaseDir is the project root every relative path resolves against.
	BaseDir string

	// Global switches the tools that support it to their per-user
	// directory conventions.
	Global bool

	// DryRun previews output without writing. Incompatible with Delete.
	DryRun bool

	// Delete removes stale generated files before writing new ones.
	Delete bool

	// Verbose raises log output. Incompatible with Quiet.
	Verbose bool

	// Quiet suppresses non-error output.
	Quiet bool
}

// Config is the resolved target/feature selection for one run.
type Config struct {
	explicit  []target.Tool
	wildcard  bool
	flat      []feature.Feature
	flatAll   bool
	perTarget map[target.Tool][]feature.Feature
	hasMap    bool

	BaseDir string
	Global  bool
	DryRun  bool
	Delete  bool
	Verbose bool
	Quiet   bool
}

// Exclusive execution modes, validated pairwise at construction.
var exclusiveModes = []struct {
	a, b  string
	check func(Params) bool
}{
	{"--dry-run", "--delete", func(p Params) bool { return p.DryRun && p.Delete }},
	{"--verbose", "--quiet", func(p Params) bool { return p.Verbose && p.Quiet }},
}

// New builds a Config from raw parameters. It fails fast on unknown
// identifiers, conflicting target pairs and incompatible modes.
func New(p Params) (*Config, error) {
	for _, pair := range exclusiveModes {
		if pair.check(p) {
			return nil, fmt.Errorf("%s and %s are mutually exclusive", pair.a, pair.b)
		}
	}

	c := &Config{
		BaseDir: p.BaseDir,
		Global:  p.Global,
		DryRun:  p.DryRun,
		Delete:  p.Delete,
		Verbose: p.Verbose,
		Quiet:   p.Quiet,
	}

	if len(p.Targets) == 0 {
		c.wildcard = true
	}
	for _, raw := range p.Targets {
		if raw == target.Wildcard {
			c.wildcard = true
			continue
		}
		tool, err := target.Parse(raw)
		if err != nil {
			return nil, err
		}
		c.explicit = append(c.explicit, tool)
	}

	if pair, found := target.ConflictIn(c.explicit); found {
		return nil, fmt.Errorf("conflicting targets %q and %q: they write the same native format, pick one", pair[0], pair[1])
	}

	switch {
	case p.FeatureMap != nil:
		c.hasMap = true
		c.perTarget = make(map[target.Tool][]feature.Feature, len(p.FeatureMap))
		for rawTool, rawFeatures := range p.FeatureMap {
			tool, err := target.Parse(rawTool)
			if err != nil {
				return nil, err
			}
			features, err := parseFeatures(rawFeatures)
			if err != nil {
				return nil, err
			}
			c.perTarget[tool] = features
		}
	case p.Features != nil:
		features, err := parseFeatures(p.Features)
		if err != nil {
			return nil, err
		}
		c.flat = features
	default:
		// Nothing specified: every feature is active.
		c.flatAll = true
	}

	return c, nil
}

// parseFeatures validates a raw feature list, expanding the wildcard to
// the full enumeration.
func parseFeatures(raw []string) ([]feature.Feature, error) {
	for _, s := range raw {
		if s == feature.Wildcard {
			return feature.All(), nil
		}
	}
	out := make([]feature.Feature, 0, len(raw))
	for _, s := range raw {
		f, err := feature.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// Targets returns the resolved tool list. The wildcard expands to every
// non-legacy tool; legacy tools appear only when named explicitly.
func (c *Config) Targets() []target.Tool {
	if !c.wildcard {
		return append([]target.Tool(nil), c.explicit...)
	}

	out := target.NonLegacy()
	for _, t := range c.explicit {
		if target.IsLegacy(t) {
			out = append(out, t)
		}
	}
	return out
}

// Features resolves the active features. With no argument it returns the
// union of features enabled across any target; with a tool it returns
// that tool's feature list, which is empty when a per-target map has no
// entry for it.
func (c *Config) Features(tool ...target.Tool) []feature.Feature {
	if len(tool) > 1 {
		panic("config: Features takes at most one tool")
	}

	if len(tool) == 1 {
		if c.hasMap {
			return append([]feature.Feature(nil), c.perTarget[tool[0]]...)
		}
		return c.flatFeatures()
	}

	if !c.hasMap {
		return c.flatFeatures()
	}

	seen := make(map[feature.Feature]bool)
	for _, features := range c.perTarget {
		for _, f := range features {
			seen[f] = true
		}
	}
	// Deterministic order regardless of map iteration.
	ordered := make([]feature.Feature, 0, len(seen))
	for _, f := range feature.All() {
		if seen[f] {
			ordered = append(ordered, f)
		}
	}
	return ordered
}

func (c *Config) flatFeatures() []feature.Feature {
	if c.flatAll {
		return feature.All()
	}
	return append([]feature.Feature(nil), c.flat...)
}

// HasFeature reports whether f is active for tool.
func (c *Config) HasFeature(tool target.Tool, f feature.Feature) bool {
	for _, active := range c.Features(tool) {
		if active == f {
			return true
		}
	}
	return false
}
