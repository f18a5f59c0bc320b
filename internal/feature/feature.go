// Package feature enumerates the optional feature domains the engine can
// process per target.
package feature

import (
	"fmt"
	"sort"
)

// Feature identifies one feature domain.
type Feature string

// Wildcard selects every feature.
const Wildcard = "*"

// Supported features. Rules through MCP have full processors; Hooks and
// Skills are resolvable identifiers reserved for tools that accept them.
const (
	Rules     Feature = "rules"
	Commands  Feature = "commands"
	Subagents Feature = "subagents"
	Ignore    Feature = "ignore"
	MCP       Feature = "mcp"
	Hooks     Feature = "hooks"
	Skills    Feature = "skills"
)

var all = []Feature{Rules, Commands, Subagents, Ignore, MCP, Hooks, Skills}

// All returns the full feature enumeration, sorted by name.
func All() []Feature {
	out := make([]Feature, len(all))
	copy(out, all)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsValid reports whether f names a supported feature.
func IsValid(f Feature) bool {
	for _, known := range all {
		if known == f {
			return true
		}
	}
	return false
}

// Parse converts a raw string into a Feature, rejecting unknown names.
func Parse(s string) (Feature, error) {
	f := Feature(s)
	if !IsValid(f) {
		return "", fmt.Errorf("unsupported feature: %q", s)
	}
	return f, nil
}
