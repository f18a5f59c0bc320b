// Package target defines the closed enumeration of supported AI assistant
// tools and the resolution rules around it: wildcard expansion, the legacy
// identifiers excluded from it, and the mutually exclusive pairs that map
// onto the same native format.
package target

import (
	"fmt"
	"sort"
)

// Tool identifies one supported AI assistant tool.
type Tool string

// Wildcard selects every non-legacy tool.
const Wildcard = "*"

// Supported tools.
const (
	AgentsMD          Tool = "agentsmd"
	AmazonQCLI        Tool = "amazonqcli"
	AugmentCode       Tool = "augmentcode"
	AugmentCodeLegacy Tool = "augmentcode-legacy"
	ClaudeCode        Tool = "claudecode"
	ClaudeCodeLegacy  Tool = "claudecode-legacy"
	Cline             Tool = "cline"
	CodexCLI          Tool = "codexcli"
	Copilot           Tool = "copilot"
	Cursor            Tool = "cursor"
	GeminiCLI         Tool = "geminicli"
	Junie             Tool = "junie"
	Kiro              Tool = "kiro"
	OpenCode          Tool = "opencode"
	QwenCode          Tool = "qwencode"
	Roo               Tool = "roo"
	Windsurf          Tool = "windsurf"
)

var all = []Tool{
	AgentsMD,
	AmazonQCLI,
	AugmentCode,
	AugmentCodeLegacy,
	ClaudeCode,
	ClaudeCodeLegacy,
	Cline,
	CodexCLI,
	Copilot,
	Cursor,
	GeminiCLI,
	Junie,
	Kiro,
	OpenCode,
	QwenCode,
	Roo,
	Windsurf,
}

// Legacy tools are never produced by wildcard expansion; they surface
// only when named explicitly.
var legacy = map[Tool]bool{
	AugmentCodeLegacy: true,
	ClaudeCodeLegacy:  true,
}

// Conflicting pairs share one native format and cannot both appear in an
// explicit target list.
var conflicts = [][2]Tool{
	{AugmentCode, AugmentCodeLegacy},
	{ClaudeCode, ClaudeCodeLegacy},
}

// All returns every supported tool, legacy included, sorted by name.
func All() []Tool {
	out := make([]Tool, len(all))
	copy(out, all)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// NonLegacy returns the wildcard expansion: every supported tool except
// the legacy identifiers, sorted by name.
func NonLegacy() []Tool {
	out := make([]Tool, 0, len(all))
	for _, t := range All() {
		if !legacy[t] {
			out = append(out, t)
		}
	}
	return out
}

// IsLegacy reports whether t is one of the reserved legacy identifiers.
func IsLegacy(t Tool) bool {
	return legacy[t]
}

// IsValid reports whether t names a supported tool.
func IsValid(t Tool) bool {
	for _, known := range all {
		if known == t {
			return true
		}
	}
	return false
}

// Parse converts a raw string into a Tool, rejecting unknown names.
// The wildcard is not a Tool; callers handle it before parsing.
func Parse(s string) (Tool, error) {
	t := Tool(s)
	if !IsValid(t) {
		return "", fmt.Errorf("unsupported target: %q", s)
	}
	return t, nil
}

// ConflictIn returns the first conflicting pair with both members present
// in tools, or false when there is none.
func ConflictIn(tools []Tool) ([2]Tool, bool) {
	present := make(map[Tool]bool, len(tools))
	for _, t := range tools {
		present[t] = true
	}
	for _, pair := range conflicts {
		if present[pair[0]] && present[pair[1]] {
			return pair, true
		}
	}
	return [2]Tool{}, false
}
