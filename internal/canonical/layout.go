package canonical

import "github.com/ruleweaver/ruleweaver/internal/feature"

// DirName is the canonical directory under a project's base directory.
const DirName = ".ruleweaver"

// IgnoreFileName is the canonical ignore-list file.
const IgnoreFileName = ".aiignore"

// MCPFileName is the canonical MCP server configuration file.
const MCPFileName = ".mcp.json"

// DomainDir returns the directory canonical documents of a domain live
// in, relative to the base directory.
func DomainDir(domain feature.Feature) string {
	switch domain {
	case feature.Rules:
		return DirName + "/rules"
	case feature.Commands:
		return DirName + "/commands"
	case feature.Subagents:
		return DirName + "/subagents"
	default:
		return DirName
	}
}

// DomainGlob returns the discovery pattern for a domain's canonical
// documents, relative to DomainDir.
func DomainGlob(domain feature.Feature) string {
	switch domain {
	case feature.Rules, feature.Commands:
		return "**/*.md"
	case feature.Subagents:
		return "*.md"
	case feature.Ignore:
		return IgnoreFileName
	case feature.MCP:
		return MCPFileName
	default:
		return ""
	}
}
