package adapter

import (
	"encoding/json"
	"fmt"
	"path"

	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"

	"github.com/ruleweaver/ruleweaver/internal/canonical"
	"github.com/ruleweaver/ruleweaver/internal/feature"
	"github.com/ruleweaver/ruleweaver/internal/fsx"
	"github.com/ruleweaver/ruleweaver/internal/target"
)

// mcpSpec is the per-tool record for MCP server configuration files:
// whole-file JSON, with the server map nested under a tool-specific key.
type mcpSpec struct {
	tool    target.Tool
	file    string // relative to the project root
	wrapKey string // key the server map lives under
}

var mcpSpecs = []mcpSpec{
	{tool: target.AmazonQCLI, file: ".amazonq/mcp.json", wrapKey: "mcpServers"},
	{tool: target.ClaudeCode, file: ".mcp.json", wrapKey: "mcpServers"},
	{tool: target.Copilot, file: ".vscode/mcp.json", wrapKey: "servers"},
	{tool: target.Cursor, file: ".cursor/mcp.json", wrapKey: "mcpServers"},
	{tool: target.GeminiCLI, file: ".gemini/settings.json", wrapKey: "mcpServers"},
	{tool: target.Kiro, file: ".kiro/settings/mcp.json", wrapKey: "mcpServers"},
	{tool: target.Roo, file: ".roo/mcp.json", wrapKey: "mcpServers"},
}

func mcpRegistry() *Registry {
	entries := make(map[target.Tool]Entry, len(mcpSpecs))
	for _, spec := range mcpSpecs {
		entries[spec.tool] = Entry{
			Adapter: &mcpAdapter{spec: spec},
			Glob:    path.Base(spec.file),
		}
	}
	return NewRegistry(feature.MCP, entries)
}

type mcpAdapter struct {
	spec mcpSpec
}

func (a *mcpAdapter) Tool() target.Tool {
	return a.spec.tool
}

func (a *mcpAdapter) SettablePaths(opts PathOptions) Paths {
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

func (a *mcpAdapter) IsTargetedBy(doc *canonical.Document) bool {
	return doc.Frontmatter.TargetsTool(a.spec.tool)
}

func (a *mcpAdapter) FromCanonical(doc *canonical.Document, opts Options) (*Doc, error) {
	if !a.IsTargetedBy(doc) {
		return nil, nil
	}

	servers, err := decodeServers(doc.Body, "mcpServers")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Relative(), err)
	}

	content, err := encodeServers(a.spec.wrapKey, servers)
	if err != nil {
		return nil, err
	}

	paths := a.SettablePaths(PathOptions{Global: opts.Global, ExcludeToolDir: opts.ExcludeToolDir})

	return &Doc{
		Location: canonical.Location{
			BaseDir:          doc.BaseDir,
			RelativeDirPath:  paths.Dir,
			RelativeFilePath: paths.RootFile,
		},
		Tool:        a.spec.tool,
		Domain:      feature.MCP,
		Body:        content,
		FileContent: content,
	}, nil
}

func (a *mcpAdapter) ToCanonical(d *Doc) (*canonical.Document, error) {
	servers, err := decodeServers(d.Body, a.spec.wrapKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.Location.Relative(), err)
	}

	payload := map[string]any{
		"targets":    []string{string(a.spec.tool)},
		"mcpServers": servers,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}
	content := string(data) + "\n"

	loc := canonical.Location{
		BaseDir:          d.Location.BaseDir,
		RelativeDirPath:  canonical.DomainDir(feature.MCP),
		RelativeFilePath: canonical.MCPFileName,
	}
	return canonical.Parse(feature.MCP, loc, content)
}

func (a *mcpAdapter) Validate(doc *Doc) canonical.ValidationResult {
	if doc.Deletable {
		return canonical.Valid()
	}
	if _, err := decodeServers(doc.Body, a.spec.wrapKey); err != nil {
		return canonical.Invalid(fmt.Errorf("%s: %w", doc.Location.Relative(), err))
	}
	return canonical.Valid()
}

func (a *mcpAdapter) ForDeletion(loc canonical.Location) *Doc {
	// Settings files are shared with configuration the user owns; only
	// dedicated MCP files are eligible for the clean-regenerate pass.
	deletable := path.Base(a.spec.file) == "mcp.json" || a.spec.file == canonical.MCPFileName
	return &Doc{
		Location:  loc,
		Tool:      a.spec.tool,
		Domain:    feature.MCP,
		Deletable: deletable,
	}
}

func (a *mcpAdapter) Load(fsys afero.Fs, loc canonical.Location) (*Doc, error) {
	content, err := fsx.ReadFile(fsys, loc.Path())
	if err != nil {
		return nil, err
	}
	if _, err := decodeServers(content, a.spec.wrapKey); err != nil {
		return nil, fmt.Errorf("load %s: %w", loc.Relative(), err)
	}

	return &Doc{
		Location:    loc,
		Tool:        a.spec.tool,
		Domain:      feature.MCP,
		Body:        content,
		FileContent: content,
	}, nil
}

// decodeServers extracts the server map from a JSON or JSONC document.
// A missing key resolves to an empty map rather than an error.
func decodeServers(content, key string) (map[string]any, error) {
	var payload map[string]any
	if err := json.Unmarshal(jsonc.ToJSON([]byte(content)), &payload); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	raw, ok := payload[key]
	if !ok {
		return map[string]any{}, nil
	}
	servers, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%q must be an object", key)
	}
	return servers, nil
}

// encodeServers renders the tool file with the server map under key.
func encodeServers(key string, servers map[string]any) (string, error) {
	data, err := json.MarshalIndent(map[string]any{key: servers}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
