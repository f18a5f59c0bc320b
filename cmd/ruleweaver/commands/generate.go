package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ruleweaver/ruleweaver/internal/adapter"
	"github.com/ruleweaver/ruleweaver/internal/canonical"
	"github.com/ruleweaver/ruleweaver/internal/config"
	"github.com/ruleweaver/ruleweaver/internal/feature"
	"github.com/ruleweaver/ruleweaver/internal/fsx"
	"github.com/ruleweaver/ruleweaver/internal/logging"
	"github.com/ruleweaver/ruleweaver/internal/preview"
	"github.com/ruleweaver/ruleweaver/internal/processor"
	"github.com/ruleweaver/ruleweaver/internal/target"
)

var (
	generateTargets  []string
	generateFeatures []string
	generateCheck    bool
	generateDelete   bool
	generateGlobal   bool
	generateVerbose  bool
	generateQuiet    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate tool configurations from canonical documents",
	Long: `Generate projects the canonical documents under .ruleweaver/ into
each selected tool's native format.

Examples:
  ruleweaver generate
  ruleweaver generate --targets claudecode,cursor
  ruleweaver generate --features rules,mcp --check
  ruleweaver generate --delete  # remove stale generated files first`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringSliceVarP(&generateTargets, "targets", "t", nil, "Target tools (default: all non-legacy)")
	generateCmd.Flags().StringSliceVar(&generateFeatures, "features", nil, "Feature domains (default: all)")
	generateCmd.Flags().BoolVar(&generateCheck, "check", false, "Preview changes without writing")
	generateCmd.Flags().BoolVar(&generateDelete, "delete", false, "Delete stale generated files before writing")
	generateCmd.Flags().BoolVarP(&generateGlobal, "global", "g", false, "Use per-user directories where the tool supports them")
	generateCmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Verbose output")
	generateCmd.Flags().BoolVarP(&generateQuiet, "quiet", "q", false, "Suppress non-error output")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	workDir, err := GetWorkDir(baseDir)
	if err != nil {
		return err
	}

	cfg, err := config.New(config.Params{
		Targets:  generateTargets,
		Features: generateFeatures,
		BaseDir:  workDir,
		Global:   generateGlobal,
		DryRun:   generateCheck,
		Delete:   generateDelete,
		Verbose:  generateVerbose,
		Quiet:    generateQuiet,
	})
	if err != nil {
		return err
	}
	applyVerbosity(cfg)

	return generate(cmd.Context(), cfg, afero.NewOsFs())
}

// generate runs the full projection pipeline for one configuration.
// The watch command reuses it on every change burst.
func generate(ctx context.Context, cfg *config.Config, fsys afero.Fs) error {
	proc := processor.New(processor.Params{
		Fs:      fsys,
		BaseDir: cfg.BaseDir,
		Global:  cfg.Global,
	})

	// Canonical documents are shared across tools; load each domain once.
	loaded := make(map[feature.Feature][]*canonical.Document)
	load := func(domain feature.Feature) ([]*canonical.Document, error) {
		if docs, ok := loaded[domain]; ok {
			return docs, nil
		}
		docs, err := proc.LoadCanonicalDocuments(ctx, domain)
		if err != nil {
			return nil, err
		}
		loaded[domain] = docs
		return docs, nil
	}

	log := logging.Component("generate")
	var changes []preview.Change
	written := 0

	for _, tool := range cfg.Targets() {
		for _, domain := range cfg.Features(tool) {
			reg, err := adapter.For(domain)
			if err != nil {
				if errors.Is(err, adapter.ErrUnsupportedDomain) {
					log.Debug().Str("feature", string(domain)).Msg("feature reserved, nothing to generate")
					continue
				}
				return err
			}
			if !reg.Supports(tool) {
				continue
			}

			docs, err := load(domain)
			if err != nil {
				return err
			}

			converted, err := proc.ConvertCanonicalToTool(docs, domain, tool)
			if err != nil {
				return err
			}
			if err := validateConverted(reg, tool, converted); err != nil {
				return err
			}

			if cfg.Delete {
				stale, err := proc.LoadToolDocuments(ctx, domain, tool, processor.LoadOptions{ForDeletion: true})
				if err != nil {
					return err
				}
				if err := proc.RemoveToolDocuments(pruneRegenerated(stale, converted)); err != nil {
					return err
				}
			}

			if cfg.DryRun {
				for _, d := range converted {
					old, err := fsx.ReadFile(fsys, d.Location.Path())
					if err != nil && !errors.Is(err, fsx.ErrNotFound) {
						return err
					}
					changes = append(changes, preview.Change{
						Path: d.Location.Relative(),
						Old:  old,
						New:  d.FileContent,
					})
				}
				continue
			}

			if err := proc.WriteToolDocuments(converted); err != nil {
				return err
			}
			written += len(converted)
			for _, d := range converted {
				log.Debug().
					Str("tool", string(tool)).
					Str("domain", string(domain)).
					Str("path", d.Location.Relative()).
					Msg("wrote")
			}
		}
	}

	if cfg.DryRun {
		fmt.Print(preview.Render(changes))
		return nil
	}
	if !cfg.Quiet {
		fmt.Printf("generated %d file(s)\n", written)
	}
	return nil
}

// validateConverted runs the tool's structural checks on freshly
// converted documents. Generation never writes invalid output.
func validateConverted(reg *adapter.Registry, tool target.Tool, docs []*adapter.Doc) error {
	entry, err := reg.Lookup(tool)
	if err != nil {
		return err
	}
	for _, d := range docs {
		if res := entry.Adapter.Validate(d); !res.Success {
			return fmt.Errorf("generated %s is invalid: %w", d.Location.Relative(), res.Error)
		}
	}
	return nil
}

// pruneRegenerated drops deletion placeholders whose file is about to
// be rewritten, so delete-then-generate does not churn live documents.
func pruneRegenerated(stale, converted []*adapter.Doc) []*adapter.Doc {
	keep := make(map[string]bool, len(converted))
	for _, d := range converted {
		keep[d.Location.Path()] = true
	}
	out := stale[:0]
	for _, d := range stale {
		if !keep[d.Location.Path()] {
			out = append(out, d)
		}
	}
	return out
}

// applyVerbosity adjusts the global logger for the run's output modes.
func applyVerbosity(cfg *config.Config) {
	switch {
	case cfg.Verbose:
		logging.Init(logging.Config{Level: logging.DebugLevel, Pretty: true})
	case cfg.Quiet:
		logging.Init(logging.Config{Level: logging.ErrorLevel, Pretty: true})
	}
}
