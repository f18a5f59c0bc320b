package commands

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ruleweaver/ruleweaver/internal/adapter"
	"github.com/ruleweaver/ruleweaver/internal/config"
	"github.com/ruleweaver/ruleweaver/internal/logging"
	"github.com/ruleweaver/ruleweaver/internal/processor"
)

var (
	importTargets  []string
	importFeatures []string
	importGlobal   bool
	importVerbose  bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import existing tool configurations into canonical form",
	Long: `Import reads a tool's native configuration files and rewrites them
as canonical documents under .ruleweaver/, each targeting the tool it
came from.

Examples:
  ruleweaver import --targets claudecode
  ruleweaver import --targets cursor --features rules,mcp`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringSliceVarP(&importTargets, "targets", "t", nil, "Tools to import from (required)")
	importCmd.Flags().StringSliceVar(&importFeatures, "features", nil, "Feature domains (default: all)")
	importCmd.Flags().BoolVarP(&importGlobal, "global", "g", false, "Read per-user directories where the tool supports them")
	importCmd.Flags().BoolVarP(&importVerbose, "verbose", "v", false, "Verbose output")
}

func runImport(cmd *cobra.Command, args []string) error {
	if len(importTargets) == 0 {
		return fmt.Errorf("import requires --targets naming the tool(s) to read from")
	}

	workDir, err := GetWorkDir(baseDir)
	if err != nil {
		return err
	}

	cfg, err := config.New(config.Params{
		Targets:  importTargets,
		Features: importFeatures,
		BaseDir:  workDir,
		Global:   importGlobal,
		Verbose:  importVerbose,
	})
	if err != nil {
		return err
	}
	applyVerbosity(cfg)

	proc := processor.New(processor.Params{
		Fs:      afero.NewOsFs(),
		BaseDir: cfg.BaseDir,
		Global:  cfg.Global,
	})

	log := logging.Component("import")
	ctx := cmd.Context()
	imported := 0

	for _, tool := range cfg.Targets() {
		for _, domain := range cfg.Features(tool) {
			reg, err := adapter.For(domain)
			if err != nil {
				log.Debug().Str("feature", string(domain)).Msg("feature reserved, nothing to import")
				continue
			}
			if !reg.Supports(tool) {
				continue
			}

			docs, err := proc.LoadToolDocuments(ctx, domain, tool, processor.LoadOptions{})
			if err != nil {
				return err
			}

			canonicalDocs, err := proc.ConvertToolToCanonical(docs, domain, tool)
			if err != nil {
				return err
			}
			if err := proc.WriteCanonicalDocuments(canonicalDocs); err != nil {
				return err
			}

			imported += len(canonicalDocs)
			for _, doc := range canonicalDocs {
				log.Debug().
					Str("tool", string(tool)).
					Str("domain", string(domain)).
					Str("path", doc.Relative()).
					Msg("imported")
			}
		}
	}

	fmt.Printf("imported %d document(s)\n", imported)
	return nil
}
