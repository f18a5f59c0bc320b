package commands

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ruleweaver/ruleweaver/internal/canonical"
	"github.com/ruleweaver/ruleweaver/internal/config"
	"github.com/ruleweaver/ruleweaver/internal/watch"
)

var (
	watchTargets  []string
	watchFeatures []string
	watchGlobal   bool
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate tool configurations when canonical documents change",
	Long: `Watch observes the .ruleweaver/ directory and reruns generation
after each burst of changes.

Examples:
  ruleweaver watch
  ruleweaver watch --targets claudecode --debounce 1s`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringSliceVarP(&watchTargets, "targets", "t", nil, "Target tools (default: all non-legacy)")
	watchCmd.Flags().StringSliceVar(&watchFeatures, "features", nil, "Feature domains (default: all)")
	watchCmd.Flags().BoolVarP(&watchGlobal, "global", "g", false, "Use per-user directories where the tool supports them")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before regenerating")
}

func runWatch(cmd *cobra.Command, args []string) error {
	workDir, err := GetWorkDir(baseDir)
	if err != nil {
		return err
	}

	cfg, err := config.New(config.Params{
		Targets:  watchTargets,
		Features: watchFeatures,
		BaseDir:  workDir,
		Global:   watchGlobal,
	})
	if err != nil {
		return err
	}

	fsys := afero.NewOsFs()

	// One full pass up front so the tree is in sync before watching.
	if err := generate(cmd.Context(), cfg, fsys); err != nil {
		return err
	}

	w := watch.New(filepath.Join(workDir, canonical.DirName), watchDebounce)
	err = w.Run(cmd.Context(), func(ctx context.Context) error {
		return generate(ctx, cfg, fsys)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
