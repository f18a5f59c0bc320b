package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ruleweaver/ruleweaver/internal/adapter"
	"github.com/ruleweaver/ruleweaver/internal/config"
	"github.com/ruleweaver/ruleweaver/internal/feature"
	"github.com/ruleweaver/ruleweaver/internal/processor"
)

var statusFeatures []string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize the canonical documents in this project",
	Long: `Status lists every canonical document under .ruleweaver/ with its
feature domain, the tools it targets and its description.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringSliceVar(&statusFeatures, "features", nil, "Feature domains (default: all)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	workDir, err := GetWorkDir(baseDir)
	if err != nil {
		return err
	}

	cfg, err := config.New(config.Params{
		Features: statusFeatures,
		BaseDir:  workDir,
	})
	if err != nil {
		return err
	}

	proc := processor.New(processor.Params{
		Fs:      afero.NewOsFs(),
		BaseDir: cfg.BaseDir,
	})

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Domain", "File", "Targets", "Description"})
	table.SetAutoWrapText(false)

	total := 0
	for _, domain := range cfg.Features() {
		if _, err := adapter.For(domain); err != nil {
			// Reserved feature identifiers have no documents yet.
			continue
		}
		docs, err := proc.LoadCanonicalDocuments(cmd.Context(), domain)
		if err != nil {
			return err
		}
		for _, doc := range docs {
			name := doc.RelativeFilePath
			if domain == feature.Rules && doc.Frontmatter.Root {
				name += " (root)"
			}
			table.Append([]string{
				string(domain),
				name,
				targetsColumn(doc.Frontmatter.Targets),
				doc.Frontmatter.Description,
			})
			total++
		}
	}

	if total == 0 {
		fmt.Println("no canonical documents found; create some under .ruleweaver/")
		return nil
	}
	table.Render()
	fmt.Printf("%d document(s)\n", total)
	return nil
}

func targetsColumn(targets []string) string {
	if len(targets) == 0 {
		return "*"
	}
	return strings.Join(targets, ",")
}
