// Package commands provides the CLI commands for ruleweaver.
package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ruleweaver/ruleweaver/internal/logging"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var (
	logLevel string
	baseDir  string
)

var rootCmd = &cobra.Command{
	Use:   "ruleweaver",
	Short: "Ruleweaver - one rule set, every AI coding tool",
	Long: `Ruleweaver keeps a single canonical set of AI assistant rules,
commands, subagents, ignore lists and MCP configurations under
.ruleweaver/ and projects them into the native formats of the tools
you use (Claude Code, Cursor, Copilot, Gemini CLI and others).

Run 'ruleweaver generate' to write tool configurations, or
'ruleweaver import --targets <tool>' to pull existing tool files back
into canonical form.`,
	Version: Version,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional; flags win over environment.
		_ = godotenv.Load()

		level := logLevel
		if level == "" {
			level = os.Getenv("RULEWEAVER_LOG")
		}
		logging.Init(logging.Config{
			Level:  logging.ParseLevel(level),
			Pretty: true,
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().StringVarP(&baseDir, "directory", "d", "", "Project directory (default: current directory)")

	rootCmd.SetVersionTemplate(fmt.Sprintf("ruleweaver %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(statusCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetWorkDir returns the working directory from flag or current directory.
func GetWorkDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return os.Getwd()
}
