// Package main provides the entry point for the ruleweaver CLI.
package main

import (
	"fmt"
	"os"

	"github.com/ruleweaver/ruleweaver/cmd/ruleweaver/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
