// Command topodsl parses and resolves topology DSL documents from the
// command line.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/github/topodsl/pkg/console"
	"github.com/github/topodsl/pkg/dsl"
)

var rootCmd = &cobra.Command{
	Use:           "topodsl",
	Short:         "Parse and resolve declarative application topology documents",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Resolve a topology document and print a summary of the plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := dsl.ParseFromFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "application: %s\n", plan.Name)
		fmt.Fprintf(cmd.OutOrStdout(), "nodes: %d\n", len(plan.Nodes))
		for _, n := range plan.Nodes {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s (%s)\n", n.ID, n.Type)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "workflows: %d\n", len(plan.Workflows))
		fmt.Fprintf(cmd.OutOrStdout(), "rules: %d\n", len(plan.Rules))
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Resolve a topology document and report success or failure only",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := dsl.ParseFromFile(args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), console.FormatInfoMessage("document is valid"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd, validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var dslErr *dsl.Error
		if errors.As(err, &dslErr) {
			fmt.Fprintln(os.Stderr, dslErr.Diagnostic())
		} else {
			fmt.Fprintln(os.Stderr, console.FormatError(console.CompilerError{Type: "error", Message: err.Error()}))
		}
		os.Exit(1)
	}
}
