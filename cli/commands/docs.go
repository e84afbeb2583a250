package commands

import (
	_ "embed"

	"github.com/spf13/cobra"

	"github.com/telephony-tools/sipschema/cli/internal/ui"
)

//go:embed guide.md
var operationsGuide string

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Show the operations guide",
	RunE: func(cmd *cobra.Command, args []string) error {
		ui.PrintHeader("sipschema", "Database Operations Guide")
		return ui.PrintMarkdown(operationsGuide)
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
