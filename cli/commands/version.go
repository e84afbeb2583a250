package commands

import (
	"github.com/spf13/cobra"

	"github.com/telephony-tools/sipschema/cli/internal/ui"
	"github.com/telephony-tools/sipschema/cli/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printers := ui.GetColorPrinters()
		ui.ColorPrint(printers["primary"], "%s\n", version.Get().FullString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
