package commands

import (
	"github.com/spf13/cobra"

	"github.com/telephony-tools/sipschema/cli/internal/ui"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List known modules and schema asset availability",
	Long: `List the standard and extra module sets and whether each module's
creation SQL asset is present under the resolved schema root for the active
backend.`,
	RunE: runModules,
}

func init() {
	rootCmd.AddCommand(modulesCmd)
}

func runModules(cmd *cobra.Command, args []string) error {
	if err := backendSupported(); err != nil {
		return err
	}

	infos, err := newEngine().ModuleAvailability()
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(infos))
	missing := 0
	for _, info := range infos {
		avail := "yes"
		if !info.Available {
			avail = "missing"
			missing++
		}
		rows = append(rows, []string{info.Name, info.Set, avail})
	}

	ui.PrintTable([]string{"Module", "Set", "Schema file"}, rows)
	if missing > 0 {
		ui.PrintWarning("%d module(s) have no creation SQL under the schema root", missing)
	} else {
		ui.PrintInfo("all known modules have schema assets")
	}
	return nil
}
