package commands

import (
	"github.com/spf13/cobra"

	"github.com/telephony-tools/sipschema/cli/internal/ui"
	"github.com/telephony-tools/sipschema/provision"
)

var dropCmd = &cobra.Command{
	Use:   "drop [db_name]",
	Short: "Drop the database",
	Long: `Drop the target database using the administrative connection. For
postgres the operation runs against the bootstrap database. Confirmation is
required unless database_force_drop is configured.`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeDBNames,
	RunE:              runDrop,
}

func init() {
	rootCmd.AddCommand(dropCmd)
}

func runDrop(cmd *cobra.Command, args []string) error {
	if err := backendSupported(); err != nil {
		return err
	}

	dbName, err := resolveDBName(args, 0, "Please provide the database to drop")
	if err != nil {
		return err
	}

	st := newEngine().Drop(cmd.Context(), dbName)
	if st == provision.StatusOK {
		ui.PrintSuccess("drop finished for '%s'", dbName)
	}
	return statusError("drop", st)
}
