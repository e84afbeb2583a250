package commands

import (
	"github.com/spf13/cobra"

	"github.com/telephony-tools/sipschema/cli/internal/ui"
	"github.com/telephony-tools/sipschema/provision"
)

var (
	migrateFromVersion string
	migrateToVersion   string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate <old_db> <new_db>",
	Short: "Copy table data from an old-version database into a new one",
	Long: `Create and provision <new_db>, then copy every table named in the
migration manifest for the selected version pair out of <old_db> using the
backend's bulk-copy scripts. Only available on mysql.`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeDBNames,
	RunE:              runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFromVersion, "from-version", "2.4", "source schema version")
	migrateCmd.Flags().StringVar(&migrateToVersion, "to-version", "3.0", "destination schema version")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if err := backendSupported(); err != nil {
		return err
	}

	oldDB, newDB := args[0], args[1]
	st := newEngine().Migrate(cmd.Context(), oldDB, newDB, migrateFromVersion, migrateToVersion)
	if st == provision.StatusOK {
		ui.PrintSuccess("migration %s -> %s complete", oldDB, newDB)
	}
	return statusError("migrate", st)
}
