package commands

import (
	"github.com/spf13/cobra"

	"github.com/telephony-tools/sipschema/cli/internal/ui"
	"github.com/telephony-tools/sipschema/internal/debug"
	"github.com/telephony-tools/sipschema/provision"
)

var createCmd = &cobra.Command{
	Use:   "create [db_name]",
	Short: "Create the database, application user and module tables",
	Long: `Create the target database, make sure the configured application user can
access it (creating and granting the role through the administrative
connection when needed), then install the standard schema plus the resolved
module set.

Re-running against an already-bootstrapped user is a no-op success; a
database that already exists stops the operation with a warning.`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeDBNames,
	RunE:              runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	if err := backendSupported(); err != nil {
		return err
	}

	dbName, err := resolveDBName(args, 0, "Please provide the database to create")
	if err != nil {
		return err
	}
	debug.Debug("create requested", "db_name", dbName)

	st := newEngine().Create(cmd.Context(), dbName)
	if st == provision.StatusOK {
		ui.PrintSuccess("database '%s' provisioned", dbName)
	}
	return statusError("create", st)
}

func completeDBNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"sipserver", "sipserver_test"}, cobra.ShellCompDirectiveNoFileComp
}
