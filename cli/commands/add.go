package commands

import (
	"github.com/spf13/cobra"

	"github.com/telephony-tools/sipschema/cli/internal/ui"
	"github.com/telephony-tools/sipschema/internal/debug"
	"github.com/telephony-tools/sipschema/provision"
)

var addCmd = &cobra.Command{
	Use:   "add <module> [db_name]",
	Short: "Install a single module's tables into an existing database",
	Long: `Install the creation schema of one module (e.g. dialog, usrloc) into an
already provisioned database. Tables that already exist are reported per
module and do not fail the command.`,
	Args:              cobra.RangeArgs(1, 2),
	ValidArgsFunction: completeModules,
	RunE:              runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if err := backendSupported(); err != nil {
		return err
	}

	module := args[0]
	dbName, err := resolveDBName(args, 1, "Please provide the database to add the module to")
	if err != nil {
		return err
	}
	debug.Debug("add requested", "module", module, "db_name", dbName)

	st := newEngine().Add(cmd.Context(), module, dbName)
	if st == provision.StatusOK {
		ui.PrintSuccess("module '%s' processed for '%s'", module, dbName)
	}
	return statusError("add", st)
}

func completeModules(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return completeDBNames(cmd, args, toComplete)
	}
	modules := append([]string{}, provision.StandardModules...)
	modules = append(modules, provision.ExtraModules...)
	return modules, cobra.ShellCompDirectiveNoFileComp
}
