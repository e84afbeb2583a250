// Package commands wires the provisioning engine to the CLI surface.
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/telephony-tools/sipschema/cli/internal/config"
	"github.com/telephony-tools/sipschema/internal/debug"
)

var (
	debugFlag bool

	// cfg is loaded once per invocation in the root PersistentPreRunE and
	// shared by every command.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sipschema",
	Short: "Provision and migrate the SIP server database schema",
	Long: `sipschema manages the relational schema backing the SIP control plane:
creating databases, bootstrapping the least-privilege application user,
installing per-module table schemas and migrating data between schema
versions.

Supported backends: mysql, postgres, sqlite.`,
	// errors are rendered by main through the ui helpers
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug.Init(debugFlag || os.Getenv("SIPSCHEMA_DEBUG") != "")

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		debug.Info("configuration loaded", "database_name", cfg.Get(config.KeyDatabaseName))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}
