package commands

import (
	"fmt"

	"github.com/telephony-tools/sipschema/db"
	"github.com/telephony-tools/sipschema/provision"
)

// newEngine builds a provisioning engine over the loaded configuration.
func newEngine() *provision.Engine {
	return provision.New(cfg)
}

// resolveDBName takes the database name from the positional arguments or
// falls back to configuration and prompting.
func resolveDBName(args []string, idx int, prompt string) (string, error) {
	if len(args) > idx {
		return args[idx], nil
	}
	return cfg.ReadParam(provision.KeyDatabaseName, prompt)
}

// statusError maps an engine status onto the command error contract. The
// engine already reported the details; this only decides the exit outcome.
func statusError(op string, st int) error {
	switch st {
	case provision.StatusOK:
		return nil
	case provision.StatusExists:
		// -2 covers both already-exists and missing-source outcomes; the
		// engine has printed the specifics
		return fmt.Errorf("%s: nothing done (status %d)", op, st)
	default:
		return fmt.Errorf("%s failed (status %d)", op, st)
	}
}

// backendSupported reports whether the configured connection URL names a
// backend this build can drive; commands refuse to start otherwise.
func backendSupported() error {
	raw := cfg.Get(provision.KeyDatabaseAdminURL)
	if raw == "" {
		raw = cfg.Get(provision.KeyDatabaseURL)
	}
	if raw == "" {
		// prompted for later; the engine validates whatever comes in
		return nil
	}
	u, err := db.ParseURL(raw)
	if err != nil {
		return err
	}
	if !db.Supported(u.Backend()) {
		return fmt.Errorf("backend %q is not supported (supported: %v)",
			u.Backend(), db.SupportedBackends)
	}
	return nil
}
