package provision

import (
	"context"

	"github.com/pterm/pterm"

	"github.com/telephony-tools/sipschema/db"
)

// Migrate copies the manifest tables for the fromVer -> toVer compatibility
// window out of oldDB into a freshly provisioned newDB. The sequence is
// linear with no retries: dialect validation, source existence, destination
// creation, destination provisioning, script resolution, then the per-table
// copy. Any step's failure aborts the migration.
func (e *Engine) Migrate(ctx context.Context, oldDB, newDB, fromVer, toVer string) int {
	admin, err := e.adminURL(newDB)
	if err != nil {
		return StatusError
	}
	conn, err := e.openDB(ctx, admin, false)
	if err != nil {
		return StatusError
	}
	defer conn.Close()

	if conn.Backend() != db.MySQL {
		pterm.Error.Println("'migrate' is only available for MySQL right now! :(")
		return StatusError
	}

	exists, err := conn.Exists(ctx, oldDB)
	if err != nil {
		pterm.Error.Printfln("cannot check source database '%s': %v", oldDB, err)
		return StatusError
	}
	if !exists {
		pterm.Error.Printfln("the source database (%s) does not exist!", oldDB)
		return StatusExists
	}

	manifest, err := ManifestFor(fromVer, toVer)
	if err != nil {
		pterm.Error.Printfln("cannot migrate: %v", err)
		return StatusError
	}

	pterm.Info.Printfln("Creating database %s...", newDB)
	if st := e.createDB(ctx, newDB, conn); st < 0 {
		return StatusError
	}

	app, err := e.appURL(newDB)
	if err != nil {
		return StatusError
	}
	if err := e.ensureAccess(ctx, app, newDB, conn); err != nil {
		return StatusError
	}
	if st := e.createTables(ctx, newDB, app, conn, nil, true); st < 0 {
		return StatusError
	}

	scripts, err := e.migrateScriptPaths(conn.Backend())
	if err != nil {
		return StatusError
	}

	pterm.Info.Println("Migrating all matching tables...")
	if err := conn.Migrate(ctx, scripts, manifest.CopyProc, oldDB, newDB, manifest.Tables); err != nil {
		pterm.Error.Printfln("migration failed: %v", err)
		return StatusError
	}

	pterm.Success.Printfln("Finished copying table data into database '%s'!", newDB)
	return StatusOK
}
