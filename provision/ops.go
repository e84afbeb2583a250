package provision

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
)

// Create provisions dbName end to end: database creation, application user
// bootstrap, then the standard plus configured module schemas. An existing
// database is reported as a soft failure and nothing further is attempted.
func (e *Engine) Create(ctx context.Context, dbName string) int {
	admin, err := e.adminURL(dbName)
	if err != nil {
		return StatusError
	}
	adminConn, err := e.openDB(ctx, admin, false)
	if err != nil {
		return StatusError
	}
	defer adminConn.Close()

	if st := e.createDB(ctx, dbName, adminConn); st < 0 {
		return st
	}

	app, err := e.appURL(dbName)
	if err != nil {
		return StatusError
	}
	if err := e.ensureAccess(ctx, app, dbName, adminConn); err != nil {
		return StatusError
	}

	return e.createTables(ctx, dbName, app, adminConn, nil, true)
}

// Add installs a single module's schema into dbName, without re-seeding the
// standard tables. A module whose objects already exist is a per-module
// warning, not a failure.
func (e *Engine) Add(ctx context.Context, module, dbName string) int {
	app, err := e.appURL(dbName)
	if err != nil {
		return StatusError
	}
	admin, err := e.adminURL(dbName)
	if err != nil {
		return StatusError
	}
	adminConn, err := e.openDB(ctx, admin, false)
	if err != nil {
		return StatusError
	}
	defer adminConn.Close()

	if err := e.ensureAccess(ctx, app, dbName, adminConn); err != nil {
		return StatusError
	}

	return e.createTables(ctx, dbName, app, adminConn, []string{module}, false)
}

// Drop removes dbName after the force-drop confirmation gate. Postgres drops
// run against the bootstrap database, never the target.
func (e *Engine) Drop(ctx context.Context, dbName string) int {
	admin, err := e.adminURL(dbName)
	if err != nil {
		return StatusError
	}
	conn, err := e.openDB(ctx, admin, false)
	if err != nil {
		return StatusError
	}
	defer conn.Close()

	exists, err := conn.Exists(ctx, dbName)
	if err != nil {
		pterm.Error.Printfln("cannot check database '%s': %v", dbName, err)
		return StatusError
	}
	if !exists {
		pterm.Warning.Printfln("database '%s' does not exist!", dbName)
		return StatusError
	}

	confirmed, err := e.cfg.ReadBoolParam(KeyDatabaseForceDrop,
		fmt.Sprintf("Do you really want to drop the '%s' database", dbName), false)
	if err != nil {
		return StatusError
	}
	if !confirmed {
		pterm.Info.Printfln("database '%s' not dropped!", dbName)
		return StatusOK
	}

	if err := conn.Drop(ctx, dbName); err != nil {
		pterm.Info.Printfln("database '%s' not dropped!", dbName)
		return StatusError
	}
	pterm.Info.Printfln("database '%s' dropped!", dbName)
	return StatusOK
}
