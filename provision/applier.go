package provision

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"

	"github.com/telephony-tools/sipschema/db"
	"github.com/telephony-tools/sipschema/internal/debug"
)

// tableFile pairs a module with its resolved creation asset. The full map
// is built before any execution so resolution failures surface before
// execution failures.
type tableFile struct {
	module string
	path   string
}

// createDB creates dbName through the administrative handle. An existing
// database is a soft failure reported with StatusExists.
func (e *Engine) createDB(ctx context.Context, dbName string, admin Conn) int {
	exists, err := admin.Exists(ctx, dbName)
	if err != nil {
		pterm.Error.Printfln("cannot check database '%s': %v", dbName, err)
		return StatusError
	}
	if exists {
		pterm.Warning.Printfln("database '%s' already exists!", dbName)
		return StatusExists
	}
	if err := admin.Create(ctx, dbName); err != nil {
		pterm.Error.Printfln("cannot create database '%s': %v", dbName, err)
		return StatusError
	}
	return StatusOK
}

// createTables applies the creation SQL of every resolved module to dbName.
// Per-module failures (asset missing, objects already present, execution
// errors) are reported and skipped; the batch always runs to the end.
func (e *Engine) createTables(ctx context.Context, dbName string, app db.URL, admin Conn, explicit []string, createStd bool) int {
	app = app.WithDatabase(dbName)

	conn, err := e.openDB(ctx, app, false)
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

	schemaDir, err := e.schemaPath(conn.Backend())
	if err != nil {
		return StatusError
	}

	var files []tableFile
	if createStd {
		std := filepath.Join(schemaDir, standardCreateFile)
		if ok, _ := afero.Exists(e.fs, std); !ok {
			pterm.Error.Printfln("cannot find standard DB schema file: '%s'!", std)
			return StatusError
		}
		files = append(files, tableFile{module: "standard", path: std})
	}

	modules := e.resolveModules(explicit, schemaDir)
	debug.Debug("checking tables", "modules", modules)

	for _, module := range modules {
		if module == "standard" {
			// seeded above when requested
			continue
		}
		path := filepath.Join(schemaDir, module+createSuffix)
		if ok, _ := afero.Exists(e.fs, path); !ok {
			pterm.Warning.Printfln("cannot find SQL file for module %s: %s", module, path)
			continue
		}
		files = append(files, tableFile{module: module, path: path})
	}

	// object grants are postgres-only: created objects belong to the
	// administrative role there, so the application user needs explicit
	// access per table and sequence
	var adminBound Conn
	if conn.Backend() == db.Postgres {
		adminBound, err = e.openDB(ctx, admin.URL().WithDatabase(dbName), false)
		if err != nil {
			return StatusError
		}
		defer adminBound.Close()
	}

	for _, f := range files {
		pterm.Info.Printfln("Running %s...", filepath.Base(f.path))
		if err := conn.ExecFile(ctx, f.path); err != nil {
			if errors.Is(err, db.ErrExists) {
				pterm.Error.Printfln("%s table(s) are already created!", f.module)
			} else {
				pterm.Error.Printfln("cannot import: %v", err)
			}
			continue
		}
		if adminBound != nil {
			e.grantModuleObjects(ctx, f.path, app.User(), adminBound)
		}
	}

	return StatusOK
}

// grantModuleObjects grants the application user access to every table and
// sequence a creation asset defines.
func (e *Engine) grantModuleObjects(ctx context.Context, path, username string, admin Conn) {
	content, err := afero.ReadFile(e.fs, path)
	if err != nil {
		pterm.Warning.Printfln("cannot re-read %s for grants: %v", path, err)
		return
	}
	for _, object := range e.extract.Extract(string(content)) {
		debug.Debug("granting object access", "object", object, "user", username)
		if err := admin.GrantTableOptions(ctx, username, object); err != nil {
			pterm.Error.Printfln("cannot grant access to %s: %v", object, err)
		}
	}
}
