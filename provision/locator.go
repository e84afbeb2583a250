package provision

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"

	"github.com/telephony-tools/sipschema/db"
	"github.com/telephony-tools/sipschema/internal/debug"
)

const (
	// defaultInstallPath is where packaged installs drop the per-backend
	// schema trees.
	defaultInstallPath = "/usr/share/sipserver"

	standardCreateFile = "standard-create.sql"
	createSuffix       = "-create.sql"
)

// schemaPath resolves the directory holding the SQL assets for backend,
// stripping any driver variant suffix first. The containing root is cached
// for the rest of the process once it validates.
//
// Resolution order: cached root, the packaged install path (proven by the
// backend's standard-create asset), then an operator-supplied path.
func (e *Engine) schemaPath(backend string) (string, error) {
	backend = db.StripVariant(backend)

	if e.schemaRoot != "" {
		return filepath.Join(e.schemaRoot, backend), nil
	}

	if ok, _ := afero.Exists(e.fs, filepath.Join(defaultInstallPath, backend, standardCreateFile)); ok {
		e.schemaRoot = defaultInstallPath
		return filepath.Join(e.schemaRoot, backend), nil
	}

	root, err := e.cfg.ReadParam(KeyDatabaseSchemaPath,
		fmt.Sprintf("Could not locate DB schema files for %s!  Custom path", backend))
	if err != nil || root == "" {
		pterm.Error.Printfln("failed to locate %s DB schema files", backend)
		return "", ErrSchemaNotFound
	}

	root = strings.TrimSuffix(root, string(filepath.Separator))
	// an operator may point at the backend subdirectory itself
	if filepath.Base(root) == backend {
		root = filepath.Dir(root)
	}

	if ok, _ := afero.Exists(e.fs, root); !ok {
		pterm.Error.Printfln("path '%s' to DB schema files does not exist!", root)
		return "", ErrSchemaNotFound
	}
	if ok, _ := afero.IsDir(e.fs, root); !ok {
		pterm.Error.Printfln("path '%s' to DB schema files is not a directory!", root)
		return "", ErrSchemaNotFound
	}

	dir := filepath.Join(root, backend)
	if ok, _ := afero.IsDir(e.fs, dir); !ok {
		pterm.Error.Printfln("invalid DB schema dir: '%s'!", dir)
		return "", ErrSchemaNotFound
	}

	debug.Debug("schema root resolved", "root", root, "backend", backend)
	e.schemaRoot = root
	return dir, nil
}

// migrateScriptPaths locates the two bulk-copy script assets for backend.
// Both must be present for a migration to run at all.
func (e *Engine) migrateScriptPaths(backend string) ([]string, error) {
	dir, err := e.schemaPath(backend)
	if err != nil {
		return nil, err
	}

	scripts := []string{
		filepath.Join(dir, "table-migrate.sql"),
		filepath.Join(dir, "db-migrate.sql"),
	}
	for _, s := range scripts {
		if ok, _ := afero.Exists(e.fs, s); !ok {
			pterm.Error.Println("The SQL migration scripts are missing!  Please pull the latest packages!")
			return nil, fmt.Errorf("%w: %s", ErrMissingMigrationScripts, s)
		}
	}
	return scripts, nil
}
