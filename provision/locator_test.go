package provision

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fs, path, []byte("-- sql\n"), 0o644))
}

func TestSchemaPathPackagedInstall(t *testing.T) {
	e, _ := newTestEngine(t, "mysql", newFakeSettings())
	writeFile(t, e.fs, filepath.Join(defaultInstallPath, "mysql", standardCreateFile))

	dir, err := e.schemaPath("mysql")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(defaultInstallPath, "mysql"), dir)
	assert.Equal(t, defaultInstallPath, e.schemaRoot)
}

func TestSchemaPathCachedRootWins(t *testing.T) {
	e, _ := newTestEngine(t, "mysql", newFakeSettings())
	e.schemaRoot = "/opt/schemas"

	dir, err := e.schemaPath("postgres")
	require.NoError(t, err)
	assert.Equal(t, "/opt/schemas/postgres", dir)
}

func TestSchemaPathStripsDriverVariant(t *testing.T) {
	e, _ := newTestEngine(t, "mysql", newFakeSettings())
	writeFile(t, e.fs, filepath.Join(defaultInstallPath, "mysql", standardCreateFile))

	dir, err := e.schemaPath("mysql+native")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(defaultInstallPath, "mysql"), dir)
}

func TestSchemaPathOperatorSupplied(t *testing.T) {
	cfg := newFakeSettings()
	// trailing separator and backend-named tail are both normalized away
	cfg.values[KeyDatabaseSchemaPath] = "/opt/schemas/mysql/"

	e, _ := newTestEngine(t, "mysql", cfg)
	writeFile(t, e.fs, "/opt/schemas/mysql/standard-create.sql")

	dir, err := e.schemaPath("mysql")
	require.NoError(t, err)
	assert.Equal(t, "/opt/schemas/mysql", dir)
	assert.Equal(t, "/opt/schemas", e.schemaRoot)
}

func TestSchemaPathNotFound(t *testing.T) {
	e, _ := newTestEngine(t, "mysql", newFakeSettings())

	_, err := e.schemaPath("mysql")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchemaNotFound))
	assert.Empty(t, e.schemaRoot)
}

func TestSchemaPathOperatorPathMissingBackendDir(t *testing.T) {
	cfg := newFakeSettings()
	cfg.values[KeyDatabaseSchemaPath] = "/opt/schemas"

	e, _ := newTestEngine(t, "mysql", cfg)
	require.NoError(t, e.fs.MkdirAll("/opt/schemas", 0o755))

	_, err := e.schemaPath("mysql")
	assert.True(t, errors.Is(err, ErrSchemaNotFound))
}

func TestMigrateScriptPaths(t *testing.T) {
	e, _ := newTestEngine(t, "mysql", newFakeSettings())
	e.schemaRoot = "/opt/schemas"
	writeFile(t, e.fs, "/opt/schemas/mysql/table-migrate.sql")
	writeFile(t, e.fs, "/opt/schemas/mysql/db-migrate.sql")

	scripts, err := e.migrateScriptPaths("mysql")
	require.NoError(t, err)
	require.Len(t, scripts, 2)
	assert.Equal(t, "/opt/schemas/mysql/table-migrate.sql", scripts[0])
	assert.Equal(t, "/opt/schemas/mysql/db-migrate.sql", scripts[1])
}

func TestMigrateScriptPathsMissing(t *testing.T) {
	e, _ := newTestEngine(t, "mysql", newFakeSettings())
	e.schemaRoot = "/opt/schemas"
	writeFile(t, e.fs, "/opt/schemas/mysql/table-migrate.sql")

	_, err := e.migrateScriptPaths("mysql")
	assert.True(t, errors.Is(err, ErrMissingMigrationScripts))
}
