package provision

import "errors"

var (
	// ErrSchemaNotFound reports that no schema root could be resolved.
	ErrSchemaNotFound = errors.New("schema files not found")
	// ErrMissingMigrationScripts reports absent bulk-copy script assets.
	ErrMissingMigrationScripts = errors.New("migration scripts missing")
)
