package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/telephony-tools/sipschema/internal/debug"
)

// TemplateDB is the template database used when creating postgres databases.
const TemplateDB = "template1"

// Database is an open handle onto one backend, bound to the URL it was
// opened with. It is torn down with Close at the end of every operation.
type Database struct {
	url  URL
	conn *sql.DB
}

// Open connects using the URL and verifies the connection with a ping.
// Failures are classified: rejected credentials surface as ErrAccessDenied,
// anything else dial-related as ErrConnect.
func Open(ctx context.Context, u URL) (*Database, error) {
	driverName, dsn, err := u.DSN()
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, wrap(ErrArgument, err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, classifyDial(err)
	}

	debug.Debug("database connection opened", "url", u.Redacted())
	return &Database{url: u, conn: conn}, nil
}

// URL returns the descriptor this handle was opened with.
func (d *Database) URL() URL { return d.url }

// Backend returns the base backend dialect of this handle.
func (d *Database) Backend() string { return d.url.Backend() }

// Close releases the underlying connection. Safe on a nil handle.
func (d *Database) Close() error {
	if d == nil || d.conn == nil {
		return nil
	}
	return d.conn.Close()
}

// Exists reports whether the named database exists. For sqlite the database
// is a file and existence is a file check.
func (d *Database) Exists(ctx context.Context, name string) (bool, error) {
	switch d.Backend() {
	case MySQL:
		var found string
		err := d.conn.QueryRowContext(ctx,
			"SELECT SCHEMA_NAME FROM information_schema.SCHEMATA WHERE SCHEMA_NAME = ?",
			name).Scan(&found)
		if err == sql.ErrNoRows {
			return false, nil
		}
		return err == nil, classify(err)
	case Postgres:
		var one int
		err := d.conn.QueryRowContext(ctx,
			"SELECT 1 FROM pg_database WHERE datname = $1", name).Scan(&one)
		if err == sql.ErrNoRows {
			return false, nil
		}
		return err == nil, classify(err)
	case SQLite:
		_, err := os.Stat(d.sqliteFile(name))
		if os.IsNotExist(err) {
			return false, nil
		}
		return err == nil, err
	default:
		return false, fmt.Errorf("%w: %s", ErrNoSuchBackend, d.url.Driver())
	}
}

// Create creates the named database. Postgres databases are cloned from the
// template database so encoding and collation follow the cluster default.
func (d *Database) Create(ctx context.Context, name string) error {
	switch d.Backend() {
	case MySQL:
		_, err := d.conn.ExecContext(ctx,
			fmt.Sprintf("CREATE DATABASE %s", quoteMySQL(name)))
		return classify(err)
	case Postgres:
		_, err := d.conn.ExecContext(ctx,
			fmt.Sprintf("CREATE DATABASE %s TEMPLATE %s", quotePg(name), TemplateDB))
		return classify(err)
	case SQLite:
		f, err := os.OpenFile(d.sqliteFile(name), os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		return f.Close()
	default:
		return fmt.Errorf("%w: %s", ErrNoSuchBackend, d.url.Driver())
	}
}

// Drop removes the named database.
func (d *Database) Drop(ctx context.Context, name string) error {
	switch d.Backend() {
	case MySQL:
		_, err := d.conn.ExecContext(ctx,
			fmt.Sprintf("DROP DATABASE %s", quoteMySQL(name)))
		return classify(err)
	case Postgres:
		_, err := d.conn.ExecContext(ctx,
			fmt.Sprintf("DROP DATABASE %s", quotePg(name)))
		return classify(err)
	case SQLite:
		return os.Remove(d.sqliteFile(name))
	default:
		return fmt.Errorf("%w: %s", ErrNoSuchBackend, d.url.Driver())
	}
}

// EnsureUser creates the application role named in app and grants it full
// access to app's database component, using this (administrative) handle.
// Re-running against an existing role refreshes its password and grants.
func (d *Database) EnsureUser(ctx context.Context, app URL) error {
	user := app.User()
	pass, _ := app.Password()
	dbName := app.Database()

	switch d.Backend() {
	case MySQL:
		stmts := []string{
			fmt.Sprintf("CREATE USER IF NOT EXISTS '%s'@'localhost' IDENTIFIED BY '%s'",
				escapeLiteral(user), escapeLiteral(pass)),
			fmt.Sprintf("CREATE USER IF NOT EXISTS '%s'@'%%' IDENTIFIED BY '%s'",
				escapeLiteral(user), escapeLiteral(pass)),
			fmt.Sprintf("GRANT ALL PRIVILEGES ON %s.* TO '%s'@'localhost'",
				quoteMySQL(dbName), escapeLiteral(user)),
			fmt.Sprintf("GRANT ALL PRIVILEGES ON %s.* TO '%s'@'%%'",
				quoteMySQL(dbName), escapeLiteral(user)),
			"FLUSH PRIVILEGES",
		}
		for _, stmt := range stmts {
			if _, err := d.conn.ExecContext(ctx, stmt); err != nil {
				return classify(err)
			}
		}
		return nil
	case Postgres:
		var one int
		err := d.conn.QueryRowContext(ctx,
			"SELECT 1 FROM pg_roles WHERE rolname = $1", user).Scan(&one)
		switch {
		case err == sql.ErrNoRows:
			_, err = d.conn.ExecContext(ctx,
				fmt.Sprintf("CREATE ROLE %s WITH LOGIN PASSWORD '%s'",
					quotePg(user), escapeLiteral(pass)))
		case err == nil:
			debug.Debug("role already present, refreshing password", "user", user)
			_, err = d.conn.ExecContext(ctx,
				fmt.Sprintf("ALTER ROLE %s WITH LOGIN PASSWORD '%s'",
					quotePg(user), escapeLiteral(pass)))
		}
		if err != nil {
			return classify(err)
		}
		_, err = d.conn.ExecContext(ctx,
			fmt.Sprintf("GRANT ALL PRIVILEGES ON DATABASE %s TO %s",
				quotePg(dbName), quotePg(user)))
		return classify(err)
	case SQLite:
		// file-based engine has no roles
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrNoSuchBackend, d.url.Driver())
	}
}

// GrantTableOptions grants the user full privileges on one table or
// sequence. Only meaningful on postgres, where created objects are owned by
// the administrative role, not the application role.
func (d *Database) GrantTableOptions(ctx context.Context, user, object string) error {
	if d.Backend() != Postgres {
		return nil
	}
	_, err := d.conn.ExecContext(ctx,
		fmt.Sprintf("GRANT ALL PRIVILEGES ON TABLE %s TO %s",
			quotePg(object), quotePg(user)))
	return classify(err)
}

// ExecFile runs the SQL asset at path against the open connection in a
// single round trip. A schema object that is already present surfaces as
// ErrExists.
func (d *Database) ExecFile(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sqlText := strings.TrimSpace(string(content))
	if sqlText == "" {
		return nil
	}
	_, err = d.conn.ExecContext(ctx, sqlText)
	return classify(err)
}

// Migrate installs the backend's bulk-copy procedures from the given script
// assets and invokes proc once per manifest table to copy matching rows
// from source into dest. Tables missing on either side are skipped by the
// procedure itself, not reported as errors.
func (d *Database) Migrate(ctx context.Context, scripts []string, proc, source, dest string, tables []string) error {
	for _, script := range scripts {
		if err := d.ExecFile(ctx, script); err != nil {
			return fmt.Errorf("installing migration script %s: %w", script, err)
		}
	}

	for _, table := range tables {
		debug.Debug("copying table", "table", table, "source", source, "dest", dest)
		_, err := d.conn.ExecContext(ctx,
			fmt.Sprintf("CALL %s('%s', '%s', '%s')",
				proc, escapeLiteral(source), escapeLiteral(dest), escapeLiteral(table)))
		if err != nil {
			return fmt.Errorf("copying table %s: %w", table, classify(err))
		}
	}
	return nil
}

// sqliteFile resolves the file behind a sqlite database reference. The
// engine is single-database: the file named in the connection URL wins over
// a server-style database name.
func (d *Database) sqliteFile(name string) string {
	if p := d.url.Database(); p != "" {
		return p
	}
	return name
}

func quoteMySQL(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func quotePg(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
