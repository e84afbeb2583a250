package provision

import (
	"fmt"
	"os/user"

	"github.com/pterm/pterm"

	"github.com/telephony-tools/sipschema/db"
	"github.com/telephony-tools/sipschema/internal/debug"
)

// pgBootstrapDB is the database postgres administrative work runs against.
const pgBootstrapDB = "postgres"

// currentUser is indirected for tests of the postgres identity gate.
var currentUser = func() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

// engineTag returns the active backend tag, inherited from the configured
// administrative URL when present, the application URL otherwise.
func (e *Engine) engineTag() (string, error) {
	raw := e.cfg.Get(KeyDatabaseAdminURL)
	if raw == "" {
		raw = e.cfg.Get(KeyDatabaseURL)
	}
	if raw == "" {
		return "", fmt.Errorf("%w: no %s configured", db.ErrArgument, KeyDatabaseURL)
	}
	u, err := db.ParseURL(raw)
	if err != nil {
		return "", err
	}
	return u.Driver(), nil
}

// appURL derives the application connection scope for dbName from the
// configured connection string, normalizing its backend tag to the active
// engine.
func (e *Engine) appURL(dbName string) (db.URL, error) {
	tag, err := e.engineTag()
	if err != nil {
		pterm.Error.Printfln("no DB URL specified: %v", err)
		return db.URL{}, err
	}

	raw := e.cfg.Get(KeyDatabaseURL)
	if raw == "" {
		pterm.Error.Println("no DB URL specified: aborting!")
		return db.URL{}, fmt.Errorf("%w: %s not set", db.ErrArgument, KeyDatabaseURL)
	}
	u, err := db.ParseURL(raw)
	if err != nil {
		pterm.Error.Printfln("bad %s: %v", KeyDatabaseURL, err)
		return db.URL{}, err
	}

	u = u.WithDriver(tag)
	debug.Debug("application DB URL", "url", u.Redacted(), "db", dbName)
	return u, nil
}

// adminURL derives the administrative connection scope used to create
// databases and roles. Without an explicit database_admin_url a default
// super-user identity is synthesized for the backend; a missing secret is
// solicited interactively.
func (e *Engine) adminURL(dbName string) (db.URL, error) {
	tag, err := e.engineTag()
	if err != nil {
		return db.URL{}, err
	}
	backend := db.StripVariant(tag)

	var u db.URL
	if raw := e.cfg.Get(KeyDatabaseAdminURL); raw != "" {
		u, err = db.ParseURL(raw)
		if err != nil {
			pterm.Error.Printfln("bad %s: %v", KeyDatabaseAdminURL, err)
			return db.URL{}, err
		}
		if backend == db.Postgres {
			// postgres administrative work must run against the
			// bootstrap database, never the target
			u = u.WithDatabase(pgBootstrapDB)
		}
	} else {
		switch backend {
		case db.Postgres:
			// initial postgres setup runs as the postgres role over peer
			// authentication, which requires the matching OS identity
			osUser, uerr := currentUser()
			if uerr != nil || osUser != "postgres" {
				pterm.Error.Println("Command must be run as 'postgres' user: sudo -u postgres sipschema ...")
				return db.URL{}, fmt.Errorf("%w: must run as postgres", db.ErrAccessDenied)
			}
			u, err = db.ParseURL("postgres://postgres@localhost/postgres")
		case db.SQLite:
			// file-based engine has no privilege tiers; the application
			// scope doubles as the administrative one
			return e.appURL(dbName)
		default:
			u, err = db.ParseURL(fmt.Sprintf("%s://root@localhost", tag))
		}
		if err != nil {
			return db.URL{}, err
		}
	}

	if _, ok := u.Password(); !ok && backend != db.SQLite {
		secret, perr := e.cfg.AskSecret(
			fmt.Sprintf("Password for admin DB user (%s):", u.User()))
		if perr != nil {
			return db.URL{}, perr
		}
		u = u.WithPassword(secret)
	}

	debug.Debug("admin DB URL", "url", u.Redacted())
	return u, nil
}
