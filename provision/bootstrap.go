package provision

import (
	"context"
	"errors"

	"github.com/pterm/pterm"

	"github.com/telephony-tools/sipschema/db"
)

// accessState tracks the check-then-escalate transition of the privilege
// bootstrap: Unverified -> Granted, or Unverified -> Escalating -> Granted /
// Failed.
type accessState int

const (
	accessUnverified accessState = iota
	accessGranted
	accessEscalating
	accessFailed
)

// ensureAccess verifies that the application scope in app can connect to
// dbName, creating and granting the role through the administrative handle
// when the optimistic check is denied. Re-running against an already
// bootstrapped user is a no-op success.
func (e *Engine) ensureAccess(ctx context.Context, app db.URL, dbName string, admin Conn) error {
	app = app.WithDatabase(dbName)

	state := accessUnverified
	var cause error

	for {
		switch state {
		case accessUnverified:
			conn, err := e.openDB(ctx, app, true)
			switch {
			case err == nil:
				conn.Close()
				pterm.Info.Println("access works, application user already exists")
				state = accessGranted
			case errors.Is(err, db.ErrAccessDenied):
				state = accessEscalating
			default:
				cause = err
				state = accessFailed
			}

		case accessEscalating:
			pterm.Info.Printfln("creating access user for %s ...", dbName)
			if err := admin.EnsureUser(ctx, app); err != nil {
				pterm.Error.Printfln("failed to create user on %s DB: %v", dbName, err)
				cause = err
				state = accessFailed
				continue
			}
			// post-escalation retry: any failure here is terminal
			conn, err := e.openDB(ctx, app, true)
			if err != nil {
				pterm.Error.Printfln("failed to connect to %s with non-admin user: %v", dbName, err)
				cause = err
				state = accessFailed
				continue
			}
			conn.Close()
			state = accessGranted

		case accessGranted:
			return nil

		case accessFailed:
			return cause
		}
	}
}
