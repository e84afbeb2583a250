package db

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// Error taxonomy for the driver layer. Callers branch on these with
// errors.Is; the wrapped cause keeps the driver detail.
var (
	// ErrArgument reports a malformed connection string.
	ErrArgument = errors.New("bad connection URL")
	// ErrConnect reports an unreachable or otherwise failing host.
	ErrConnect = errors.New("failed to connect to database")
	// ErrAccessDenied reports rejected credentials or missing privileges.
	ErrAccessDenied = errors.New("access denied")
	// ErrNoSuchBackend reports an unsupported backend tag.
	ErrNoSuchBackend = errors.New("unsupported database backend")
	// ErrExists reports a schema object that is already present.
	ErrExists = errors.New("already exists")
	// ErrNoSuchDB reports a missing database.
	ErrNoSuchDB = errors.New("database does not exist")
)

// mysql server error numbers this layer cares about.
const (
	myErrDBCreateExists   = 1007
	myErrDBAccessDenied   = 1044
	myErrAccessDenied     = 1045
	myErrBadDB            = 1049
	myErrTableExists      = 1050
	myErrSpecificAccess   = 1227
	myErrTablespaceExists = 1813
)

// classify maps a raw driver error onto the package taxonomy, wrapping the
// cause. Unrecognized errors become ErrConnect for dial-time failures and
// are otherwise passed through.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case myErrDBAccessDenied, myErrAccessDenied, myErrSpecificAccess:
			return wrap(ErrAccessDenied, err)
		case myErrDBCreateExists, myErrTableExists, myErrTablespaceExists:
			return wrap(ErrExists, err)
		case myErrBadDB:
			return wrap(ErrNoSuchDB, err)
		}
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "28000", "28P01", "42501":
			return wrap(ErrAccessDenied, err)
		case "42P04", "42P07", "42710":
			return wrap(ErrExists, err)
		case "3D000":
			return wrap(ErrNoSuchDB, err)
		}
		return err
	}

	return err
}

// classifyDial is classify for connection-open failures: anything the
// dialect classifier does not recognize is a connect error.
func classifyDial(err error) error {
	if err == nil {
		return nil
	}
	c := classify(err)
	if c != err {
		return c
	}
	return wrap(ErrConnect, err)
}

func wrap(kind, cause error) error {
	return fmt.Errorf("%w: %v", kind, cause)
}
