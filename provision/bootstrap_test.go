package provision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telephony-tools/sipschema/db"
)

func TestEnsureAccessAlreadyBootstrapped(t *testing.T) {
	e, opener := newTestEngine(t, "mysql", newFakeSettings())
	app := mustParse(t, "mysql://sip:pw@localhost")

	err := e.ensureAccess(context.Background(), app, "sipserver", opener.admin)
	require.NoError(t, err)
	assert.Empty(t, opener.admin.ensured, "no escalation expected")
	assert.True(t, opener.app.closed, "probe connection must be released")
}

func TestEnsureAccessEscalates(t *testing.T) {
	e, opener := newTestEngine(t, "mysql", newFakeSettings())
	opener.denyApp = 1
	app := mustParse(t, "mysql://sip:pw@localhost")

	err := e.ensureAccess(context.Background(), app, "sipserver", opener.admin)
	require.NoError(t, err)

	require.Len(t, opener.admin.ensured, 1)
	assert.Equal(t, "sipserver", opener.admin.ensured[0].Database())
	assert.Equal(t, "sip", opener.admin.ensured[0].User())
}

func TestEnsureAccessRetryDeniedIsFatal(t *testing.T) {
	e, opener := newTestEngine(t, "mysql", newFakeSettings())
	opener.denyApp = 2

	err := e.ensureAccess(context.Background(),
		mustParse(t, "mysql://sip:pw@localhost"), "sipserver", opener.admin)
	require.Error(t, err)
	assert.True(t, errors.Is(err, db.ErrAccessDenied))
	assert.Len(t, opener.admin.ensured, 1)
}

func TestEnsureAccessEscalationFailureIsFatal(t *testing.T) {
	e, opener := newTestEngine(t, "mysql", newFakeSettings())
	opener.denyApp = 1
	opener.admin.ensureErr = errors.New("create role refused")

	err := e.ensureAccess(context.Background(),
		mustParse(t, "mysql://sip:pw@localhost"), "sipserver", opener.admin)
	require.Error(t, err)
}

func TestEnsureAccessOtherConnectErrorIsFatal(t *testing.T) {
	e, opener := newTestEngine(t, "mysql", newFakeSettings())
	opener.appOpenErr = db.ErrConnect

	err := e.ensureAccess(context.Background(),
		mustParse(t, "mysql://sip:pw@localhost"), "sipserver", opener.admin)
	require.Error(t, err)
	assert.True(t, errors.Is(err, db.ErrConnect))
	assert.Empty(t, opener.admin.ensured, "connect failures must not trigger escalation")
}
