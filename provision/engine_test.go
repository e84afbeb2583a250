package provision

import (
	"context"
	"testing"

	"github.com/spf13/afero"

	"github.com/telephony-tools/sipschema/db"
)

// fakeSettings is an in-memory Settings implementation. Prompted reads are
// served from the same map, so a missing key means "operator provided
// nothing".
type fakeSettings struct {
	values  map[string]string
	bools   map[string]bool
	boolSet map[string]bool
	secret  string
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{
		values:  make(map[string]string),
		bools:   make(map[string]bool),
		boolSet: make(map[string]bool),
	}
}

func (s *fakeSettings) Exists(key string) bool { return s.values[key] != "" }
func (s *fakeSettings) Get(key string) string  { return s.values[key] }

func (s *fakeSettings) ReadParam(key, message string) (string, error) {
	return s.values[key], nil
}

func (s *fakeSettings) ReadBoolParam(key, message string, def bool) (bool, error) {
	if s.boolSet[key] {
		return s.bools[key], nil
	}
	return def, nil
}

func (s *fakeSettings) AskSecret(message string) (string, error) {
	return s.secret, nil
}

// fakeConn records every driver call the engine makes.
type fakeConn struct {
	url     db.URL
	backend string

	databases map[string]bool

	execFiles []string
	execErr   map[string]error

	ensured []db.URL
	grants  [][2]string

	migrateCalled bool
	migrateProc   string
	migrateTables []string
	migrateSrc    string
	migrateDst    string

	created []string
	dropped []string
	closed  bool

	ensureErr error
	createErr error
	dropErr   error
}

func newFakeConn(backend string, u db.URL) *fakeConn {
	return &fakeConn{
		url:       u,
		backend:   backend,
		databases: make(map[string]bool),
		execErr:   make(map[string]error),
	}
}

func (c *fakeConn) URL() db.URL     { return c.url }
func (c *fakeConn) Backend() string { return c.backend }

func (c *fakeConn) Exists(ctx context.Context, name string) (bool, error) {
	return c.databases[name], nil
}

func (c *fakeConn) Create(ctx context.Context, name string) error {
	if c.createErr != nil {
		return c.createErr
	}
	c.databases[name] = true
	c.created = append(c.created, name)
	return nil
}

func (c *fakeConn) Drop(ctx context.Context, name string) error {
	if c.dropErr != nil {
		return c.dropErr
	}
	delete(c.databases, name)
	c.dropped = append(c.dropped, name)
	return nil
}

func (c *fakeConn) ExecFile(ctx context.Context, path string) error {
	if err := c.execErr[path]; err != nil {
		return err
	}
	c.execFiles = append(c.execFiles, path)
	return nil
}

func (c *fakeConn) EnsureUser(ctx context.Context, app db.URL) error {
	if c.ensureErr != nil {
		return c.ensureErr
	}
	c.ensured = append(c.ensured, app)
	return nil
}

func (c *fakeConn) GrantTableOptions(ctx context.Context, user, object string) error {
	c.grants = append(c.grants, [2]string{user, object})
	return nil
}

func (c *fakeConn) Migrate(ctx context.Context, scripts []string, proc, source, dest string, tables []string) error {
	c.migrateCalled = true
	c.migrateProc = proc
	c.migrateSrc = source
	c.migrateDst = dest
	c.migrateTables = tables
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

// fakeOpener routes opens by backend, optionally denying app-scope access a
// configurable number of times to exercise the escalation path.
type fakeOpener struct {
	admin *fakeConn
	app   *fakeConn

	adminUser  string
	denyApp    int
	appOpenErr error
	opened     []db.URL
}

func (o *fakeOpener) open(ctx context.Context, u db.URL) (Conn, error) {
	o.opened = append(o.opened, u)
	if u.User() == o.adminUser {
		o.admin.url = u
		return o.admin, nil
	}
	if o.appOpenErr != nil {
		return nil, o.appOpenErr
	}
	if o.denyApp > 0 {
		o.denyApp--
		return nil, db.ErrAccessDenied
	}
	o.app.url = u
	return o.app, nil
}

func newTestEngine(t *testing.T, backend string, cfg *fakeSettings) (*Engine, *fakeOpener) {
	t.Helper()

	adminURL := mustParse(t, backend+"://root:secret@localhost")
	opener := &fakeOpener{
		admin:     newFakeConn(backend, adminURL),
		app:       newFakeConn(backend, db.URL{}),
		adminUser: "root",
	}
	e := &Engine{
		cfg:     cfg,
		fs:      afero.NewMemMapFs(),
		open:    opener.open,
		extract: NewLineScanExtractor(),
	}
	return e, opener
}

func mustParse(t *testing.T, raw string) db.URL {
	t.Helper()
	u, err := db.ParseURL(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u
}
