package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteLifecycleUsesURLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	u, err := ParseURL("sqlite:///app.db")
	require.NoError(t, err)
	d := &Database{url: u.WithDatabase(path)}

	ctx := context.Background()
	ok, err := d.Exists(ctx, "sipserver")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, d.Create(ctx, "sipserver"))
	_, err = os.Stat(path)
	require.NoError(t, err, "the URL file is the database, whatever name the operator passes")

	ok, err = d.Exists(ctx, "sipserver")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, d.Drop(ctx, "sipserver"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
