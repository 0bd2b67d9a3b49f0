package database

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRegionsLookup(t *testing.T) {
	global := newMockDB(t)
	krakow := newMockDB(t)
	warsaw := newMockDB(t)

	r := NewRegions(global, map[string]*sql.DB{"krakow": krakow, "warsaw": warsaw})

	db, err := r.Local("krakow")
	require.NoError(t, err)
	assert.Same(t, krakow, db)

	_, err = r.Local("berlin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "berlin")

	assert.Equal(t, []string{"krakow", "warsaw"}, r.Names())
}
