package sqlite

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverEnablesForeignKeys(t *testing.T) {
	db, err := sql.Open(DriverName, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Ping())

	var enabled int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&enabled))
	assert.Equal(t, 1, enabled)
}

func TestDriverRejectsDanglingReference(t *testing.T) {
	db, err := sql.Open(DriverName, ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE runs (id INTEGER PRIMARY KEY)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE steps (run_id INTEGER NOT NULL REFERENCES runs(id))`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO steps (run_id) VALUES (42)`)
	assert.Error(t, err, "insert must fail when the parent run does not exist")
}
