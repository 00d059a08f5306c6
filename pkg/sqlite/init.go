// Package sqlite registers the SQLite driver used by the run history store.
package sqlite

import (
	"database/sql"

	"github.com/mattn/go-sqlite3"
)

// DriverName is the database/sql driver name registered by this package.
const DriverName = "sqlite3_unattended"

// pragmas run on every new connection. Steps reference runs, so foreign keys
// must be enforced, and a second unattend process may hold the write lock.
var pragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 5000",
}

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			for _, p := range pragmas {
				if _, err := conn.Exec(p, nil); err != nil {
					return err
				}
			}
			return nil
		},
	})
}
