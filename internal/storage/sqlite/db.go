package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	"github.com/sandevgo/unattended/pkg/log"
	"github.com/sandevgo/unattended/pkg/sqlite"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// NewDB opens the history database at dbPath, creating its directory, and
// brings the schema up to date. The caller owns the returned handle.
func NewDB(ctx context.Context, dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open(sqlite.DriverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if _, err := migrateUp(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// migrateUp applies pending migrations and returns the resulting schema version.
func migrateUp(ctx context.Context, db *sql.DB) (int64, error) {
	logger := log.FromCtx(ctx)

	fsys, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return 0, err
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys,
		goose.WithLogger(log.NewGooseLoggerFromCtx(ctx)),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare history migrations: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to migrate history database: %w", err)
	}
	for _, r := range results {
		logger.Debug().
			Int64("version", r.Source.Version).
			Str("file", r.Source.Path).
			Dur("took", r.Duration).
			Msg("history migration applied")
	}

	return provider.GetDBVersion(ctx)
}
