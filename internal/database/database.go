// Package database stores voicemail message metadata in SQLite. The intro
// endpoint reads messages from here; recordings themselves are never touched.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	_ "modernc.org/sqlite"
)

// FileName is the database file created inside the data directory.
const FileName = "vmprompt.db"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps a sql.DB connection holding voicemail message metadata.
type DB struct {
	*sql.DB
	path string
}

// Open creates or opens the message database inside dataDir and applies
// any migrations that have not run yet.
func Open(ctx context.Context, dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, FileName)
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)", dbPath)

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Single writer.
	sqlDB.SetMaxOpenConns(1)

	db := &DB{DB: sqlDB, path: dbPath}
	applied, err := db.migrate(ctx)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	slog.Info("message store opened", "path", dbPath, "migrations_applied", applied)
	return db, nil
}

// Path returns the database file location.
func (db *DB) Path() string {
	return db.path
}

// migrate applies pending migration files in lexical order and returns how
// many were applied.
func (db *DB) migrate(ctx context.Context) (int, error) {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at DATETIME DEFAULT (datetime('now'))
	)`); err != nil {
		return 0, fmt.Errorf("creating schema_migrations table: %w", err)
	}

	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return 0, fmt.Errorf("listing migrations: %w", err)
	}
	slices.Sort(names)

	applied := 0
	for _, name := range names {
		version := strings.TrimSuffix(path.Base(name), ".sql")

		var done bool
		if err := db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?)`, version,
		).Scan(&done); err != nil {
			return applied, fmt.Errorf("checking migration %s: %w", version, err)
		}
		if done {
			continue
		}

		if err := db.apply(ctx, name, version); err != nil {
			return applied, err
		}
		applied++
		slog.Debug("applied migration", "version", version)
	}
	return applied, nil
}

func (db *DB) apply(ctx context.Context, name, version string) error {
	content, err := migrationsFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("reading migration %s: %w", version, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction for migration %s: %w", version, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("executing migration %s: %w", version, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
		return fmt.Errorf("recording migration %s: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %s: %w", version, err)
	}
	return nil
}
