package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrSchemaOutdated is returned when a read-only snapshot was written by an
// older importer.
var ErrSchemaOutdated = errors.New("snapshot schema outdated; re-run the importer")

type Config struct {
	Path string // e.g. "./data/inventory.db"

	// ReadOnly opens an existing snapshot without migrating it.  This is how
	// the scanner consumes snapshots; only the importer writes.
	ReadOnly bool
}

func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	if cfg.Path == "" {
		cfg.Path = "./data/inventory.db"
	}

	var dsn string
	if cfg.ReadOnly {
		if _, err := os.Stat(cfg.Path); err != nil {
			return nil, fmt.Errorf("snapshot file: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", cfg.Path)
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir db dir: %w", err)
		}
		// Snapshot files are copied onto devices as a single file, so no WAL.
		dsn = fmt.Sprintf(
			"file:%s?_pragma=journal_mode(DELETE)&_pragma=synchronous(FULL)&_pragma=busy_timeout(5000)",
			cfg.Path,
		)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	if cfg.ReadOnly {
		v, err := SchemaVersion(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		if v < LatestVersion() {
			_ = db.Close()
			return nil, fmt.Errorf("%w (have %d, want %d)", ErrSchemaOutdated, v, LatestVersion())
		}
		return db, nil
	}

	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
