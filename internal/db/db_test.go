package db_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BrandonDHaskell/tagscan/internal/db"
)

func TestOpen_MigratesFreshFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "inventory.db")
	ctx := context.Background()

	conn, err := db.Open(ctx, db.Config{Path: path})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer conn.Close()

	v, err := db.SchemaVersion(ctx, conn)
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != db.LatestVersion() || v == 0 {
		t.Errorf("expected schema version %d, got %d", db.LatestVersion(), v)
	}

	// Migrating again is a no-op.
	if err := db.Migrate(ctx, conn); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n != db.LatestVersion() {
		t.Errorf("expected %d migration rows, got %d", db.LatestVersion(), n)
	}
}

func TestOpen_ReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.db")
	ctx := context.Background()

	rw, err := db.Open(ctx, db.Config{Path: path})
	if err != nil {
		t.Fatalf("Open rw: %v", err)
	}
	rw.Close()

	ro, err := db.Open(ctx, db.Config{Path: path, ReadOnly: true})
	if err != nil {
		t.Fatalf("Open ro: %v", err)
	}
	defer ro.Close()

	if _, err := ro.Exec("DELETE FROM assets"); err == nil {
		t.Error("expected write to a read-only snapshot to fail")
	}
}

func TestOpen_ReadOnlyMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")

	if _, err := db.Open(context.Background(), db.Config{Path: path, ReadOnly: true}); err == nil {
		t.Fatal("expected error for a missing read-only snapshot")
	}
}

func TestOpen_ReadOnlyOutdatedSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")

	conn, err := sql.Open("sqlite", fmt.Sprintf("file:%s", path))
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := conn.Exec(`CREATE TABLE schema_migrations (version INTEGER PRIMARY KEY, applied_at_ms INTEGER NOT NULL);`); err != nil {
		t.Fatalf("create: %v", err)
	}
	conn.Close()

	_, err = db.Open(context.Background(), db.Config{Path: path, ReadOnly: true})
	if !errors.Is(err, db.ErrSchemaOutdated) {
		t.Errorf("expected ErrSchemaOutdated, got %v", err)
	}
}

func TestWorker_RollsBackOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.db")
	ctx := context.Background()

	conn, err := db.Open(ctx, db.Config{Path: path})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer conn.Close()

	w := db.NewWorker(conn)
	defer w.Close()

	boom := errors.New("boom")
	err = w.Do(ctx, "test write", func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO assets(row_no, service_tag) VALUES (1, 'A1')"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "test write: ") {
		t.Errorf("expected error labelled with the write, got %q", err)
	}
	if _, ok := w.LastCommit(); ok {
		t.Error("expected no commit recorded after rollback")
	}

	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM assets").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("expected rollback, found %d rows", n)
	}
}

func TestWorker_CancelledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.db")
	conn, err := db.Open(context.Background(), db.Config{Path: path})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer conn.Close()

	w := db.NewWorker(conn)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = w.Do(ctx, "test write", func(context.Context, *sql.Tx) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestWorker_LastCommitAndClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.db")
	ctx := context.Background()

	conn, err := db.Open(ctx, db.Config{Path: path})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer conn.Close()

	w := db.NewWorker(conn)
	if err := db.SeedDev(ctx, w); err != nil {
		t.Fatalf("SeedDev: %v", err)
	}
	c, ok := w.LastCommit()
	if !ok || c.Label != "dev seed" || c.At.IsZero() {
		t.Errorf("LastCommit=%+v ok=%v, want dev seed", c, ok)
	}

	w.Close()
	w.Close()

	err = w.Do(ctx, "late write", func(context.Context, *sql.Tx) error { return nil })
	if !errors.Is(err, db.ErrWorkerClosed) {
		t.Errorf("expected ErrWorkerClosed, got %v", err)
	}
}
