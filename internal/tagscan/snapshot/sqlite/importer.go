package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/BrandonDHaskell/tagscan/internal/db"
	"github.com/BrandonDHaskell/tagscan/internal/tagscan/types"
)

// Importer replaces the snapshot rows of a database wholesale.
type Importer struct {
	writer *dbpkg.Worker
	now    func() time.Time
}

func NewImporter(writer *dbpkg.Worker) *Importer {
	return &Importer{writer: writer, now: func() time.Time { return time.Now().UTC() }}
}

// Import swaps the snapshot for raws in one transaction, keeping their order
// (and any duplicate service tags) as given.
func (im *Importer) Import(ctx context.Context, raws []types.RawAsset, source string) error {
	importedAt := im.now().UnixMilli()

	return im.writer.Do(ctx, "import "+source, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM assets;"); err != nil {
			return fmt.Errorf("clear assets: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO assets(
  row_no, service_tag,
  first_name, last_name, job_title, department, company, email, phone, work_location, badge_id,
  asset_tag, model_name, asset_type, manufacturer, area, observation, inventory_date
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, r := range raws {
			if _, err := stmt.ExecContext(ctx,
				i+1, r.ServiceTag,
				r.FirstName, r.LastName, r.JobTitle, r.Department, r.Company,
				r.Email, r.Phone, r.WorkLocation, r.BadgeID,
				r.AssetTag, r.ModelName, r.AssetType, r.Manufacturer, r.Area,
				r.Observation, r.InventoryDate,
			); err != nil {
				return fmt.Errorf("insert row %d (%q): %w", i, r.ServiceTag, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO snapshot_meta(id, source, row_count, imported_at_ms) VALUES (1, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  source = excluded.source,
  row_count = excluded.row_count,
  imported_at_ms = excluded.imported_at_ms;`, source, len(raws), importedAt); err != nil {
			return fmt.Errorf("record snapshot_meta: %w", err)
		}
		return nil
	})
}

// ImportFile creates or migrates the snapshot file at path and imports raws.
func ImportFile(ctx context.Context, path string, raws []types.RawAsset, source string) error {
	conn, err := dbpkg.Open(ctx, dbpkg.Config{Path: path})
	if err != nil {
		return err
	}
	defer conn.Close()

	w := dbpkg.NewWorker(conn)
	defer w.Close()

	return NewImporter(w).Import(ctx, raws, source)
}
