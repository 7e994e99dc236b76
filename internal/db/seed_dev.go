package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SeedDev fills an empty snapshot with a few sample assets so the harness
// has something to scan in dev.  Non-empty snapshots are left untouched.
func SeedDev(ctx context.Context, w *Worker) error {
	return w.Do(ctx, "dev seed", func(ctx context.Context, tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM assets;").Scan(&n); err != nil {
			return fmt.Errorf("seed count: %w", err)
		}
		if n > 0 {
			return nil
		}

		rows := [][]any{
			{1, "A1", "Jo", "Martin", "Field Technician", "IT Support", "Acme", "jo.martin@example.com", "+33 6 00 00 00 01", "Lyon", "B-1001", "LAP-0001", "Latitude 5440", "Laptop", "Dell", "Floor 2", "", "2024-03-12"},
			{2, "7HXK2Q3", "Sam", "Okafor", "Analyst", "Finance", "Acme", "sam.okafor@example.com", "+33 6 00 00 00 02", "Paris", "B-1002", "LAP-0002", "EliteBook 840", "Laptop", "HP", "Floor 5", "Dock missing", "2024-02-01T09:15:00Z"},
		}
		for _, r := range rows {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO assets(
  row_no, service_tag,
  first_name, last_name, job_title, department, company, email, phone, work_location, badge_id,
  asset_tag, model_name, asset_type, manufacturer, area, observation, inventory_date
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`, r...); err != nil {
				return fmt.Errorf("seed asset %v: %w", r[1], err)
			}
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO snapshot_meta(id, source, row_count, imported_at_ms) VALUES (1, 'dev-seed', ?, ?)
ON CONFLICT(id) DO UPDATE SET
  source = excluded.source,
  row_count = excluded.row_count,
  imported_at_ms = excluded.imported_at_ms;`, len(rows), time.Now().UTC().UnixMilli()); err != nil {
			return fmt.Errorf("seed snapshot_meta: %w", err)
		}
		return nil
	})
}
