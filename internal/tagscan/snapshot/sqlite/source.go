package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	dbpkg "github.com/BrandonDHaskell/tagscan/internal/db"
	"github.com/BrandonDHaskell/tagscan/internal/tagscan/types"
)

// Source reads the snapshot rows of an open database in row order.
type Source struct {
	db *sql.DB
}

func NewSource(db *sql.DB) *Source {
	return &Source{db: db}
}

func (s *Source) Load(ctx context.Context) ([]types.RawAsset, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT service_tag,
       first_name, last_name, job_title, department, company, email, phone, work_location, badge_id,
       asset_tag, model_name, asset_type, manufacturer, area, observation, inventory_date
FROM assets
ORDER BY row_no;
`)
	if err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}
	defer rows.Close()

	var out []types.RawAsset
	for rows.Next() {
		var r types.RawAsset
		if err := rows.Scan(
			&r.ServiceTag,
			&r.FirstName, &r.LastName, &r.JobTitle, &r.Department, &r.Company,
			&r.Email, &r.Phone, &r.WorkLocation, &r.BadgeID,
			&r.AssetTag, &r.ModelName, &r.AssetType, &r.Manufacturer, &r.Area,
			&r.Observation, &r.InventoryDate,
		); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}
	return out, nil
}

// FileSource opens a snapshot file read-only for the duration of Load.
type FileSource struct {
	Path string
}

func (f FileSource) Load(ctx context.Context) ([]types.RawAsset, error) {
	conn, err := dbpkg.Open(ctx, dbpkg.Config{Path: f.Path, ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	return NewSource(conn).Load(ctx)
}

// SnapshotMeta describes the last import into a snapshot file.
type SnapshotMeta struct {
	Source     string
	RowCount   int
	ImportedAt time.Time
}

// ErrNoMeta is returned for snapshots that were never imported into.
var ErrNoMeta = errors.New("snapshot has no import metadata")

func Meta(ctx context.Context, db *sql.DB) (SnapshotMeta, error) {
	var (
		m  SnapshotMeta
		ms int64
	)
	err := db.QueryRowContext(ctx,
		"SELECT source, row_count, imported_at_ms FROM snapshot_meta WHERE id = 1;",
	).Scan(&m.Source, &m.RowCount, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return SnapshotMeta{}, ErrNoMeta
	}
	if err != nil {
		return SnapshotMeta{}, fmt.Errorf("snapshot meta: %w", err)
	}
	m.ImportedAt = time.UnixMilli(ms).UTC()
	return m, nil
}
