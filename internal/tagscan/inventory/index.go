package inventory

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/BrandonDHaskell/tagscan/internal/tagscan/types"
)

// ErrNotInitialized is returned when the index is used before Load.
var ErrNotInitialized = errors.New("inventory index not initialized")

// DuplicateKeyWarning reports a snapshot row whose service tag was already
// taken by an earlier row.  The earlier row is kept.
type DuplicateKeyWarning struct {
	ServiceTag string
	FirstRow   int // zero-based snapshot position of the record that won
	DupRow     int // zero-based snapshot position of the ignored record
}

func (w DuplicateKeyWarning) Error() string {
	return fmt.Sprintf("duplicate service tag %q at row %d (first seen at row %d)", w.ServiceTag, w.DupRow, w.FirstRow)
}

// Index maps service tags to asset records.  It is immutable after Load and
// safe to share between sessions without locking.
type Index struct {
	byTag   map[string]int
	records []types.AssetRecord
}

// Load builds an index from the snapshot rows in order.  Duplicate service
// tags are a data-quality defect, not a failure: the first row wins and a
// warning is logged and returned for each ignored row.
func Load(raws []types.RawAsset, logger *log.Logger) (*Index, []DuplicateKeyWarning) {
	idx := &Index{
		byTag:   make(map[string]int, len(raws)),
		records: make([]types.AssetRecord, 0, len(raws)),
	}

	firstRow := make(map[string]int, len(raws))
	var warnings []DuplicateKeyWarning

	for row, raw := range raws {
		if first, ok := firstRow[raw.ServiceTag]; ok {
			w := DuplicateKeyWarning{ServiceTag: raw.ServiceTag, FirstRow: first, DupRow: row}
			warnings = append(warnings, w)
			logf(logger, "WARN inventory: %v", w)
			continue
		}
		firstRow[raw.ServiceTag] = row

		rec := fromRaw(raw)
		if rec.InventoryDate.IsZero() && strings.TrimSpace(raw.InventoryDate) != "" {
			logf(logger, "WARN inventory: service tag %q: unparseable inventory date %q", raw.ServiceTag, raw.InventoryDate)
		}

		idx.byTag[raw.ServiceTag] = len(idx.records)
		idx.records = append(idx.records, rec)
	}

	logf(logger, "inventory loaded: %d records (%d duplicates ignored)", len(idx.records), len(warnings))
	return idx, warnings
}

// Lookup returns the record stored under serviceTag.  The comparison is
// byte-for-byte; callers normalize the scanned payload first.  A miss is
// reported through ok, never through err.
func (x *Index) Lookup(serviceTag string) (rec types.AssetRecord, ok bool, err error) {
	if x == nil || x.byTag == nil {
		return types.AssetRecord{}, false, ErrNotInitialized
	}
	i, ok := x.byTag[serviceTag]
	if !ok {
		return types.AssetRecord{}, false, nil
	}
	return x.records[i], true, nil
}

// Len returns the number of distinct service tags.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.records)
}

// Records returns a copy of the indexed records in snapshot order.
func (x *Index) Records() []types.AssetRecord {
	if x == nil {
		return nil
	}
	out := make([]types.AssetRecord, len(x.records))
	copy(out, x.records)
	return out
}

func logf(logger *log.Logger, format string, args ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, args...)
}
