package inventory

import (
	"strconv"
	"strings"
	"time"

	"github.com/BrandonDHaskell/tagscan/internal/tagscan/types"
)

func fromRaw(raw types.RawAsset) types.AssetRecord {
	rec := types.AssetRecord{
		ServiceTag:   raw.ServiceTag,
		FirstName:    raw.FirstName,
		LastName:     raw.LastName,
		JobTitle:     raw.JobTitle,
		Department:   raw.Department,
		Company:      raw.Company,
		Email:        raw.Email,
		Phone:        raw.Phone,
		WorkLocation: raw.WorkLocation,
		BadgeID:      raw.BadgeID,
		AssetTag:     raw.AssetTag,
		ModelName:    raw.ModelName,
		AssetType:    raw.AssetType,
		Manufacturer: raw.Manufacturer,
		Area:         raw.Area,
		Observation:  raw.Observation,
	}
	if t := ParseInventoryDate(raw.InventoryDate); t != nil {
		rec.InventoryDate = *t
	}
	return rec
}

// 11 digits reaches back to 1973 in unix milliseconds.
const minUnixMilliDigits = 11

var dateLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseInventoryDate accepts the date encodings seen in inventory exports.
// Returns nil if the string is empty or unparseable.
func ParseInventoryDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			u := t.UTC()
			return &u
		}
	}
	// Spreadsheet exports sometimes carry unix milliseconds. Shorter digit
	// runs are compact dates like 20240312, not timestamps.
	if len(s) < minUnixMilliDigits {
		return nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil && ms > 0 {
		u := time.UnixMilli(ms).UTC()
		return &u
	}
	return nil
}
