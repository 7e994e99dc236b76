package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/BrandonDHaskell/tagscan/internal/tagscan/types"
)

// JSONFile is a snapshot stored as a JSON array of asset objects, the shape
// of the inventory export.
type JSONFile struct {
	Path string
}

func (f JSONFile) Load(context.Context) ([]types.RawAsset, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return DecodeJSON(data)
}

// DecodeJSON parses a JSON array snapshot.  Exports produced from
// spreadsheets carry numeric badge ids and dates, so scalars of any type are
// rendered as text; unknown keys are ignored.
func DecodeJSON(data []byte) ([]types.RawAsset, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("parse snapshot json: %w", err)
	}

	raws := make([]types.RawAsset, 0, len(rows))
	for i, row := range rows {
		if row == nil {
			return nil, fmt.Errorf("parse snapshot json: row %d is not an object", i)
		}
		var raw types.RawAsset
		for key, v := range row {
			if p := fieldPtr(&raw, key); p != nil {
				*p = scalarText(v)
			}
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

func scalarText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// YAMLFile is a snapshot stored as a YAML sequence with the JSON key names.
type YAMLFile struct {
	Path string
}

func (f YAMLFile) Load(context.Context) ([]types.RawAsset, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var raws []types.RawAsset
	if err := yaml.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("parse snapshot yaml: %w", err)
	}
	return raws, nil
}

func writeJSON(path string, raws []types.RawAsset) error {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if raws == nil {
		raws = []types.RawAsset{}
	}
	if err := enc.Encode(raws); err != nil {
		return fmt.Errorf("encode snapshot json: %w", err)
	}
	return writeFile(path, buf.Bytes())
}

func writeYAML(path string, raws []types.RawAsset) error {
	if raws == nil {
		raws = []types.RawAsset{}
	}
	data, err := yaml.Marshal(raws)
	if err != nil {
		return fmt.Errorf("encode snapshot yaml: %w", err)
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir snapshot dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
