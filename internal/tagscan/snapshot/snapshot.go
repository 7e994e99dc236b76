package snapshot

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sqlitesnap "github.com/BrandonDHaskell/tagscan/internal/tagscan/snapshot/sqlite"
	"github.com/BrandonDHaskell/tagscan/internal/tagscan/types"
)

// Source yields the inventory snapshot rows in order.
type Source interface {
	Load(ctx context.Context) ([]types.RawAsset, error)
}

// Static is an in-memory snapshot, mostly for tests and fixtures.
type Static []types.RawAsset

func (s Static) Load(context.Context) ([]types.RawAsset, error) {
	out := make([]types.RawAsset, len(s))
	copy(out, s)
	return out, nil
}

type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatProto  Format = "proto"
	FormatSQLite Format = "sqlite"
)

var ErrUnknownFormat = errors.New("unknown snapshot format")

// FormatOf picks the snapshot format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".pb", ".binpb":
		return FormatProto, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// Open returns the file source matching path's extension.
func Open(path string) (Source, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	switch f {
	case FormatJSON:
		return JSONFile{Path: path}, nil
	case FormatYAML:
		return YAMLFile{Path: path}, nil
	case FormatProto:
		return ProtoFile{Path: path}, nil
	default:
		return sqlitesnap.FileSource{Path: path}, nil
	}
}

// Write stores raws at path in the format its extension names.  source is
// recorded as provenance where the format supports it.
func Write(ctx context.Context, path string, raws []types.RawAsset, source string) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	switch f {
	case FormatJSON:
		return writeJSON(path, raws)
	case FormatYAML:
		return writeYAML(path, raws)
	case FormatProto:
		return writeProto(path, raws)
	default:
		return sqlitesnap.ImportFile(ctx, path, raws, source)
	}
}
