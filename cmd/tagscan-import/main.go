package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BrandonDHaskell/tagscan/internal/tagscan/inventory"
	"github.com/BrandonDHaskell/tagscan/internal/tagscan/snapshot"
)

// tagscan-import converts an inventory export between snapshot formats,
// typically JSON from the asset system into the SQLite file shipped to
// devices.
func main() {
	var in, out string
	var strict bool
	flag.StringVar(&in, "in", "inventory.json", "source snapshot (.json, .yaml, .pb, .db)")
	flag.StringVar(&out, "out", "data/inventory.db", "destination snapshot (.json, .yaml, .pb, .db)")
	flag.BoolVar(&strict, "strict", false, "fail when the export has duplicate service tags")
	flag.Parse()

	logger := log.New(os.Stderr, "tagscan-import ", log.LstdFlags|log.LUTC)
	ctx := context.Background()

	src, err := snapshot.Open(in)
	if err != nil {
		logger.Fatalf("source: %v", err)
	}
	raws, err := src.Load(ctx)
	if err != nil {
		logger.Fatalf("load %s: %v", in, err)
	}

	// Index the rows the same way the scanner will, to surface data-quality
	// defects before the snapshot reaches devices.
	idx, warnings := inventory.Load(raws, logger)
	if strict && len(warnings) > 0 {
		logger.Fatalf("%d duplicate service tags in %s", len(warnings), in)
	}

	if err := snapshot.Write(ctx, out, raws, filepath.Base(in)); err != nil {
		logger.Fatalf("write %s: %v", out, err)
	}

	fmt.Printf("imported %d rows (%d distinct service tags, %d duplicates) into %s\n",
		len(raws), idx.Len(), len(warnings), out)
}
