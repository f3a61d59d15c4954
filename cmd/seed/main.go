// Package main imports vendor JSON picklist files into the durable store.
//
// The seed directory holds the vendor export format: brands.json,
// categories.json, styles.json, and attributes.json. Files that are
// missing are skipped.
//
// Usage:
//
//	go run ./cmd/seed --seeds ./salesforce-picklists --data ~/picklist-engine/data
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/domain"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/logger"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/store"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/store/jsonfile"
)

func main() {
	seedDir := flag.String("seeds", "", "Directory of vendor JSON picklist files")
	dataDir := flag.String("data", "", "Base directory for durable storage")
	flag.Parse()

	if *seedDir == "" || *dataDir == "" {
		fmt.Fprintln(os.Stderr, "both --seeds and --data are required")
		flag.Usage()
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: slog.LevelInfo})

	db, err := store.New(filepath.Join(*dataDir, "picklists"), log)
	if err != nil {
		log.Error("failed to open picklist store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	seeds := jsonfile.New(*seedDir)

	imported := 0
	for _, t := range domain.AllPicklistTypes {
		entries, err := seeds.Load(ctx, t)
		if err != nil {
			log.Error("failed to read seed file", "type", t, "error", err)
			os.Exit(1)
		}
		if entries == nil {
			log.Warn("seed file missing, skipping", "type", t)
			continue
		}

		if err := db.Save(ctx, t, entries); err != nil {
			log.Error("failed to save collection", "type", t, "error", err)
			os.Exit(1)
		}

		log.Info("collection imported", "type", t, "entries", len(entries))
		imported += len(entries)
	}

	log.Info("seed import complete", "total_entries", imported)
}
