package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/shemigam1/dream-devs-assesment/internal/config"
	"github.com/shemigam1/dream-devs-assesment/internal/importer"
	"github.com/shemigam1/dream-devs-assesment/internal/store"
)

// main loads every activities_*.csv file from DATA_DIR into Postgres,
// in lexicographic order, and reports per-file and grand totals.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := store.NewPostgresStore(cfg.DBURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.EnsureSchema(); err != nil {
		log.Fatal(err)
	}

	res, err := importer.New(db).Run(context.Background(), cfg.DataDir)
	if err != nil {
		log.Fatal(err)
	}

	if len(res.Files) == 0 {
		slog.Info("no CSV files found", "dir", cfg.DataDir)
		return
	}

	slog.Info("import complete",
		"files", len(res.Files),
		"imported", res.Imported,
		"skipped", res.Skipped,
		"total_in_db", res.TotalInDB,
	)
}
