package main

import (
	"context"
	"flag"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/scttee/elibilitychecker/internal/catalog"
	"github.com/scttee/elibilitychecker/internal/registry"
	"github.com/scttee/elibilitychecker/internal/store"
)

func main() {
	var (
		dbPath     = flag.String("db", filepath.FromSlash("data/catalog.db"), "Path to SQLite dataset catalog")
		streets    = flag.String("streets", "", "Street register CSV export")
		businesses = flag.String("businesses", "", "Business register CSV export")
		suburbs    = flag.String("suburbs", "", "Suburb directory CSV export")
		seed       = flag.Bool("seed", false, "Load the bundled registers before importing CSV files")
		history    = flag.Int("history", 5, "Number of recent imports to log when done")
	)
	flag.Parse()

	db, err := store.Open(*dbPath, true)
	if err != nil {
		logrus.Fatalf("open database: %v", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logrus.WithError(cerr).Warn("close database")
		}
	}()

	if *seed {
		datasets, err := catalog.LoadFiles(context.Background(), catalog.Sources{})
		if err != nil {
			logrus.Fatalf("read bundled registers: %v", err)
		}
		// Build first so a bundled register that would not load is never stored.
		if _, err := registry.Build(datasets...); err != nil {
			logrus.Fatalf("validate bundled registers: %v", err)
		}
		if err := catalog.SaveDatasets(db, datasets...); err != nil {
			logrus.Fatalf("seed catalog: %v", err)
		}
		logrus.Info("catalog seeded from bundled registers")
	}

	imports := []struct {
		kind catalog.Kind
		path string
	}{
		{catalog.KindStreets, *streets},
		{catalog.KindBusinesses, *businesses},
		{catalog.KindSuburbs, *suburbs},
	}
	for _, imp := range imports {
		path := strings.TrimSpace(imp.path)
		if path == "" {
			continue
		}
		start := time.Now()
		count, err := catalog.ImportCSV(db, imp.kind, path)
		if err != nil {
			logrus.Fatalf("import %s: %v", imp.kind, err)
		}
		logrus.WithFields(logrus.Fields{
			"kind":     imp.kind,
			"file":     path,
			"rows":     count,
			"duration": time.Since(start).Round(time.Millisecond),
		}).Info("import complete")
	}

	datasets, err := catalog.LoadStore(db)
	if err != nil {
		logrus.Fatalf("read catalog: %v", err)
	}
	reg, err := registry.Build(datasets...)
	if err != nil {
		logrus.WithError(err).Warn("catalog does not build a registry; fix the registers before serving from it")
	}

	counts, err := db.Counts()
	if err != nil {
		logrus.Fatalf("count catalog rows: %v", err)
	}
	fields := logrus.Fields{
		"streets":    counts.Streets,
		"businesses": counts.Businesses,
		"suburbs":    counts.Suburbs,
	}
	if reg != nil {
		fields["records"] = reg.Len()
	}
	logrus.WithFields(fields).Info("dataset catalog ready")

	if *history > 0 {
		runs, err := db.ListImports(*history)
		if err != nil {
			logrus.WithError(err).Warn("list imports")
			return
		}
		for _, run := range runs {
			logrus.WithFields(logrus.Fields{
				"kind":   run.Kind,
				"source": run.Source,
				"rows":   run.Rows,
				"at":     run.CreatedAt.Format(time.RFC3339),
			}).Info("import history")
		}
	}
}
