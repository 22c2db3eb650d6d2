// Package catalog loads the rule, guidance and register documents and moves
// register data in and out of the SQLite dataset catalog.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/scttee/elibilitychecker/data"
	"github.com/scttee/elibilitychecker/internal/registry"
	"github.com/scttee/elibilitychecker/internal/rules"
	"github.com/scttee/elibilitychecker/internal/zones"
)

// Sources names the register documents on disk. An empty path selects the
// bundled document of that register.
type Sources struct {
	Streets    string
	Businesses string
	Suburbs    string
}

// LoadFiles reads the three registers concurrently and returns them in a
// fixed order: streets, businesses, suburbs.
func LoadFiles(ctx context.Context, src Sources) ([]registry.Dataset, error) {
	var (
		streets    registry.StreetDataset
		businesses registry.BusinessDataset
		suburbs    registry.SuburbDataset
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return readDocument(ctx, src.Streets, data.StreetsFile, &streets)
	})
	g.Go(func() error {
		return readDocument(ctx, src.Businesses, data.BusinessesFile, &businesses)
	})
	g.Go(func() error {
		return readDocument(ctx, src.Suburbs, data.SuburbsFile, &suburbs)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return []registry.Dataset{streets, businesses, suburbs}, nil
}

// LoadRules reads a rule document, or the bundled one when path is empty.
func LoadRules(path string) (*rules.Config, error) {
	if path == "" {
		raw, err := fs.ReadFile(data.FS, data.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("read bundled rules: %w", err)
		}
		return rules.Parse(raw, "json")
	}
	return rules.Load(path)
}

// LoadGuidance reads a zone guidance document, or the bundled one when path
// is empty.
func LoadGuidance(path string) (*zones.Table, error) {
	if path == "" {
		raw, err := fs.ReadFile(data.FS, data.GuidanceFile)
		if err != nil {
			return nil, fmt.Errorf("read bundled guidance: %w", err)
		}
		return zones.Parse(raw, "json")
	}
	return zones.Load(path)
}

func readDocument(ctx context.Context, path, bundled string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var (
		raw    []byte
		err    error
		source = path
	)
	if path == "" {
		source = bundled
		raw, err = fs.ReadFile(data.FS, bundled)
	} else {
		raw, err = os.ReadFile(filepath.Clean(path))
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", source, err)
	}
	if zones.FormatForPath(source) == "yaml" {
		err = yaml.Unmarshal(raw, out)
	} else {
		err = json.Unmarshal(raw, out)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", source, err)
	}
	return nil
}
