package catalog

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/scttee/elibilitychecker/internal/entitlement"
	"github.com/scttee/elibilitychecker/internal/registry"
	"github.com/scttee/elibilitychecker/internal/rules"
	"github.com/scttee/elibilitychecker/internal/store"
)

// Options selects where each document comes from.
type Options struct {
	RulesPath    string
	GuidancePath string
	Sources      Sources
	// DatabasePath, when set, reads the registers from the SQLite catalog
	// instead of Sources.
	DatabasePath string
}

// Bundle is everything the checker needs once loaded.
type Bundle struct {
	Registry  *registry.Registry
	Rules     *rules.Config
	Estimator *entitlement.Estimator
}

// Load assembles a Bundle. Any invalid document fails the whole load.
func Load(ctx context.Context, opts Options) (*Bundle, error) {
	cfg, err := LoadRules(opts.RulesPath)
	if err != nil {
		return nil, err
	}
	table, err := LoadGuidance(opts.GuidancePath)
	if err != nil {
		return nil, err
	}
	estimator, err := entitlement.NewEstimator(table)
	if err != nil {
		return nil, err
	}

	var datasets []registry.Dataset
	if opts.DatabasePath != "" {
		db, err := store.Open(opts.DatabasePath, true)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		datasets, err = LoadStore(db)
		if err != nil {
			return nil, err
		}
	} else {
		datasets, err = LoadFiles(ctx, opts.Sources)
		if err != nil {
			return nil, err
		}
	}

	reg, err := registry.Build(datasets...)
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"records":  reg.Len(),
		"suburbs":  reg.Suburbs().Len(),
		"rules":    len(cfg.Rules),
		"pathways": len(cfg.Pathways),
	}).Info("checker data loaded")

	return &Bundle{Registry: reg, Rules: cfg, Estimator: estimator}, nil
}
