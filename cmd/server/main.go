package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/scttee/elibilitychecker/internal/api"
	"github.com/scttee/elibilitychecker/internal/catalog"
	"github.com/scttee/elibilitychecker/internal/config"
	"github.com/scttee/elibilitychecker/internal/metrics"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.FromEnv()
	if err != nil {
		logrus.Fatalf("read configuration: %v", err)
	}
	logrus.SetLevel(cfg.LogLevel)

	bundle, err := catalog.Load(context.Background(), cfg.CatalogOptions())
	if err != nil {
		logrus.Fatalf("load checker data: %v", err)
	}

	server, err := api.NewServer(api.Config{
		Bundle:         bundle,
		AllowedOrigins: cfg.AllowedOrigins,
		SearchLimit:    cfg.SearchLimit,
		Metrics:        metrics.New(),
	})
	if err != nil {
		logrus.Fatalf("create server: %v", err)
	}

	router, err := server.Router()
	if err != nil {
		logrus.Fatalf("configure router: %v", err)
	}

	logrus.Infof("starting eligibility checker on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}
