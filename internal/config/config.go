// Package config reads the checker's runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/scttee/elibilitychecker/internal/catalog"
)

const (
	DefaultPort        = "2000"
	DefaultSearchLimit = 10
)

// DefaultAllowedOrigins are the local UI dev servers.
var DefaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

// Config holds every setting the server reads at boot.
type Config struct {
	Port           string
	RulesPath      string
	GuidancePath   string
	StreetsPath    string
	BusinessesPath string
	SuburbsPath    string
	DatasetDBPath  string
	AllowedOrigins []string
	LogLevel       logrus.Level
	SearchLimit    int
}

// LoadDotEnv loads .env files into the process environment. A missing file
// is not an error; the environment is used as is.
func LoadDotEnv(paths ...string) {
	if err := godotenv.Load(paths...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logrus.Debug("no .env file found, using process environment")
			return
		}
		logrus.WithError(err).Warn("load .env")
	}
}

// FromEnv reads the process environment.
func FromEnv() (Config, error) {
	return Parse(os.Getenv)
}

// Parse builds a Config from getenv, applying defaults for unset values.
func Parse(getenv func(string) string) (Config, error) {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	cfg := Config{
		Port:           get("PORT"),
		RulesPath:      get("RULES_PATH"),
		GuidancePath:   get("GUIDANCE_PATH"),
		StreetsPath:    get("STREETS_PATH"),
		BusinessesPath: get("BUSINESSES_PATH"),
		SuburbsPath:    get("SUBURBS_PATH"),
		DatasetDBPath:  get("DATASET_DB_PATH"),
		AllowedOrigins: DefaultAllowedOrigins,
		LogLevel:       logrus.InfoLevel,
		SearchLimit:    DefaultSearchLimit,
	}
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("PORT %q is not a number", cfg.Port)
	}

	if origins := get("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = nil
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" && origin != "*" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	if level := get("LOG_LEVEL"); level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = parsed
	}

	if limit := get("SEARCH_LIMIT"); limit != "" {
		v, err := strconv.Atoi(limit)
		if err != nil || v <= 0 {
			return Config{}, fmt.Errorf("SEARCH_LIMIT %q must be a positive number", limit)
		}
		cfg.SearchLimit = v
	}
	return cfg, nil
}

// CatalogOptions maps the document paths onto loader options.
func (c Config) CatalogOptions() catalog.Options {
	return catalog.Options{
		RulesPath:    c.RulesPath,
		GuidancePath: c.GuidancePath,
		Sources: catalog.Sources{
			Streets:    c.StreetsPath,
			Businesses: c.BusinessesPath,
			Suburbs:    c.SuburbsPath,
		},
		DatabasePath: c.DatasetDBPath,
	}
}
