package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the GORM handle for the dataset catalog.
type Database struct {
	gorm *gorm.DB
	mu   sync.Mutex
}

// Counts reports the number of rows per dataset table.
type Counts struct {
	Streets    int64 `json:"streets"`
	Businesses int64 `json:"businesses"`
	Suburbs    int64 `json:"suburbs"`
}

const insertBatchSize = 250

// Open initializes the SQLite-backed catalog at the provided path.
func Open(path string, silent bool) (*Database, error) {
	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&StreetRow{}, &BusinessRow{}, &SuburbRow{}, &ImportRun{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("enable WAL mode")
	}
	return &Database{gorm: db}, nil
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ReplaceStreets swaps the street table for rows.
func (d *Database) ReplaceStreets(rows []StreetRow) error {
	return d.replace(&StreetRow{}, rows, len(rows))
}

// ReplaceBusinesses swaps the business table for rows.
func (d *Database) ReplaceBusinesses(rows []BusinessRow) error {
	return d.replace(&BusinessRow{}, rows, len(rows))
}

// ReplaceSuburbs swaps the suburb table for rows.
func (d *Database) ReplaceSuburbs(rows []SuburbRow) error {
	return d.replace(&SuburbRow{}, rows, len(rows))
}

func (d *Database) replace(model any, rows any, count int) error {
	if d == nil {
		return errors.New("database is nil")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		// Batched to stay under SQLite's bound variable limit.
		return tx.CreateInBatches(rows, insertBatchSize).Error
	})
}

// ListStreets returns street rows in insertion order.
func (d *Database) ListStreets() ([]StreetRow, error) {
	var rows []StreetRow
	if err := d.gorm.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list streets: %w", err)
	}
	return rows, nil
}

// ListBusinesses returns business rows in insertion order.
func (d *Database) ListBusinesses() ([]BusinessRow, error) {
	var rows []BusinessRow
	if err := d.gorm.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	return rows, nil
}

// ListSuburbs returns suburb rows in insertion order.
func (d *Database) ListSuburbs() ([]SuburbRow, error) {
	var rows []SuburbRow
	if err := d.gorm.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list suburbs: %w", err)
	}
	return rows, nil
}

// Counts returns the row count of every dataset table.
func (d *Database) Counts() (Counts, error) {
	var c Counts
	if err := d.gorm.Model(&StreetRow{}).Count(&c.Streets).Error; err != nil {
		return Counts{}, err
	}
	if err := d.gorm.Model(&BusinessRow{}).Count(&c.Businesses).Error; err != nil {
		return Counts{}, err
	}
	if err := d.gorm.Model(&SuburbRow{}).Count(&c.Suburbs).Error; err != nil {
		return Counts{}, err
	}
	return c, nil
}

// RecordImport logs a completed import.
func (d *Database) RecordImport(kind, source string, rows int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Create(&ImportRun{Kind: kind, Source: source, Rows: rows}).Error
}

// ListImports returns the most recent imports first.
func (d *Database) ListImports(limit int) ([]ImportRun, error) {
	query := d.gorm.Model(&ImportRun{}).Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var runs []ImportRun
	if err := query.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
