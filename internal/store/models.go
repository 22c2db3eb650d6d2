package store

import "time"

// StreetRow is a persisted street register entry.
type StreetRow struct {
	ID              uint   `gorm:"primaryKey"`
	RecordID        string `gorm:"size:64;uniqueIndex"`
	StreetAddress   string `gorm:"size:255"`
	Suburb          string `gorm:"size:128;index"`
	Postcode        string `gorm:"size:8"`
	InCityLGA       bool
	SpecialPrecinct string `gorm:"size:64"`
	FootpathZone    string `gorm:"size:32"`
	CreatedAt       time.Time
}

// BusinessRow is a persisted business register entry. It carries no zone.
type BusinessRow struct {
	ID              uint   `gorm:"primaryKey"`
	RecordID        string `gorm:"size:64;uniqueIndex"`
	BusinessName    string `gorm:"size:255;index"`
	StreetAddress   string `gorm:"size:255"`
	Suburb          string `gorm:"size:128;index"`
	Postcode        string `gorm:"size:8"`
	InCityLGA       bool
	SpecialPrecinct string `gorm:"size:64"`
	CreatedAt       time.Time
}

// SuburbRow is a persisted suburb directory entry.
type SuburbRow struct {
	ID              uint   `gorm:"primaryKey"`
	Suburb          string `gorm:"size:128;uniqueIndex"`
	Postcode        string `gorm:"size:8"`
	InCityLGA       bool
	SpecialPrecinct string `gorm:"size:64"`
	FootpathZone    string `gorm:"size:32"`
	CreatedAt       time.Time
}

// ImportRun records one dataset import.
type ImportRun struct {
	ID        uint   `gorm:"primaryKey"`
	Kind      string `gorm:"size:32;index"`
	Source    string `gorm:"size:512"`
	Rows      int
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
