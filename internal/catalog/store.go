package catalog

import (
	"fmt"

	"github.com/scttee/elibilitychecker/internal/registry"
	"github.com/scttee/elibilitychecker/internal/store"
	"github.com/scttee/elibilitychecker/internal/zones"
)

// LoadStore reads every register from the catalog database.
func LoadStore(db *store.Database) ([]registry.Dataset, error) {
	streetRows, err := db.ListStreets()
	if err != nil {
		return nil, err
	}
	businessRows, err := db.ListBusinesses()
	if err != nil {
		return nil, err
	}
	suburbRows, err := db.ListSuburbs()
	if err != nil {
		return nil, err
	}

	streets := make(registry.StreetDataset, 0, len(streetRows))
	for _, row := range streetRows {
		streets = append(streets, registry.StreetEntry{
			ID:              row.RecordID,
			StreetAddress:   row.StreetAddress,
			Suburb:          row.Suburb,
			Postcode:        row.Postcode,
			InCityLGA:       row.InCityLGA,
			SpecialPrecinct: registry.Precinct(row.SpecialPrecinct),
			FootpathZone:    zones.Zone(row.FootpathZone),
		})
	}
	businesses := make(registry.BusinessDataset, 0, len(businessRows))
	for _, row := range businessRows {
		businesses = append(businesses, registry.BusinessEntry{
			ID:              row.RecordID,
			BusinessName:    row.BusinessName,
			StreetAddress:   row.StreetAddress,
			Suburb:          row.Suburb,
			Postcode:        row.Postcode,
			InCityLGA:       row.InCityLGA,
			SpecialPrecinct: registry.Precinct(row.SpecialPrecinct),
		})
	}
	suburbs := make(registry.SuburbDataset, 0, len(suburbRows))
	for _, row := range suburbRows {
		suburbs = append(suburbs, registry.SuburbEntry{
			Suburb:          row.Suburb,
			Postcode:        row.Postcode,
			InCityLGA:       row.InCityLGA,
			SpecialPrecinct: registry.Precinct(row.SpecialPrecinct),
			FootpathZone:    zones.Zone(row.FootpathZone),
		})
	}
	return []registry.Dataset{streets, businesses, suburbs}, nil
}

// SaveDatasets replaces the catalog tables with the given registers. Each
// variant replaces only its own table.
func SaveDatasets(db *store.Database, datasets ...registry.Dataset) error {
	for _, ds := range datasets {
		var err error
		switch v := ds.(type) {
		case registry.StreetDataset:
			err = db.ReplaceStreets(streetRows(v))
		case registry.BusinessDataset:
			err = db.ReplaceBusinesses(businessRows(v))
		case registry.SuburbDataset:
			err = db.ReplaceSuburbs(suburbRows(v))
		default:
			err = fmt.Errorf("unsupported dataset %T", ds)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func streetRows(entries registry.StreetDataset) []store.StreetRow {
	rows := make([]store.StreetRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, store.StreetRow{
			RecordID:        e.ID,
			StreetAddress:   e.StreetAddress,
			Suburb:          e.Suburb,
			Postcode:        e.Postcode,
			InCityLGA:       e.InCityLGA,
			SpecialPrecinct: string(e.SpecialPrecinct),
			FootpathZone:    string(e.FootpathZone),
		})
	}
	return rows
}

func businessRows(entries registry.BusinessDataset) []store.BusinessRow {
	rows := make([]store.BusinessRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, store.BusinessRow{
			RecordID:        e.ID,
			BusinessName:    e.BusinessName,
			StreetAddress:   e.StreetAddress,
			Suburb:          e.Suburb,
			Postcode:        e.Postcode,
			InCityLGA:       e.InCityLGA,
			SpecialPrecinct: string(e.SpecialPrecinct),
		})
	}
	return rows
}

func suburbRows(entries registry.SuburbDataset) []store.SuburbRow {
	rows := make([]store.SuburbRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, store.SuburbRow{
			Suburb:          e.Suburb,
			Postcode:        e.Postcode,
			InCityLGA:       e.InCityLGA,
			SpecialPrecinct: string(e.SpecialPrecinct),
			FootpathZone:    string(e.FootpathZone),
		})
	}
	return rows
}
