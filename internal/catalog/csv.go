package catalog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/scttee/elibilitychecker/internal/match"
	"github.com/scttee/elibilitychecker/internal/registry"
	"github.com/scttee/elibilitychecker/internal/store"
	"github.com/scttee/elibilitychecker/internal/zones"
)

// Kind names a register that can be imported from CSV.
type Kind string

const (
	KindStreets    Kind = "streets"
	KindBusinesses Kind = "businesses"
	KindSuburbs    Kind = "suburbs"
)

// ParseKind accepts a register name as typed on a command line.
func ParseKind(value string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(value))); k {
	case KindStreets, KindBusinesses, KindSuburbs:
		return k, nil
	}
	return "", fmt.Errorf("unknown register kind %q", value)
}

// Header aliases as they appear in council exports.
var columnAliases = map[string]string{
	"id":              "id",
	"recordid":        "id",
	"streetaddress":   "streetAddress",
	"address":         "streetAddress",
	"street":          "streetAddress",
	"suburb":          "suburb",
	"locality":        "suburb",
	"postcode":        "postcode",
	"incitylga":       "inCityLga",
	"citylga":         "inCityLga",
	"specialprecinct": "specialPrecinct",
	"precinct":        "specialPrecinct",
	"footpathzone":    "footpathZone",
	"zone":            "footpathZone",
	"businessname":    "businessName",
	"name":            "businessName",
	"tradingname":     "businessName",
}

var errMissingHeader = errors.New("csv header is missing")

// ImportCSV reads a register export and replaces the matching catalog table.
// It returns the number of rows stored.
func ImportCSV(db *store.Database, kind Kind, path string) (int, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, fmt.Errorf("%s csv path is empty", kind)
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s csv: %w", kind, err)
	}
	defer file.Close()

	ds, err := ParseCSV(kind, file)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	if err := SaveDatasets(db, ds); err != nil {
		return 0, err
	}

	count := datasetLen(ds)
	if err := db.RecordImport(string(kind), path, count); err != nil {
		logrus.WithError(err).Warn("record import run")
	}
	return count, nil
}

// ParseCSV decodes a register export. Columns are found by header name, so
// their order does not matter and unknown columns are ignored.
func ParseCSV(kind Kind, r io.Reader) (registry.Dataset, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.NewReplacer("_", "", " ", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(name)))
		if canonical, ok := columnAliases[key]; ok {
			if _, seen := columns[canonical]; !seen {
				columns[canonical] = i
			}
		}
	}
	if err := requireColumns(kind, columns); err != nil {
		return nil, err
	}

	var (
		streets    registry.StreetDataset
		businesses registry.BusinessDataset
		suburbs    registry.SuburbDataset
	)
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", line, err)
		}
		field := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		if isBlank(row) {
			continue
		}

		precinct := registry.Precinct(field("specialPrecinct"))
		if !precinct.Valid() {
			return nil, fmt.Errorf("row %d: unknown precinct %q", line, precinct)
		}

		switch kind {
		case KindStreets:
			zone, err := zones.ParseZone(field("footpathZone"))
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", line, err)
			}
			id := field("id")
			if id == "" {
				id = match.Slugify(field("streetAddress") + "-" + field("suburb"))
			}
			streets = append(streets, registry.StreetEntry{
				ID:              id,
				StreetAddress:   field("streetAddress"),
				Suburb:          field("suburb"),
				Postcode:        field("postcode"),
				InCityLGA:       parseBool(field("inCityLga")),
				SpecialPrecinct: precinct,
				FootpathZone:    zone,
			})
		case KindBusinesses:
			id := field("id")
			if id == "" {
				id = match.Slugify(field("businessName") + "-" + field("streetAddress"))
			}
			businesses = append(businesses, registry.BusinessEntry{
				ID:              id,
				BusinessName:    field("businessName"),
				StreetAddress:   field("streetAddress"),
				Suburb:          field("suburb"),
				Postcode:        field("postcode"),
				InCityLGA:       parseBool(field("inCityLga")),
				SpecialPrecinct: precinct,
			})
		case KindSuburbs:
			zone, err := zones.ParseZone(field("footpathZone"))
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", line, err)
			}
			suburbs = append(suburbs, registry.SuburbEntry{
				Suburb:          field("suburb"),
				Postcode:        field("postcode"),
				InCityLGA:       parseBool(field("inCityLga")),
				SpecialPrecinct: precinct,
				FootpathZone:    zone,
			})
		}
	}

	switch kind {
	case KindStreets:
		return streets, nil
	case KindBusinesses:
		return businesses, nil
	default:
		return suburbs, nil
	}
}

func requireColumns(kind Kind, columns map[string]int) error {
	var required []string
	switch kind {
	case KindStreets:
		required = []string{"streetAddress", "suburb", "footpathZone"}
	case KindBusinesses:
		required = []string{"businessName", "streetAddress", "suburb"}
	case KindSuburbs:
		required = []string{"suburb", "footpathZone"}
	default:
		return fmt.Errorf("unknown register kind %q", kind)
	}
	var missing []string
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("csv is missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case "y", "yes", "true", "1":
		return true
	}
	return false
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func datasetLen(ds registry.Dataset) int {
	switch v := ds.(type) {
	case registry.StreetDataset:
		return len(v)
	case registry.BusinessDataset:
		return len(v)
	case registry.SuburbDataset:
		return len(v)
	}
	return 0
}
