package zones

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Zone classifies a street location for footpath dining purposes.
type Zone string

const (
	Local      Zone = "local"
	HighStreet Zone = "high_street"
	CityCentre Zone = "city_centre"
	Special    Zone = "special"
)

// ErrIncompleteGuidance reports a guidance document that does not cover every zone.
var ErrIncompleteGuidance = errors.New("zone guidance incomplete")

// Zones lists every enumerated zone in display order.
func Zones() []Zone {
	return []Zone{Local, HighStreet, CityCentre, Special}
}

// Valid reports whether z is one of the enumerated zones.
func (z Zone) Valid() bool {
	switch z {
	case Local, HighStreet, CityCentre, Special:
		return true
	}
	return false
}

// ParseZone converts a raw string into a Zone.
func ParseZone(value string) (Zone, error) {
	z := Zone(strings.TrimSpace(value))
	if !z.Valid() {
		return "", fmt.Errorf("unknown footpath zone %q", value)
	}
	return z, nil
}

// Guidance holds the typical operating parameters for a zone.
type Guidance struct {
	Label             string  `json:"label" yaml:"label"`
	TypicalHours      string  `json:"typicalHours" yaml:"typicalHours"`
	TypicalMaxAreaSqm float64 `json:"typicalMaxAreaSqm" yaml:"typicalMaxAreaSqm"`
	ClearanceRule     string  `json:"clearanceRule" yaml:"clearanceRule"`
}

// Table maps every zone to its guidance. A Table returned by Load or Parse is
// total over Zones().
type Table struct {
	Note  string            `json:"sourceNote" yaml:"sourceNote"`
	Zones map[Zone]Guidance `json:"zones" yaml:"zones"`
}

// Load reads a guidance document from disk. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read zone guidance: %w", err)
	}
	return Parse(data, FormatForPath(path))
}

// Parse decodes and validates a guidance document.
func Parse(data []byte, format string) (*Table, error) {
	var table Table
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("unmarshal zone guidance: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("unmarshal zone guidance: %w", err)
		}
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &table, nil
}

// Validate rejects tables that miss a zone, carry unknown zones, or hold
// entries the estimator could not present.
func (t *Table) Validate() error {
	if t == nil {
		return errors.New("zone guidance is nil")
	}
	for z := range t.Zones {
		if !z.Valid() {
			return fmt.Errorf("unknown footpath zone %q in guidance", z)
		}
	}
	var missing []string
	for _, z := range Zones() {
		if _, ok := t.Zones[z]; !ok {
			missing = append(missing, string(z))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteGuidance, strings.Join(missing, ", "))
	}
	for _, z := range Zones() {
		g := t.Zones[z]
		if strings.TrimSpace(g.Label) == "" {
			return fmt.Errorf("zone %s: label is required", z)
		}
		if strings.TrimSpace(g.TypicalHours) == "" {
			return fmt.Errorf("zone %s: typical hours are required", z)
		}
		if g.TypicalMaxAreaSqm <= 0 {
			return fmt.Errorf("zone %s: typical max area must be positive", z)
		}
	}
	return nil
}

// Lookup returns the guidance for z.
func (t *Table) Lookup(z Zone) (Guidance, bool) {
	g, ok := t.Zones[z]
	return g, ok
}

// SourceNote is the free-text provenance note shown alongside estimates.
func (t *Table) SourceNote() string {
	return t.Note
}

// FormatForPath picks a document format from a file extension.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}
