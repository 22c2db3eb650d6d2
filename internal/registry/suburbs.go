package registry

import (
	"fmt"
	"strings"

	"github.com/scttee/elibilitychecker/internal/match"
)

// PlaceholderStreet stands in for the street when a query names only a suburb.
const PlaceholderStreet = "Street address not provided"

// SuburbDirectory supports lookups for any street inside a known suburb.
// Records are synthesized per query rather than stored.
type SuburbDirectory struct {
	entries []SuburbEntry
	folded  []string
}

func (d *SuburbDirectory) add(entries SuburbDataset) error {
	for i, entry := range entries {
		name := strings.TrimSpace(entry.Suburb)
		if name == "" {
			return fmt.Errorf("row %d: suburb is required", i)
		}
		if !entry.FootpathZone.Valid() {
			return fmt.Errorf("suburb %q: unknown footpath zone %q", name, entry.FootpathZone)
		}
		if !entry.SpecialPrecinct.Valid() {
			return fmt.Errorf("suburb %q: unknown precinct %q", name, entry.SpecialPrecinct)
		}
		folded := match.Fold(name)
		for _, existing := range d.folded {
			if existing == folded {
				return fmt.Errorf("%w: suburb %s listed twice", ErrDuplicateID, name)
			}
		}
		d.entries = append(d.entries, entry)
		d.folded = append(d.folded, folded)
	}
	return nil
}

// Len is the number of suburbs in the directory.
func (d *SuburbDirectory) Len() int {
	return len(d.entries)
}

// Entries returns a copy of the directory in load order.
func (d *SuburbDirectory) Entries() []SuburbEntry {
	out := make([]SuburbEntry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Search splits the query at its last comma into street and suburb parts.
// Without a comma the whole query filters suburbs and the street is
// PlaceholderStreet. Every suburb whose name contains the suburb part yields
// one record carrying the suburb's zone and precinct. A non-positive limit
// uses DefaultSuburbLimit.
func (d *SuburbDirectory) Search(query string, limit int) []Record {
	out := []Record{}
	if d == nil {
		return out
	}
	q := match.SplitLocationQuery(query)
	if q.Suburb == "" {
		return out
	}
	street := PlaceholderStreet
	if q.HasStreet {
		street = q.Street
	}
	limit = limitOr(limit, DefaultSuburbLimit)
	for i, entry := range d.entries {
		if len(out) >= limit {
			break
		}
		if !strings.Contains(d.folded[i], q.Suburb) {
			continue
		}
		out = append(out, Record{
			ID:              match.Slugify(street + "-" + entry.Suburb),
			StreetAddress:   street,
			Suburb:          entry.Suburb,
			Postcode:        entry.Postcode,
			InCityLGA:       entry.InCityLGA,
			SpecialPrecinct: entry.SpecialPrecinct,
			FootpathZone:    entry.FootpathZone,
			SourceType:      StreetRegister,
		})
	}
	return out
}
