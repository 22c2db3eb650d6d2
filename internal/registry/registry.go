package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/scttee/elibilitychecker/internal/match"
	"github.com/scttee/elibilitychecker/internal/zones"
)

// BusinessIDPrefix keeps business ids apart from street ids.
const BusinessIDPrefix = "biz-"

// ErrDuplicateID reports two unified records sharing an id.
var ErrDuplicateID = errors.New("duplicate record id")

// Dataset is one raw register. The concrete variants are StreetDataset,
// BusinessDataset and SuburbDataset.
type Dataset interface {
	datasetName() string
}

// StreetDataset is a street register.
type StreetDataset []StreetEntry

// BusinessDataset is a business register.
type BusinessDataset []BusinessEntry

// SuburbDataset lists suburbs without street data.
type SuburbDataset []SuburbEntry

func (StreetDataset) datasetName() string   { return "street register" }
func (BusinessDataset) datasetName() string { return "business register" }
func (SuburbDataset) datasetName() string   { return "suburb directory" }

// Registry is the unified, read-only collection of location records.
type Registry struct {
	records    []Record
	haystacks  []string
	byID       map[string]int
	directory  *SuburbDirectory
	streets    int
	businesses int
}

// Build resolves every dataset into unified records. Business zones come
// from a suburb index over all street datasets, where later street rows
// override earlier ones for the same suburb, and default to local.
func Build(datasets ...Dataset) (*Registry, error) {
	zoneBySuburb := make(map[string]zones.Zone)
	for _, ds := range datasets {
		streets, ok := ds.(StreetDataset)
		if !ok {
			continue
		}
		for _, entry := range streets {
			zoneBySuburb[entry.Suburb] = entry.FootpathZone
		}
	}

	reg := &Registry{
		byID:      make(map[string]int),
		directory: &SuburbDirectory{},
	}
	for _, ds := range datasets {
		switch v := ds.(type) {
		case StreetDataset:
			for i, entry := range v {
				if err := reg.add(streetRecord(entry)); err != nil {
					return nil, fmt.Errorf("%s row %d: %w", v.datasetName(), i, err)
				}
				reg.streets++
			}
		case BusinessDataset:
			for i, entry := range v {
				if err := reg.add(businessRecord(entry, zoneBySuburb)); err != nil {
					return nil, fmt.Errorf("%s row %d: %w", v.datasetName(), i, err)
				}
				reg.businesses++
			}
		case SuburbDataset:
			if err := reg.directory.add(v); err != nil {
				return nil, fmt.Errorf("%s: %w", v.datasetName(), err)
			}
		case nil:
			return nil, errors.New("nil dataset")
		default:
			return nil, fmt.Errorf("unsupported dataset %s", ds.datasetName())
		}
	}
	return reg, nil
}

func streetRecord(entry StreetEntry) Record {
	return Record{
		ID:              entry.ID,
		StreetAddress:   entry.StreetAddress,
		Suburb:          entry.Suburb,
		Postcode:        entry.Postcode,
		InCityLGA:       entry.InCityLGA,
		SpecialPrecinct: entry.SpecialPrecinct,
		FootpathZone:    entry.FootpathZone,
		SourceType:      StreetRegister,
	}
}

func businessRecord(entry BusinessEntry, zoneBySuburb map[string]zones.Zone) Record {
	zone, ok := zoneBySuburb[entry.Suburb]
	if !ok {
		zone = zones.Local
	}
	id := ""
	if strings.TrimSpace(entry.ID) != "" {
		id = BusinessIDPrefix + entry.ID
	}
	return Record{
		ID:              id,
		StreetAddress:   entry.StreetAddress,
		Suburb:          entry.Suburb,
		Postcode:        entry.Postcode,
		InCityLGA:       entry.InCityLGA,
		SpecialPrecinct: entry.SpecialPrecinct,
		FootpathZone:    zone,
		SourceType:      BusinessRegister,
		BusinessName:    entry.BusinessName,
	}
}

func (r *Registry) add(rec Record) error {
	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("record id is required")
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	if _, ok := r.byID[rec.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, rec.ID)
	}
	r.byID[rec.ID] = len(r.records)
	r.records = append(r.records, rec)
	r.haystacks = append(r.haystacks, match.Haystack(rec.haystack()...))
	return nil
}

// Len is the number of unified records.
func (r *Registry) Len() int {
	return len(r.records)
}

// Records returns a copy of every unified record in load order.
func (r *Registry) Records() []Record {
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Lookup finds a unified record by id.
func (r *Registry) Lookup(id string) (Record, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return Record{}, false
	}
	return r.records[idx], true
}

// Suburbs is the suburb directory loaded alongside the registers. It is
// empty, never nil, when no suburb dataset was supplied.
func (r *Registry) Suburbs() *SuburbDirectory {
	return r.directory
}
