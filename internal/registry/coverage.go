package registry

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CoverageNote qualifies how certain a matched location is.
const CoverageNote = "Specific address certainty is based on matched records in the local street/business registers."

// Coverage summarizes what the registry knows about.
type Coverage struct {
	StreetRecordCount    int      `json:"streetRecordCount"`
	BusinessRecordCount  int      `json:"businessRecordCount"`
	DirectorySuburbCount int      `json:"directorySuburbCount"`
	SuburbCount          int      `json:"suburbCount"`
	Suburbs              []string `json:"suburbs"`
	CoverageNote         string   `json:"coverageNote"`
}

// Coverage counts records per source and lists the distinct City LGA suburbs
// known from street records and the suburb directory, in English collation
// order.
func (r *Registry) Coverage() Coverage {
	seen := make(map[string]struct{})
	suburbs := []string{}
	addSuburb := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		suburbs = append(suburbs, name)
	}
	for _, rec := range r.records {
		if rec.SourceType == StreetRegister && rec.InCityLGA {
			addSuburb(rec.Suburb)
		}
	}
	for _, entry := range r.directory.entries {
		if entry.InCityLGA {
			addSuburb(entry.Suburb)
		}
	}
	collate.New(language.English).SortStrings(suburbs)

	return Coverage{
		StreetRecordCount:    r.streets,
		BusinessRecordCount:  r.businesses,
		DirectorySuburbCount: r.directory.Len(),
		SuburbCount:          len(suburbs),
		Suburbs:              suburbs,
		CoverageNote:         CoverageNote,
	}
}
