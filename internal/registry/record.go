package registry

import (
	"encoding/json"
	"fmt"

	"github.com/scttee/elibilitychecker/internal/zones"
)

// Precinct names a special precinct managed outside the usual council rules.
// The zero value means the location is in no special precinct.
type Precinct string

const (
	NoPrecinct     Precinct = ""
	TheRocks       Precinct = "The Rocks"
	DarlingHarbour Precinct = "Darling Harbour"
	Barangaroo     Precinct = "Barangaroo"
)

// Valid reports whether p is a known precinct or none.
func (p Precinct) Valid() bool {
	switch p {
	case NoPrecinct, TheRocks, DarlingHarbour, Barangaroo:
		return true
	}
	return false
}

// MarshalJSON writes the absence of a precinct as null.
func (p Precinct) MarshalJSON() ([]byte, error) {
	if p == NoPrecinct {
		return []byte("null"), nil
	}
	return json.Marshal(string(p))
}

// UnmarshalJSON reads null as no precinct.
func (p *Precinct) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = NoPrecinct
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*p = Precinct(s)
	return nil
}

// SourceType tags the register a unified record came from.
type SourceType string

const (
	StreetRegister   SourceType = "street_register"
	BusinessRegister SourceType = "business_register"
)

// Record is the unified location shape every dataset resolves into.
type Record struct {
	ID              string     `json:"id"`
	StreetAddress   string     `json:"streetAddress"`
	Suburb          string     `json:"suburb"`
	Postcode        string     `json:"postcode"`
	InCityLGA       bool       `json:"inCityLga"`
	SpecialPrecinct Precinct   `json:"specialPrecinct"`
	FootpathZone    zones.Zone `json:"footpathZone"`
	SourceType      SourceType `json:"sourceType"`
	BusinessName    string     `json:"businessName,omitempty"`
}

// Validate checks the enumerated fields of a record built outside the
// registry, such as one posted back by a client.
func (r Record) Validate() error {
	if !r.FootpathZone.Valid() {
		return fmt.Errorf("record %q: unknown footpath zone %q", r.ID, r.FootpathZone)
	}
	if !r.SpecialPrecinct.Valid() {
		return fmt.Errorf("record %q: unknown precinct %q", r.ID, r.SpecialPrecinct)
	}
	return nil
}

func (r Record) haystack() []string {
	return []string{r.BusinessName, r.StreetAddress, r.Suburb, r.Postcode}
}

// StreetEntry is a raw street register row. It already carries a zone.
type StreetEntry struct {
	ID              string     `json:"id" yaml:"id"`
	StreetAddress   string     `json:"streetAddress" yaml:"streetAddress"`
	Suburb          string     `json:"suburb" yaml:"suburb"`
	Postcode        string     `json:"postcode" yaml:"postcode"`
	InCityLGA       bool       `json:"inCityLga" yaml:"inCityLga"`
	SpecialPrecinct Precinct   `json:"specialPrecinct" yaml:"specialPrecinct"`
	FootpathZone    zones.Zone `json:"footpathZone" yaml:"footpathZone"`
}

// BusinessEntry is a raw business register row. Its zone is derived from
// the street register by suburb.
type BusinessEntry struct {
	ID              string   `json:"id" yaml:"id"`
	BusinessName    string   `json:"businessName" yaml:"businessName"`
	StreetAddress   string   `json:"streetAddress" yaml:"streetAddress"`
	Suburb          string   `json:"suburb" yaml:"suburb"`
	Postcode        string   `json:"postcode" yaml:"postcode"`
	InCityLGA       bool     `json:"inCityLga" yaml:"inCityLga"`
	SpecialPrecinct Precinct `json:"specialPrecinct" yaml:"specialPrecinct"`
}

// SuburbEntry describes a whole suburb without concrete street data.
type SuburbEntry struct {
	Suburb          string     `json:"suburb" yaml:"suburb"`
	Postcode        string     `json:"postcode" yaml:"postcode"`
	InCityLGA       bool       `json:"inCityLga" yaml:"inCityLga"`
	SpecialPrecinct Precinct   `json:"specialPrecinct" yaml:"specialPrecinct"`
	FootpathZone    zones.Zone `json:"footpathZone" yaml:"footpathZone"`
}
