package registry

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/scttee/elibilitychecker/data"
	"github.com/scttee/elibilitychecker/internal/match"
	"github.com/scttee/elibilitychecker/internal/zones"
)

func decodeBundled(t *testing.T, name string, out any) {
	t.Helper()
	raw, err := data.FS.ReadFile(name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode %s: %v", name, err)
	}
}

func bundledRegistry(t *testing.T) *Registry {
	t.Helper()
	var streets StreetDataset
	var businesses BusinessDataset
	var suburbs SuburbDataset
	decodeBundled(t, data.StreetsFile, &streets)
	decodeBundled(t, data.BusinessesFile, &businesses)
	decodeBundled(t, data.SuburbsFile, &suburbs)
	reg, err := Build(streets, businesses, suburbs)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return reg
}

func TestBuildNormalizesEachSource(t *testing.T) {
	reg, err := Build(
		StreetDataset{
			{ID: "s1", StreetAddress: "1 Pitt Street", Suburb: "Sydney", Postcode: "2000", InCityLGA: true, FootpathZone: zones.CityCentre},
			{ID: "s2", StreetAddress: "9 Crown Street", Suburb: "Surry Hills", Postcode: "2010", InCityLGA: true, FootpathZone: zones.Local},
			{ID: "s3", StreetAddress: "300 Crown Street", Suburb: "Surry Hills", Postcode: "2010", InCityLGA: true, FootpathZone: zones.HighStreet},
		},
		BusinessDataset{
			{ID: "1", BusinessName: "Pitt Espresso", StreetAddress: "3 Pitt Street", Suburb: "Sydney", Postcode: "2000", InCityLGA: true},
			{ID: "2", BusinessName: "Crown Bakes", StreetAddress: "302 Crown Street", Suburb: "Surry Hills", Postcode: "2010", InCityLGA: true},
			{ID: "3", BusinessName: "Far Cafe", StreetAddress: "1 Main Road", Suburb: "Elsewhere", Postcode: "2999"},
		},
	)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	tests := []struct {
		id     string
		zone   zones.Zone
		source SourceType
	}{
		{"s1", zones.CityCentre, StreetRegister},
		{"biz-1", zones.CityCentre, BusinessRegister},
		{"biz-2", zones.HighStreet, BusinessRegister},
		{"biz-3", zones.Local, BusinessRegister},
	}
	for _, tc := range tests {
		t.Run(tc.id, func(t *testing.T) {
			rec, ok := reg.Lookup(tc.id)
			if !ok {
				t.Fatalf("record %s missing", tc.id)
			}
			if rec.FootpathZone != tc.zone {
				t.Fatalf("expected zone %s got %s", tc.zone, rec.FootpathZone)
			}
			if rec.SourceType != tc.source {
				t.Fatalf("expected source %s got %s", tc.source, rec.SourceType)
			}
		})
	}
	if _, ok := reg.Lookup("1"); ok {
		t.Fatalf("business ids must be prefixed")
	}
	if reg.Len() != 6 {
		t.Fatalf("expected 6 records got %d", reg.Len())
	}
}

func TestBuildRejectsDuplicateIDs(t *testing.T) {
	_, err := Build(
		StreetDataset{{ID: "biz-7", Suburb: "Glebe", FootpathZone: zones.Local}},
		BusinessDataset{{ID: "7", Suburb: "Glebe"}},
	)
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID got %v", err)
	}
}

func TestBuildRejectsInvalidRows(t *testing.T) {
	tests := []struct {
		name string
		ds   Dataset
	}{
		{"unknown zone", StreetDataset{{ID: "s", FootpathZone: "harbour"}}},
		{"unknown precinct", StreetDataset{{ID: "s", FootpathZone: zones.Local, SpecialPrecinct: "Circular Quay"}}},
		{"missing id", StreetDataset{{FootpathZone: zones.Local}}},
		{"missing business id", BusinessDataset{{Suburb: "Glebe"}}},
		{"duplicate suburb", SuburbDataset{{Suburb: "Glebe", FootpathZone: zones.Local}, {Suburb: "glebe", FootpathZone: zones.Local}}},
		{"suburb without zone", SuburbDataset{{Suburb: "Glebe"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Build(tc.ds); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestBundledRegistryIDsAreUnique(t *testing.T) {
	reg := bundledRegistry(t)
	seen := make(map[string]bool)
	for _, rec := range reg.Records() {
		if seen[rec.ID] {
			t.Fatalf("duplicate id %s", rec.ID)
		}
		seen[rec.ID] = true
	}
}

func TestSearchStreetsDixonStreet(t *testing.T) {
	results := bundledRegistry(t).SearchStreets("Dixon Street", 0)
	if len(results) == 0 {
		t.Fatalf("expected results for Dixon Street")
	}
	if results[0].SourceType != StreetRegister {
		t.Fatalf("expected street_register got %s", results[0].SourceType)
	}
	if results[0].Suburb != "Haymarket" {
		t.Fatalf("expected Haymarket got %s", results[0].Suburb)
	}
}

func TestSearchEmptyQueryReturnsNothing(t *testing.T) {
	reg := bundledRegistry(t)
	for _, q := range []string{"", "   ", "\t\n"} {
		if got := reg.SearchBusinesses(q, 0); got == nil || len(got) != 0 {
			t.Fatalf("query %q: expected empty slice got %v", q, got)
		}
		if got := reg.Search(q, 100); len(got) != 0 {
			t.Fatalf("query %q: expected no results got %d", q, len(got))
		}
	}
}

func TestSearchBundledQueries(t *testing.T) {
	reg := bundledRegistry(t)

	if got := reg.SearchStreets("George Street", 0); len(got) == 0 {
		t.Fatalf("expected George Street matches")
	}
	found := false
	for _, rec := range reg.SearchStreets("Barangaroo", 0) {
		if rec.Suburb == "Barangaroo" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a Barangaroo record")
	}
	biz := reg.SearchBusinesses("harbour lane", 0)
	if len(biz) != 1 || biz[0].BusinessName != "Harbour Lane Cafe" {
		t.Fatalf("expected Harbour Lane Cafe got %v", biz)
	}
	if biz[0].ID != "biz-b001" {
		t.Fatalf("expected prefixed id got %s", biz[0].ID)
	}
}

func TestSearchResultsContainQuery(t *testing.T) {
	reg := bundledRegistry(t)
	for _, q := range []string{"street", "2000", "Cafe", "crown", "oxford st", "o", "  HAYMARKET "} {
		folded := match.Fold(q)
		for _, rec := range reg.Search(q, 1000) {
			hay := match.Haystack(rec.BusinessName, rec.StreetAddress, rec.Suburb, rec.Postcode)
			if !strings.Contains(hay, folded) {
				t.Fatalf("query %q returned %s whose fields %q do not contain it", q, rec.ID, hay)
			}
		}
	}
}

func TestSearchPreservesOrderAndLimit(t *testing.T) {
	reg, err := Build(StreetDataset{
		{ID: "a", StreetAddress: "1 King Street", Suburb: "Newtown", FootpathZone: zones.HighStreet},
		{ID: "b", StreetAddress: "1 Queen Street", Suburb: "Beaconsfield", FootpathZone: zones.Local},
		{ID: "c", StreetAddress: "2 King Street", Suburb: "Newtown", FootpathZone: zones.HighStreet},
		{ID: "d", StreetAddress: "3 King Street", Suburb: "Newtown", FootpathZone: zones.HighStreet},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	got := reg.Search("king", 2)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("expected [a c] got %v", got)
	}
	if all := reg.Search("king", 0); len(all) != 3 {
		t.Fatalf("expected default limit to keep all 3, got %d", len(all))
	}
}

func TestRecordsReturnsCopy(t *testing.T) {
	reg := bundledRegistry(t)
	records := reg.Records()
	records[0].Suburb = "mutated"
	if reg.Records()[0].Suburb == "mutated" {
		t.Fatalf("registry records must not be mutable through Records")
	}
}

func TestSuburbDirectorySearch(t *testing.T) {
	dir := bundledRegistry(t).Suburbs()

	withStreet := dir.Search("12 King Street, Newtown", 0)
	if len(withStreet) != 1 {
		t.Fatalf("expected one Newtown record got %v", withStreet)
	}
	rec := withStreet[0]
	if rec.ID != "12-king-street-newtown" || rec.StreetAddress != "12 King Street" {
		t.Fatalf("unexpected synthesized record %+v", rec)
	}
	if rec.FootpathZone != zones.HighStreet || !rec.InCityLGA {
		t.Fatalf("expected Newtown zone and LGA membership, got %+v", rec)
	}

	shop := dir.Search("Shop 2, 12 King St, Newtown", 0)
	if len(shop) != 1 || shop[0].StreetAddress != "Shop 2, 12 King St" || shop[0].ID != "shop-2-12-king-st-newtown" {
		t.Fatalf("expected shop address kept in street, got %v", shop)
	}

	suburbOnly := dir.Search("surry", 0)
	if len(suburbOnly) != 1 || suburbOnly[0].StreetAddress != PlaceholderStreet {
		t.Fatalf("expected placeholder street for suburb-only query, got %v", suburbOnly)
	}

	rocks := dir.Search("1 George Street, the rocks", 0)
	if len(rocks) != 1 || rocks[0].SpecialPrecinct != TheRocks || rocks[0].FootpathZone != zones.Special {
		t.Fatalf("expected The Rocks precinct record, got %v", rocks)
	}

	for _, q := range []string{"", "   ", "12 King Street,", "12 King Street,  "} {
		if got := dir.Search(q, 0); len(got) != 0 {
			t.Fatalf("query %q: expected no results got %v", q, got)
		}
	}

	if got := dir.Search("e", 3); len(got) != 3 {
		t.Fatalf("expected limit of 3 got %d", len(got))
	}
}

func TestCoverage(t *testing.T) {
	reg := bundledRegistry(t)
	cov := reg.Coverage()
	if cov.SuburbCount <= 25 || cov.SuburbCount != len(cov.Suburbs) {
		t.Fatalf("expected broad suburb coverage, got %d", cov.SuburbCount)
	}
	for i := 1; i < len(cov.Suburbs); i++ {
		if strings.ToLower(cov.Suburbs[i-1]) > strings.ToLower(cov.Suburbs[i]) {
			t.Fatalf("suburbs not sorted: %q before %q", cov.Suburbs[i-1], cov.Suburbs[i])
		}
	}
	for _, s := range cov.Suburbs {
		if s == "Marrickville" || s == "Bondi Junction" {
			t.Fatalf("suburb %s is outside the LGA", s)
		}
	}
	streets, businesses := 0, 0
	for _, rec := range reg.Records() {
		switch rec.SourceType {
		case StreetRegister:
			streets++
		case BusinessRegister:
			businesses++
		}
	}
	if cov.StreetRecordCount != streets || cov.BusinessRecordCount != businesses {
		t.Fatalf("coverage counts %d/%d, records %d/%d", cov.StreetRecordCount, cov.BusinessRecordCount, streets, businesses)
	}
	if cov.DirectorySuburbCount != reg.Suburbs().Len() {
		t.Fatalf("directory count mismatch")
	}
}

func TestPrecinctJSON(t *testing.T) {
	out, err := json.Marshal(Record{ID: "x", FootpathZone: zones.Local})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"specialPrecinct":null`) {
		t.Fatalf("expected null precinct in %s", out)
	}
	var rec Record
	if err := json.Unmarshal([]byte(`{"id":"y","specialPrecinct":"Barangaroo","footpathZone":"special"}`), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.SpecialPrecinct != Barangaroo {
		t.Fatalf("expected Barangaroo got %q", rec.SpecialPrecinct)
	}
}
