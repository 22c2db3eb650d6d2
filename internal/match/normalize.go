package match

import (
	"regexp"
	"strings"
)

var nonAlphaNumRun = regexp.MustCompile(`[^a-z0-9]+`)

// Fold trims and lowercases a query or field for substring comparison.
func Fold(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// Haystack joins searchable fields with single spaces and lowercases the
// result. Empty fields still contribute their separator so that every record
// of a given shape produces the same layout.
func Haystack(fields ...string) string {
	return strings.ToLower(strings.Join(fields, " "))
}

// Contains reports whether a folded query occurs in the haystack.
func Contains(haystack, folded string) bool {
	return folded != "" && strings.Contains(haystack, folded)
}

// Slugify lowercases input and collapses every run of non-alphanumeric
// characters into a single hyphen.
func Slugify(input string) string {
	lower := strings.ToLower(strings.TrimSpace(input))
	slug := nonAlphaNumRun.ReplaceAllString(lower, "-")
	return strings.Trim(slug, "-")
}

// LocationQuery is a free-text query split into its street and suburb parts.
type LocationQuery struct {
	Street string
	Suburb string
	// HasStreet is false when the query carried no comma, in which case the
	// whole query is the suburb filter.
	HasStreet bool
}

// SplitLocationQuery splits "Shop 2, 12 King Street, Newtown" at the last
// comma, so the street part keeps any unit or shop prefix. Both parts are
// trimmed; the suburb part is folded for matching.
func SplitLocationQuery(input string) LocationQuery {
	idx := strings.LastIndex(input, ",")
	if idx < 0 {
		return LocationQuery{Suburb: Fold(input)}
	}
	street := strings.TrimSpace(input[:idx])
	return LocationQuery{
		Street:    street,
		Suburb:    Fold(input[idx+1:]),
		HasStreet: street != "",
	}
}
