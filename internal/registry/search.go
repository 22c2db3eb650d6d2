package registry

import "github.com/scttee/elibilitychecker/internal/match"

const (
	// DefaultLimit caps street and combined searches.
	DefaultLimit = 10
	// DefaultBusinessLimit caps business lookups.
	DefaultBusinessLimit = 6
	// DefaultSuburbLimit caps suburb directory lookups.
	DefaultSuburbLimit = 8
)

// Search returns records of any source whose business name, street, suburb
// or postcode contain the query, case-insensitively, in registry order. An
// empty query matches nothing. A non-positive limit uses DefaultLimit.
func (r *Registry) Search(query string, limit int) []Record {
	return r.search(query, limitOr(limit, DefaultLimit), "")
}

// SearchStreets is Search restricted to street register records.
func (r *Registry) SearchStreets(query string, limit int) []Record {
	return r.search(query, limitOr(limit, DefaultLimit), StreetRegister)
}

// SearchBusinesses is Search restricted to business register records.
func (r *Registry) SearchBusinesses(query string, limit int) []Record {
	return r.search(query, limitOr(limit, DefaultBusinessLimit), BusinessRegister)
}

func (r *Registry) search(query string, limit int, source SourceType) []Record {
	out := []Record{}
	folded := match.Fold(query)
	if folded == "" {
		return out
	}
	for i, rec := range r.records {
		if len(out) >= limit {
			break
		}
		if source != "" && rec.SourceType != source {
			continue
		}
		if match.Contains(r.haystacks[i], folded) {
			out = append(out, rec)
		}
	}
	return out
}

func limitOr(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}
