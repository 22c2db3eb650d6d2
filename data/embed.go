// Package data carries the default rule, guidance and register documents.
package data

import "embed"

// FS holds the bundled documents, addressed by the file names below.
//
//go:embed *.json
var FS embed.FS

const (
	RulesFile      = "rules.json"
	GuidanceFile   = "footpath_guidance.json"
	StreetsFile    = "city_locations.json"
	BusinessesFile = "business_addresses.json"
	SuburbsFile    = "city_suburbs.json"
)
