package entitlement

import (
	"errors"

	"github.com/scttee/elibilitychecker/internal/registry"
	"github.com/scttee/elibilitychecker/internal/rules"
	"github.com/scttee/elibilitychecker/internal/zones"
)

// Estimate is the likely footpath entitlement for a location.
type Estimate struct {
	ZoneLabel        string  `json:"zoneLabel"`
	LikelyHours      string  `json:"likelyHours"`
	LikelyMaxAreaSqm float64 `json:"likelyMaxAreaSqm"`
	ClearanceRule    string  `json:"clearanceRule"`
}

// Estimator maps records to estimates through a validated guidance table.
type Estimator struct {
	table *zones.Table
}

// NewEstimator validates the table so that Estimate is total over every zone.
func NewEstimator(table *zones.Table) (*Estimator, error) {
	if table == nil {
		return nil, errors.New("zone guidance is required")
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &Estimator{table: table}, nil
}

// Estimate copies the guidance for the record's footpath zone.
func (e *Estimator) Estimate(record registry.Record) Estimate {
	g, _ := e.table.Lookup(record.FootpathZone)
	return Estimate{
		ZoneLabel:        g.Label,
		LikelyHours:      g.TypicalHours,
		LikelyMaxAreaSqm: g.TypicalMaxAreaSqm,
		ClearanceRule:    g.ClearanceRule,
	}
}

// SourceNote is the provenance note of the underlying guidance.
func (e *Estimator) SourceNote() string {
	return e.table.SourceNote()
}

// Prefill returns the answers implied by choosing record as the location.
func Prefill(record registry.Record) rules.Responses {
	answers := rules.Responses{InCityLGA: rules.No, InSpecialPrecinct: rules.No}
	if record.InCityLGA {
		answers.InCityLGA = rules.Yes
	}
	if record.SpecialPrecinct != registry.NoPrecinct {
		answers.InSpecialPrecinct = rules.Yes
	}
	return answers
}
