package api

import (
	"github.com/scttee/elibilitychecker/internal/entitlement"
	"github.com/scttee/elibilitychecker/internal/registry"
	"github.com/scttee/elibilitychecker/internal/rules"
)

// ConfigResponse describes the loaded rule set and register coverage.
type ConfigResponse struct {
	SourceSummary  string             `json:"sourceSummary"`
	SourceLinks    []rules.SourceLink `json:"sourceLinks"`
	Pathways       map[string]string  `json:"pathways"`
	GuidanceSource string             `json:"guidanceSourceNote"`
	Coverage       registry.Coverage  `json:"coverage"`
}

// QuestionsResponse lists the questionnaire and which keys the given answers
// still require.
type QuestionsResponse struct {
	Questions []rules.Prompt   `json:"questions"`
	Required  []rules.Question `json:"required"`
	Missing   []rules.Question `json:"missing"`
}

// LookupResponse holds the records matching one query.
type LookupResponse struct {
	Query   string            `json:"query"`
	Source  string            `json:"source,omitempty"`
	Results []registry.Record `json:"results"`
}

// EstimateResponse pairs a record with its zone estimate and the answers a
// UI should seed from it.
type EstimateResponse struct {
	Record     registry.Record      `json:"record"`
	Estimate   entitlement.Estimate `json:"estimate"`
	SourceNote string               `json:"sourceNote"`
	Prefill    rules.Responses      `json:"prefill"`
}

// EvaluateRequest carries questionnaire answers. When RecordID names a
// registry record, its prefilled answers apply unless answered explicitly.
type EvaluateRequest struct {
	Answers  rules.Responses `json:"answers"`
	RecordID string          `json:"recordId,omitempty"`
}

// EvaluateResponse is the recommended pathway for the submitted answers.
type EvaluateResponse struct {
	Result       rules.Result    `json:"result"`
	Answers      rules.Responses `json:"answers"`
	ProcessingMs int64           `json:"processingMs"`
}

// MissingAnswersResponse is returned with 422 when required answers are absent.
type MissingAnswersResponse struct {
	Error   string           `json:"error"`
	Missing []rules.Question `json:"missing"`
}
