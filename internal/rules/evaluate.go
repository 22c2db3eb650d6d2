package rules

import "sort"

const (
	// FallbackPathway is recommended when no rule matches.
	FallbackPathway = "new_application"
	// FallbackRuleID is reported when no rule matches.
	FallbackRuleID = "fallback_default"
	// FallbackPathwayLabel is shown for pathway keys missing from the label table.
	FallbackPathwayLabel = "Pathway to be confirmed by council"
)

// Result is the guidance bundle for one answer set.
type Result struct {
	PathwayKey    string   `json:"pathwayKey"`
	PathwayLabel  string   `json:"pathwayLabel"`
	Checklist     []string `json:"checklist"`
	NotNeededYet  []string `json:"notNeededYet"`
	Warnings      []string `json:"warnings"`
	NextSteps     []string `json:"nextSteps"`
	MatchedRuleID string   `json:"matchedRuleId"`
}

// Evaluate selects the highest-priority rule matching answers, keeping
// document order among equal priorities, and builds its guidance bundle.
// Default lists are prepended to the rule's lists without deduplication.
// Next steps come from the rule alone, or from the defaults when nothing
// matched. Evaluate never fails.
func Evaluate(answers Responses, cfg *Config) Result {
	if cfg == nil {
		cfg = &Config{}
	}

	ordered := make([]Rule, len(cfg.Rules))
	copy(ordered, cfg.Rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	var matched *Rule
	for i := range ordered {
		if ordered[i].Matches(answers) {
			matched = &ordered[i]
			break
		}
	}

	result := Result{
		PathwayKey:    FallbackPathway,
		MatchedRuleID: FallbackRuleID,
		Checklist:     concat(cfg.DefaultChecklist, nil),
		NotNeededYet:  concat(cfg.DefaultNotNeededYet, nil),
		Warnings:      concat(cfg.DefaultWarnings, nil),
		NextSteps:     concat(cfg.DefaultNextSteps, nil),
	}
	if matched != nil {
		result.PathwayKey = matched.Pathway
		result.MatchedRuleID = matched.ID
		result.Checklist = concat(cfg.DefaultChecklist, matched.Checklist)
		result.NotNeededYet = concat(cfg.DefaultNotNeededYet, matched.NotNeededYet)
		result.Warnings = concat(cfg.DefaultWarnings, matched.Warnings)
		if matched.NextSteps != nil {
			result.NextSteps = concat(matched.NextSteps, nil)
		}
	}

	result.PathwayLabel = FallbackPathwayLabel
	if label, ok := cfg.Pathways[result.PathwayKey]; ok {
		result.PathwayLabel = label
	}
	return result
}

func concat(first, second []string) []string {
	out := make([]string, 0, len(first)+len(second))
	out = append(out, first...)
	return append(out, second...)
}
