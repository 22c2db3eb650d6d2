package rules

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/scttee/elibilitychecker/data"
)

func bundledConfig(t *testing.T) *Config {
	t.Helper()
	raw, err := data.FS.ReadFile(data.RulesFile)
	if err != nil {
		t.Fatalf("read bundled rules: %v", err)
	}
	cfg, err := Parse(raw, "json")
	if err != nil {
		t.Fatalf("parse bundled rules: %v", err)
	}
	return cfg
}

var baseResponses = Responses{
	HasExistingApproval:  No,
	LocationType:         Footpath,
	OperatorChangeOnly:   No,
	ChangingLayoutOrArea: No,
	ChangingHours:        No,
	ServingAlcohol:       No,
	InCityLGA:            Yes,
	InSpecialPrecinct:    No,
	NeedClearanceHelp:    No,
}

func TestBundledScenarios(t *testing.T) {
	cfg := bundledConfig(t)

	tests := []struct {
		name        string
		answers     Responses
		pathway     string
		rule        string
		warningText string
		checklist   string
	}{
		{
			name:    "renewal without changes",
			answers: baseResponses.Merge(Responses{HasExistingApproval: Yes}),
			pathway: "renew_no_changes",
			rule:    "renew_unchanged",
		},
		{
			name:        "outside LGA wins the priority tie with roadway dining",
			answers:     baseResponses.Merge(Responses{InCityLGA: No, LocationType: Road}),
			pathway:     "other_council",
			rule:        "outside_lga",
			warningText: "outside City of Sydney",
		},
		{
			name:      "both locations use the roadway pathway",
			answers:   baseResponses.Merge(Responses{LocationType: Both}),
			pathway:   "road_reallocation",
			rule:      "road_reallocation",
			checklist: "parking lane",
		},
		{
			name:    "special precinct",
			answers: baseResponses.Merge(Responses{InSpecialPrecinct: Yes}),
			pathway: "special_precinct",
			rule:    "special_precinct",
		},
		{
			name:    "operator transfer",
			answers: baseResponses.Merge(Responses{HasExistingApproval: Yes, OperatorChangeOnly: Yes}),
			pathway: "transfer_operator",
			rule:    "operator_change",
		},
		{
			name:    "new footpath application",
			answers: baseResponses,
			pathway: "new_application",
			rule:    "new_footpath",
		},
		{
			name:    "alcohol outranks plain footpath",
			answers: baseResponses.Merge(Responses{ServingAlcohol: NotSure}),
			pathway: "new_application",
			rule:    "new_with_alcohol",
		},
		{
			name:    "unsure location falls through to the catch-all",
			answers: baseResponses.Merge(Responses{LocationType: NotSure}),
			pathway: "new_application",
			rule:    "default_new",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Evaluate(tc.answers, cfg)
			if result.PathwayKey != tc.pathway {
				t.Fatalf("expected pathway %q got %q", tc.pathway, result.PathwayKey)
			}
			if result.MatchedRuleID != tc.rule {
				t.Fatalf("expected rule %q got %q", tc.rule, result.MatchedRuleID)
			}
			if tc.warningText != "" && !strings.Contains(strings.Join(result.Warnings, " "), tc.warningText) {
				t.Fatalf("expected warnings to mention %q, got %v", tc.warningText, result.Warnings)
			}
			if tc.checklist != "" && !strings.Contains(strings.Join(result.Checklist, " "), tc.checklist) {
				t.Fatalf("expected checklist to mention %q, got %v", tc.checklist, result.Checklist)
			}
		})
	}
}

func TestEvaluatePriorityBeatsPosition(t *testing.T) {
	cfg := &Config{
		Pathways: map[string]string{"low": "Low", "high": "High"},
		Rules: []Rule{
			{ID: "first_low", Priority: 1, Pathway: "low"},
			{ID: "second_high", Priority: 5, Pathway: "high"},
		},
	}
	result := Evaluate(Responses{}, cfg)
	if result.MatchedRuleID != "second_high" {
		t.Fatalf("expected second_high got %s", result.MatchedRuleID)
	}
	if result.PathwayLabel != "High" {
		t.Fatalf("expected label High got %s", result.PathwayLabel)
	}
}

func TestEvaluateEqualPriorityKeepsDeclarationOrder(t *testing.T) {
	when := map[Question]Accepted{LocationType: {Road}}
	cfg := &Config{Rules: []Rule{
		{ID: "a", Priority: 3, Pathway: "x", When: when},
		{ID: "b", Priority: 3, Pathway: "y", When: when},
		{ID: "c", Priority: 3, Pathway: "z", When: when},
	}}
	for i := 0; i < 20; i++ {
		if got := Evaluate(Responses{LocationType: Road}, cfg).MatchedRuleID; got != "a" {
			t.Fatalf("run %d: expected a got %s", i, got)
		}
	}
}

func TestEvaluateFallbackWhenNothingMatches(t *testing.T) {
	cfg := &Config{
		Pathways:         map[string]string{"new_application": "New application"},
		DefaultChecklist: []string{"ABN"},
		DefaultWarnings:  []string{"Wait for approval"},
		DefaultNextSteps: []string{"Call council"},
		Rules: []Rule{
			{ID: "needs_road", Priority: 1, Pathway: "road", When: map[Question]Accepted{LocationType: {Road}}},
		},
	}
	result := Evaluate(Responses{LocationType: Footpath}, cfg)

	want := Result{
		PathwayKey:    FallbackPathway,
		PathwayLabel:  "New application",
		Checklist:     []string{"ABN"},
		NotNeededYet:  []string{},
		Warnings:      []string{"Wait for approval"},
		NextSteps:     []string{"Call council"},
		MatchedRuleID: FallbackRuleID,
	}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Fatalf("fallback result mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluateUnansweredConditionDoesNotMatch(t *testing.T) {
	cfg := &Config{Rules: []Rule{
		{ID: "hours", Priority: 9, Pathway: "modify", When: map[Question]Accepted{ChangingHours: {Yes, No}}},
		{ID: "catch_all", Priority: 0, Pathway: "new_application"},
	}}
	if got := Evaluate(Responses{HasExistingApproval: No}, cfg).MatchedRuleID; got != "catch_all" {
		t.Fatalf("expected catch_all got %s", got)
	}
}

func TestEvaluateUndefinedPathwayLabel(t *testing.T) {
	cfg := &Config{Rules: []Rule{{ID: "ghost", Pathway: "not_in_table"}}}
	result := Evaluate(Responses{}, cfg)
	if result.PathwayLabel != FallbackPathwayLabel {
		t.Fatalf("expected fallback label got %q", result.PathwayLabel)
	}
	if result.PathwayKey != "not_in_table" {
		t.Fatalf("expected pathway key to be kept, got %q", result.PathwayKey)
	}
}

func TestEvaluateMergesDefaultsWithoutDeduplicating(t *testing.T) {
	cfg := &Config{
		DefaultChecklist:    []string{"Site plan"},
		DefaultNotNeededYet: []string{"Drawings"},
		DefaultWarnings:     []string{"Wait"},
		DefaultNextSteps:    []string{"Default step"},
		Rules: []Rule{{
			ID:           "repeat",
			Pathway:      "new_application",
			Checklist:    []string{"Site plan", "Insurance"},
			NotNeededYet: []string{"Drawings"},
			Warnings:     []string{"Wait"},
			NextSteps:    []string{"Rule step"},
		}},
	}
	result := Evaluate(Responses{}, cfg)

	if diff := cmp.Diff([]string{"Site plan", "Site plan", "Insurance"}, result.Checklist); diff != "" {
		t.Fatalf("checklist mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Drawings", "Drawings"}, result.NotNeededYet); diff != "" {
		t.Fatalf("not needed yet mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Wait", "Wait"}, result.Warnings); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Rule step"}, result.NextSteps); diff != "" {
		t.Fatalf("next steps should replace defaults (-want +got):\n%s", diff)
	}
}

func TestEvaluateRuleWithoutNextStepsUsesDefaults(t *testing.T) {
	cfg := &Config{
		DefaultNextSteps: []string{"Default step"},
		Rules:            []Rule{{ID: "quiet", Pathway: "new_application"}},
	}
	if diff := cmp.Diff([]string{"Default step"}, Evaluate(Responses{}, cfg).NextSteps); diff != "" {
		t.Fatalf("next steps mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluateDoesNotAliasConfig(t *testing.T) {
	cfg := &Config{
		DefaultChecklist: []string{"one"},
		Rules:            []Rule{{ID: "r", Pathway: "p", Checklist: []string{"two"}, NextSteps: []string{"go"}}},
	}
	result := Evaluate(Responses{}, cfg)
	result.Checklist[0] = "mutated"
	result.NextSteps[0] = "mutated"

	again := Evaluate(Responses{}, cfg)
	if again.Checklist[0] != "one" || again.NextSteps[0] != "go" {
		t.Fatalf("evaluation results share storage with config: %v %v", again.Checklist, again.NextSteps)
	}
	if cfg.Rules[0].ID != "r" {
		t.Fatalf("config rules reordered or mutated")
	}
}

func TestEvaluateNilConfig(t *testing.T) {
	result := Evaluate(Responses{}, nil)
	if result.MatchedRuleID != FallbackRuleID || result.PathwayLabel != FallbackPathwayLabel {
		t.Fatalf("unexpected result for nil config: %+v", result)
	}
}
