package rules

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every rule document validation failure.
var ErrInvalidConfig = errors.New("invalid rules config")

// Accepted is the set of answers a rule condition allows. Documents may
// spell a single value as a scalar or several as a list.
type Accepted []Answer

// Contains reports whether a is accepted.
func (a Accepted) Contains(answer Answer) bool {
	for _, v := range a {
		if v == answer {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts either "value" or ["a", "b"].
func (a *Accepted) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var many []Answer
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return err
		}
		*a = many
		return nil
	}
	var one Answer
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return err
	}
	*a = Accepted{one}
	return nil
}

// MarshalJSON writes singletons back as scalars.
func (a Accepted) MarshalJSON() ([]byte, error) {
	if len(a) == 1 {
		return json.Marshal(a[0])
	}
	return json.Marshal([]Answer(a))
}

// UnmarshalYAML accepts a scalar or a sequence.
func (a *Accepted) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var many []Answer
		if err := node.Decode(&many); err != nil {
			return err
		}
		*a = many
		return nil
	}
	var one Answer
	if err := node.Decode(&one); err != nil {
		return err
	}
	*a = Accepted{one}
	return nil
}

// Rule maps an answer pattern to a pathway and guidance fragments.
type Rule struct {
	ID           string                `json:"id" yaml:"id"`
	Priority     int                   `json:"priority" yaml:"priority"`
	When         map[Question]Accepted `json:"when" yaml:"when"`
	Pathway      string                `json:"pathway" yaml:"pathway"`
	Checklist    []string              `json:"checklist,omitempty" yaml:"checklist,omitempty"`
	NotNeededYet []string              `json:"notNeededYet,omitempty" yaml:"notNeededYet,omitempty"`
	Warnings     []string              `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	NextSteps    []string              `json:"nextSteps,omitempty" yaml:"nextSteps,omitempty"`
}

// Matches reports whether every condition of the rule holds for answers.
// A condition on an unanswered question never holds.
func (r Rule) Matches(answers Responses) bool {
	for q, accepted := range r.When {
		got, ok := answers.Get(q)
		if !ok {
			return false
		}
		if !accepted.Contains(got) {
			return false
		}
	}
	return true
}

// SourceLink is a reference shown with every result.
type SourceLink struct {
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}

// Config is the rule document. It is loaded once and never mutated.
type Config struct {
	SourceSummary       string            `json:"sourceSummary" yaml:"sourceSummary"`
	SourceLinks         []SourceLink      `json:"sourceLinks" yaml:"sourceLinks"`
	Pathways            map[string]string `json:"pathways" yaml:"pathways"`
	DefaultChecklist    []string          `json:"defaultChecklist" yaml:"defaultChecklist"`
	DefaultNotNeededYet []string          `json:"defaultNotNeededYet" yaml:"defaultNotNeededYet"`
	DefaultWarnings     []string          `json:"defaultWarnings" yaml:"defaultWarnings"`
	DefaultNextSteps    []string          `json:"defaultNextSteps" yaml:"defaultNextSteps"`
	Rules               []Rule            `json:"rules" yaml:"rules"`
}

// Load reads a rule document from disk; .yaml and .yml files are YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}
	return Parse(data, format)
}

// Parse decodes and validates a rule document. Tolerated problems, such as a
// rule naming an undefined pathway, are logged rather than returned.
func Parse(data []byte, format string) (*Config, error) {
	var cfg Config
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal rules: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal rules: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if undefined := cfg.UndefinedPathways(); len(undefined) > 0 {
		logrus.WithField("pathways", undefined).Warn("rules reference undefined pathways")
	}
	if !cfg.HasUnconditionalRule() {
		logrus.Warn("rules config has no unconditional rule; unmatched answers use the built-in fallback")
	}
	return &cfg, nil
}

// Validate checks rule ids and conditions.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	seen := make(map[string]struct{}, len(c.Rules))
	for i, rule := range c.Rules {
		id := strings.TrimSpace(rule.ID)
		if id == "" {
			return fmt.Errorf("%w: rule %d has no id", ErrInvalidConfig, i)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate rule id %q", ErrInvalidConfig, id)
		}
		seen[id] = struct{}{}
		if strings.TrimSpace(rule.Pathway) == "" {
			return fmt.Errorf("%w: rule %q has no pathway", ErrInvalidConfig, id)
		}
		for q, accepted := range rule.When {
			if !q.Valid() {
				return fmt.Errorf("%w: rule %q: unknown question %q", ErrInvalidConfig, id, q)
			}
			if len(accepted) == 0 {
				return fmt.Errorf("%w: rule %q: %s accepts nothing", ErrInvalidConfig, id, q)
			}
			for _, a := range accepted {
				if !q.Accepts(a) {
					return fmt.Errorf("%w: rule %q: %s cannot be %q", ErrInvalidConfig, id, q, a)
				}
			}
		}
	}
	return nil
}

// UndefinedPathways lists pathway keys used by rules but absent from the
// label table, sorted.
func (c *Config) UndefinedPathways() []string {
	set := make(map[string]struct{})
	for _, rule := range c.Rules {
		if _, ok := c.Pathways[rule.Pathway]; !ok {
			set[rule.Pathway] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// HasUnconditionalRule reports whether some rule has an empty condition.
func (c *Config) HasUnconditionalRule() bool {
	for _, rule := range c.Rules {
		if len(rule.When) == 0 {
			return true
		}
	}
	return false
}
