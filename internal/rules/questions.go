package rules

import (
	"fmt"
	"strings"
)

// Question identifies one questionnaire item.
type Question string

const (
	HasExistingApproval  Question = "hasExistingApproval"
	LocationType         Question = "locationType"
	OperatorChangeOnly   Question = "operatorChangeOnly"
	ChangingLayoutOrArea Question = "changingLayoutOrArea"
	ChangingHours        Question = "changingHours"
	ServingAlcohol       Question = "servingAlcohol"
	InCityLGA            Question = "inCityLga"
	InSpecialPrecinct    Question = "inSpecialPrecinct"
	NeedClearanceHelp    Question = "needClearanceHelp"
)

// Answer is a categorical response value.
type Answer string

const (
	Yes      Answer = "yes"
	No       Answer = "no"
	NotSure  Answer = "not_sure"
	Footpath Answer = "footpath"
	Road     Answer = "road"
	Both     Answer = "both"
)

// AllQuestions lists every question key.
func AllQuestions() []Question {
	return []Question{
		HasExistingApproval,
		LocationType,
		OperatorChangeOnly,
		ChangingLayoutOrArea,
		ChangingHours,
		ServingAlcohol,
		InCityLGA,
		InSpecialPrecinct,
		NeedClearanceHelp,
	}
}

// Answers returns the values q accepts, or nil for an unknown question.
func (q Question) Answers() []Answer {
	switch q {
	case HasExistingApproval, ServingAlcohol, InCityLGA, InSpecialPrecinct:
		return []Answer{Yes, No, NotSure}
	case LocationType:
		return []Answer{Footpath, Road, Both, NotSure}
	case OperatorChangeOnly, ChangingLayoutOrArea, ChangingHours, NeedClearanceHelp:
		return []Answer{Yes, No}
	}
	return nil
}

// Valid reports whether q is a known question.
func (q Question) Valid() bool {
	return q.Answers() != nil
}

// Accepts reports whether a is one of the values q allows.
func (q Question) Accepts(a Answer) bool {
	for _, v := range q.Answers() {
		if v == a {
			return true
		}
	}
	return false
}

// ParseQuestion converts a raw key into a Question.
func ParseQuestion(value string) (Question, error) {
	q := Question(strings.TrimSpace(value))
	if !q.Valid() {
		return "", fmt.Errorf("unknown question %q", value)
	}
	return q, nil
}

// UnmarshalText rejects unknown question keys while decoding documents.
func (q *Question) UnmarshalText(text []byte) error {
	parsed, err := ParseQuestion(string(text))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// Responses is a questionnaire answer set. An empty field is unanswered.
type Responses struct {
	HasExistingApproval  Answer `json:"hasExistingApproval,omitempty" yaml:"hasExistingApproval,omitempty"`
	LocationType         Answer `json:"locationType,omitempty" yaml:"locationType,omitempty"`
	OperatorChangeOnly   Answer `json:"operatorChangeOnly,omitempty" yaml:"operatorChangeOnly,omitempty"`
	ChangingLayoutOrArea Answer `json:"changingLayoutOrArea,omitempty" yaml:"changingLayoutOrArea,omitempty"`
	ChangingHours        Answer `json:"changingHours,omitempty" yaml:"changingHours,omitempty"`
	ServingAlcohol       Answer `json:"servingAlcohol,omitempty" yaml:"servingAlcohol,omitempty"`
	InCityLGA            Answer `json:"inCityLga,omitempty" yaml:"inCityLga,omitempty"`
	InSpecialPrecinct    Answer `json:"inSpecialPrecinct,omitempty" yaml:"inSpecialPrecinct,omitempty"`
	NeedClearanceHelp    Answer `json:"needClearanceHelp,omitempty" yaml:"needClearanceHelp,omitempty"`
}

// Get returns the answer recorded for q and whether one is present.
func (r Responses) Get(q Question) (Answer, bool) {
	var a Answer
	switch q {
	case HasExistingApproval:
		a = r.HasExistingApproval
	case LocationType:
		a = r.LocationType
	case OperatorChangeOnly:
		a = r.OperatorChangeOnly
	case ChangingLayoutOrArea:
		a = r.ChangingLayoutOrArea
	case ChangingHours:
		a = r.ChangingHours
	case ServingAlcohol:
		a = r.ServingAlcohol
	case InCityLGA:
		a = r.InCityLGA
	case InSpecialPrecinct:
		a = r.InSpecialPrecinct
	case NeedClearanceHelp:
		a = r.NeedClearanceHelp
	}
	return a, a != ""
}

// Set records a for q. Unknown questions are ignored.
func (r *Responses) Set(q Question, a Answer) {
	switch q {
	case HasExistingApproval:
		r.HasExistingApproval = a
	case LocationType:
		r.LocationType = a
	case OperatorChangeOnly:
		r.OperatorChangeOnly = a
	case ChangingLayoutOrArea:
		r.ChangingLayoutOrArea = a
	case ChangingHours:
		r.ChangingHours = a
	case ServingAlcohol:
		r.ServingAlcohol = a
	case InCityLGA:
		r.InCityLGA = a
	case InSpecialPrecinct:
		r.InSpecialPrecinct = a
	case NeedClearanceHelp:
		r.NeedClearanceHelp = a
	}
}

// Merge copies every answered field of other over r.
func (r Responses) Merge(other Responses) Responses {
	for _, q := range AllQuestions() {
		if a, ok := other.Get(q); ok {
			r.Set(q, a)
		}
	}
	return r
}

// Validate rejects answers outside a question's options.
func (r Responses) Validate() error {
	for _, q := range AllQuestions() {
		a, ok := r.Get(q)
		if !ok {
			continue
		}
		if !q.Accepts(a) {
			return fmt.Errorf("%s: unsupported answer %q", q, a)
		}
	}
	return nil
}

// Option is one selectable answer for a question.
type Option struct {
	Value Answer `json:"value"`
	Label string `json:"label"`
}

// Prompt describes a question as presented to the applicant.
type Prompt struct {
	Key      Question `json:"key"`
	Title    string   `json:"title"`
	Options  []Option `json:"options"`
	FollowUp bool     `json:"followUp,omitempty"`
	Prefill  bool     `json:"prefill,omitempty"`
}

var yesNo = []Option{{Yes, "Yes"}, {No, "No"}}

var yesNoUnsure = []Option{{Yes, "Yes"}, {No, "No"}, {NotSure, "Not sure"}}

// Questions returns the questionnaire in presentation order.
func Questions() []Prompt {
	return []Prompt{
		{
			Key:   HasExistingApproval,
			Title: "Do you already have an outdoor dining approval with City of Sydney?",
			Options: []Option{
				{No, "No, this is a new application"},
				{Yes, "Yes, we already have approval"},
				{NotSure, "Not sure"},
			},
		},
		{
			Key:   LocationType,
			Title: "Where will your outdoor dining be?",
			Options: []Option{
				{Footpath, "Footpath / public land"},
				{Road, "Car parking space on street"},
				{Both, "Both"},
				{NotSure, "Not sure"},
			},
		},
		{Key: ServingAlcohol, Title: "Will you serve alcohol outdoors?", Options: yesNoUnsure},
		{Key: NeedClearanceHelp, Title: "Do you need help understanding pedestrian clearances?", Options: yesNo},
		{Key: InCityLGA, Title: "Is your business inside the City of Sydney council area?", Options: yesNoUnsure, Prefill: true},
		{Key: InSpecialPrecinct, Title: "Is your business in The Rocks, Darling Harbour or Barangaroo?", Options: yesNoUnsure, Prefill: true},
		{Key: OperatorChangeOnly, Title: "Are you changing operator only?", Options: yesNo, FollowUp: true},
		{Key: ChangingLayoutOrArea, Title: "Are you changing layout or increasing area?", Options: yesNo, FollowUp: true},
		{Key: ChangingHours, Title: "Are you changing hours?", Options: yesNo, FollowUp: true},
	}
}

// Required lists the questions that must be answered given the answers so
// far. Follow-up questions only apply to applicants holding an approval.
func Required(answers Responses) []Question {
	var out []Question
	for _, p := range Questions() {
		if p.FollowUp && answers.HasExistingApproval != Yes {
			continue
		}
		out = append(out, p.Key)
	}
	return out
}

// Missing lists required questions without an answer.
func Missing(answers Responses) []Question {
	var out []Question
	for _, q := range Required(answers) {
		if _, ok := answers.Get(q); !ok {
			out = append(out, q)
		}
	}
	return out
}
