package checks

import (
	"encoding/json"
	"strings"
)

// Outcome is a behavior label reported by the conformance suite for a case.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeOK
	OutcomeNonStrict
	OutcomeInformational
	OutcomeUnimplemented
	OutcomeFail
)

var outcomeLabels = map[Outcome]string{
	OutcomeOK:            "OK",
	OutcomeNonStrict:     "NON-STRICT",
	OutcomeInformational: "INFORMATIONAL",
	OutcomeUnimplemented: "UNIMPLEMENTED",
	OutcomeFail:          "FAIL",
}

// knownOutcomes lists the vocabulary in declaration order.
var knownOutcomes = []Outcome{
	OutcomeOK,
	OutcomeNonStrict,
	OutcomeInformational,
	OutcomeUnimplemented,
	OutcomeFail,
}

func (o Outcome) String() string {
	if label, ok := outcomeLabels[o]; ok {
		return label
	}
	return "UNKNOWN"
}

// ParseOutcome maps a label to its Outcome. Labels are case-sensitive;
// anything outside the vocabulary yields OutcomeUnknown and false.
func ParseOutcome(label string) (Outcome, bool) {
	for _, o := range knownOutcomes {
		if outcomeLabels[o] == label {
			return o, true
		}
	}
	return OutcomeUnknown, false
}

// OutcomeSet is a bit set of outcomes.
type OutcomeSet uint8

// NewOutcomeSet returns a set holding the given outcomes.
func NewOutcomeSet(outcomes ...Outcome) OutcomeSet {
	var s OutcomeSet
	for _, o := range outcomes {
		s = s.With(o)
	}
	return s
}

// AllowedOutcomes returns the outcomes a passing case may report.
// NON-STRICT is only accepted when ignoreNonStrict is set.
func AllowedOutcomes(ignoreNonStrict bool) OutcomeSet {
	s := NewOutcomeSet(OutcomeOK, OutcomeInformational)
	if ignoreNonStrict {
		s = s.With(OutcomeNonStrict)
	}
	return s
}

// With returns a copy of s that also holds o. Unknown outcomes are never added.
func (s OutcomeSet) With(o Outcome) OutcomeSet {
	if o == OutcomeUnknown {
		return s
	}
	return s | 1<<uint(o)
}

// Contains reports whether o is a member of s.
func (s OutcomeSet) Contains(o Outcome) bool {
	if o == OutcomeUnknown {
		return false
	}
	return s&(1<<uint(o)) != 0
}

// Outcomes returns the members of s in vocabulary order.
func (s OutcomeSet) Outcomes() []Outcome {
	var out []Outcome
	for _, o := range knownOutcomes {
		if s.Contains(o) {
			out = append(out, o)
		}
	}
	return out
}

func (s OutcomeSet) String() string {
	var labels []string
	for _, o := range s.Outcomes() {
		labels = append(labels, o.String())
	}
	return "{" + strings.Join(labels, ", ") + "}"
}

// MarshalJSON encodes the set as a list of labels.
func (s OutcomeSet) MarshalJSON() ([]byte, error) {
	labels := []string{}
	for _, o := range s.Outcomes() {
		labels = append(labels, o.String())
	}
	return json.Marshal(labels)
}
