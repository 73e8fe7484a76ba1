package checks

import (
	"encoding/json"
	"fmt"
)

// Violation is a single status field outside the allowed outcomes.
type Violation struct {
	Case   string `json:"case"`
	Field  Field  `json:"field"`
	Status string `json:"status"`
}

// Report is the structured result of a check run.
type Report struct {
	File       string      `json:"file,omitempty"`
	Group      string      `json:"group"`
	Cases      int         `json:"cases"`
	Allowed    OutcomeSet  `json:"allowed"`
	Passed     bool        `json:"passed"`
	Violations []Violation `json:"violations,omitempty"`
}

func (r *Report) add(v Violation) {
	r.Passed = false
	r.Violations = append(r.Violations, v)
}

// FailedCases returns the ids of cases with at least one violation, in
// document order.
func (r *Report) FailedCases() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, v := range r.Violations {
		if !seen[v.Case] {
			seen[v.Case] = true
			ids = append(ids, v.Case)
		}
	}
	return ids
}

// Summary returns a one-line human readable result.
func (r *Report) Summary() string {
	icon := "PASS"
	if !r.Passed {
		icon = "FAIL"
	}
	return fmt.Sprintf("[%s] %s — %d cases, %d failed, %d violations",
		icon, r.Group, r.Cases, len(r.FailedCases()), len(r.Violations))
}

// JSON returns the report as indented JSON.
func (r *Report) JSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Err returns an error wrapping ErrViolations when the report did not pass.
func (r *Report) Err() error {
	if r.Passed {
		return nil
	}
	return fmt.Errorf("%w: %d of %d cases in group %q",
		ErrViolations, len(r.FailedCases()), r.Cases, r.Group)
}
