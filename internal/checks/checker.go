package checks

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
)

var (
	// ErrFileNotFound is returned when the results file does not exist.
	ErrFileNotFound = errors.New("results file not found")
	// ErrViolations is returned by Report.Err when any case is outside the allowed set.
	ErrViolations = errors.New("cases finished outside allowed outcomes")
)

// Field names the status field of a case record.
type Field string

const (
	FieldBehavior      Field = "behavior"
	FieldBehaviorClose Field = "behaviorClose"
)

// Options configures a check run.
type Options struct {
	// IgnoreNonStrict accepts NON-STRICT as a passing outcome.
	IgnoreNonStrict bool
	// Group selects a results group by key. Empty means the first key.
	Group string
	// Logger receives one error line per violation. Nil discards them.
	Logger *slog.Logger
}

type caseStatus struct {
	Behavior      string `json:"behavior"`
	BehaviorClose string `json:"behaviorClose"`
}

// CheckFile loads the results file at path and checks its selected group.
// Violations are reported in the returned Report; the error is reserved for
// conditions that prevent a complete check.
func CheckFile(path string, opts Options) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("open results file: %w", err)
	}
	defer f.Close()

	doc, err := LoadDocument(f, opts.Group)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	report, err := Evaluate(doc, opts)
	if err != nil {
		return nil, err
	}
	report.File = path
	return report, nil
}

// Evaluate checks every case of doc against the allowed outcomes. All
// offending fields are collected before returning.
func Evaluate(doc *Document, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	schema, err := NewCaseSchema()
	if err != nil {
		return nil, err
	}

	allowed := AllowedOutcomes(opts.IgnoreNonStrict)
	report := &Report{
		Group:   doc.Group,
		Cases:   len(doc.Cases),
		Allowed: allowed,
		Passed:  true,
	}

	for _, c := range doc.Cases {
		if err := schema.Validate(c.Raw); err != nil {
			return nil, fmt.Errorf("case %q: invalid record: %w", c.ID, err)
		}
		var st caseStatus
		if err := json.Unmarshal(c.Raw, &st); err != nil {
			return nil, fmt.Errorf("case %q: %w", c.ID, err)
		}

		if !allowedLabel(allowed, st.Behavior) {
			report.add(Violation{Case: c.ID, Field: FieldBehavior, Status: st.Behavior})
			logger.Error("case finished with status",
				"case", c.ID, "field", string(FieldBehavior), "status", st.Behavior)
		}
		if !allowedLabel(allowed, st.BehaviorClose) {
			report.add(Violation{Case: c.ID, Field: FieldBehaviorClose, Status: st.BehaviorClose})
			logger.Error("case finished with close status",
				"case", c.ID, "field", string(FieldBehaviorClose), "status", st.BehaviorClose)
		}
	}

	return report, nil
}

func allowedLabel(allowed OutcomeSet, label string) bool {
	o, _ := ParseOutcome(label)
	return allowed.Contains(o)
}
