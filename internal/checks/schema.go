package checks

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const caseSchemaURL = "https://autobahncheck.schemas.local/case-result.schema.json"

// caseSchemaJSON describes the part of a case record the checker reads.
// Extra fields written by the suite (duration, reportfile, ...) are allowed.
const caseSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["behavior", "behaviorClose"],
  "properties": {
    "behavior": {"type": "string"},
    "behaviorClose": {"type": "string"}
  }
}`

// CaseSchema validates individual case records.
type CaseSchema struct {
	schema *jsonschema.Schema
}

// NewCaseSchema compiles the embedded case record schema.
func NewCaseSchema() (*CaseSchema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(caseSchemaURL, strings.NewReader(caseSchemaJSON)); err != nil {
		return nil, fmt.Errorf("case schema load failed: %w", err)
	}
	compiled, err := c.Compile(caseSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("case schema compile failed: %w", err)
	}
	return &CaseSchema{schema: compiled}, nil
}

// Validate checks a raw case record against the schema.
func (s *CaseSchema) Validate(raw json.RawMessage) error {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	return s.schema.Validate(payload)
}
