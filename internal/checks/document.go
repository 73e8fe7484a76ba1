package checks

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrNoGroup is returned when the results document has no top-level key.
	ErrNoGroup = errors.New("no key present in results document")
	// ErrGroupNotFound is returned when an explicitly requested group is absent.
	ErrGroupNotFound = errors.New("group not found in results document")
)

// CaseRecord is one case entry of a results group, kept as raw JSON until
// it is validated.
type CaseRecord struct {
	ID  string
	Raw json.RawMessage
}

// Document is the selected group of a results file.
type Document struct {
	Group string
	Cases []CaseRecord
}

// LoadDocument decodes a results document and returns the cases of one
// group. An empty group selects the first top-level key in the order it
// appears in the input. The whole input must be well-formed JSON.
func LoadDocument(r io.Reader, group string) (*Document, error) {
	dec := json.NewDecoder(r)

	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("results document: %w", err)
	}

	var doc *Document
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, fmt.Errorf("results document: %w", err)
		}

		// A repeated key replaces the earlier group, as a decoded mapping would.
		selected := doc == nil && (group == "" || key == group)
		if selected || (doc != nil && key == doc.Group) {
			cases, err := decodeGroup(dec)
			if err != nil {
				return nil, fmt.Errorf("group %q: %w", key, err)
			}
			doc = &Document{Group: key, Cases: cases}
			continue
		}

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, fmt.Errorf("group %q: %w", key, err)
		}
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, fmt.Errorf("results document: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("results document: unexpected data after top-level object")
	}

	if doc == nil {
		if group != "" {
			return nil, fmt.Errorf("%w: %q", ErrGroupNotFound, group)
		}
		return nil, ErrNoGroup
	}
	return doc, nil
}

// decodeGroup reads a case-id -> record object. A repeated case id keeps
// its first position and takes the last value.
func decodeGroup(dec *json.Decoder) ([]CaseRecord, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var cases []CaseRecord
	index := make(map[string]int)
	for dec.More() {
		id, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("case %q: %w", id, err)
		}
		if i, ok := index[id]; ok {
			cases[i].Raw = raw
			continue
		}
		index[id] = len(cases)
		cases = append(cases, CaseRecord{ID: id, Raw: raw})
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return cases, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}
