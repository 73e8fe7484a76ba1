package checks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutcome(t *testing.T) {
	tests := []struct {
		label string
		want  Outcome
		ok    bool
	}{
		{"OK", OutcomeOK, true},
		{"NON-STRICT", OutcomeNonStrict, true},
		{"INFORMATIONAL", OutcomeInformational, true},
		{"UNIMPLEMENTED", OutcomeUnimplemented, true},
		{"FAIL", OutcomeFail, true},
		{"ok", OutcomeUnknown, false},
		{"NON_STRICT", OutcomeUnknown, false},
		{"", OutcomeUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := ParseOutcome(tt.label)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.label, got.String())
			}
		})
	}
}

func TestAllowedOutcomes(t *testing.T) {
	strict := AllowedOutcomes(false)
	assert.Equal(t, []Outcome{OutcomeOK, OutcomeInformational}, strict.Outcomes())
	assert.False(t, strict.Contains(OutcomeNonStrict))

	lenient := AllowedOutcomes(true)
	assert.Equal(t, []Outcome{OutcomeOK, OutcomeNonStrict, OutcomeInformational}, lenient.Outcomes())

	for _, s := range []OutcomeSet{strict, lenient} {
		assert.False(t, s.Contains(OutcomeFail))
		assert.False(t, s.Contains(OutcomeUnimplemented))
		assert.False(t, s.Contains(OutcomeUnknown))
	}
}

func TestOutcomeSet_WithUnknownIsNoop(t *testing.T) {
	s := NewOutcomeSet(OutcomeOK).With(OutcomeUnknown)
	assert.Equal(t, NewOutcomeSet(OutcomeOK), s)
	assert.Equal(t, "{OK}", s.String())
}

func TestOutcomeSet_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(AllowedOutcomes(true))
	require.NoError(t, err)
	assert.JSONEq(t, `["OK","NON-STRICT","INFORMATIONAL"]`, string(data))

	data, err = json.Marshal(OutcomeSet(0))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}
