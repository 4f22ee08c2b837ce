package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRecords_Clean(t *testing.T) {
	issues := ValidateRecords([]Record{
		{Year: 2015, State: "Ohio", StateCode: "OH", AffectedBy: testPesticides, PctImpacted: 10},
		{Year: 2015, State: "Texas", StateCode: "TX", AffectedBy: testPesticides, PctImpacted: 100},
	})

	assert.Empty(t, issues)
	assert.False(t, HasErrors(issues))
}

func TestValidateRecords_Errors(t *testing.T) {
	tests := []struct {
		name    string
		record  Record
		check   string
		message string
	}{
		{"non-positive year", Record{Year: 0, State: "Ohio", StateCode: "OH", AffectedBy: testDisease}, CheckField, "year 0"},
		{"empty state", Record{Year: 2015, StateCode: "OH", AffectedBy: testDisease}, CheckField, "state is empty"},
		{"empty category", Record{Year: 2015, State: "Ohio", StateCode: "OH"}, CheckField, "affected_by is empty"},
		{"lowercase code", Record{Year: 2015, State: "Ohio", StateCode: "oh", AffectedBy: testDisease}, CheckStateCode, "state_code"},
		{"pct above 100", Record{Year: 2015, State: "Ohio", StateCode: "OH", AffectedBy: testDisease, PctImpacted: 101}, CheckField, "outside [0, 100]"},
		{"negative pct", Record{Year: 2015, State: "Ohio", StateCode: "OH", AffectedBy: testDisease, PctImpacted: -1}, CheckField, "outside [0, 100]"},
		{"missing pct", Record{Year: 2015, State: "Ohio", StateCode: "OH", AffectedBy: testDisease, PctImpacted: math.NaN()}, CheckField, "pct is missing"},
		{"infinite pct", Record{Year: 2015, State: "Ohio", StateCode: "OH", AffectedBy: testDisease, PctImpacted: math.Inf(1)}, CheckField, "outside [0, 100]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := ValidateRecords([]Record{tt.record})
			require.Len(t, issues, 1)
			assert.Equal(t, SeverityError, issues[0].Severity)
			assert.Equal(t, 1, issues[0].Row)
			assert.Equal(t, tt.check, issues[0].Check)
			assert.Contains(t, issues[0].Message, tt.message)
			assert.True(t, HasErrors(issues))
		})
	}
}

func TestValidateRecords_StateCodeConflict(t *testing.T) {
	issues := ValidateRecords([]Record{
		{Year: 2015, State: "Ohio", StateCode: "OH", AffectedBy: testDisease, PctImpacted: 1},
		{Year: 2016, State: "Ohio", StateCode: "OK", AffectedBy: testDisease, PctImpacted: 1},
	})

	require.Len(t, issues, 1)
	assert.Equal(t, 2, issues[0].Row)
	assert.Equal(t, CheckStateCode, issues[0].Check)
	assert.Contains(t, issues[0].Message, `"Ohio"`)
	assert.Equal(t, `row 2 error: state "Ohio" has code "OK", row 1 has "OH"`, issues[0].String())
}

func TestValidateRecords_DuplicatesAreNotes(t *testing.T) {
	issues := ValidateRecords([]Record{
		{Year: 2015, State: "Ohio", StateCode: "OH", AffectedBy: testDisease, PctImpacted: 1},
		{Year: 2015, State: "Ohio", StateCode: "OH", AffectedBy: testDisease, PctImpacted: 3},
	})

	require.Len(t, issues, 1)
	assert.Equal(t, SeverityNote, issues[0].Severity)
	assert.Equal(t, CheckDuplicate, issues[0].Check)
	assert.Zero(t, issues[0].Row)
	assert.False(t, HasErrors(issues))
}
