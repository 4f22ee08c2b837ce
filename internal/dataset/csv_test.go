package dataset

import (
	"math"
	"os"
	"strings"
	"testing"

	"github.com/couchcryptid/bee-colony-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV_Fixture(t *testing.T) {
	f, err := os.Open("testdata/bees_small.csv")
	require.NoError(t, err)
	defer f.Close()

	records, err := ParseCSV(f)
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, domain.Record{Year: 2015, State: "Ohio", StateCode: "OH", AffectedBy: "Pesticides", PctImpacted: 10}, records[0])
	assert.Equal(t, "New York", records[3].State)
	assert.Equal(t, 33.3, records[3].PctImpacted)
}

func TestParseCSV_ColumnOrderIndependent(t *testing.T) {
	input := "state_code,Pct of Colonies Impacted,Affected by,State,Year\nOH,12.5,Disease,Ohio,2017\n"

	records, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.Record{Year: 2017, State: "Ohio", StateCode: "OH", AffectedBy: "Disease", PctImpacted: 12.5}, records[0])
}

func TestParseCSV_BOMAndFloatYear(t *testing.T) {
	input := "\ufeffYear,State,state_code,Affected by,Pct of Colonies Impacted\n2018.0,Idaho,ID,Other,1\n"

	records, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 2018, records[0].Year)
}

func TestParseCSV_Errors(t *testing.T) {
	header := "Year,State,state_code,Affected by,Pct of Colonies Impacted\n"

	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"empty input", "", "missing header"},
		{"missing column", "Year,State,state_code,Affected by\n", `"Pct of Colonies Impacted"`},
		{"bad year", header + "20x5,Ohio,OH,Disease,1\n", "line 2"},
		{"fractional year", header + "2015.5,Ohio,OH,Disease,1\n", "invalid Year"},
		{"bad pct", header + "2015,Ohio,OH,Disease,lots\n", "invalid Pct of Colonies Impacted"},
		{"short row", header + "2015,Ohio\n", "missing state_code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	records, err := ParseCSV(strings.NewReader("Year,State,state_code,Affected by,Pct of Colonies Impacted\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseCSV_MissingPct(t *testing.T) {
	input := "Year,State,state_code,Affected by,Pct of Colonies Impacted\n" +
		"2015,Ohio,OH,Disease,NaN\n" +
		"2015,Ohio,OH,Disease,\n" +
		"2015,Ohio,OH,Disease,10\n"

	records, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.True(t, math.IsNaN(records[0].PctImpacted))
	assert.True(t, math.IsNaN(records[1].PctImpacted))

	views := domain.ComputeViews(domain.NewDataset(records), domain.NewSelection(2015, "Disease"))
	require.Len(t, views.Bar.Bars, 1)
	assert.Equal(t, 10.0, views.Bar.Bars[0].Value)
}
