package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/bee-colony-dashboard/internal/dataset"
	"github.com/couchcryptid/bee-colony-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testData = "testdata/bees.csv"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestOptionsCommand(t *testing.T) {
	out, err := execute(t, "options", "--data", testData)
	require.NoError(t, err)

	assert.Contains(t, out, "2015, 2016")
	assert.Contains(t, out, "Pesticides, Disease, Varroa_mites")
	assert.Contains(t, out, "6 records. Default selection: 2015 / Pesticides")
}

func TestOptionsCommand_JSON(t *testing.T) {
	out, err := execute(t, "options", "--data", testData, "-o", "json")
	require.NoError(t, err)

	var got domain.Options
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []int{2015, 2016}, got.Years)
	assert.Equal(t, []string{"Pesticides", "Disease", "Varroa_mites"}, got.Categories)
	assert.Equal(t, domain.NewSelection(2015, "Pesticides"), got.Default)
}

func TestOptionsCommand_BadOutput(t *testing.T) {
	_, err := execute(t, "options", "--data", testData, "-o", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output")
}

func TestOptionsCommand_DataFromEnv(t *testing.T) {
	t.Setenv("BEEVIEWS_DATA", testData)

	out, err := execute(t, "options")
	require.NoError(t, err)
	assert.Contains(t, out, "6 records")
}

func TestViewsCommand_Text(t *testing.T) {
	out, err := execute(t, "views", "--data", testData, "--year", "2015", "--affected-by", "Pesticides")
	require.NoError(t, err)

	assert.Contains(t, out, "% of Colonies Impacted VS State 2015")
	assert.Contains(t, out, "Texas")
	assert.Contains(t, out, "30.00")
	assert.Contains(t, out, "66.7")
	assert.Contains(t, out, "(all years)")
}

func TestViewsCommand_JSONMatchesEngine(t *testing.T) {
	out, err := execute(t, "views", "--data", testData, "--year", "2015", "--affected-by", "Pesticides,Disease", "-o", "json")
	require.NoError(t, err)

	var got domain.Views
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	d, err := dataset.NewLoader(dataset.S3Options{}, slog.New(slog.DiscardHandler)).Load(t.Context(), testData)
	require.NoError(t, err)
	assert.Equal(t, domain.ComputeViews(d, domain.NewSelection(2015, "Pesticides", "Disease")), got)
}

func TestViewsCommand_EmptySelection(t *testing.T) {
	out, err := execute(t, "views", "--data", testData, "--year", "1999")
	require.NoError(t, err)
	assert.Contains(t, out, "No rows match")
}

func TestViewsCommand_BadOutput(t *testing.T) {
	_, err := execute(t, "views", "--data", testData, "-o", "yaml")
	require.Error(t, err)
}

func TestValidateCommand_Pass(t *testing.T) {
	out, err := execute(t, "validate", "--data", testData)
	require.NoError(t, err)

	assert.Contains(t, out, "Phase 1: Record integrity")
	assert.Contains(t, out, "Phase 3: View consistency")
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "1 row(s) repeat")
	assert.Contains(t, out, "All validations passed.")
}

func TestValidateCommand_Fail(t *testing.T) {
	out, err := execute(t, "validate", "--data", "testdata/bees_invalid.csv")
	require.ErrorIs(t, err, errValidation)

	assert.Contains(t, out, "FAIL (1 errors)")
	assert.Contains(t, out, "--- Phase 2: State codes ---")
	assert.Contains(t, out, `state "Ohio" has code "OK"`)
	assert.Contains(t, out, "outside [0, 100]")
	assert.Contains(t, out, "Validation FAILED.")
}

func TestExportCommand_RoundTrip(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "bees.parquet")

	out, err := execute(t, "export", "--data", testData, "--out", dst)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 6 records")

	reloaded, err := execute(t, "options", "--data", dst)
	require.NoError(t, err)
	assert.Contains(t, reloaded, "6 records. Default selection: 2015 / Pesticides")
}

func TestExportCommand_RequiresOut(t *testing.T) {
	_, err := execute(t, "export", "--data", testData)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--out")
}

func TestChartCommand(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "bar.png")

	_, err := execute(t, "chart", "bar", "--data", testData, "--year", "2015", "--out", dst, "--width", "400", "--height", "300")
	require.NoError(t, err)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestChartCommand_NoData(t *testing.T) {
	_, err := execute(t, "chart", "pie", "--data", testData, "--year", "1999", "--out", filepath.Join(t.TempDir(), "pie.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data")
}

func TestMissingDataFile(t *testing.T) {
	_, err := execute(t, "options", "--data", "testdata/absent.csv")
	require.Error(t, err)
}
