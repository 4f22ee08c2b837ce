package render

import (
	"bytes"
	"testing"

	"github.com/couchcryptid/bee-colony-dashboard/internal/domain"
	"github.com/couchcryptid/bee-colony-dashboard/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func sampleViews() domain.Views {
	d := domain.NewDataset([]domain.Record{
		{Year: 2015, State: "Ohio", StateCode: "OH", AffectedBy: "Disease", PctImpacted: 12},
		{Year: 2015, State: "Texas", StateCode: "TX", AffectedBy: "Disease", PctImpacted: 30},
		{Year: 2016, State: "Ohio", StateCode: "OH", AffectedBy: "Disease", PctImpacted: 18},
		{Year: 2017, State: "Texas", StateCode: "TX", AffectedBy: "Disease", PctImpacted: 21},
	})
	return domain.ComputeViews(d, domain.NewSelection(2015, "Disease"))
}

func TestRender_PNG(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	r := NewRenderer(640, 400, metrics)
	views := sampleViews()

	for _, kind := range []string{KindBar, KindLine, KindPie} {
		t.Run(kind, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, r.Render(kind, views, &buf))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic), "output is not a PNG")
			assert.InDelta(t, 1, testutil.ToFloat64(metrics.ChartsRendered.WithLabelValues(kind)), 0)
		})
	}
}

func TestRender_SingleYearLine(t *testing.T) {
	d := domain.NewDataset([]domain.Record{
		{Year: 2019, State: "Maine", StateCode: "ME", AffectedBy: "Other", PctImpacted: 4},
	})
	views := domain.ComputeViews(d, domain.NewSelection(2019, "Other"))

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(640, 400, observability.NewMetricsForTesting()).Render(KindLine, views, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestRender_NoData(t *testing.T) {
	r := NewRenderer(640, 400, observability.NewMetricsForTesting())
	empty := domain.ComputeViews(domain.NewDataset(nil), domain.NewSelection(2015, "Disease"))

	for _, kind := range []string{KindBar, KindLine, KindPie} {
		var buf bytes.Buffer
		require.ErrorIs(t, r.Render(kind, empty, &buf), ErrNoData, kind)
		assert.Zero(t, buf.Len())
	}
}

func TestRender_PieAllZero(t *testing.T) {
	d := domain.NewDataset([]domain.Record{
		{Year: 2015, State: "Ohio", StateCode: "OH", AffectedBy: "Disease", PctImpacted: 0},
	})
	views := domain.ComputeViews(d, domain.NewSelection(2015, "Disease"))

	var buf bytes.Buffer
	require.ErrorIs(t, NewRenderer(640, 400, observability.NewMetricsForTesting()).Render(KindPie, views, &buf), ErrNoData)
}

func TestRender_UnknownKind(t *testing.T) {
	var buf bytes.Buffer
	err := NewRenderer(640, 400, observability.NewMetricsForTesting()).Render("map", sampleViews(), &buf)
	require.ErrorIs(t, err, ErrUnknownChart)
}

func TestAxisMax(t *testing.T) {
	assert.InDelta(t, 10.0, axisMax(0), 0)
	assert.InDelta(t, 10.0, axisMax(9.5), 0)
	assert.InDelta(t, 40.0, axisMax(33.3), 0)
	assert.InDelta(t, 100.0, axisMax(100), 0)
}

func TestBarWidth(t *testing.T) {
	assert.Equal(t, 60, barWidth(800, 1))
	assert.Equal(t, 28, barWidth(800, 12))
	assert.Equal(t, 4, barWidth(100, 50))
}
