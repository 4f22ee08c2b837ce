// Package render draws dashboard views as PNG charts.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/couchcryptid/bee-colony-dashboard/internal/domain"
	"github.com/couchcryptid/bee-colony-dashboard/internal/observability"
	"github.com/wcharczuk/go-chart/v2"
)

// Chart kinds served by the renderer. The choropleth map has no PNG form;
// clients draw it from the JSON view.
const (
	KindBar  = "bar"
	KindLine = "line"
	KindPie  = "pie"
)

var (
	// ErrNoData is returned when the selected view has nothing to draw.
	ErrNoData = errors.New("no data to render")
	// ErrUnknownChart is returned for a kind other than bar, line or pie.
	ErrUnknownChart = errors.New("unknown chart kind")
)

// IsKind reports whether kind names a chart the renderer can draw.
func IsKind(kind string) bool {
	switch kind {
	case KindBar, KindLine, KindPie:
		return true
	}
	return false
}

// Renderer draws views at a fixed canvas size.
type Renderer struct {
	width   int
	height  int
	metrics *observability.Metrics
}

// NewRenderer creates a Renderer for width x height pixel charts. metrics may
// be nil.
func NewRenderer(width, height int, metrics *observability.Metrics) *Renderer {
	return &Renderer{width: width, height: height, metrics: metrics}
}

// Render writes the PNG of the kind chart for v to w.
func (r *Renderer) Render(kind string, v domain.Views, w io.Writer) error {
	var err error
	switch kind {
	case KindBar:
		err = r.renderBar(v.Bar, w)
	case KindLine:
		err = r.renderLine(v.Line, w)
	case KindPie:
		err = r.renderPie(v.Pie, w)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChart, kind)
	}
	if err != nil {
		return err
	}
	if r.metrics != nil {
		r.metrics.ChartsRendered.WithLabelValues(kind).Inc()
	}
	return nil
}

func (r *Renderer) renderBar(view domain.BarView, w io.Writer) error {
	if len(view.Bars) == 0 {
		return ErrNoData
	}

	values := make([]chart.Value, 0, len(view.Bars))
	var maxValue float64
	for _, b := range view.Bars {
		values = append(values, chart.Value{Label: b.StateCode, Value: b.Value})
		maxValue = math.Max(maxValue, b.Value)
	}

	bw := barWidth(r.width, len(values))
	graph := chart.BarChart{
		Title:  view.Title,
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		BarWidth:   bw,
		BarSpacing: bw,
		XAxis:      chart.Style{TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Name:  view.ValueLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: axisMax(maxValue)},
		},
		Bars: values,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}

func (r *Renderer) renderLine(view domain.LineView, w io.Writer) error {
	if len(view.Series) == 0 {
		return ErrNoData
	}

	series := make([]chart.Series, 0, len(view.Series))
	var maxValue float64
	for _, s := range view.Series {
		xs := make([]float64, 0, len(s.Points))
		ys := make([]float64, 0, len(s.Points))
		for _, p := range s.Points {
			xs = append(xs, float64(p.Year))
			ys = append(ys, p.Value)
			maxValue = math.Max(maxValue, p.Value)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.State,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeWidth: 2, DotWidth: 3},
		})
	}

	ticks := make([]chart.Tick, 0, len(view.Years))
	for _, y := range view.Years {
		ticks = append(ticks, chart.Tick{Value: float64(y), Label: strconv.Itoa(y)})
	}
	// A single year would otherwise give a zero-width x range.
	first, last := float64(view.Years[0]), float64(view.Years[len(view.Years)-1])
	if first == last {
		first, last = first-1, last+1
	}

	graph := chart.Chart{
		Title:  view.Title,
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:  domain.ColumnYear,
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: first, Max: last},
		},
		YAxis: chart.YAxis{
			Name:  view.ValueLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: axisMax(maxValue)},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render line chart: %w", err)
	}
	return nil
}

func (r *Renderer) renderPie(view domain.PieView, w io.Writer) error {
	values := make([]chart.Value, 0, len(view.Slices))
	var total float64
	for _, s := range view.Slices {
		total += s.Value
		values = append(values, chart.Value{Label: s.Text, Value: s.Value})
	}
	// go-chart cannot size slices of a zero total.
	if total == 0 {
		return ErrNoData
	}

	graph := chart.PieChart{
		Width:  r.width,
		Height: r.height,
		Values: values,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render pie chart: %w", err)
	}
	return nil
}

// axisMax rounds v up to the next multiple of 10, with a floor of 10 so an
// all-zero view still has a drawable range.
func axisMax(v float64) float64 {
	return math.Max(10, math.Ceil(v/10)*10)
}

// barWidth fits n bars and their equal gaps into width, leaving room for the
// y axis labels.
func barWidth(width, n int) int {
	bw := width / (2*n + 4)
	if bw < 4 {
		return 4
	}
	if bw > 60 {
		return 60
	}
	return bw
}
