package domain

// Chart titles and axis labels shown by the dashboard.
const (
	MapTitlePrefix = "% of Colonies Impacted VS State"
	BarTitle       = "% of Colonies Impacted in each state"
	LineTitle      = "% of Colonies Impacted VS State"
	ValueLabel     = "% of Bee Colonies"

	// PieHole is the donut hole ratio of the pie chart.
	PieHole = 0.3
)

// StateMean is one (state, state_code) group and its mean impact.
type StateMean struct {
	State     string  `json:"state"`
	StateCode string  `json:"state_code"`
	Mean      float64 `json:"mean_pct_impacted"`
}

// YearStateMean is one (year, state) group and its mean impact.
type YearStateMean struct {
	Year  int     `json:"year"`
	State string  `json:"state"`
	Mean  float64 `json:"mean_pct_impacted"`
}

// MapView is a choropleth keyed by state_code.
type MapView struct {
	Title      string        `json:"title"`
	YearLabel  string        `json:"year_label"`
	ValueLabel string        `json:"value_label"`
	Locations  []MapLocation `json:"locations"`
}

// MapLocation is one shaded state.
type MapLocation struct {
	StateCode string  `json:"state_code"`
	State     string  `json:"state"`
	Value     float64 `json:"value"`
}

// BarView holds one bar per state in descending value order.
type BarView struct {
	Title      string `json:"title"`
	ValueLabel string `json:"value_label"`
	Bars       []Bar  `json:"bars"`
}

// Bar is a single state's bar.
type Bar struct {
	State     string  `json:"state"`
	StateCode string  `json:"state_code"`
	Value     float64 `json:"value"`
}

// LineView holds one trend line per state across every year with data.
type LineView struct {
	Title      string       `json:"title"`
	ValueLabel string       `json:"value_label"`
	Years      []int        `json:"years"`
	Series     []LineSeries `json:"series"`
}

// LineSeries is the yearly trend of one state.
type LineSeries struct {
	State  string      `json:"state"`
	Points []LinePoint `json:"points"`
}

// LinePoint is a single (year, value) sample.
type LinePoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// PieView presents each state's mean as a share of the total.
type PieView struct {
	Hole   float64    `json:"hole"`
	Slices []PieSlice `json:"slices"`
}

// PieSlice is one state's share. Share is a percentage of the sum of values.
// Text combines label, percent and the literal value.
type PieSlice struct {
	State     string  `json:"state"`
	StateCode string  `json:"state_code"`
	Value     float64 `json:"value"`
	Share     float64 `json:"share"`
	Text      string  `json:"text"`
}

// Views bundles the four render-ready views of one selection.
type Views struct {
	Map  MapView  `json:"map"`
	Bar  BarView  `json:"bar"`
	Line LineView `json:"line"`
	Pie  PieView  `json:"pie"`
}

// Empty reports whether the year-scoped views have no groups.
func (v Views) Empty() bool {
	return len(v.Map.Locations) == 0
}
