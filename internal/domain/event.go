package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// ViewEvent summarizes one computed selection for downstream consumers.
// It carries counts and headline values, not the full views.
type ViewEvent struct {
	Year       int       `json:"year"`
	Categories []string  `json:"affected_by"`
	YearLabel  string    `json:"year_label"`
	States     int       `json:"states"`
	LineSeries int       `json:"line_series"`
	LineYears  int       `json:"line_years"`
	TopState   string    `json:"top_state,omitempty"`
	TopValue   float64   `json:"top_value,omitempty"`
	ComputedAt time.Time `json:"computed_at"`
}

// NewViewEvent summarizes views computed for sel, stamped with the package clock.
func NewViewEvent(sel Selection, v Views) ViewEvent {
	categories := make([]string, len(sel.Categories))
	copy(categories, sel.Categories)

	event := ViewEvent{
		Year:       sel.Year,
		Categories: categories,
		YearLabel:  v.Map.YearLabel,
		States:     len(v.Map.Locations),
		LineSeries: len(v.Line.Series),
		LineYears:  len(v.Line.Years),
		ComputedAt: clock.Now().UTC(),
	}
	if len(v.Bar.Bars) > 0 {
		event.TopState = v.Bar.Bars[0].State
		event.TopValue = v.Bar.Bars[0].Value
	}
	return event
}

// Key identifies the selection, e.g. "2015|Disease,Pesticides". Category
// order does not affect the key.
func (e ViewEvent) Key() string {
	categories := make([]string, len(e.Categories))
	copy(categories, e.Categories)
	sort.Strings(categories)
	return strconv.Itoa(e.Year) + "|" + strings.Join(categories, ",")
}
