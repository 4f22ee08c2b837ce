package domain

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// ComputeViews derives the map, bar, line and pie views for sel. It performs
// no validation: an unknown year or category simply matches no rows.
func ComputeViews(d *Dataset, sel Selection) Views {
	yearRows, categoryRows := filterRecords(d.records, sel)

	yearLabel := ""
	if len(yearRows) > 0 {
		yearLabel = strconv.Itoa(yearRows[0].Year)
	}

	byState := MeanByState(yearRows)
	return Views{
		Map:  buildMapView(byState, yearLabel),
		Bar:  buildBarView(byState),
		Line: buildLineView(MeanByYearState(categoryRows)),
		Pie:  buildPieView(byState),
	}
}

// filterRecords returns the rows matching year and categories, and the rows
// matching categories in any year.
func filterRecords(records []Record, sel Selection) (yearRows, categoryRows []Record) {
	match := sel.Categories.index()
	for _, r := range records {
		if _, ok := match[r.AffectedBy]; !ok {
			continue
		}
		categoryRows = append(categoryRows, r)
		if r.Year == sel.Year {
			yearRows = append(yearRows, r)
		}
	}
	return yearRows, categoryRows
}

// meanAcc averages the finite samples of a group. Missing (NaN) and infinite
// percentages are skipped; a group with no finite samples has no mean.
type meanAcc struct {
	sum float64
	n   int
}

func (a *meanAcc) add(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	a.sum += v
	a.n++
}

func (a meanAcc) mean() float64 { return a.sum / float64(a.n) }

// MeanByState groups rows by (state, state_code) and averages the impact
// percentage. Groups are sorted by state, then state_code. Groups whose
// percentages are all missing are omitted.
func MeanByState(rows []Record) []StateMean {
	type key struct{ state, code string }
	acc := make(map[key]meanAcc)
	for _, r := range rows {
		k := key{r.State, r.StateCode}
		a := acc[k]
		a.add(r.PctImpacted)
		acc[k] = a
	}

	out := make([]StateMean, 0, len(acc))
	for k, a := range acc {
		if a.n == 0 {
			continue
		}
		out = append(out, StateMean{State: k.state, StateCode: k.code, Mean: a.mean()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].State != out[j].State {
			return out[i].State < out[j].State
		}
		return out[i].StateCode < out[j].StateCode
	})
	return out
}

// MeanByYearState groups rows by (year, state) and averages the impact
// percentage. Groups are sorted by year, then state. Groups whose
// percentages are all missing are omitted.
func MeanByYearState(rows []Record) []YearStateMean {
	type key struct {
		year  int
		state string
	}
	acc := make(map[key]meanAcc)
	for _, r := range rows {
		k := key{r.Year, r.State}
		a := acc[k]
		a.add(r.PctImpacted)
		acc[k] = a
	}

	out := make([]YearStateMean, 0, len(acc))
	for k, a := range acc {
		if a.n == 0 {
			continue
		}
		out = append(out, YearStateMean{Year: k.year, State: k.state, Mean: a.mean()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].State < out[j].State
	})
	return out
}

func buildMapView(groups []StateMean, yearLabel string) MapView {
	locations := make([]MapLocation, 0, len(groups))
	for _, g := range groups {
		locations = append(locations, MapLocation{StateCode: g.StateCode, State: g.State, Value: g.Mean})
	}
	return MapView{
		Title:      fmt.Sprintf("%s %s", MapTitlePrefix, yearLabel),
		YearLabel:  yearLabel,
		ValueLabel: ValueLabel,
		Locations:  locations,
	}
}

// buildBarView orders bars by descending value. Groups arrive sorted by
// state, so the stable sort breaks ties alphabetically.
func buildBarView(groups []StateMean) BarView {
	bars := make([]Bar, 0, len(groups))
	for _, g := range groups {
		bars = append(bars, Bar{State: g.State, StateCode: g.StateCode, Value: g.Mean})
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Value > bars[j].Value })
	return BarView{Title: BarTitle, ValueLabel: ValueLabel, Bars: bars}
}

func buildLineView(groups []YearStateMean) LineView {
	view := LineView{
		Title:      LineTitle,
		ValueLabel: ValueLabel,
		Years:      make([]int, 0),
		Series:     make([]LineSeries, 0),
	}

	seriesIdx := make(map[string]int)
	for _, g := range groups {
		if n := len(view.Years); n == 0 || view.Years[n-1] != g.Year {
			view.Years = append(view.Years, g.Year)
		}
		i, ok := seriesIdx[g.State]
		if !ok {
			i = len(view.Series)
			seriesIdx[g.State] = i
			view.Series = append(view.Series, LineSeries{State: g.State})
		}
		view.Series[i].Points = append(view.Series[i].Points, LinePoint{Year: g.Year, Value: g.Mean})
	}

	sort.Slice(view.Series, func(i, j int) bool { return view.Series[i].State < view.Series[j].State })
	return view
}

func buildPieView(groups []StateMean) PieView {
	var total float64
	for _, g := range groups {
		total += g.Mean
	}

	slices := make([]PieSlice, 0, len(groups))
	for _, g := range groups {
		share := 0.0
		if total > 0 {
			share = g.Mean / total * 100
		}
		slices = append(slices, PieSlice{
			State:     g.State,
			StateCode: g.StateCode,
			Value:     g.Mean,
			Share:     share,
			Text:      pieText(g.State, share, g.Mean),
		})
	}
	return PieView{Hole: PieHole, Slices: slices}
}

// pieText renders label, percent and value, e.g. "Ohio 25.0% 15".
func pieText(label string, share, value float64) string {
	return fmt.Sprintf("%s %.1f%% %s", label, share, strconv.FormatFloat(value, 'f', -1, 64))
}
