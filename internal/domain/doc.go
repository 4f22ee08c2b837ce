// Package domain models the USDA bee colony survey table and the dashboard
// views derived from it.
//
// # Data Source
//
// The input table is the "intro_bees" extract of the USDA NASS Honey Bee
// Colonies report. Each row is one (year, period, state, cause) observation of
// the share of a state's colonies affected by a stressor. Only five columns
// matter to the dashboard:
//
//	Year                      integer survey year, e.g. 2015
//	State                     full state name, e.g. "Ohio"
//	state_code                USPS two-letter code, e.g. "OH"
//	Affected by               stressor category, e.g. "Varroa_mites"
//	Pct of Colonies Impacted  percentage from 0 to 100
//
// Extra columns (Program, Period, ANSI) are ignored. The survey is quarterly,
// so a (year, state, cause) key normally appears several times; every
// occurrence is an independent sample and is averaged, never deduplicated.
//
// # Selections
//
// A [Selection] is one year plus a set of categories. Categories arrive from
// clients as either a bare string or a list; both decode into a [CategorySet]
// so that "Pesticides" and ["Pesticides"] are the same selection.
//
// # Views
//
// [ComputeViews] derives four views from a [Dataset] and a [Selection]:
//
//	Map   year+category rows grouped by (state, state_code), mean pct,
//	      keyed by state_code for a choropleth
//	Bar   the same groups, presented in descending mean order
//	Pie   the same groups as shares of the total
//	Line  category rows of every year grouped by (year, state), one series
//	      per state
//
// A selection that matches nothing yields empty Map, Bar and Pie views and an
// empty year label. ComputeViews never fails and never mutates the dataset.
package domain
