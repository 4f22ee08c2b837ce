package domain

// Column names of the source table.
const (
	ColumnYear        = "Year"
	ColumnState       = "State"
	ColumnStateCode   = "state_code"
	ColumnAffectedBy  = "Affected by"
	ColumnPctImpacted = "Pct of Colonies Impacted"
)

// Record is one row of the bee colony table.
type Record struct {
	Year        int     `json:"year"`
	State       string  `json:"state"`
	StateCode   string  `json:"state_code"`
	AffectedBy  string  `json:"affected_by"`
	PctImpacted float64 `json:"pct_colonies_impacted"`
}

// Dataset is the immutable table loaded at startup. It is safe for concurrent
// readers because nothing mutates it after NewDataset returns.
type Dataset struct {
	records    []Record
	years      []int
	categories []string
}

// NewDataset copies records into a Dataset and indexes the distinct years and
// categories in order of first appearance.
func NewDataset(records []Record) *Dataset {
	d := &Dataset{records: make([]Record, len(records))}
	copy(d.records, records)

	seenYears := make(map[int]struct{})
	seenCategories := make(map[string]struct{})
	for _, r := range d.records {
		if _, ok := seenYears[r.Year]; !ok {
			seenYears[r.Year] = struct{}{}
			d.years = append(d.years, r.Year)
		}
		if _, ok := seenCategories[r.AffectedBy]; !ok {
			seenCategories[r.AffectedBy] = struct{}{}
			d.categories = append(d.categories, r.AffectedBy)
		}
	}
	return d
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Records returns a copy of the underlying rows.
func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Years returns the distinct years in order of first appearance.
func (d *Dataset) Years() []int {
	out := make([]int, len(d.years))
	copy(out, d.years)
	return out
}

// Categories returns the distinct "Affected by" values in order of first appearance.
func (d *Dataset) Categories() []string {
	out := make([]string, len(d.categories))
	copy(out, d.categories)
	return out
}

// Options lists the values a client may select, plus the initial selection.
type Options struct {
	Years      []int     `json:"years"`
	Categories []string  `json:"categories"`
	Default    Selection `json:"default"`
}

// Options returns the selectable years and categories. The default selection
// is the first year paired with the first category.
func (d *Dataset) Options() Options {
	opts := Options{
		Years:      d.Years(),
		Categories: d.Categories(),
	}
	if len(d.years) > 0 {
		opts.Default.Year = d.years[0]
	}
	if len(d.categories) > 0 {
		opts.Default.Categories = NewCategorySet(d.categories[0])
	}
	return opts
}
