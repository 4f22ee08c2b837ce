package domain

import (
	"fmt"
	"math"
	"regexp"
)

var stateCodeRe = regexp.MustCompile(`^[A-Z]{2}$`)

// Issue severities.
const (
	SeverityError = "error"
	SeverityNote  = "note"
)

// Checks that produce issues.
const (
	CheckField     = "field"
	CheckStateCode = "state_code"
	CheckDuplicate = "duplicate"
)

// Issue is a data integrity finding. Row is the 1-based data row, or 0 for
// findings that span rows.
type Issue struct {
	Row      int    `json:"row"`
	Check    string `json:"check"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

func (i Issue) String() string {
	if i.Row == 0 {
		return fmt.Sprintf("%s: %s", i.Severity, i.Message)
	}
	return fmt.Sprintf("row %d %s: %s", i.Row, i.Severity, i.Message)
}

// ValidateRecords checks the table invariants the views rely on:
//   - year is positive and affected_by is non-empty
//   - state_code is two uppercase letters
//   - pct is present and within [0, 100]
//   - each state maps to exactly one state_code
//
// Repeated (year, state, affected_by) keys are reported as notes since the
// quarterly survey legitimately repeats them and the views average them.
func ValidateRecords(records []Record) []Issue {
	var issues []Issue
	errorf := func(row int, check, format string, args ...any) {
		issues = append(issues, Issue{Row: row, Check: check, Severity: SeverityError, Message: fmt.Sprintf(format, args...)})
	}

	codeByState := make(map[string]string)
	firstRowByState := make(map[string]int)
	type key struct {
		year  int
		state string
		cause string
	}
	seen := make(map[key]int)
	duplicates := 0

	for i, r := range records {
		row := i + 1
		if r.Year <= 0 {
			errorf(row, CheckField, "year %d is not positive", r.Year)
		}
		if r.State == "" {
			errorf(row, CheckField, "state is empty")
		}
		if r.AffectedBy == "" {
			errorf(row, CheckField, "affected_by is empty")
		}
		if !stateCodeRe.MatchString(r.StateCode) {
			errorf(row, CheckStateCode, "state_code %q is not two uppercase letters", r.StateCode)
		}
		switch {
		case math.IsNaN(r.PctImpacted):
			errorf(row, CheckField, "pct is missing")
		case r.PctImpacted < 0 || r.PctImpacted > 100:
			errorf(row, CheckField, "pct %g outside [0, 100]", r.PctImpacted)
		}

		if code, ok := codeByState[r.State]; !ok {
			codeByState[r.State] = r.StateCode
			firstRowByState[r.State] = row
		} else if code != r.StateCode {
			errorf(row, CheckStateCode, "state %q has code %q, row %d has %q", r.State, r.StateCode, firstRowByState[r.State], code)
		}

		k := key{r.Year, r.State, r.AffectedBy}
		if _, ok := seen[k]; ok {
			duplicates++
		}
		seen[k]++
	}

	if duplicates > 0 {
		issues = append(issues, Issue{
			Check:    CheckDuplicate,
			Severity: SeverityNote,
			Message:  fmt.Sprintf("%d row(s) repeat a (year, state, affected_by) key and are averaged", duplicates),
		})
	}
	return issues
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
