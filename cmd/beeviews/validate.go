package main

import (
	"fmt"
	"io"
	"math"

	"github.com/couchcryptid/bee-colony-dashboard/internal/domain"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the dataset's integrity and the views computed from it.",
		Long: `Load the dataset and run each validation phase:

  Record integrity   every row has a positive year, a state, a cause and a
                     percentage within [0, 100]
  State codes        state codes are two uppercase letters and each state
                     maps to exactly one of them
  View consistency   for every year and cause, the map, bar and pie views agree,
                     bars are descending and pie shares sum to 100

Exits non-zero when any phase fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			if !runValidation(cmd.OutOrStdout(), d) {
				return errValidation
			}
			return nil
		},
	}
}

// runValidation prints the phase report for d and reports whether all passed.
func runValidation(w io.Writer, d *domain.Dataset) bool {
	fmt.Fprintln(w, "=== Bee Colony Data Validation ===")
	fmt.Fprintln(w)

	issues := domain.ValidateRecords(d.Records())
	phases := []*phase{
		phaseFromIssues("Phase 1: Record integrity", domain.CheckField, issues),
		phaseFromIssues("Phase 2: State codes", domain.CheckStateCode, issues),
		validateViewConsistency(d),
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	allPassed := true
	for _, p := range phases {
		status := green("PASS")
		if !p.passed() {
			status = red(fmt.Sprintf("FAIL (%d errors)", len(p.errors)))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records: %d across %d years and %d causes\n", d.Len(), len(d.Years()), len(d.Categories()))
	for _, i := range issues {
		if i.Severity == domain.SeverityNote {
			fmt.Fprintln(w, color.New(color.FgHiBlack).Sprint(i.String()))
		}
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return true
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return false
}

// phaseFromIssues collects the errors raised by one record check.
func phaseFromIssues(name, check string, issues []domain.Issue) *phase {
	p := &phase{name: name}
	for _, i := range issues {
		if i.Severity == domain.SeverityError && i.Check == check {
			p.errorf("%s", i)
		}
	}
	return p
}

// validateViewConsistency computes every single-cause selection and checks
// the cross-view invariants.
func validateViewConsistency(d *domain.Dataset) *phase {
	p := &phase{name: "Phase 3: View consistency"}
	for _, year := range d.Years() {
		for _, cause := range d.Categories() {
			sel := domain.NewSelection(year, cause)
			checkViews(p, sel, domain.ComputeViews(d, sel))
		}
	}
	return p
}

func checkViews(p *phase, sel domain.Selection, v domain.Views) {
	label := fmt.Sprintf("%d/%s", sel.Year, sel.Categories[0])

	n := len(v.Map.Locations)
	if len(v.Bar.Bars) != n || len(v.Pie.Slices) != n {
		p.errorf("%s: map has %d states, bar %d, pie %d", label, n, len(v.Bar.Bars), len(v.Pie.Slices))
	}
	for i := 1; i < len(v.Bar.Bars); i++ {
		if v.Bar.Bars[i].Value > v.Bar.Bars[i-1].Value {
			p.errorf("%s: bar %d (%s) exceeds bar %d", label, i+1, v.Bar.Bars[i].State, i)
		}
	}

	var total, shares float64
	for _, s := range v.Pie.Slices {
		total += s.Value
		shares += s.Share
	}
	if total > 0 && math.Abs(shares-100) > 1e-6 {
		p.errorf("%s: pie shares sum to %.6f", label, shares)
	}
	if n > 0 && v.Map.YearLabel != fmt.Sprint(sel.Year) {
		p.errorf("%s: year label %q", label, v.Map.YearLabel)
	}
}
