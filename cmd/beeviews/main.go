// Command beeviews inspects the bee colony survey from the terminal: list the
// selectable options, print the views for a selection, check data integrity,
// export the table to Parquet, or render a chart to PNG.
//
// Usage:
//
//	beeviews options --data assets/intro_bees.csv
//	beeviews views --year 2015 --affected-by Pesticides --affected-by Disease
//	beeviews validate --data s3://bees/intro_bees.parquet
//	beeviews export --out intro_bees.parquet
//	beeviews chart bar --year 2016 --out bar.png
package main

import (
	"errors"
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// errValidation is returned by validate so the exit code reflects failures
// already printed to the report.
var errValidation = errors.New("validation failed")
