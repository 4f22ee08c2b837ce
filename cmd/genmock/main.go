// Command genmock writes a deterministic synthetic bee colony survey in the
// USDA "Pct of Colonies Impacted" layout, used for assets/intro_bees.csv and
// test fixtures. A Parquet copy can be written alongside for the loader.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -csv-out assets/intro_bees.csv \
//	  -parquet-out assets/intro_bees.parquet \
//	  -seed 2015
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/couchcryptid/bee-colony-dashboard/internal/dataset"
	"github.com/couchcryptid/bee-colony-dashboard/internal/domain"
)

type state struct {
	name string
	code string
	ansi string
}

var states = []state{
	{"Alabama", "AL", "01"},
	{"Arizona", "AZ", "04"},
	{"California", "CA", "06"},
	{"Florida", "FL", "12"},
	{"Georgia", "GA", "13"},
	{"Idaho", "ID", "16"},
	{"Minnesota", "MN", "27"},
	{"New York", "NY", "36"},
	{"North Dakota", "ND", "38"},
	{"Ohio", "OH", "39"},
	{"Texas", "TX", "48"},
	{"Washington", "WA", "53"},
}

// causes pairs each "Affected by" value with its typical impact range.
var causes = []struct {
	name     string
	min, max float64
}{
	{"Disease", 0.5, 12},
	{"Other", 0.5, 10},
	{"Pesticides", 0.5, 15},
	{"Pests_excl_Varroa", 0.5, 20},
	{"Unknown", 0.5, 8},
	{"Varroa_mites", 5, 55},
}

var periods = []string{"JAN THRU MAR", "APR THRU JUN"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvOut := flag.String("csv-out", "", "output path for the CSV survey")
	parquetOut := flag.String("parquet-out", "", "optional output path for a Parquet copy")
	seed := flag.Uint64("seed", 2015, "random seed")
	firstYear := flag.Int("first-year", 2015, "first survey year")
	years := flag.Int("years", 5, "number of survey years")
	flag.Parse()

	if *csvOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -csv-out")
	}
	if *years <= 0 {
		return fmt.Errorf("-years must be positive")
	}

	rows, records := generate(rand.New(rand.NewPCG(*seed, *seed)), *firstYear, *years)

	if err := writeCSV(*csvOut, rows); err != nil {
		return err
	}
	log.Printf("csv: %d records -> %s", len(records), *csvOut)

	if *parquetOut != "" {
		if err := writeParquet(*parquetOut, records); err != nil {
			return err
		}
		log.Printf("parquet: %d records -> %s", len(records), *parquetOut)
	}

	issues := domain.ValidateRecords(records)
	if domain.HasErrors(issues) {
		return fmt.Errorf("generated data failed validation: %s", issues[0])
	}
	return nil
}

// generate returns the CSV rows (header first) and the matching records.
func generate(rng *rand.Rand, firstYear, years int) ([][]string, []domain.Record) {
	header := []string{"Program", domain.ColumnYear, "Period", domain.ColumnState, "ANSI",
		domain.ColumnAffectedBy, domain.ColumnPctImpacted, domain.ColumnStateCode}
	rows := [][]string{header}
	var records []domain.Record //nolint:prealloc // size is the product of the flags

	for y := 0; y < years; y++ {
		year := firstYear + y
		for _, period := range periods {
			for _, s := range states {
				for _, c := range causes {
					pct := math.Round((c.min+rng.Float64()*(c.max-c.min))*10) / 10
					rows = append(rows, []string{
						"SURVEY", strconv.Itoa(year), period, s.name, s.ansi,
						c.name, strconv.FormatFloat(pct, 'f', 1, 64), s.code,
					})
					records = append(records, domain.Record{
						Year: year, State: s.name, StateCode: s.code, AffectedBy: c.name, PctImpacted: pct,
					})
				}
			}
		}
	}
	return rows, records
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func writeParquet(path string, records []domain.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := dataset.WriteParquet(f, records); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
