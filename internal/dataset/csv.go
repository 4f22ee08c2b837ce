package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/bee-colony-dashboard/internal/domain"
)

var requiredColumns = []string{
	domain.ColumnYear,
	domain.ColumnState,
	domain.ColumnStateCode,
	domain.ColumnAffectedBy,
	domain.ColumnPctImpacted,
}

// ParseCSV reads the bee colony table from CSV. Columns are matched by header
// name; unknown columns are ignored. Any malformed row fails the whole load.
func ParseCSV(r io.Reader) ([]domain.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("csv: missing header row")
		}
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []domain.Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		rec, err := parseRow(row, idx)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("csv: line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// columnIndex maps each required column to its position in header.
func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		// Excel exports prefix the first header with a UTF-8 BOM.
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, strconv.Quote(c))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv: missing column(s) %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func parseRow(row []string, idx map[string]int) (domain.Record, error) {
	for _, col := range requiredColumns {
		if idx[col] >= len(row) {
			return domain.Record{}, fmt.Errorf("row has %d fields, missing %s", len(row), col)
		}
	}
	field := func(col string) string { return strings.TrimSpace(row[idx[col]]) }

	year, err := parseYear(field(domain.ColumnYear))
	if err != nil {
		return domain.Record{}, err
	}
	pct, err := parsePct(field(domain.ColumnPctImpacted))
	if err != nil {
		return domain.Record{}, err
	}

	return domain.Record{
		Year:        year,
		State:       field(domain.ColumnState),
		StateCode:   field(domain.ColumnStateCode),
		AffectedBy:  field(domain.ColumnAffectedBy),
		PctImpacted: pct,
	}, nil
}

// parsePct reads the impact percentage. An empty cell is a missing value and
// becomes NaN, which the views skip when averaging.
func parsePct(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", domain.ColumnPctImpacted, s)
	}
	return f, nil
}

// parseYear accepts "2015" and float-formatted "2015.0" exports.
func parseYear(s string) (int, error) {
	if y, err := strconv.Atoi(s); err == nil {
		return y, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid %s %q", domain.ColumnYear, s)
	}
	return int(f), nil
}
