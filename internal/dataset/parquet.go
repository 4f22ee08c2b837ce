package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/couchcryptid/bee-colony-dashboard/internal/domain"
	"github.com/parquet-go/parquet-go"
)

// parquetRow is the Parquet layout of the bee colony table. Column names match
// the CSV headers so either export of the survey loads the same way.
type parquetRow struct {
	Year        int64   `parquet:"Year"`
	State       string  `parquet:"State"`
	StateCode   string  `parquet:"state_code"`
	AffectedBy  string  `parquet:"Affected by"`
	PctImpacted float64 `parquet:"Pct of Colonies Impacted"`
}

// ParseParquet reads the bee colony table from an in-memory Parquet file.
func ParseParquet(data []byte) ([]domain.Record, error) {
	// NewGenericReader panics on a malformed footer, so open the file first.
	if _, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data))); err != nil {
		return nil, fmt.Errorf("parquet: open: %w", err)
	}

	reader := parquet.NewGenericReader[parquetRow](bytes.NewReader(data))
	defer func() { _ = reader.Close() }()

	rows := make([]parquetRow, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parquet: read rows: %w", err)
	}

	records := make([]domain.Record, 0, n)
	for _, r := range rows[:n] {
		records = append(records, domain.Record{
			Year:        int(r.Year),
			State:       r.State,
			StateCode:   r.StateCode,
			AffectedBy:  r.AffectedBy,
			PctImpacted: r.PctImpacted,
		})
	}
	return records, nil
}

// WriteParquet writes records in the layout ParseParquet reads.
func WriteParquet(w io.Writer, records []domain.Record) error {
	rows := make([]parquetRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, parquetRow{
			Year:        int64(r.Year),
			State:       r.State,
			StateCode:   r.StateCode,
			AffectedBy:  r.AffectedBy,
			PctImpacted: r.PctImpacted,
		})
	}

	writer := parquet.NewGenericWriter[parquetRow](w)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("parquet: write rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("parquet: close writer: %w", err)
	}
	return nil
}
