// Package dataset loads the bee colony table from CSV or Parquet, stored
// locally or in S3.
package dataset

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/couchcryptid/bee-colony-dashboard/internal/domain"
)

// ObjectFetcher retrieves a whole object from remote storage.
type ObjectFetcher interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
}

// Loader reads the dataset once at startup.
type Loader struct {
	fetcher ObjectFetcher
	s3opts  S3Options
	logger  *slog.Logger
}

// NewLoader creates a Loader. The S3 client is only built when an s3:// path
// is loaded.
func NewLoader(s3opts S3Options, logger *slog.Logger) *Loader {
	return &Loader{s3opts: s3opts, logger: logger}
}

// WithFetcher overrides the object fetcher used for s3:// paths.
func (l *Loader) WithFetcher(f ObjectFetcher) *Loader {
	l.fetcher = f
	return l
}

// Load reads and parses the table at p. Parquet is selected by the .parquet
// extension; anything else is parsed as CSV.
func (l *Loader) Load(ctx context.Context, p string) (*domain.Dataset, error) {
	data, err := l.read(ctx, p)
	if err != nil {
		return nil, err
	}

	var records []domain.Record
	format := formatOf(p)
	switch format {
	case "parquet":
		records, err = ParseParquet(data)
	default:
		records, err = ParseCSV(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", p, err)
	}

	d := domain.NewDataset(records)
	l.warnIssues(p, domain.ValidateRecords(records))
	l.logger.Info("dataset loaded",
		"path", p,
		"format", format,
		"records", d.Len(),
		"years", len(d.Years()),
		"categories", len(d.Categories()),
	)
	return d, nil
}

// warnIssues logs integrity errors without failing the load; the views
// still compute over rows that break them.
func (l *Loader) warnIssues(p string, issues []domain.Issue) {
	var errs []string
	for _, i := range issues {
		if i.Severity == domain.SeverityError {
			errs = append(errs, i.String())
		}
	}
	if len(errs) == 0 {
		return
	}
	l.logger.Warn("dataset has integrity errors", "path", p, "errors", len(errs), "first", errs[0])
}

func (l *Loader) read(ctx context.Context, p string) ([]byte, error) {
	if !IsS3URI(p) {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read dataset: %w", err)
		}
		return data, nil
	}

	bucket, key, err := ParseS3URI(p)
	if err != nil {
		return nil, err
	}
	if l.fetcher == nil {
		f, err := NewS3Fetcher(ctx, l.s3opts)
		if err != nil {
			return nil, err
		}
		l.fetcher = f
	}
	return l.fetcher.Fetch(ctx, bucket, key)
}

func formatOf(p string) string {
	if strings.EqualFold(path.Ext(p), ".parquet") {
		return "parquet"
	}
	return "csv"
}
