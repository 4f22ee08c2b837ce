// Package dashboard serves view computations over the loaded bee colony table.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/bee-colony-dashboard/internal/domain"
	"github.com/couchcryptid/bee-colony-dashboard/internal/observability"
)

// ErrNotReady is returned until a dataset has been loaded.
var ErrNotReady = errors.New("dataset not loaded")

// Publisher emits a summary event for each computed view.
type Publisher interface {
	Publish(ctx context.Context, event domain.ViewEvent) error
}

// Service answers option and view queries against an immutable dataset.
// The dataset is swapped atomically so requests never see a partial load.
type Service struct {
	dataset   atomic.Pointer[domain.Dataset]
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Service. publisher may be nil to disable view events.
func New(publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// SetDataset installs d as the table all later queries read.
func (s *Service) SetDataset(d *domain.Dataset) {
	s.dataset.Store(d)
	s.metrics.DatasetRecords.Set(float64(d.Len()))
}

// Dataset returns the loaded table or ErrNotReady.
func (s *Service) Dataset() (*domain.Dataset, error) {
	d := s.dataset.Load()
	if d == nil {
		return nil, ErrNotReady
	}
	return d, nil
}

// CheckReadiness returns nil once a dataset is loaded.
func (s *Service) CheckReadiness(_ context.Context) error {
	_, err := s.Dataset()
	return err
}

// Options returns the selectable years and categories.
func (s *Service) Options() (domain.Options, error) {
	d, err := s.Dataset()
	if err != nil {
		return domain.Options{}, err
	}
	return d.Options(), nil
}

// ComputeViews derives all views for sel and publishes a view event.
// Publish failures are logged and counted but never fail the query.
func (s *Service) ComputeViews(ctx context.Context, sel domain.Selection) (domain.Views, error) {
	d, err := s.Dataset()
	if err != nil {
		return domain.Views{}, err
	}

	start := time.Now()
	views := domain.ComputeViews(d, sel)
	s.metrics.QueryDuration.Observe(time.Since(start).Seconds())
	s.metrics.QueriesTotal.Inc()
	if views.Empty() {
		s.metrics.EmptyResults.Inc()
		s.logger.Debug("selection matched no rows", "year", sel.Year, "affected_by", []string(sel.Categories))
	}

	s.publish(ctx, sel, views)
	return views, nil
}

func (s *Service) publish(ctx context.Context, sel domain.Selection, views domain.Views) {
	if s.publisher == nil {
		return
	}
	event := domain.NewViewEvent(sel, views)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.metrics.PublishErrors.Inc()
		s.logger.Warn("publish view event failed", "error", err, "key", event.Key())
		return
	}
	s.metrics.ViewsPublished.Inc()
}
