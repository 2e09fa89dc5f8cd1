package usgs

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-analytics-service/internal/domain"
	"github.com/couchcryptid/quake-analytics-service/internal/observability"
)

// Querier performs a single catalog query.
type Querier interface {
	Query(ctx context.Context, filter domain.QueryFilter) (domain.RawCatalogPayload, error)
}

// Fetcher turns query outcomes into an always-usable payload. Failures are
// reported once to the caller's DiagnosticSink and replaced by the canonical
// empty payload.
type Fetcher struct {
	querier Querier
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewFetcher wraps a Querier with diagnostics, logging, and metrics.
func NewFetcher(q Querier, logger *slog.Logger, metrics *observability.Metrics) *Fetcher {
	return &Fetcher{
		querier: q,
		logger:  logger,
		metrics: metrics,
	}
}

// Fetch never fails. The returned payload always has a non-nil Features
// slice. sink may be nil, in which case diagnostics are only logged.
func (f *Fetcher) Fetch(ctx context.Context, filter domain.QueryFilter, sink domain.DiagnosticSink) domain.RawCatalogPayload {
	start := time.Now()
	payload, err := f.querier.Query(ctx, filter)
	elapsed := time.Since(start)
	f.metrics.FetchDuration.Observe(elapsed.Seconds())

	if err != nil {
		diag := domain.DiagnosticFor(err)
		f.metrics.FetchRequests.WithLabelValues(string(diag.Kind)).Inc()
		f.logger.Warn("catalog fetch failed",
			"kind", diag.Kind,
			"min_magnitude", filter.MinMagnitude,
			"limit", filter.Limit,
			"error", err,
		)
		if sink != nil {
			sink.Report(diag)
		}
		return domain.EmptyPayload()
	}

	if payload.Features == nil {
		payload.Features = []domain.Feature{}
	}
	f.metrics.FetchRequests.WithLabelValues(outcomeSuccess).Inc()
	f.logger.Debug("catalog fetch succeeded",
		"features", len(payload.Features),
		"duration", elapsed,
	)
	return payload
}

const outcomeSuccess = "success"
