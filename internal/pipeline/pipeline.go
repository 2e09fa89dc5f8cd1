package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/couchcryptid/quake-analytics-service/internal/analytics"
	"github.com/couchcryptid/quake-analytics-service/internal/domain"
	"github.com/couchcryptid/quake-analytics-service/internal/observability"
	"github.com/google/uuid"
)

// CatalogFetcher retrieves a catalog payload. It never fails; problems are
// reported to sink and an empty payload is returned.
type CatalogFetcher interface {
	Fetch(ctx context.Context, filter domain.QueryFilter, sink domain.DiagnosticSink) domain.RawCatalogPayload
}

// Dashboard runs fetch-normalize-analyze cycles. Each Refresh is
// independent; nothing but the readiness flag outlives a call.
type Dashboard struct {
	fetcher CatalogFetcher
	logger  *slog.Logger
	metrics *observability.Metrics
	bins    int
	ready   atomic.Bool
}

// New creates a Dashboard. histogramBins controls the magnitude histogram.
func New(f CatalogFetcher, logger *slog.Logger, metrics *observability.Metrics, histogramBins int) *Dashboard {
	return &Dashboard{
		fetcher: f,
		logger:  logger,
		metrics: metrics,
		bins:    histogramBins,
	}
}

// CheckReadiness returns nil once a refresh has completed.
func (d *Dashboard) CheckReadiness(_ context.Context) error {
	if !d.ready.Load() {
		return errors.New("dashboard has not completed a refresh yet")
	}
	return nil
}

// Ready reports whether a refresh has completed.
func (d *Dashboard) Ready() bool {
	return d.ready.Load()
}

// Refresh fetches the catalog for filter and builds a Snapshot. A failed
// fetch still yields a Snapshot: empty events plus the diagnostic.
func (d *Dashboard) Refresh(ctx context.Context, filter domain.QueryFilter) Snapshot {
	var diags domain.DiagnosticLog
	payload := d.fetcher.Fetch(ctx, filter, &diags)

	table := domain.Normalize(&payload)
	d.observeTable(table)

	snap := buildSnapshot(uuid.NewString(), domain.Now(), filter, table, diags.Entries(), d.bins)

	d.metrics.Refreshes.Inc()
	d.metrics.SnapshotEvents.Set(float64(table.Len()))
	d.ready.Store(true)

	d.logger.Info("dashboard refreshed",
		"snapshot_id", snap.ID,
		"min_magnitude", filter.MinMagnitude,
		"limit", filter.Limit,
		"events", table.Len(),
		"diagnostics", len(snap.Diagnostics),
	)
	for _, diag := range snap.Diagnostics {
		d.logger.Warn("refresh diagnostic", "snapshot_id", snap.ID, "kind", diag.Kind, "message", diag.Message)
	}
	return snap
}

// observeTable records normalization volume and per-column gaps.
func (d *Dashboard) observeTable(table domain.EventTable) {
	d.metrics.EventsNormalized.Add(float64(table.Len()))
	for _, c := range analytics.Coverage(table) {
		if c.Absent > 0 {
			d.metrics.AbsentFields.WithLabelValues(c.Column).Add(float64(c.Absent))
		}
	}
}
