package pipeline

import (
	"time"

	"github.com/couchcryptid/quake-analytics-service/internal/analytics"
	"github.com/couchcryptid/quake-analytics-service/internal/domain"
)

// Snapshot is everything the dashboard renders for one refresh.
type Snapshot struct {
	ID          string                `json:"id"`
	FetchedAt   time.Time             `json:"fetched_at"`
	Filter      domain.QueryFilter    `json:"filter"`
	Events      domain.EventTable     `json:"events"` // newest first
	Diagnostics []domain.Diagnostic   `json:"diagnostics"`
	Summary     analytics.Summary     `json:"summary"`
	Magnitude   analytics.Description `json:"magnitude_stats"`
	Depth       analytics.Description `json:"depth_stats"`
	Histogram   []analytics.Bin       `json:"magnitude_histogram"`
	Timeline    []analytics.Point     `json:"timeline"`
	Markers     []analytics.Marker    `json:"markers"`
}

func buildSnapshot(id string, fetchedAt time.Time, filter domain.QueryFilter, table domain.EventTable, diags []domain.Diagnostic, bins int) Snapshot {
	sorted := domain.NewEventTable(analytics.SortByTime(table.Records, true))

	return Snapshot{
		ID:          id,
		FetchedAt:   fetchedAt,
		Filter:      filter,
		Events:      sorted,
		Diagnostics: diags,
		Summary:     analytics.Summarize(sorted),
		Magnitude:   analytics.Describe(sorted.Magnitudes()),
		Depth:       analytics.Describe(sorted.Depths()),
		Histogram:   analytics.Histogram(sorted.Magnitudes(), bins),
		Timeline:    analytics.Timeline(sorted.Records),
		Markers:     analytics.Markers(sorted.Records),
	}
}
