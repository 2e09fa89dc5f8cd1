package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/quake-analytics-service/internal/domain"
	"github.com/couchcryptid/quake-analytics-service/internal/observability"
	"github.com/couchcryptid/quake-analytics-service/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockFetcher struct {
	payload domain.RawCatalogPayload
	diag    *domain.Diagnostic
	filters []domain.QueryFilter
}

func (m *mockFetcher) Fetch(_ context.Context, filter domain.QueryFilter, sink domain.DiagnosticSink) domain.RawCatalogPayload {
	m.filters = append(m.filters, filter)
	if m.diag != nil {
		sink.Report(*m.diag)
		return domain.EmptyPayload()
	}
	return m.payload
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMetrics() *observability.Metrics {
	// Use unregistered metrics to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

func freezeClock(t *testing.T) *clockwork.FakeClock {
	t.Helper()
	fakeClock := clockwork.NewFakeClockAt(time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC))
	domain.SetClock(fakeClock)
	t.Cleanup(func() {
		domain.SetClock(nil)
	})
	return fakeClock
}

func payloadFromJSON(t *testing.T, body string) domain.RawCatalogPayload {
	t.Helper()
	var p domain.RawCatalogPayload
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return p
}

// --- tests ---

func TestDashboard_Refresh_HappyPath(t *testing.T) {
	fakeClock := freezeClock(t)
	f := &mockFetcher{payload: payloadFromJSON(t, `{"features":[
		{"properties":{"place":"older","mag":2.5,"time":1700000000000},"geometry":{"coordinates":[1,2,3]}},
		{"properties":{"place":"newer","mag":4.5,"time":1700000600000},"geometry":{"coordinates":[4,5,7]}}
	]}`)}
	metrics := newTestMetrics()
	d := pipeline.New(f, discardLogger(), metrics, 10)

	filter := domain.QueryFilter{MinMagnitude: 2.5, Limit: 100}
	snap := d.Refresh(context.Background(), filter)

	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, fakeClock.Now(), snap.FetchedAt)
	assert.Equal(t, filter, snap.Filter)
	assert.Equal(t, []domain.QueryFilter{filter}, f.filters)
	assert.Empty(t, snap.Diagnostics)

	require.Equal(t, 2, snap.Events.Len())
	assert.Equal(t, domain.Some("newer"), snap.Events.Records[0].Place)
	assert.Equal(t, domain.Some("older"), snap.Events.Records[1].Place)

	assert.Equal(t, 2, snap.Summary.TotalEvents)
	assert.Equal(t, domain.Some(4.5), snap.Summary.MaxMagnitude)
	assert.Equal(t, domain.Some(5.0), snap.Summary.AvgDepthKM)
	assert.Equal(t, 2, snap.Magnitude.Count)
	assert.Len(t, snap.Histogram, 10)
	assert.Len(t, snap.Timeline, 2)
	assert.Len(t, snap.Markers, 2)

	assert.True(t, d.Ready())
	require.NoError(t, d.CheckReadiness(context.Background()))
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.EventsNormalized), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.SnapshotEvents), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Refreshes), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.AbsentFields.WithLabelValues(domain.ColumnFeltReports)), 0)
}

func TestDashboard_Refresh_FetchFailure(t *testing.T) {
	freezeClock(t)
	diag := domain.DiagnosticFor(&domain.FetchError{Kind: domain.FailureTimeout, Err: errors.New("deadline")})
	f := &mockFetcher{diag: &diag}
	d := pipeline.New(f, discardLogger(), newTestMetrics(), 25)

	snap := d.Refresh(context.Background(), domain.QueryFilter{MinMagnitude: 5, Limit: 50})

	require.Len(t, snap.Diagnostics, 1)
	assert.Equal(t, domain.FailureTimeout, snap.Diagnostics[0].Kind)
	assert.Equal(t, domain.ColumnNames(), snap.Events.Columns)
	assert.Equal(t, 0, snap.Events.Len())
	assert.Equal(t, 0, snap.Summary.TotalEvents)
	assert.False(t, snap.Summary.MaxMagnitude.IsPresent())
	assert.Empty(t, snap.Histogram)
	assert.Empty(t, snap.Markers)
	assert.True(t, d.Ready())
}

func TestDashboard_NotReadyBeforeRefresh(t *testing.T) {
	d := pipeline.New(&mockFetcher{}, discardLogger(), newTestMetrics(), 25)

	assert.False(t, d.Ready())
	assert.Error(t, d.CheckReadiness(context.Background()))
}

func TestDashboard_RefreshesAreIndependent(t *testing.T) {
	freezeClock(t)
	f := &mockFetcher{payload: payloadFromJSON(t, `{"features":[{"properties":{"place":"only"}}]}`)}
	d := pipeline.New(f, discardLogger(), newTestMetrics(), 25)

	first := d.Refresh(context.Background(), domain.QueryFilter{MinMagnitude: 1, Limit: 50})

	diag := domain.Diagnostic{Kind: domain.FailureHTTPStatus, Message: "HTTP error occurred: 502 Bad Gateway"}
	f.diag = &diag
	second := d.Refresh(context.Background(), domain.QueryFilter{MinMagnitude: 2, Limit: 100})

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 1, first.Events.Len())
	assert.Empty(t, first.Diagnostics)
	assert.Equal(t, 0, second.Events.Len())
	assert.Len(t, second.Diagnostics, 1)
}

func TestSnapshot_JSONShape(t *testing.T) {
	freezeClock(t)
	d := pipeline.New(&mockFetcher{payload: domain.EmptyPayload()}, discardLogger(), newTestMetrics(), 25)

	data, err := json.Marshal(d.Refresh(context.Background(), domain.QueryFilter{MinMagnitude: 2.5, Limit: 100}))
	require.NoError(t, err)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &body))
	for _, key := range []string{"id", "fetched_at", "filter", "events", "diagnostics", "summary", "magnitude_stats", "depth_stats", "magnitude_histogram", "timeline", "markers"} {
		assert.Contains(t, body, key)
	}
	assert.JSONEq(t, `[]`, string(body["diagnostics"]))
	assert.JSONEq(t, `{"columns":["place","magnitude","time","longitude","latitude","depth_km","tsunami_flag","felt_reports"],"records":[]}`, string(body["events"]))
	assert.JSONEq(t, `"2024-04-26T15:10:00Z"`, string(body["fetched_at"]))
}
