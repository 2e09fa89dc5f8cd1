package pipeline_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/quake-analytics-service/internal/adapter/usgs"
	"github.com/couchcryptid/quake-analytics-service/internal/domain"
	"github.com/couchcryptid/quake-analytics-service/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFixtureDashboard wires the real USGS fetcher against a local server that
// serves the given status and body.
func newFixtureDashboard(t *testing.T, status int, body []byte) *pipeline.Dashboard {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/geo+json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	metrics := newTestMetrics()
	fetcher := usgs.NewFetcher(usgs.NewClient(srv.URL, 5*time.Second), discardLogger(), metrics)
	return pipeline.New(fetcher, discardLogger(), metrics, 25)
}

func TestDashboard_FeedSample(t *testing.T) {
	freezeClock(t)
	body, err := os.ReadFile("testdata/feed_sample.geojson")
	require.NoError(t, err)

	d := newFixtureDashboard(t, http.StatusOK, body)
	snap := d.Refresh(context.Background(), domain.QueryFilter{MinMagnitude: 2.5, Limit: 100})

	require.Empty(t, snap.Diagnostics)
	require.Equal(t, 5, snap.Events.Len())

	var places []string
	for _, rec := range snap.Events.Records {
		places = append(places, rec.Place.OrElse(""))
	}
	assert.Equal(t, []string{
		"112 km SSE of Hihifo, Tonga",
		"Near Coast of Chile",
		"10km N of Test",
		"5 km WNW of Volcano, Hawaii",
		"Central Mid-Atlantic Ridge",
	}, places, "newest first, unparseable time last")

	tonga := snap.Events.Records[0]
	assert.Equal(t, domain.RawValue(`1`), tonga.TsunamiFlag)
	assert.False(t, tonga.FeltReports.IsPresent())
	assert.Equal(t, domain.Some(-16.9875), tonga.Latitude)

	hawaii := snap.Events.Records[3]
	assert.False(t, hawaii.Longitude.IsPresent())
	assert.False(t, hawaii.Latitude.IsPresent())
	assert.False(t, hawaii.DepthKM.IsPresent())

	assert.Equal(t, 5, snap.Summary.TotalEvents)
	assert.Equal(t, domain.Some(6.1), snap.Summary.MaxMagnitude)
	avgDepth, ok := snap.Summary.AvgDepthKM.Get()
	require.True(t, ok)
	assert.InDelta(t, 71.18, avgDepth, 1e-9)

	assert.Equal(t, 4, snap.Magnitude.Count)
	assert.Len(t, snap.Markers, 4)
	require.Len(t, snap.Timeline, 3)
	assert.InDelta(t, 2.6, snap.Timeline[0].Magnitude, 0)
	assert.InDelta(t, 6.1, snap.Timeline[2].Magnitude, 0)
}

func TestDashboard_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   domain.FailureKind
	}{
		{"server error", http.StatusServiceUnavailable, "maintenance", domain.FailureHTTPStatus},
		{"empty body", http.StatusOK, "", domain.FailureEmptyResponse},
		{"not json", http.StatusOK, "<html>oops</html>", domain.FailureMalformedBody},
		{"missing features", http.StatusOK, `{"type":"FeatureCollection"}`, domain.FailureUnexpectedStructure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newFixtureDashboard(t, tt.status, []byte(tt.body))
			snap := d.Refresh(context.Background(), domain.QueryFilter{MinMagnitude: 2.5, Limit: 50})

			require.Len(t, snap.Diagnostics, 1)
			assert.Equal(t, tt.kind, snap.Diagnostics[0].Kind)
			assert.Equal(t, 0, snap.Events.Len())
			assert.Equal(t, domain.ColumnNames(), snap.Events.Columns)
		})
	}
}
