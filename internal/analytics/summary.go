package analytics

import (
	"math"

	"github.com/couchcryptid/quake-analytics-service/internal/domain"
)

// Summary holds the headline metrics shown above the map.
type Summary struct {
	TotalEvents  int                      `json:"total_events"`
	MaxMagnitude domain.Optional[float64] `json:"max_magnitude"`
	AvgDepthKM   domain.Optional[float64] `json:"avg_depth_km"`
}

// Summarize counts rows and reports the largest magnitude and the mean depth,
// both rounded to two decimals.
func Summarize(table domain.EventTable) Summary {
	s := Summary{TotalEvents: table.Len()}

	if mags := presentValues(table.Magnitudes()); len(mags) > 0 {
		highest := mags[0]
		for _, v := range mags[1:] {
			highest = math.Max(highest, v)
		}
		s.MaxMagnitude = domain.Some(round2(highest))
	}

	if depths := presentValues(table.Depths()); len(depths) > 0 {
		var sum float64
		for _, v := range depths {
			sum += v
		}
		s.AvgDepthKM = domain.Some(round2(sum / float64(len(depths))))
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
