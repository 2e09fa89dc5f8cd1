package analytics

import (
	"math"

	"github.com/couchcryptid/quake-analytics-service/internal/domain"
)

// DefaultBins matches the magnitude histogram on the dashboard.
const DefaultBins = 25

// Bin is one histogram bucket covering [Lower, Upper). The last bin also
// includes Upper.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram buckets the present values into equal-width bins spanning their
// range. When every value is equal the range is widened to v±0.5. A
// non-positive bin count falls back to DefaultBins.
func Histogram(values []domain.Optional[float64], bins int) []Bin {
	present := presentValues(values)
	if len(present) == 0 {
		return []Bin{}
	}
	if bins <= 0 {
		bins = DefaultBins
	}

	lo, hi := present[0], present[0]
	for _, v := range present[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Lower = lo + width*float64(i)
		out[i].Upper = lo + width*float64(i+1)
	}
	out[bins-1].Upper = hi

	for _, v := range present {
		out[binIndex(out, v, lo, width)].Count++
	}
	return out
}

func binIndex(bins []Bin, v, lo, width float64) int {
	i := int((v - lo) / width)
	if i < 0 {
		i = 0
	}
	if i >= len(bins) {
		i = len(bins) - 1
	}
	// Correct for rounding at bin edges.
	if i > 0 && v < bins[i].Lower {
		i--
	}
	if i < len(bins)-1 && v >= bins[i+1].Lower {
		i++
	}
	return i
}
