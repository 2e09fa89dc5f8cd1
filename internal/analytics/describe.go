package analytics

import (
	"math"
	"slices"

	"github.com/couchcryptid/quake-analytics-service/internal/domain"
)

// Description summarizes one numeric column over its present values.
type Description struct {
	Count int                      `json:"count"`
	Mean  domain.Optional[float64] `json:"mean"`
	Std   domain.Optional[float64] `json:"std"`
	Min   domain.Optional[float64] `json:"min"`
	P25   domain.Optional[float64] `json:"25%"`
	P50   domain.Optional[float64] `json:"50%"`
	P75   domain.Optional[float64] `json:"75%"`
	Max   domain.Optional[float64] `json:"max"`
}

// Describe computes count, mean, sample standard deviation, min, quartiles,
// and max. Std needs at least two values; everything but Count needs one.
func Describe(values []domain.Optional[float64]) Description {
	present := presentValues(values)
	d := Description{Count: len(present)}
	if len(present) == 0 {
		return d
	}

	slices.Sort(present)
	n := float64(len(present))

	var sum float64
	for _, v := range present {
		sum += v
	}
	mean := sum / n
	d.Mean = domain.Some(mean)

	if len(present) > 1 {
		var sq float64
		for _, v := range present {
			sq += (v - mean) * (v - mean)
		}
		d.Std = domain.Some(math.Sqrt(sq / (n - 1)))
	}

	d.Min = domain.Some(present[0])
	d.P25 = domain.Some(quantile(present, 0.25))
	d.P50 = domain.Some(quantile(present, 0.50))
	d.P75 = domain.Some(quantile(present, 0.75))
	d.Max = domain.Some(present[len(present)-1])
	return d
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

func presentValues(values []domain.Optional[float64]) []float64 {
	out := make([]float64, 0, len(values))
	for _, o := range values {
		if v, ok := o.Get(); ok && !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
