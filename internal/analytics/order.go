package analytics

import (
	"slices"
	"time"

	"github.com/couchcryptid/quake-analytics-service/internal/domain"
)

// SortByTime returns a copy of records ordered by event time. Records with
// no time sort last in either direction; ties keep their input order.
func SortByTime(records []domain.EventRecord, descending bool) []domain.EventRecord {
	out := slices.Clone(records)
	if out == nil {
		out = []domain.EventRecord{}
	}

	slices.SortStableFunc(out, func(a, b domain.EventRecord) int {
		at, aok := a.Time.Get()
		bt, bok := b.Time.Get()
		switch {
		case !aok && !bok:
			return 0
		case !aok:
			return 1
		case !bok:
			return -1
		}
		c := at.Compare(bt)
		if descending {
			return -c
		}
		return c
	})
	return out
}

// Point is one sample of the magnitude time series.
type Point struct {
	Time      time.Time `json:"time"`
	Magnitude float64   `json:"magnitude"`
}

// Timeline returns magnitude over time in ascending order, skipping records
// without a time or magnitude.
func Timeline(records []domain.EventRecord) []Point {
	sorted := SortByTime(records, false)
	out := make([]Point, 0, len(sorted))
	for _, rec := range sorted {
		ts, ok := rec.Time.Get()
		if !ok {
			continue
		}
		mag, ok := rec.Magnitude.Get()
		if !ok {
			continue
		}
		out = append(out, Point{Time: ts, Magnitude: mag})
	}
	return out
}
