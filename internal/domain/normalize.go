package domain

import (
	"encoding/json"
	"math"
	"time"
)

// maxEpochMillis bounds timestamps to what time.Time can round-trip through
// UnixNano.
const maxEpochMillis = float64(math.MaxInt64 / int64(time.Millisecond))

// Normalize flattens a catalog payload into an EventTable with one record per
// feature, in input order. A nil payload, a payload without features, or an
// empty feature list yields an empty table with the full column schema.
// Normalize never fails; unusable values become absent.
func Normalize(payload *RawCatalogPayload) EventTable {
	if payload == nil || len(payload.Features) == 0 {
		return NewEventTable(nil)
	}

	records := make([]EventRecord, 0, len(payload.Features))
	for i := range payload.Features {
		records = append(records, NormalizeFeature(payload.Features[i]))
	}
	return NewEventTable(records)
}

// NormalizeFeature maps a single feature onto an EventRecord.
func NormalizeFeature(f Feature) EventRecord {
	var rec EventRecord

	if p := f.Properties; p != nil {
		rec.Place = p.Place.Text()
		rec.Magnitude = p.Mag.Float()
		rec.Time = ParseEpochMillis(p.Time)
		rec.TsunamiFlag = p.Tsunami.Clone()
		rec.FeltReports = p.Felt.Clone()
	}

	rec.Longitude, rec.Latitude, rec.DepthKM = unpackCoordinates(f.Geometry)
	return rec
}

// ParseEpochMillis interprets v as milliseconds since the Unix epoch and
// returns the UTC time. JSON numbers and numeric strings are accepted.
// Missing, non-numeric, or out-of-range values are absent.
func ParseEpochMillis(v RawValue) Optional[time.Time] {
	if v.IsNull() {
		return None[time.Time]()
	}

	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return None[time.Time]()
	}
	ms, err := n.Float64()
	if err != nil || math.IsNaN(ms) || math.IsInf(ms, 0) || math.Abs(ms) > maxEpochMillis {
		return None[time.Time]()
	}

	whole, frac := math.Modf(ms)
	t := time.UnixMilli(int64(whole)).Add(time.Duration(frac * float64(time.Millisecond)))
	return Some(t.UTC())
}

// unpackCoordinates reads [lon, lat, depth_km]. Unless all three are numbers
// all three results are absent; extra positions such as altitude are ignored.
func unpackCoordinates(g *Geometry) (lon, lat, depth Optional[float64]) {
	if g == nil || g.Coordinates.IsNull() {
		return lon, lat, depth
	}

	var triple []RawValue
	if err := json.Unmarshal(g.Coordinates, &triple); err != nil || len(triple) < 3 {
		return lon, lat, depth
	}
	x, y, z := triple[0].Float(), triple[1].Float(), triple[2].Float()
	if !x.IsPresent() || !y.IsPresent() || !z.IsPresent() {
		return lon, lat, depth
	}
	return x, y, z
}
