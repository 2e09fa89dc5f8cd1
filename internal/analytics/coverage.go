package analytics

import "github.com/couchcryptid/quake-analytics-service/internal/domain"

// ColumnCoverage counts present and absent values in one column.
type ColumnCoverage struct {
	Column  string `json:"column"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
}

// Coverage reports value presence for every column of t, in schema order.
func Coverage(t domain.EventTable) []ColumnCoverage {
	out := make([]ColumnCoverage, len(t.Columns))
	for i, col := range t.Columns {
		out[i].Column = col
	}
	for i := range t.Records {
		present := presence(&t.Records[i])
		for j := range out {
			if present[out[j].Column] {
				out[j].Present++
			} else {
				out[j].Absent++
			}
		}
	}
	return out
}

func presence(rec *domain.EventRecord) map[string]bool {
	return map[string]bool{
		domain.ColumnPlace:       rec.Place.IsPresent(),
		domain.ColumnMagnitude:   rec.Magnitude.IsPresent(),
		domain.ColumnTime:        rec.Time.IsPresent(),
		domain.ColumnLongitude:   rec.Longitude.IsPresent(),
		domain.ColumnLatitude:    rec.Latitude.IsPresent(),
		domain.ColumnDepthKM:     rec.DepthKM.IsPresent(),
		domain.ColumnTsunamiFlag: rec.TsunamiFlag.IsPresent(),
		domain.ColumnFeltReports: rec.FeltReports.IsPresent(),
	}
}
