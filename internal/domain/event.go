package domain

import (
	"bytes"
	"encoding/json"
	"slices"
	"time"
)

// RawValue holds one undecoded catalog value. Missing keys and JSON null
// both read as absent through the typed accessors.
type RawValue []byte

func (v *RawValue) UnmarshalJSON(b []byte) error {
	*v = append((*v)[:0], b...)
	return nil
}

func (v RawValue) MarshalJSON() ([]byte, error) {
	if v.IsNull() {
		return []byte("null"), nil
	}
	return v, nil
}

// IsNull reports whether the value is missing or JSON null.
func (v RawValue) IsNull() bool {
	return isJSONNull(v)
}

// Text returns the value as a string, absent when it is not a JSON string.
func (v RawValue) Text() Optional[string] {
	if v.IsNull() {
		return None[string]()
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return None[string]()
	}
	return Some(s)
}

// Float returns the value as a float64, absent when it is not a JSON number.
func (v RawValue) Float() Optional[float64] {
	if v.IsNull() {
		return None[float64]()
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		return None[float64]()
	}
	return Some(f)
}

// IsPresent reports whether the value is neither missing nor JSON null.
func (v RawValue) IsPresent() bool {
	return !v.IsNull()
}

// Clone returns an independent copy with insignificant whitespace removed,
// or nil when the value is absent.
func (v RawValue) Clone() RawValue {
	if v.IsNull() {
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return slices.Clone(v)
	}
	return buf.Bytes()
}

// RawCatalogPayload is the decoded body of a catalog query. Features is nil
// when the payload lacks the "features" key.
type RawCatalogPayload struct {
	Features []Feature `json:"features"`
}

// EmptyPayload returns the canonical empty payload {"features": []}.
func EmptyPayload() RawCatalogPayload {
	return RawCatalogPayload{Features: []Feature{}}
}

// Feature is one seismic event as delivered by the catalog.
type Feature struct {
	Properties *Properties `json:"properties,omitempty"`
	Geometry   *Geometry   `json:"geometry,omitempty"`
}

// UnmarshalJSON never fails: a feature that is not an object, or whose
// properties or geometry are not objects, decodes with those parts nil.
func (f *Feature) UnmarshalJSON(b []byte) error {
	*f = Feature{}

	var shell struct {
		Properties RawValue `json:"properties"`
		Geometry   RawValue `json:"geometry"`
	}
	if err := json.Unmarshal(b, &shell); err != nil {
		return nil
	}

	if !shell.Properties.IsNull() {
		var p Properties
		if err := json.Unmarshal(shell.Properties, &p); err == nil {
			f.Properties = &p
		}
	}
	if !shell.Geometry.IsNull() {
		var g Geometry
		if err := json.Unmarshal(shell.Geometry, &g); err == nil {
			f.Geometry = &g
		}
	}
	return nil
}

// Properties holds the feature attributes the dashboard uses.
type Properties struct {
	Place   RawValue `json:"place,omitempty"`
	Mag     RawValue `json:"mag,omitempty"`
	Time    RawValue `json:"time,omitempty"` // epoch milliseconds
	Tsunami RawValue `json:"tsunami,omitempty"`
	Felt    RawValue `json:"felt,omitempty"`
}

// Geometry holds the GeoJSON point. Coordinates is kept raw because the
// feed occasionally sends it as null or a non-array.
type Geometry struct {
	Coordinates RawValue `json:"coordinates,omitempty"` // [lon, lat, depth_km]
}

// Column names of the normalized event table, in order.
const (
	ColumnPlace       = "place"
	ColumnMagnitude   = "magnitude"
	ColumnTime        = "time"
	ColumnLongitude   = "longitude"
	ColumnLatitude    = "latitude"
	ColumnDepthKM     = "depth_km"
	ColumnTsunamiFlag = "tsunami_flag"
	ColumnFeltReports = "felt_reports"
)

// ColumnNames returns the fixed eight-column schema of an EventTable.
func ColumnNames() []string {
	return []string{
		ColumnPlace,
		ColumnMagnitude,
		ColumnTime,
		ColumnLongitude,
		ColumnLatitude,
		ColumnDepthKM,
		ColumnTsunamiFlag,
		ColumnFeltReports,
	}
}

// EventRecord is the flat, normalized form of one Feature. The tsunami flag
// and felt count are carried through as delivered, without type coercion.
type EventRecord struct {
	Place       Optional[string]    `json:"place"`
	Magnitude   Optional[float64]   `json:"magnitude"`
	Time        Optional[time.Time] `json:"time"`
	Longitude   Optional[float64]   `json:"longitude"`
	Latitude    Optional[float64]   `json:"latitude"`
	DepthKM     Optional[float64]   `json:"depth_km"`
	TsunamiFlag RawValue            `json:"tsunami_flag"`
	FeltReports RawValue            `json:"felt_reports"`
}

// EventTable is an ordered record set that always carries the full column
// schema, even when it has no rows.
type EventTable struct {
	Columns []string      `json:"columns"`
	Records []EventRecord `json:"records"`
}

// NewEventTable wraps records with the fixed schema. A nil slice becomes an
// empty one so the table never serializes records as null.
func NewEventTable(records []EventRecord) EventTable {
	if records == nil {
		records = []EventRecord{}
	}
	return EventTable{Columns: ColumnNames(), Records: records}
}

// Len returns the number of rows.
func (t EventTable) Len() int {
	return len(t.Records)
}

// Magnitudes returns the magnitude column.
func (t EventTable) Magnitudes() []Optional[float64] {
	out := make([]Optional[float64], len(t.Records))
	for i := range t.Records {
		out[i] = t.Records[i].Magnitude
	}
	return out
}

// Depths returns the depth_km column.
func (t EventTable) Depths() []Optional[float64] {
	out := make([]Optional[float64], len(t.Records))
	for i := range t.Records {
		out[i] = t.Records[i].DepthKM
	}
	return out
}
