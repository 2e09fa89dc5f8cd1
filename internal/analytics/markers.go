package analytics

import (
	"fmt"
	"strconv"

	"github.com/couchcryptid/quake-analytics-service/internal/domain"
)

// Marker is a circle to draw on the map for one event.
type Marker struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius"`
	Popup     string  `json:"popup"`
}

// Markers builds one marker per record that has both latitude and longitude.
// Radius is twice the magnitude.
func Markers(records []domain.EventRecord) []Marker {
	out := make([]Marker, 0, len(records))
	for _, rec := range records {
		lat, ok := rec.Latitude.Get()
		if !ok {
			continue
		}
		lon, ok := rec.Longitude.Get()
		if !ok {
			continue
		}
		out = append(out, Marker{
			Latitude:  lat,
			Longitude: lon,
			Radius:    rec.Magnitude.OrElse(0) * 2,
			Popup:     popup(rec),
		})
	}
	return out
}

func popup(rec domain.EventRecord) string {
	return fmt.Sprintf("Location: %s\nMagnitude: %s\nDepth (km): %s",
		rec.Place.OrElse(NotAvailable),
		FormatFloat(rec.Magnitude),
		FormatFloat(rec.DepthKM),
	)
}

// NotAvailable is displayed in place of an absent value.
const NotAvailable = "N/A"

// FormatFloat renders a present value in its shortest form, or NotAvailable.
func FormatFloat(o domain.Optional[float64]) string {
	v, ok := o.Get()
	if !ok {
		return NotAvailable
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
