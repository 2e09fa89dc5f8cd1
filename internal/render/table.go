// Package render writes event tables and summaries as plain text for terminals.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/couchcryptid/quake-analytics-service/internal/analytics"
	"github.com/couchcryptid/quake-analytics-service/internal/domain"
	"github.com/mattn/go-runewidth"
)

// TimeLayout is how event times appear in rendered tables.
const TimeLayout = "2006-01-02 15:04:05"

// maxPlaceWidth truncates long place names so rows fit a terminal.
const maxPlaceWidth = 40

// Table writes t as a pipe-delimited table aligned by display width, so
// place names with wide or combining characters keep columns straight.
// An empty table still prints its header.
func Table(w io.Writer, t domain.EventTable) error {
	rows := make([][]string, 0, t.Len()+1)
	rows = append(rows, t.Columns)
	for i := range t.Records {
		rows = append(rows, cells(t.Records[i]))
	}

	widths := make([]int, len(t.Columns))
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]), 3)
		}
	}

	var sb strings.Builder
	writeRow(&sb, rows[0], widths)
	writeSeparator(&sb, widths)
	for _, row := range rows[1:] {
		writeRow(&sb, row, widths)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// Summary writes the headline metrics as aligned label/value lines.
func Summary(w io.Writer, s analytics.Summary) error {
	_, err := fmt.Fprintf(w, "%-16s %d\n%-16s %s\n%-16s %s\n",
		"Total events:", s.TotalEvents,
		"Max magnitude:", analytics.FormatFloat(s.MaxMagnitude),
		"Avg depth (km):", analytics.FormatFloat(s.AvgDepthKM),
	)
	return err
}

func cells(rec domain.EventRecord) []string {
	place := rec.Place.OrElse(analytics.NotAvailable)
	return []string{
		runewidth.Truncate(place, maxPlaceWidth, "…"),
		analytics.FormatFloat(rec.Magnitude),
		formatTime(rec.Time),
		analytics.FormatFloat(rec.Longitude),
		analytics.FormatFloat(rec.Latitude),
		analytics.FormatFloat(rec.DepthKM),
		formatRaw(rec.TsunamiFlag),
		formatRaw(rec.FeltReports),
	}
}

func formatTime(o domain.Optional[time.Time]) string {
	ts, ok := o.Get()
	if !ok {
		return analytics.NotAvailable
	}
	return ts.UTC().Format(TimeLayout)
}

// formatRaw shows strings unquoted and any other value as its JSON text.
func formatRaw(v domain.RawValue) string {
	if !v.IsPresent() {
		return analytics.NotAvailable
	}
	if s, ok := v.Text().Get(); ok {
		return s
	}
	return string(v)
}

func writeRow(sb *strings.Builder, row []string, widths []int) {
	sb.WriteString("|")
	for i, width := range widths {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		sb.WriteString(" ")
		sb.WriteString(runewidth.FillRight(cell, width))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}

func writeSeparator(sb *strings.Builder, widths []int) {
	sb.WriteString("|")
	for _, width := range widths {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", width))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}
