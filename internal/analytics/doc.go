// Package analytics derives the dashboard views from a normalized event
// table: descriptive statistics, headline metrics, a magnitude histogram,
// a time series, and map markers.
//
// Absent values are skipped, never treated as zero, except for marker radius
// where a missing magnitude draws the smallest marker.
package analytics
