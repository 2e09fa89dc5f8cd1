// Package domain models USGS earthquake catalog data and its normalized,
// tabular form.
//
// # Data Source
//
// Events come from the USGS FDSN event web service
// (https://earthquake.usgs.gov/fdsnws/event/1/query) requested with
// format=geojson and orderby=time. The response is a GeoJSON
// FeatureCollection; only the "features" array is consumed.
//
// # GeoJSON Conventions
//
// Each feature carries a "properties" object and a "geometry" object:
//
//	properties.place    free text, e.g. "10km N of Test"
//	properties.mag      magnitude as a JSON number, may be null
//	properties.time     origin time in epoch milliseconds (UTC)
//	properties.tsunami  0 or 1 flag
//	properties.felt     number of "Did You Feel It?" reports, often null
//	geometry.coordinates  [longitude, latitude, depth_km]
//
// Coordinate order is longitude first, as everywhere in GeoJSON. Depth is in
// kilometres and is positive below sea level.
//
// # Absent Values
//
// Any of the fields above can be missing, null, or of an unexpected type in
// the live feed. Every such case decodes to an absent Optional rather than an
// error, so one odd feature never fails the whole batch. The coordinate
// triple is taken as a unit: unless all three positions are numbers,
// longitude, latitude and depth are all absent together. The tsunami flag and
// felt count are opaque and kept exactly as delivered.
package domain
