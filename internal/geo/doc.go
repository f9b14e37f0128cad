// Package geo provides the pattern-based location primitives of the
// pipeline: coordinate extraction from map-embed URLs, city detection from
// venue names, addresses, and coordinates, venue-type detection, and
// disambiguation of generic venue names.
//
// All coordinates handled by this package are rounded to exactly 4 decimal
// places. At this region's latitude (~50°N) that is roughly 10 m, which is
// venue-level accuracy, and it keeps repeated scrapes of the same venue
// from producing duplicate map markers out of floating-point noise.
package geo
