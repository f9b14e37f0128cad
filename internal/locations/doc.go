// Package locations manages the two venue databases of the pipeline: the
// editor-curated verified locations (read-only at runtime) and the tracker
// of unverified venue names surfaced for editorial review.
package locations
