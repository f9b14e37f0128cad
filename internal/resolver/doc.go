// Package resolver turns free-text venue names into coordinates.
//
// The resolution engine is an ordered strategy chain; the first strategy
// that yields a result wins, and each strategy carries its own review flag.
// The one rule the chain must never break: a coordinate the system guessed
// is always flagged needs_review, and when nothing can be determined the
// result is no coordinate at all, never a fabricated default.
package resolver
