// Package ai provides pluggable extraction backends for unstructured
// event text.
//
// A provider takes free text (a listing snippet, a detail page) and
// returns a structured EventInfo, or an error when the text yields
// nothing usable. Providers are optional: sources fall back to
// pattern-based extraction when none is configured, and a provider
// whose configuration is incomplete is skipped at startup instead of
// failing it.
package ai
