// Package source fetches event listings and turns them into candidate
// events.
//
// Every source is built from the same configuration contract (name, url,
// type, enabled, options) and exposes a single Scrape call. Sources are
// defensive by design: a failing fetch or an unparseable item is logged
// and skipped, never propagated as a panic, so one broken site cannot
// take down a whole batch run.
package source
