// Package tracker enriches release items with records
// fetched from an issue tracker.
//
// The Lookup interface abstracts the tracker. Implementations
// exist for TargetProcess, GitHub and GitLab in sub-packages.
// LookupFunc is a convenience adapter that lets plain
// functions satisfy the interface.
//
// Enrich runs one lookup per identifier on a bounded pool.
// A failed lookup is logged and leaves its item without
// records; it never cancels the others.
package tracker
