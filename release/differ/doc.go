// Package differ produces the release report of a
// repository: the commits a release branch carries over its
// base branch, minus those cherry-picked onto the base,
// each with the tracker identifiers found in its summary
// and, when a tracker is configured, the records they
// refer to.
//
// Run drives the whole pipeline. Any git or history error
// stops it before anything is written; tracker failures
// only leave the affected items without records.
package differ
