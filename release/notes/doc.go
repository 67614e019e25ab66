// Package notes turns the commits unique to a release
// branch into release items: one per commit, carrying the
// commit summary, the ticket identifiers found in it and,
// once a tracker has been consulted, the matching tracker
// records.
package notes
