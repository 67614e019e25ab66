// Package lineage compares the histories of two branches.
//
// Diverge walks a base branch and a release branch back to
// their common ancestor, one commit at a time on each side
// in strict alternation, and returns the commits private to
// each branch, newest first. FilterDuplicates then removes
// release commits that were cherry-picked onto the base
// branch.
//
// Only linear histories are supported: a commit with more
// than one parent stops the walk with
// ErrUnsupportedMergeCommit. Commits are read through the
// CommitSource interface, which the git package implements
// on top of the git CLI.
package lineage
