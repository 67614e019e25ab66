package lineage

import "errors"

var (
	// ErrBranchNotFound is returned when a branch name
	// does not resolve to a commit.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrIdenticalBranches is returned when both branches
	// point at the same commit.
	ErrIdenticalBranches = errors.New("branches are identical")

	// ErrUnsupportedMergeCommit is returned when the walk
	// reaches a commit with two or more parents.
	ErrUnsupportedMergeCommit = errors.New(
		"merge commits are not supported",
	)

	// ErrMissingParent is returned when a parent listed by
	// a commit cannot be read.
	ErrMissingParent = errors.New("missing parent commit")

	// ErrNoCommonAncestor is returned when both histories
	// are exhausted without meeting.
	ErrNoCommonAncestor = errors.New("no common ancestor")

	// ErrBranchesReversed is returned when every release
	// commit is a duplicate while the base branch has
	// commits of its own. The base and release branches
	// were most likely given in the wrong order.
	ErrBranchesReversed = errors.New(
		"branches specified in wrong order",
	)
)
