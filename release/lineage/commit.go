package lineage

// Commit is an owned copy of the commit fields the walk
// and the duplicate filter need.
type Commit struct {
	// ID is the full object id.
	ID string
	// AuthorEmail is the author address. It may be empty
	// for an identity written "Name <>".
	AuthorEmail string
	// NoAuthorEmail is set when the commit has no
	// readable author identity at all.
	NoAuthorEmail bool
	// Message is the raw commit message, byte for byte.
	Message string
	// Parents lists the parent ids in header order.
	Parents []string
}

// ParentCount returns the number of parents.
func (c Commit) ParentCount() int {
	return len(c.Parents)
}

// CommitSource resolves branch names and commit ids to
// commits.
type CommitSource interface {
	// ResolveBranch returns the head commit of a local
	// branch. The error wraps ErrBranchNotFound when the
	// branch does not exist.
	ResolveBranch(name string) (Commit, error)
	// Commit returns the commit with the given id.
	Commit(id string) (Commit, error)
}
