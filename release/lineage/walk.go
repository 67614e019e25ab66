package lineage

import (
	"fmt"
	"log/slog"
)

// Divergence is the result of walking two branches back to
// their common ancestor.
type Divergence struct {
	// Ancestor is the id of the most recent commit reachable
	// from both heads. It appears in neither list.
	Ancestor string
	// Base holds the commits only on the base branch,
	// newest first.
	Base []Commit
	// Release holds the commits only on the release branch,
	// newest first.
	Release []Commit
}

// front is one of the two walk cursors. A nil next means
// the front is dormant.
type front struct {
	name    string
	next    *Commit
	commits []Commit
}

// Diverge resolves both branches through src and walks
// them back to their common ancestor.
//
// The two fronts advance in strict alternation, base
// first, sharing one visited set. The first front to step
// onto a commit the other has already visited stops the
// walk; that commit is the common ancestor.
func Diverge(
	src CommitSource,
	baseBranch string,
	releaseBranch string,
) (*Divergence, error) {
	const errCtx = "finding divergence"

	base, err := src.ResolveBranch(baseBranch)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: base branch %s: %w",
			errCtx, baseBranch, err,
		)
	}

	release, err := src.ResolveBranch(releaseBranch)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: release branch %s: %w",
			errCtx, releaseBranch, err,
		)
	}

	if base.ID == release.ID {
		return nil, fmt.Errorf(
			"%s: %w: %s and %s both at %s",
			errCtx, ErrIdenticalBranches,
			baseBranch, releaseBranch, base.ID,
		)
	}

	baseFront := &front{name: baseBranch, next: &base}
	releaseFront := &front{name: releaseBranch, next: &release}
	seen := make(map[string]struct{})

	var ancestor string

	for {
		id, found, err := baseFront.step(src, seen)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		if found {
			ancestor = id

			break
		}

		id, found, err = releaseFront.step(src, seen)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		if found {
			ancestor = id

			break
		}

		if baseFront.next == nil && releaseFront.next == nil {
			return nil, fmt.Errorf(
				"%s: %w of %s and %s",
				errCtx, ErrNoCommonAncestor,
				baseBranch, releaseBranch,
			)
		}
	}

	div := &Divergence{
		Ancestor: ancestor,
		Base:     cutAt(baseFront.commits, ancestor),
		Release:  cutAt(releaseFront.commits, ancestor),
	}

	slog.Debug(
		"found common ancestor",
		"ancestor", ancestor,
		"base", baseBranch,
		"base_commits", len(div.Base),
		"release", releaseBranch,
		"release_commits", len(div.Release),
	)

	return div, nil
}

// step advances the front by one commit. It reports the
// commit id and true when that commit was already visited.
func (f *front) step(
	src CommitSource,
	seen map[string]struct{},
) (string, bool, error) {
	if f.next == nil {
		return "", false, nil
	}

	cur := *f.next

	if _, ok := seen[cur.ID]; ok {
		return cur.ID, true, nil
	}

	seen[cur.ID] = struct{}{}

	switch cur.ParentCount() {
	case 0:
		f.next = nil
	case 1:
		parent, err := src.Commit(cur.Parents[0])
		if err != nil {
			return "", false, fmt.Errorf(
				"%w: %s, parent of %s on %s: %w",
				ErrMissingParent,
				cur.Parents[0], cur.ID, f.name, err,
			)
		}

		f.next = &parent
	default:
		return "", false, fmt.Errorf(
			"%w: %s on %s has %d parents",
			ErrUnsupportedMergeCommit,
			cur.ID, f.name, cur.ParentCount(),
		)
	}

	f.commits = append(f.commits, cur)

	return "", false, nil
}

// cutAt returns the commits before the one with the given
// id. The front that reached the ancestor first may have
// walked past it, so everything from the ancestor on is
// dropped.
func cutAt(commits []Commit, id string) []Commit {
	for i, c := range commits {
		if c.ID == id {
			return commits[:i]
		}
	}

	return commits
}
