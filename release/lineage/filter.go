package lineage

import (
	"fmt"
	"log/slog"
)

// FilterDuplicates returns the release commits that have
// no cherry-picked twin among the base commits, keeping
// their order.
//
// A release commit is a twin of a base commit when both
// carry an author email, the emails are equal and the full
// messages are byte-equal. Nothing is normalised. A release
// commit without an author identity is always kept.
func FilterDuplicates(
	base []Commit,
	release []Commit,
) ([]Commit, error) {
	const errCtx = "filtering duplicates"

	unique := make([]Commit, 0, len(release))

	for _, rel := range release {
		if twin, ok := findTwin(base, rel); ok {
			slog.Debug(
				"dropping cherry-picked commit",
				"commit", rel.ID,
				"base_commit", twin.ID,
			)

			continue
		}

		unique = append(unique, rel)
	}

	if len(unique) == 0 && len(base) > 0 {
		return nil, fmt.Errorf(
			"%s: %w: no release commits left while "+
				"base has %d",
			errCtx, ErrBranchesReversed, len(base),
		)
	}

	return unique, nil
}

func findTwin(base []Commit, rel Commit) (Commit, bool) {
	for _, b := range base {
		if IsDuplicate(b, rel) {
			return b, true
		}
	}

	return Commit{}, false
}

// IsDuplicate reports whether a and b look like the same
// change applied twice: same author email and the same
// message. An empty email counts as an email.
func IsDuplicate(a, b Commit) bool {
	if a.NoAuthorEmail || b.NoAuthorEmail {
		return false
	}

	return a.AuthorEmail == b.AuthorEmail &&
		a.Message == b.Message
}
