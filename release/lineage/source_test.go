package lineage_test

import (
	"fmt"

	"github.com/byte4ever/release_diff/release/lineage"
)

// memSource is an in-memory CommitSource.
type memSource struct {
	commits  map[string]lineage.Commit
	branches map[string]string
}

func newMemSource() *memSource {
	return &memSource{
		commits:  make(map[string]lineage.Commit),
		branches: make(map[string]string),
	}
}

func (m *memSource) ResolveBranch(
	name string,
) (lineage.Commit, error) {
	id, ok := m.branches[name]
	if !ok {
		return lineage.Commit{}, fmt.Errorf(
			"%w: %s", lineage.ErrBranchNotFound, name,
		)
	}

	return m.Commit(id)
}

func (m *memSource) Commit(id string) (lineage.Commit, error) {
	c, ok := m.commits[id]
	if !ok {
		return lineage.Commit{}, fmt.Errorf(
			"object %s not found", id,
		)
	}

	return c, nil
}

// chain adds commits ids on top of parent (empty parent
// makes the first one a root) and returns the last id.
func (m *memSource) chain(parent string, ids ...string) string {
	for _, id := range ids {
		c := lineage.Commit{
			ID:          id,
			AuthorEmail: "dev@example.com",
			Message:     "change " + id + "\n",
		}

		if parent != "" {
			c.Parents = []string{parent}
		}

		m.commits[id] = c
		parent = id
	}

	return parent
}

func (m *memSource) add(c lineage.Commit) {
	m.commits[c.ID] = c
}

func (m *memSource) branch(name string, id string) {
	m.branches[name] = id
}

func ids(commits []lineage.Commit) []string {
	out := make([]string, 0, len(commits))
	for _, c := range commits {
		out = append(out, c.ID)
	}

	return out
}
