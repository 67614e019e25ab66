package git

import (
	"fmt"
	"strings"

	"github.com/byte4ever/release_diff/release/exec"
	"github.com/byte4ever/release_diff/release/lineage"
)

// Repo is a local git repository read through the git
// CLI. Create with Open.
type Repo struct {
	// Dir is the filesystem location of the work tree or
	// bare repository.
	Dir string
}

// Open checks that dir is inside a git repository and
// returns a Repo reading from it.
func Open(dir string) (*Repo, error) {
	const errCtx = "opening repository"

	if _, err := exec.Line(
		dir, "git", "rev-parse", "--git-dir",
	); err != nil {
		return nil, fmt.Errorf("%s: %s: %w", errCtx, dir, err)
	}

	return &Repo{Dir: dir}, nil
}

// ResolveBranch returns the head commit of the local
// branch name.
func (r *Repo) ResolveBranch(name string) (lineage.Commit, error) {
	const errCtx = "resolving branch"

	id, err := exec.Line(
		r.Dir, "git",
		"rev-parse", "--verify", "--quiet",
		"refs/heads/"+name+"^{commit}",
	)
	if err != nil {
		return lineage.Commit{}, fmt.Errorf(
			"%s: %w: %s: %w",
			errCtx, lineage.ErrBranchNotFound, name, err,
		)
	}

	if id == "" {
		return lineage.Commit{}, fmt.Errorf(
			"%s: %w: %s",
			errCtx, lineage.ErrBranchNotFound, name,
		)
	}

	c, err := r.Commit(id)
	if err != nil {
		return lineage.Commit{}, fmt.Errorf(
			"%s: %s: %w", errCtx, name, err,
		)
	}

	return c, nil
}

// Commit reads the raw commit object id.
func (r *Repo) Commit(id string) (lineage.Commit, error) {
	const errCtx = "reading commit"

	raw, err := exec.Output(r.Dir, "git", "cat-file", "commit", id)
	if err != nil {
		return lineage.Commit{}, fmt.Errorf(
			"%s: %s: %w", errCtx, id, err,
		)
	}

	c := parseCommit(raw)
	c.ID = id

	return c, nil
}

// parseCommit splits a raw commit object into headers and
// message. Leading blank lines of the message are dropped.
// Only the parent and author headers are kept;
// continuation lines of multi-line headers (gpgsig) start
// with a space and are skipped.
func parseCommit(raw string) lineage.Commit {
	var c lineage.Commit

	headers, msg, _ := strings.Cut(raw, "\n\n")
	c.Message = strings.TrimLeft(msg, "\n")
	c.NoAuthorEmail = true

	for _, line := range strings.Split(headers, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}

		switch key {
		case "parent":
			c.Parents = append(c.Parents, val)
		case "author":
			email, ok := authorEmail(val)
			c.AuthorEmail = email
			c.NoAuthorEmail = !ok
		default:
			continue
		}
	}

	return c
}

// authorEmail extracts the address from an identity of
// the form "Name <email> timestamp zone". The address may
// be empty; ok is false when there are no brackets.
func authorEmail(ident string) (email string, ok bool) {
	end := strings.LastIndexByte(ident, '>')
	if end < 0 {
		return "", false
	}

	start := strings.LastIndexByte(ident[:end], '<')
	if start < 0 {
		return "", false
	}

	return ident[start+1 : end], true
}
