// Package git reads commits from a local repository through
// the git CLI.
//
// Repo implements lineage.CommitSource: ResolveBranch maps a
// local branch name to its head commit and Commit reads a raw
// commit object with "git cat-file commit", keeping the
// message byte for byte so that cherry-pick detection can
// compare messages exactly.
package git
