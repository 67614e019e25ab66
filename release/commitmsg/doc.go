// Package commitmsg reads ticket identifiers out of git
// commit messages. Summary returns the first line of a
// message and Extract finds the tracker ids ("id:42") and
// request ids ("RRQ:7") written in it.
package commitmsg
