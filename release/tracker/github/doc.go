// Package github implements tracker.Lookup on top of GitHub
// issues: tracker ids are issue numbers and request ids are
// searched for in issue titles.
package github
