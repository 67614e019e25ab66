// Package gitlab implements tracker.Lookup on top of GitLab
// project issues: tracker ids are issue IIDs and request ids
// are searched for in issue titles.
package gitlab
