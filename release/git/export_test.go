package git

// ParseCommitForTest exposes parseCommit.
var ParseCommitForTest = parseCommit

// AuthorEmailForTest exposes authorEmail.
var AuthorEmailForTest = authorEmail
