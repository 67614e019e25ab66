package notes

import (
	"errors"
	"fmt"

	"github.com/byte4ever/release_diff/release/commitmsg"
	"github.com/byte4ever/release_diff/release/lineage"
)

// ErrEmptyCommitMessage is returned when a commit has no
// first line to summarise.
var ErrEmptyCommitMessage = errors.New("empty commit message")

// Record is the tracker entity matched by an identifier.
type Record struct {
	ID   int64
	Name string
	// Description may carry HTML.
	Description  string
	EntityTypeID int64
}

// Item is one entry of the release report.
type Item struct {
	CommitID string
	// Summary is the first line of the commit message.
	Summary string
	// IDs lists tracker ids first, then request ids, each
	// in order of appearance.
	IDs []commitmsg.Identifier
	// Records is nil until a tracker lookup found at least
	// one match.
	Records []Record
}

// Assemble builds one item per commit, keeping the commit
// order.
func Assemble(commits []lineage.Commit) ([]Item, error) {
	const errCtx = "assembling release items"

	items := make([]Item, 0, len(commits))

	for _, c := range commits {
		summary, ok := commitmsg.Summary(c.Message)
		if !ok {
			return nil, fmt.Errorf(
				"%s: %w: %s",
				errCtx, ErrEmptyCommitMessage, c.ID,
			)
		}

		items = append(items, Item{
			CommitID: c.ID,
			Summary:  summary,
			IDs:      commitmsg.Extract(summary),
		})
	}

	return items, nil
}

// Pair ties an identifier to the item it was found in.
// Item indexes the item slice and Slot indexes the item's
// IDs.
type Pair struct {
	Item int
	Slot int
	ID   commitmsg.Identifier
}

// Pairs lists every identifier of every item, item by item.
func Pairs(items []Item) []Pair {
	var pairs []Pair

	for i, it := range items {
		for j, id := range it.IDs {
			pairs = append(pairs, Pair{Item: i, Slot: j, ID: id})
		}
	}

	return pairs
}
