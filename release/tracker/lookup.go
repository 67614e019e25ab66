package tracker

import (
	"context"

	"github.com/byte4ever/release_diff/release/commitmsg"
	"github.com/byte4ever/release_diff/release/notes"
)

// Pattern: Strategy -- swap the issue tracker without
// changing how items are enriched.

// Lookup finds the tracker record an identifier refers to.
// A nil record with a nil error means there is no match.
type Lookup interface {
	Lookup(
		ctx context.Context,
		id commitmsg.Identifier,
	) (*notes.Record, error)
}

// LookupFunc adapts a plain function to the Lookup
// interface.
type LookupFunc func(
	ctx context.Context,
	id commitmsg.Identifier,
) (*notes.Record, error)

// Lookup delegates to the wrapped function.
func (f LookupFunc) Lookup(
	ctx context.Context,
	id commitmsg.Identifier,
) (*notes.Record, error) {
	return f(ctx, id)
}
