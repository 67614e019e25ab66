package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/byte4ever/release_diff/release/notes"
)

const (
	// DefaultParallelism bounds concurrent lookups when
	// Options.Parallelism is not set.
	DefaultParallelism = 4
	// DefaultTimeout bounds a single lookup when
	// Options.Timeout is not set.
	DefaultTimeout = 30 * time.Second
)

// Options tunes Enrich.
type Options struct {
	// Parallelism is the number of concurrent lookups.
	Parallelism int
	// Timeout bounds each lookup.
	Timeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Parallelism <= 0 {
		o.Parallelism = DefaultParallelism
	}

	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}

	return o
}

// Enrich looks up every identifier of every item and sets
// the items' Records, in identifier order. Items whose
// lookups all came back empty keep nil Records, and so do
// items with at least one failed lookup.
//
// Each task writes only to its own result slot, so tasks
// share no mutable state. Failures are logged and returned;
// they do not stop the other lookups.
func Enrich(
	ctx context.Context,
	items []notes.Item,
	lk Lookup,
	opts Options,
) []error {
	opts = opts.withDefaults()

	pairs := notes.Pairs(items)
	if len(pairs) == 0 {
		return nil
	}

	slog.Info(
		"looking up tracker records",
		"lookups", len(pairs),
		"parallelism", opts.Parallelism,
	)

	records := make([][]*notes.Record, len(items))
	for i, it := range items {
		records[i] = make([]*notes.Record, len(it.IDs))
	}

	errs := make([]error, len(pairs))

	var g errgroup.Group

	g.SetLimit(opts.Parallelism)

	for n, p := range pairs {
		g.Go(func() error {
			rec, err := lookupOne(ctx, lk, opts.Timeout, p)
			if err != nil {
				slog.Warn(
					"tracker lookup failed",
					"commit", items[p.Item].CommitID,
					"id", p.ID.String(),
					"error", err,
				)

				errs[n] = err

				return nil
			}

			records[p.Item][p.Slot] = rec

			return nil
		})
	}

	// Tasks never return an error.
	_ = g.Wait()

	failed := make([]bool, len(items))

	for n, err := range errs {
		if err != nil {
			failed[pairs[n].Item] = true
		}
	}

	for i := range items {
		if failed[i] {
			continue
		}

		for _, rec := range records[i] {
			if rec != nil {
				items[i].Records = append(items[i].Records, *rec)
			}
		}
	}

	return compact(errs)
}

func lookupOne(
	ctx context.Context,
	lk Lookup,
	timeout time.Duration,
	p notes.Pair,
) (*notes.Record, error) {
	const errCtx = "looking up tracker record"

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rec, err := lk.Lookup(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", errCtx, p.ID, err)
	}

	return rec, nil
}

func compact(errs []error) []error {
	var out []error

	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}

	return out
}
