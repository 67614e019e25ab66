package differ

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/byte4ever/release_diff/release/config"
	"github.com/byte4ever/release_diff/release/git"
	"github.com/byte4ever/release_diff/release/lineage"
	"github.com/byte4ever/release_diff/release/notes"
	"github.com/byte4ever/release_diff/release/report"
	"github.com/byte4ever/release_diff/release/tracker"
	"github.com/byte4ever/release_diff/release/tracker/github"
	"github.com/byte4ever/release_diff/release/tracker/gitlab"
	"github.com/byte4ever/release_diff/release/tracker/targetprocess"
)

// Config holds all settings for a release_diff run.
type Config struct {
	// RepoDir is the repository to read (e.g. "./").
	RepoDir string

	// BaseBranch is the branch the release is compared
	// against.
	BaseBranch string

	// ReleaseBranch is the branch being released.
	ReleaseBranch string

	// OutputPath receives the report. Empty means Out.
	OutputPath string

	// Out receives the report when OutputPath is empty.
	// Nil means standard output.
	Out io.Writer

	// Offline disables tracker lookups and the warning
	// about a missing tracker configuration.
	Offline bool

	// Tracker configures the lookup built by NewLookup.
	// Ignored when Lookup is set.
	Tracker config.Tracker

	// Lookup overrides the tracker built from Tracker.
	Lookup tracker.Lookup

	// Enrich tunes tracker lookups.
	Enrich tracker.Options

	// Renderer formats the report.
	Renderer report.Renderer
}

// Run computes the release items of cfg.ReleaseBranch over
// cfg.BaseBranch, enriches them unless offline, and writes
// the report.
func Run(ctx context.Context, cfg Config) error {
	const errCtx = "running release diff"

	if cfg.BaseBranch == "" || cfg.ReleaseBranch == "" {
		return fmt.Errorf(
			"%s: base and release branches must be set",
			errCtx,
		)
	}

	lk, err := resolveLookup(cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	items, err := collect(cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if lk != nil {
		if errs := tracker.Enrich(
			ctx, items, lk, cfg.Enrich,
		); len(errs) > 0 {
			slog.Warn(
				"some tracker lookups failed",
				"failed", len(errs),
			)
		}
	}

	if err := write(cfg, items); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// collect reads the history and assembles the release
// items, newest first.
func collect(cfg Config) ([]notes.Item, error) {
	repo, err := git.Open(cfg.RepoDir)
	if err != nil {
		return nil, err
	}

	div, err := lineage.Diverge(
		repo, cfg.BaseBranch, cfg.ReleaseBranch,
	)
	if err != nil {
		return nil, err
	}

	slog.Info(
		"found common ancestor",
		"ancestor", div.Ancestor,
		"base", cfg.BaseBranch,
		"base_only", len(div.Base),
		"release", cfg.ReleaseBranch,
		"release_only", len(div.Release),
	)

	commits, err := lineage.FilterDuplicates(div.Base, div.Release)
	if err != nil {
		return nil, fmt.Errorf(
			"%w: base %s, release %s",
			err, cfg.BaseBranch, cfg.ReleaseBranch,
		)
	}

	if dropped := len(div.Release) - len(commits); dropped > 0 {
		slog.Info(
			"skipped cherry-picked commits",
			"count", dropped,
		)
	}

	return notes.Assemble(commits)
}

// resolveLookup returns the lookup to enrich with, or nil
// when enrichment is off.
func resolveLookup(cfg Config) (tracker.Lookup, error) {
	if cfg.Offline {
		return nil, nil
	}

	if cfg.Lookup != nil {
		return cfg.Lookup, nil
	}

	lk, err := NewLookup(cfg.Tracker)
	if errors.Is(err, config.ErrTrackerNotConfigured) {
		slog.Warn(
			"tracker lookups disabled",
			"reason", err.Error(),
		)

		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return lk, nil
}

// write renders the whole report before touching the
// destination.
func write(cfg Config, items []notes.Item) error {
	const errCtx = "writing report"

	var buf bytes.Buffer

	if err := cfg.Renderer.Render(
		&buf, cfg.BaseBranch, cfg.ReleaseBranch, items,
	); err != nil {
		return err
	}

	if cfg.OutputPath != "" {
		if err := os.WriteFile(
			cfg.OutputPath, buf.Bytes(), 0o644,
		); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		slog.Info(
			"report written",
			"path", cfg.OutputPath,
			"items", len(items),
		)

		return nil
	}

	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	if _, err := buf.WriteTo(out); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// NewLookup creates the tracker.Lookup selected by
// cfg.Kind. It returns an error wrapping
// config.ErrTrackerNotConfigured when settings are missing.
//
// Pattern: Factory -- selects the tracker implementation
// at runtime.
func NewLookup(cfg config.Tracker) (tracker.Lookup, error) {
	const errCtx = "creating tracker lookup"

	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	var (
		lk  tracker.Lookup
		err error
	)

	switch cfg.Kind {
	case config.KindGitHub:
		lk, err = github.NewProvider(github.Config{
			Project:     cfg.Project,
			AccessToken: cfg.AccessToken,
			BaseURL:     cfg.URL,
		})
	case config.KindGitLab:
		lk, err = gitlab.NewProvider(gitlab.Config{
			Host:        cfg.URL,
			Project:     cfg.Project,
			AccessToken: cfg.AccessToken,
		})
	default:
		lk, err = targetprocess.NewProvider(targetprocess.Config{
			URL:         cfg.URL,
			AccessToken: cfg.AccessToken,
		})
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return lk, nil
}
