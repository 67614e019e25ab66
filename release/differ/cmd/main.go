// Command release_diff prints the release notes of a
// release branch: the commits it carries over a base
// branch, minus those cherry-picked onto the base, with
// the tracker records their summaries refer to.
//
// Usage:
//
//	release_diff [flags] BASE RELEASE
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/byte4ever/release_diff/release/config"
	"github.com/byte4ever/release_diff/release/differ"
	"github.com/byte4ever/release_diff/release/report"
	"github.com/byte4ever/release_diff/release/tracker"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	const errCtx = "running release_diff"

	repo := flag.String(
		"repo", "./",
		"Path to the git repository",
	)

	var output string

	flag.StringVar(
		&output, "output", "",
		"Write the report to this file instead of stdout",
	)
	flag.StringVar(
		&output, "o", "",
		"Shorthand for -output",
	)

	offline := flag.Bool(
		"offline", false,
		"Skip tracker lookups",
	)
	configFile := flag.String(
		"config", "",
		"Optional YAML configuration file",
	)
	verbose := flag.Bool(
		"v", false,
		"Log debug messages",
	)

	flag.Usage = func() {
		fmt.Fprintf(
			flag.CommandLine.Output(),
			"Usage: %s [flags] BASE RELEASE\n",
			os.Args[0],
		)
		flag.PrintDefaults()
	}

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(
		os.Stderr, &slog.HandlerOptions{Level: level},
	)))

	if flag.NArg() != 2 {
		flag.Usage()

		return fmt.Errorf(
			"%s: expected BASE and RELEASE, got %d arguments",
			errCtx, flag.NArg(),
		)
	}

	cfg, err := config.Load(*configFile, config.DefaultEnvFile)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt,
	)
	defer stop()

	if err := differ.Run(ctx, differ.Config{
		RepoDir:       *repo,
		BaseBranch:    flag.Arg(0),
		ReleaseBranch: flag.Arg(1),
		OutputPath:    output,
		Offline:       *offline,
		Tracker:       cfg.Tracker,
		Enrich: tracker.Options{
			Parallelism: cfg.Parallelism,
			Timeout:     cfg.LookupTimeout,
		},
		Renderer: report.Renderer{
			StartTag: cfg.Report.StartTag,
			EndTag:   cfg.Report.EndTag,
			Header:   cfg.Report.Header,
			Item:     cfg.Report.Item,
			Record:   cfg.Report.Record,
		},
	}); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}
