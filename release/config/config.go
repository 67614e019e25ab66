package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Tracker kinds.
const (
	KindTargetProcess = "targetprocess"
	KindGitHub        = "github"
	KindGitLab        = "gitlab"
)

// Environment variables read by Load.
const (
	EnvTracker       = "RD_TRACKER"
	EnvTrackerURL    = "RD_TRACKER_URL"
	EnvTargetProcess = "RD_TARGET_PROCESS_URL"
	// EnvTargetProcessLegacy is the historical misspelling,
	// still honoured when the corrected name is unset.
	EnvTargetProcessLegacy = "RD_TARAGET_PROCESS_URL"
	EnvAccessToken         = "RD_ACCESS_TOKEN"
	EnvProject             = "RD_TRACKER_PROJECT"
	EnvParallelism         = "RD_PARALLELISM"
	EnvLookupTimeout       = "RD_LOOKUP_TIMEOUT"
)

// DefaultEnvFile is the .env file read from the working
// directory.
const DefaultEnvFile = ".env"

// ErrTrackerNotConfigured reports that the tracker lacks
// the settings it needs to run lookups.
var ErrTrackerNotConfigured = errors.New("tracker not configured")

// Tracker selects and configures the issue tracker.
type Tracker struct {
	// Kind is one of KindTargetProcess (default),
	// KindGitHub or KindGitLab.
	Kind string `yaml:"kind"`
	// URL is the tracker base URL. Required for
	// TargetProcess, optional for GitHub Enterprise
	// and self-hosted GitLab.
	URL string `yaml:"url"`
	// AccessToken authenticates API calls.
	AccessToken string `yaml:"access_token"`
	// Project is "owner/repo" on GitHub or the project
	// path on GitLab. Unused for TargetProcess.
	Project string `yaml:"project"`
}

// Report overrides the report layout. Empty fields keep
// the built-in layout.
type Report struct {
	// StartTag and EndTag delimit template tags
	// (default "{{" and "}}").
	StartTag string `yaml:"start_tag"`
	EndTag   string `yaml:"end_tag"`
	// Header, Item and Record are the templates of the
	// report header, of each item and of each record.
	Header string `yaml:"header"`
	Item   string `yaml:"item"`
	Record string `yaml:"record"`
}

// Config is the full set of settings.
type Config struct {
	Tracker Tracker
	Report  Report
	// Parallelism bounds concurrent lookups. Zero means
	// the enrichment default.
	Parallelism int
	// LookupTimeout bounds each lookup. Zero means the
	// enrichment default.
	LookupTimeout time.Duration
}

type fileConfig struct {
	Tracker       Tracker `yaml:"tracker"`
	Report        Report  `yaml:"report"`
	Parallelism   int     `yaml:"parallelism"`
	LookupTimeout string  `yaml:"lookup_timeout"`
}

// Load builds a Config. path names an optional YAML file
// (empty for none); envFile names an optional .env file
// whose absence is not an error.
func Load(path string, envFile string) (Config, error) {
	const errCtx = "loading config"

	cfg := Config{
		Tracker: Tracker{Kind: KindTargetProcess},
	}

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return Config{}, fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	dotenv := map[string]string{}

	if envFile != "" {
		m, err := godotenv.Read(envFile)

		switch {
		case err == nil:
			dotenv = m
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf(
				"%s: reading %s: %w", errCtx, envFile, err,
			)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}

		v, ok := dotenv[key]

		return v, ok
	}

	if err := cfg.overlay(lookup); err != nil {
		return Config{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := cfg.Tracker.validateKind(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	return cfg, nil
}

func (c *Config) readFile(path string) error {
	const errCtx = "reading config file"

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	var fc fileConfig

	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("%s: %s: %w", errCtx, path, err)
	}

	if fc.Tracker.Kind != "" {
		c.Tracker.Kind = fc.Tracker.Kind
	}

	c.Tracker.URL = fc.Tracker.URL
	c.Tracker.AccessToken = fc.Tracker.AccessToken
	c.Tracker.Project = fc.Tracker.Project
	c.Report = fc.Report
	c.Parallelism = fc.Parallelism

	if fc.LookupTimeout != "" {
		d, err := time.ParseDuration(fc.LookupTimeout)
		if err != nil {
			return fmt.Errorf(
				"%s: %s: lookup_timeout: %w", errCtx, path, err,
			)
		}

		c.LookupTimeout = d
	}

	return nil
}

func (c *Config) overlay(
	lookup func(string) (string, bool),
) error {
	const errCtx = "reading environment"

	if v, ok := lookup(EnvTracker); ok && v != "" {
		c.Tracker.Kind = strings.ToLower(v)
	}

	if v, ok := lookup(EnvTargetProcessLegacy); ok && v != "" {
		c.Tracker.URL = v
	}

	if v, ok := lookup(EnvTargetProcess); ok && v != "" {
		c.Tracker.URL = v
	}

	if v, ok := lookup(EnvTrackerURL); ok && v != "" {
		c.Tracker.URL = v
	}

	if v, ok := lookup(EnvAccessToken); ok && v != "" {
		c.Tracker.AccessToken = v
	}

	if v, ok := lookup(EnvProject); ok && v != "" {
		c.Tracker.Project = v
	}

	if v, ok := lookup(EnvParallelism); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf(
				"%s: %s must be a positive integer, got %q",
				errCtx, EnvParallelism, v,
			)
		}

		c.Parallelism = n
	}

	if v, ok := lookup(EnvLookupTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf(
				"%s: %s: %w", errCtx, EnvLookupTimeout, err,
			)
		}

		c.LookupTimeout = d
	}

	return nil
}

func (t Tracker) validateKind() error {
	switch t.Kind {
	case KindTargetProcess, KindGitHub, KindGitLab:
		return nil
	default:
		return fmt.Errorf(
			"unknown tracker kind %q (want %s, %s or %s)",
			t.Kind, KindTargetProcess, KindGitHub, KindGitLab,
		)
	}
}

// Check returns ErrTrackerNotConfigured, wrapped with the
// missing setting, when t cannot be used for lookups.
func (t Tracker) Check() error {
	if err := t.validateKind(); err != nil {
		return err
	}

	var missing []string

	if t.AccessToken == "" {
		missing = append(missing, EnvAccessToken)
	}

	switch t.Kind {
	case KindTargetProcess:
		if t.URL == "" {
			missing = append(missing, EnvTargetProcess)
		}
	case KindGitHub, KindGitLab:
		if t.Project == "" {
			missing = append(missing, EnvProject)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf(
			"%w: %s: missing %s",
			ErrTrackerNotConfigured,
			t.Kind,
			strings.Join(missing, ", "),
		)
	}

	return nil
}
