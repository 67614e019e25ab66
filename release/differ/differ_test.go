package differ_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	oe "os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/release_diff/release/commitmsg"
	"github.com/byte4ever/release_diff/release/config"
	"github.com/byte4ever/release_diff/release/differ"
	"github.com/byte4ever/release_diff/release/lineage"
	"github.com/byte4ever/release_diff/release/notes"
	"github.com/byte4ever/release_diff/release/report"
	"github.com/byte4ever/release_diff/release/tracker"
	"github.com/byte4ever/release_diff/release/tracker/github"
	"github.com/byte4ever/release_diff/release/tracker/gitlab"
	"github.com/byte4ever/release_diff/release/tracker/targetprocess"
)

// releaseRepo builds a repository where release carries
// three commits over main and main carries one of its own
// plus a cherry-pick of the newest release commit.
func releaseRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	initGitRepo(t, dir)

	gitCmd(t, dir, "checkout", "-b", "release")
	commitFile(t, dir, "a.txt", "feat: A id:1")
	commitFile(t, dir, "b.txt", "fix: B RRQ:2")
	commitFile(t, dir, "c.txt", "chore: C")

	picked := gitOut(t, dir, "rev-parse", "HEAD")

	gitCmd(t, dir, "checkout", "main")
	commitFile(t, dir, "d.txt", "docs: D")
	gitCmd(t, dir, "cherry-pick", picked)

	return dir
}

func TestRun_offline(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	err := differ.Run(context.Background(), differ.Config{
		RepoDir:       releaseRepo(t),
		BaseBranch:    "main",
		ReleaseBranch: "release",
		Offline:       true,
		Out:           &out,
	})

	require.NoError(t, err)
	assert.Equal(
		t,
		"Release main -> release\n"+
			"1) fix: B RRQ:2\n"+
			"2) feat: A id:1\n",
		out.String(),
	)
}

func TestRun_custom_layout(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	err := differ.Run(context.Background(), differ.Config{
		RepoDir:       releaseRepo(t),
		BaseBranch:    "main",
		ReleaseBranch: "release",
		Offline:       true,
		Out:           &out,
		Renderer: report.Renderer{
			Header: "## {{release}}\n",
			Item:   "* {{summary}}\n",
		},
	})

	require.NoError(t, err)
	assert.Equal(
		t,
		"## release\n* fix: B RRQ:2\n* feat: A id:1\n",
		out.String(),
	)
}

func TestRun_enriched_from_targetprocess(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			if r.URL.Query().Get("where") == "id eq 1" {
				_, _ = w.Write([]byte(`{"Items":[{
					"Id": 1,
					"Name": "Feature A",
					"Description": "<p>Adds A</p>",
					"EntityType": {"Id": 4}
				}]}`))

				return
			}

			_, _ = w.Write([]byte(`{"Items":[]}`))
		},
	))
	t.Cleanup(ts.Close)

	var out bytes.Buffer

	err := differ.Run(context.Background(), differ.Config{
		RepoDir:       releaseRepo(t),
		BaseBranch:    "main",
		ReleaseBranch: "release",
		Out:           &out,
		Tracker: config.Tracker{
			Kind:        config.KindTargetProcess,
			URL:         ts.URL + "/",
			AccessToken: "tok",
		},
	})

	require.NoError(t, err)
	assert.Equal(
		t,
		"Release main -> release\n"+
			"1) fix: B RRQ:2\n"+
			"2) feat: A id:1\n"+
			"\tRR Ref: 1\n"+
			"\tName: Feature A\n"+
			"\tDescription: Adds A\n",
		out.String(),
	)
}

func TestRun_lookup_failure_keeps_report(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	err := differ.Run(context.Background(), differ.Config{
		RepoDir:       releaseRepo(t),
		BaseBranch:    "main",
		ReleaseBranch: "release",
		Out:           &out,
		Lookup: tracker.LookupFunc(
			func(
				_ context.Context,
				id commitmsg.Identifier,
			) (*notes.Record, error) {
				if id.Kind == commitmsg.RequestID {
					return nil, assert.AnError
				}

				return &notes.Record{ID: 1, Name: "A"}, nil
			},
		),
	})

	require.NoError(t, err)
	assert.Equal(
		t,
		"Release main -> release\n"+
			"1) fix: B RRQ:2\n"+
			"2) feat: A id:1\n"+
			"\tRR Ref: 1\n"+
			"\tName: A\n"+
			"\tDescription: \n",
		out.String(),
	)
}

func TestRun_offline_skips_lookup(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	err := differ.Run(context.Background(), differ.Config{
		RepoDir:       releaseRepo(t),
		BaseBranch:    "main",
		ReleaseBranch: "release",
		Offline:       true,
		Out:           &bytes.Buffer{},
		Lookup: tracker.LookupFunc(
			func(
				context.Context,
				commitmsg.Identifier,
			) (*notes.Record, error) {
				calls.Add(1)

				return nil, nil
			},
		),
	})

	require.NoError(t, err)
	assert.Zero(t, calls.Load())
}

func TestRun_unconfigured_tracker_still_reports(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	err := differ.Run(context.Background(), differ.Config{
		RepoDir:       releaseRepo(t),
		BaseBranch:    "main",
		ReleaseBranch: "release",
		Out:           &out,
		Tracker:       config.Tracker{Kind: config.KindTargetProcess},
	})

	require.NoError(t, err)
	assert.Equal(
		t,
		"Release main -> release\n"+
			"1) fix: B RRQ:2\n"+
			"2) feat: A id:1\n",
		out.String(),
	)
}

func TestRun_output_file(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "notes.txt")

	err := differ.Run(context.Background(), differ.Config{
		RepoDir:       releaseRepo(t),
		BaseBranch:    "main",
		ReleaseBranch: "release",
		OutputPath:    path,
		Offline:       true,
	})
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.True(
		t,
		strings.HasPrefix(string(got), "Release main -> release\n"),
	)
}

func TestRun_failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(t *testing.T, dir string)
		base    string
		release string
		want    error
	}{
		{
			name: "identical branches",
			setup: func(t *testing.T, dir string) {
				t.Helper()
				gitCmd(t, dir, "branch", "release")
			},
			base:    "main",
			release: "release",
			want:    lineage.ErrIdenticalBranches,
		},
		{
			name: "branches reversed",
			setup: func(t *testing.T, dir string) {
				t.Helper()
				gitCmd(t, dir, "checkout", "-b", "release")
				commitFile(t, dir, "a.txt", "feat: A")
				gitCmd(t, dir, "checkout", "main")
			},
			base:    "release",
			release: "main",
			want:    lineage.ErrBranchesReversed,
		},
		{
			name: "merge commit",
			setup: func(t *testing.T, dir string) {
				t.Helper()
				gitCmd(t, dir, "checkout", "-b", "release")
				commitFile(t, dir, "a.txt", "feat: A")
				gitCmd(t, dir, "checkout", "main")
				commitFile(t, dir, "b.txt", "feat: B")
				gitCmd(t, dir, "checkout", "release")
				gitCmd(
					t, dir,
					"merge", "--no-ff", "-m", "merge main", "main",
				)
			},
			base:    "main",
			release: "release",
			want:    lineage.ErrUnsupportedMergeCommit,
		},
		{
			name:    "unknown branch",
			setup:   func(*testing.T, string) {},
			base:    "main",
			release: "nope",
			want:    lineage.ErrBranchNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()

			initGitRepo(t, dir)
			tt.setup(t, dir)

			path := filepath.Join(t.TempDir(), "notes.txt")

			err := differ.Run(context.Background(), differ.Config{
				RepoDir:       dir,
				BaseBranch:    tt.base,
				ReleaseBranch: tt.release,
				OutputPath:    path,
				Offline:       true,
			})

			require.ErrorIs(t, err, tt.want)
			assert.ErrorContains(t, err, tt.release)
			assert.NoFileExists(t, path)
		})
	}
}

func TestRun_missing_branch_names(t *testing.T) {
	t.Parallel()

	err := differ.Run(context.Background(), differ.Config{
		RepoDir:    t.TempDir(),
		BaseBranch: "main",
	})

	assert.ErrorContains(t, err, "must be set")
}

func TestRun_not_a_repository(t *testing.T) {
	t.Parallel()

	err := differ.Run(context.Background(), differ.Config{
		RepoDir:       t.TempDir(),
		BaseBranch:    "main",
		ReleaseBranch: "release",
		Offline:       true,
	})

	assert.ErrorContains(t, err, "opening repository")
}

func TestNewLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     config.Tracker
		wantTyp any
	}{
		{
			name: "targetprocess",
			cfg: config.Tracker{
				Kind:        config.KindTargetProcess,
				URL:         "https://acme.tpondemand.com/",
				AccessToken: "tok",
			},
			wantTyp: &targetprocess.Provider{},
		},
		{
			name: "github",
			cfg: config.Tracker{
				Kind:        config.KindGitHub,
				Project:     "org/repo",
				AccessToken: "tok",
			},
			wantTyp: &github.Provider{},
		},
		{
			name: "gitlab",
			cfg: config.Tracker{
				Kind:        config.KindGitLab,
				Project:     "org/project",
				AccessToken: "tok",
			},
			wantTyp: &gitlab.Provider{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lk, err := differ.NewLookup(tt.cfg)

			require.NoError(t, err)
			assert.IsType(t, tt.wantTyp, lk)
		})
	}
}

func TestNewLookup_not_configured(t *testing.T) {
	t.Parallel()

	lk, err := differ.NewLookup(config.Tracker{
		Kind: config.KindGitHub,
	})

	assert.Nil(t, lk)
	assert.ErrorIs(t, err, config.ErrTrackerNotConfigured)
}

func TestNewLookup_invalid_project(t *testing.T) {
	t.Parallel()

	lk, err := differ.NewLookup(config.Tracker{
		Kind:        config.KindGitHub,
		Project:     "no-slash",
		AccessToken: "tok",
	})

	assert.Nil(t, lk)
	assert.ErrorContains(t, err, "owner/repo")
}

func TestResolveLookup(t *testing.T) {
	t.Parallel()

	custom := tracker.LookupFunc(
		func(
			context.Context,
			commitmsg.Identifier,
		) (*notes.Record, error) {
			return nil, nil
		},
	)

	tests := []struct {
		name    string
		cfg     differ.Config
		wantNil bool
		wantErr bool
	}{
		{
			name:    "offline",
			cfg:     differ.Config{Offline: true, Lookup: custom},
			wantNil: true,
		},
		{
			name: "explicit lookup",
			cfg:  differ.Config{Lookup: custom},
		},
		{
			name: "unconfigured",
			cfg: differ.Config{
				Tracker: config.Tracker{Kind: config.KindGitLab},
			},
			wantNil: true,
		},
		{
			name: "unusable url",
			cfg: differ.Config{
				Tracker: config.Tracker{
					Kind:        config.KindTargetProcess,
					URL:         "://bad",
					AccessToken: "tok",
				},
			},
			wantNil: true,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lk, err := differ.ResolveLookupForTest(tt.cfg)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tt.wantNil, lk == nil)
		})
	}
}

func initGitRepo(tb testing.TB, dir string) {
	tb.Helper()

	cmds := [][]string{
		{"init", "-b", "main"},
		{"config", "user.email", "test@test.com"},
		{"config", "user.name", "Test"},
		{"config", "commit.gpgsign", "false"},
		{"config", "core.hooksPath", "/dev/null"},
		{"commit", "--allow-empty", "-m", "initial"},
	}

	for _, args := range cmds {
		gitCmd(tb, dir, args...)
	}
}

// commitFile writes name and commits it with msg.
func commitFile(tb testing.TB, dir, name, msg string) {
	tb.Helper()

	err := os.WriteFile(
		filepath.Join(dir, name), []byte(msg), 0o600,
	)
	require.NoError(tb, err)

	gitCmd(tb, dir, "add", name)
	gitCmd(tb, dir, "commit", "-m", msg)
}

func gitCmd(tb testing.TB, dir string, args ...string) {
	tb.Helper()

	_ = gitOut(tb, dir, args...)
}

func gitOut(tb testing.TB, dir string, args ...string) string {
	tb.Helper()

	cmd := oe.Command("git", args...)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	require.NoError(
		tb, err,
		"git %v: %s", args, string(out),
	)

	return strings.TrimSpace(string(out))
}
