package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	gh "github.com/google/go-github/v68/github"

	"github.com/byte4ever/release_diff/release/commitmsg"
	"github.com/byte4ever/release_diff/release/notes"
)

// Config holds the settings needed to look up GitHub
// issues.
type Config struct {
	// Project is the repository as "owner/repo".
	Project string
	// AccessToken is a personal access token or
	// GitHub App token used for authentication.
	AccessToken string
	// BaseURL is an optional API root for GitHub
	// Enterprise (e.g. "https://git.corp.example.com/").
	// Leave empty for github.com.
	BaseURL string
}

// Provider looks up issues on GitHub.
//
// Pattern: Strategy -- implements tracker.Lookup.
type Provider struct {
	client    *gh.Client
	repoOwner string
	repo      string
}

// NewProvider validates cfg and returns a Provider
// ready to look up issues.
func NewProvider(cfg Config) (*Provider, error) {
	const errCtx = "creating github provider"

	owner, repo, ok := strings.Cut(cfg.Project, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf(
			"%s: project must be set as owner/repo, got %q",
			errCtx, cfg.Project,
		)
	}

	if cfg.AccessToken == "" {
		return nil, fmt.Errorf(
			"%s: access token must be set", errCtx,
		)
	}

	client := gh.NewClient(nil).
		WithAuthToken(cfg.AccessToken)

	if cfg.BaseURL != "" {
		var err error

		client, err = client.WithEnterpriseURLs(
			cfg.BaseURL, cfg.BaseURL,
		)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: enterprise urls: %w",
				errCtx, err,
			)
		}
	}

	return &Provider{
		client:    client,
		repoOwner: owner,
		repo:      repo,
	}, nil
}

// Lookup fetches the issue id refers to. A tracker id is
// an issue number; a request id is searched for in issue
// titles and the first hit wins.
func (p *Provider) Lookup(
	ctx context.Context,
	id commitmsg.Identifier,
) (*notes.Record, error) {
	if id.Kind == commitmsg.RequestID {
		return p.search(ctx, id)
	}

	return p.get(ctx, id)
}

func (p *Provider) get(
	ctx context.Context,
	id commitmsg.Identifier,
) (*notes.Record, error) {
	const errCtx = "getting github issue"

	issue, resp, err := p.client.Issues.Get(
		ctx, p.repoOwner, p.repo, int(id.Number),
	)
	if err == nil {
		return toRecord(issue), nil
	}

	if resp != nil &&
		resp.StatusCode == http.StatusNotFound {
		slog.Debug("no such github issue", "id", id.String())

		return nil, nil
	}

	return nil, fmt.Errorf("%s: %s: %w", errCtx, id, err)
}

func (p *Provider) search(
	ctx context.Context,
	id commitmsg.Identifier,
) (*notes.Record, error) {
	const errCtx = "searching github issues"

	query := fmt.Sprintf(
		"repo:%s/%s in:title %q",
		p.repoOwner, p.repo, id.String(),
	)

	res, _, err := p.client.Search.Issues(
		ctx, query,
		&gh.SearchOptions{
			ListOptions: gh.ListOptions{PerPage: 1},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", errCtx, id, err)
	}

	if len(res.Issues) == 0 {
		return nil, nil
	}

	return toRecord(res.Issues[0]), nil
}

func toRecord(issue *gh.Issue) *notes.Record {
	return &notes.Record{
		ID:          int64(issue.GetNumber()),
		Name:        issue.GetTitle(),
		Description: issue.GetBody(),
	}
}
