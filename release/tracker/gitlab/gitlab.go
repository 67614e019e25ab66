package gitlab

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/byte4ever/release_diff/release/commitmsg"
	"github.com/byte4ever/release_diff/release/notes"
)

// Config holds the settings needed to look up GitLab
// issues.
type Config struct {
	// Host is the base URL of the GitLab instance
	// (e.g. "https://gitlab.com").
	Host string
	// Project is the full project path
	// (e.g. "org/project").
	Project string
	// AccessToken is a personal or project access
	// token used for authentication.
	AccessToken string
}

// Provider looks up issues on GitLab.
//
// Pattern: Strategy -- implements tracker.Lookup.
type Provider struct {
	client  *gl.Client
	project string
}

// NewProvider validates cfg and returns a Provider
// ready to look up issues.
func NewProvider(cfg Config) (*Provider, error) {
	const errCtx = "creating gitlab provider"

	if cfg.AccessToken == "" {
		return nil, fmt.Errorf(
			"%s: access token must be set", errCtx,
		)
	}

	if cfg.Project == "" {
		return nil, fmt.Errorf(
			"%s: project must be set", errCtx,
		)
	}

	host := cfg.Host
	if host == "" {
		host = "https://gitlab.com"
	}

	client, err := gl.NewClient(
		cfg.AccessToken,
		gl.WithBaseURL(host),
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: new client: %w", errCtx, err,
		)
	}

	return &Provider{
		client:  client,
		project: cfg.Project,
	}, nil
}

// Lookup fetches the issue id refers to. A tracker id is
// an issue IID; a request id is searched for in issue
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
	const errCtx = "getting gitlab issue"

	path := fmt.Sprintf(
		"projects/%s/issues/%d",
		url.PathEscape(p.project), id.Number,
	)

	req, err := p.client.NewRequest(
		http.MethodGet, path, nil,
		[]gl.RequestOptionFunc{gl.WithContext(ctx)},
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: build request: %w", errCtx, err,
		)
	}

	var issue gl.Issue

	resp, err := p.client.Do(req, &issue)
	if err == nil {
		return toRecord(&issue), nil
	}

	if resp != nil &&
		resp.StatusCode == http.StatusNotFound {
		slog.Debug("no such gitlab issue", "id", id.String())

		return nil, nil
	}

	return nil, fmt.Errorf("%s: %s: %w", errCtx, id, err)
}

func (p *Provider) search(
	ctx context.Context,
	id commitmsg.Identifier,
) (*notes.Record, error) {
	const errCtx = "searching gitlab issues"

	opts := gl.ListProjectIssuesOptions{
		ListOptions: gl.ListOptions{PerPage: 1},
		Search:      gl.Ptr(id.String()),
		In:          gl.Ptr("title"),
	}

	issues, _, err := p.client.Issues.ListProjectIssues(
		p.project, &opts, gl.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", errCtx, id, err)
	}

	if len(issues) == 0 {
		return nil, nil
	}

	return toRecord(issues[0]), nil
}

func toRecord(issue *gl.Issue) *notes.Record {
	return &notes.Record{
		ID:          int64(issue.IID),
		Name:        issue.Title,
		Description: issue.Description,
	}
}
