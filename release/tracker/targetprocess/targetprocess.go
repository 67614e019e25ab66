package targetprocess

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	json "github.com/goccy/go-json"

	"github.com/byte4ever/release_diff/release/commitmsg"
	"github.com/byte4ever/release_diff/release/notes"
)

// include lists the fields requested for each assignable.
const include = "[Id,Name,Description,InboundAssignables," +
	"OutboundAssignables,MasterRelations,SlaveRelations]"

// Config holds the settings needed to query a
// TargetProcess instance.
type Config struct {
	// URL is the base URL of the instance
	// (e.g. "https://acme.tpondemand.com/").
	URL string
	// AccessToken is the API access token.
	AccessToken string
}

// Provider looks up assignables on TargetProcess.
//
// Pattern: Strategy -- implements tracker.Lookup.
type Provider struct {
	endpoint    *url.URL
	accessToken string
	client      *http.Client
}

type pagedResponse struct {
	Items []assignable `json:"Items"`
}

type assignable struct {
	ID          int64      `json:"Id"`
	Name        string     `json:"Name"`
	Description string     `json:"Description"`
	EntityType  entityType `json:"EntityType"`
}

type entityType struct {
	ID int64 `json:"Id"`
}

// NewProvider validates cfg and returns a Provider ready
// to look up assignables.
func NewProvider(cfg Config) (*Provider, error) {
	const errCtx = "creating targetprocess provider"

	if cfg.URL == "" {
		return nil, fmt.Errorf("%s: url must be set", errCtx)
	}

	if cfg.AccessToken == "" {
		return nil, fmt.Errorf(
			"%s: access token must be set", errCtx,
		)
	}

	base, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: parse url: %w", errCtx, err)
	}

	endpoint, err := base.Parse("api/v1/Assignables")
	if err != nil {
		return nil, fmt.Errorf(
			"%s: build endpoint: %w", errCtx, err,
		)
	}

	return &Provider{
		endpoint:    endpoint,
		accessToken: cfg.AccessToken,
		client:      http.DefaultClient,
	}, nil
}

// Lookup fetches the first assignable matching id. A
// request id is matched against the assignable name, a
// tracker id against the assignable id.
func (p *Provider) Lookup(
	ctx context.Context,
	id commitmsg.Identifier,
) (*notes.Record, error) {
	const errCtx = "querying targetprocess"

	u := *p.endpoint
	u.RawQuery = url.Values{
		"format":       {"json"},
		"access_token": {p.accessToken},
		"where":        {filter(id)},
		"take":         {"1"},
		"include":      {include},
	}.Encode()

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, u.String(), nil,
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: build request: %w", errCtx, err,
		)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: send request: %w", errCtx, err,
		)
	}

	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: read response: %w", errCtx, err,
		)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Debug(
			"targetprocess response",
			"status", resp.Status,
			"body", string(body),
		)

		return nil, fmt.Errorf(
			"%s: unexpected status %d",
			errCtx, resp.StatusCode,
		)
	}

	var page pagedResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf(
			"%s: parse json: %w", errCtx, err,
		)
	}

	if len(page.Items) == 0 {
		return nil, nil
	}

	a := page.Items[0]

	return &notes.Record{
		ID:           a.ID,
		Name:         a.Name,
		Description:  a.Description,
		EntityTypeID: a.EntityType.ID,
	}, nil
}

// filter builds the "where" clause for id.
func filter(id commitmsg.Identifier) string {
	if id.Kind == commitmsg.RequestID {
		return fmt.Sprintf("Name contains 'RRQ:%d'", id.Number)
	}

	return fmt.Sprintf("id eq %d", id.Number)
}
