package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/valyala/fasttemplate"

	"github.com/byte4ever/release_diff/release/notes"
)

const (
	// DefaultHeader introduces the report.
	// Tags: {{base}}, {{release}}.
	DefaultHeader = "Release {{base}} -> {{release}}\n"
	// DefaultItem renders one release item.
	// Tags: {{index}} (1-based), {{summary}}, {{commit}}.
	DefaultItem = "{{index}}) {{summary}}\n"
	// DefaultRecord renders one tracker record of an item.
	// Tags: {{id}}, {{name}}, {{description}},
	// {{entity_type}}.
	DefaultRecord = "\tRR Ref: {{id}}\n" +
		"\tName: {{name}}\n" +
		"\tDescription: {{description}}\n"
)

// Renderer writes a release report. Empty templates fall
// back to the defaults.
type Renderer struct {
	StartTag string
	EndTag   string
	Header   string
	Item     string
	Record   string
}

// Render writes the report for items on the way from base
// to release.
func (rd *Renderer) Render(
	w io.Writer,
	base string,
	release string,
	items []notes.Item,
) error {
	const errCtx = "rendering report"

	startTag, endTag := rd.tags()

	header, err := fasttemplate.NewTemplate(
		orDefault(rd.Header, DefaultHeader), startTag, endTag,
	)
	if err != nil {
		return fmt.Errorf("%s: header: %w", errCtx, err)
	}

	item, err := fasttemplate.NewTemplate(
		orDefault(rd.Item, DefaultItem), startTag, endTag,
	)
	if err != nil {
		return fmt.Errorf("%s: item: %w", errCtx, err)
	}

	record, err := fasttemplate.NewTemplate(
		orDefault(rd.Record, DefaultRecord), startTag, endTag,
	)
	if err != nil {
		return fmt.Errorf("%s: record: %w", errCtx, err)
	}

	if _, err := header.Execute(w, map[string]any{
		"base":    base,
		"release": release,
	}); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	for i, it := range items {
		if _, err := item.Execute(w, map[string]any{
			"index":   strconv.Itoa(i + 1),
			"summary": it.Summary,
			"commit":  it.CommitID,
		}); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		for _, rec := range it.Records {
			if _, err := record.Execute(w, map[string]any{
				"id":          strconv.FormatInt(rec.ID, 10),
				"name":        rec.Name,
				"description": StripHTML(rec.Description),
				"entity_type": strconv.FormatInt(rec.EntityTypeID, 10),
			}); err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}
		}
	}

	return nil
}

// tags returns the configured start/end tags, falling
// back to double-brace defaults.
func (rd *Renderer) tags() (string, string) {
	return orDefault(rd.StartTag, "{{"), orDefault(rd.EndTag, "}}")
}

func orDefault(val string, def string) string {
	if val == "" {
		return def
	}

	return val
}
