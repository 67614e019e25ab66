package report

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML reduces an HTML fragment to its text. Text is
// split into lines, each line is trimmed, blank ones are
// dropped and the rest are joined with a newline and a tab
// so that they line up under the record fields. Script and
// style contents are skipped and entities are decoded.
func StripHTML(fragment string) string {
	var (
		parts []string
		skip  int
	)

	z := html.NewTokenizer(strings.NewReader(fragment))

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input: keep what was read.
			return strings.Join(parts, "\n\t")
		case html.StartTagToken:
			if isRawText(z) {
				skip++
			}
		case html.EndTagToken:
			if isRawText(z) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip > 0 {
				continue
			}

			for _, line := range strings.Split(string(z.Text()), "\n") {
				if t := strings.TrimSpace(line); t != "" {
					parts = append(parts, t)
				}
			}
		default:
			continue
		}
	}
}

func isRawText(z *html.Tokenizer) bool {
	name, _ := z.TagName()

	switch string(name) {
	case "script", "style":
		return true
	default:
		return false
	}
}
