package commitmsg

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind tells the two identifier flavours apart.
type Kind int

const (
	// TrackerID is an issue tracker entity id ("id:42").
	TrackerID Kind = iota
	// RequestID is a release request number ("RRQ:7").
	RequestID
)

// String returns the prefix used for the kind in commit
// messages.
func (k Kind) String() string {
	switch k {
	case TrackerID:
		return "id"
	case RequestID:
		return "RRQ"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Identifier is a ticket reference found in a commit
// message.
type Identifier struct {
	Kind   Kind
	Number uint32
}

// String formats the identifier the way it is written in
// commit messages.
func (id Identifier) String() string {
	return fmt.Sprintf("%s:%d", id.Kind, id.Number)
}

var (
	trackerPattern = regexp.MustCompile(`(id|ID):(\d+)`)
	requestPattern = regexp.MustCompile(`(rrq|RRQ):(\d+)`)
)

// Extract returns the identifiers found in summary: every
// tracker id from left to right, then every request id from
// left to right. Numbers that do not fit in 32 bits are
// skipped.
func Extract(summary string) []Identifier {
	ids := make([]Identifier, 0)
	ids = appendMatches(ids, trackerPattern, TrackerID, summary)
	ids = appendMatches(ids, requestPattern, RequestID, summary)

	return ids
}

func appendMatches(
	ids []Identifier,
	re *regexp.Regexp,
	kind Kind,
	text string,
) []Identifier {
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		n, err := strconv.ParseUint(m[2], 10, 32)
		if err != nil {
			continue
		}

		ids = append(ids, Identifier{Kind: kind, Number: uint32(n)})
	}

	return ids
}

// Summary returns the first line of msg and whether that
// line is non-empty. A trailing carriage return is dropped.
func Summary(msg string) (string, bool) {
	line, _, _ := strings.Cut(msg, "\n")
	line = strings.TrimSuffix(line, "\r")

	return line, line != ""
}
