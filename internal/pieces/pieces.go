// Package pieces holds the ordered set of tangram pieces and builds the URL
// each piece's QR code points at.
package pieces

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// DefaultBase is used when no base URL is configured.
const DefaultBase = "http://localhost:8080/"

// ErrUnknown is returned when a piece id is not part of a set.
var ErrUnknown = errors.New("unknown piece")

// Set is an immutable, ordered list of piece identifiers.
type Set struct {
	ids []string
}

// Default returns piece_1 .. piece_7.
func Default() Set {
	ids := make([]string, 0, 7)
	for i := 1; i <= 7; i++ {
		ids = append(ids, fmt.Sprintf("piece_%d", i))
	}
	return Set{ids: ids}
}

func NewSet(ids ...string) Set {
	cp := make([]string, len(ids))
	copy(cp, ids)
	return Set{ids: cp}
}

// IDs returns a copy of the identifiers in order.
func (s Set) IDs() []string {
	cp := make([]string, len(s.ids))
	copy(cp, s.ids)
	return cp
}

func (s Set) Len() int { return len(s.ids) }

func (s Set) Contains(id string) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Lookup returns the URL for id, or ErrUnknown.
func (s Set) Lookup(base, id string) (string, error) {
	if !s.Contains(id) {
		return "", fmt.Errorf("%w: %q", ErrUnknown, id)
	}
	return URL(base, id), nil
}

// URLs returns one URL per piece, in set order.
func (s Set) URLs(base string) []string {
	out := make([]string, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, URL(base, id))
	}
	return out
}

// NormalizeBase strips trailing '?' characters. Nothing else is validated.
func NormalizeBase(base string) string {
	return strings.TrimRight(base, "?")
}

// URL builds base + "?piece=" + id, normalizing base first.
func URL(base, id string) string {
	return NormalizeBase(base) + "?piece=" + id
}

var absoluteURL = regexp.MustCompile(`(?i)^https?://`)

// Resolve maps scanned QR text to a piece id. It accepts an absolute
// http(s) URL or a relative reference carrying a piece query parameter,
// falling back to the trimmed text as a bare id. The id must be in s.
func (s Set) Resolve(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	id := pieceParam(text)
	if id == "" {
		id = text
	}
	if !s.Contains(id) {
		return "", fmt.Errorf("%w: %q", ErrUnknown, raw)
	}
	return id, nil
}

// Resolve resolves raw against the default piece set.
func Resolve(raw string) (string, error) {
	return Default().Resolve(raw)
}

func pieceParam(text string) string {
	if !absoluteURL.MatchString(text) && !strings.HasPrefix(text, "?") && !strings.Contains(text, "piece=") {
		return ""
	}
	u, err := url.Parse(text)
	if err != nil {
		return ""
	}
	return u.Query().Get("piece")
}
