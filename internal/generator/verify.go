package generator

import (
	"fmt"
	"strings"

	imagepkg "github.com/youruser/tangramqr/internal/image"
	"github.com/youruser/tangramqr/internal/manifest"
	"github.com/youruser/tangramqr/internal/pieces"
)

// Check is the verification outcome for one piece.
type Check struct {
	Piece    string
	Expected string
	Decoded  string
	// Resolved is the piece id the decoded text maps back to, if any.
	Resolved string
	Listed   string
	Err      error
}

func (c Check) OK() bool {
	return c.Err == nil && c.Decoded == c.Expected && c.Resolved == c.Piece && c.Listed == c.Expected
}

func (c Check) String() string {
	switch {
	case c.Err != nil:
		return fmt.Sprintf("%s: %v", c.Piece, c.Err)
	case c.Decoded != c.Expected:
		return fmt.Sprintf("%s: QR decodes to %q, want %q", c.Piece, c.Decoded, c.Expected)
	case c.Resolved == "":
		return fmt.Sprintf("%s: %q does not resolve to a piece", c.Piece, c.Decoded)
	case c.Resolved != c.Piece:
		return fmt.Sprintf("%s: QR resolves to %s", c.Piece, c.Resolved)
	case c.Listed != c.Expected:
		return fmt.Sprintf("%s: manifest lists %q, want %q", c.Piece, c.Listed, c.Expected)
	}
	return c.Piece + ": ok"
}

// Verify scans every piece PNG in OutDir and compares it, and the matching
// manifest line, against the URL the piece should carry. The error is only
// non-nil when the manifest cannot be read.
func (g *Generator) Verify() ([]Check, error) {
	m, err := manifest.Read(g.OutDir)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return g.verify(m.URLs, func(id string) (string, error) {
		return imagepkg.ScanFile(g.PiecePath(id))
	}), nil
}

// VerifyRemote checks the QR codes served by a running `serve` instance at
// addr. There is no manifest on that side, so Listed mirrors Expected.
func (g *Generator) VerifyRemote(addr string) []Check {
	addr = strings.TrimRight(addr, "/")
	checks := g.verify(nil, func(id string) (string, error) {
		img, err := imagepkg.DownloadImage(addr + "/api/qr/" + id)
		if err != nil {
			return "", err
		}
		return imagepkg.DecodeQR(img)
	})
	for i := range checks {
		checks[i].Listed = checks[i].Expected
	}
	return checks
}

func (g *Generator) verify(listed []string, scan func(id string) (string, error)) []Check {
	var out []Check
	for i, id := range g.Pieces.IDs() {
		c := Check{Piece: id, Expected: pieces.URL(g.Base, id)}
		if i < len(listed) {
			c.Listed = listed[i]
		}
		c.Decoded, c.Err = scan(id)
		if c.Err == nil {
			c.Resolved, _ = g.Pieces.Resolve(c.Decoded)
		}
		out = append(out, c)
		if c.OK() {
			g.Log.WithField("piece", id).Debug("verified")
		} else {
			g.Log.WithField("piece", id).Warn(c.String())
		}
	}
	return out
}

