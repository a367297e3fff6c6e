// Package manifest reads and writes urls.txt, the plain-text list of
// generated piece URLs.
package manifest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/youruser/tangramqr/internal/util"
)

const FileName = "urls.txt"

type Manifest struct {
	URLs []string `json:"urls"`
}

// Text joins the URLs with newlines, without a trailing newline.
func (m Manifest) Text() string {
	return strings.Join(m.URLs, "\n")
}

// Write replaces dir/urls.txt and returns its path.
func (m Manifest) Write(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if err := util.WriteFile(path, []byte(m.Text())); err != nil {
		return "", err
	}
	return path, nil
}

// Read loads dir/urls.txt. A single trailing newline is tolerated.
func Read(dir string) (Manifest, error) {
	b, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return Manifest{}, err
	}
	text := strings.TrimSuffix(strings.ReplaceAll(string(b), "\r\n", "\n"), "\n")
	if text == "" {
		return Manifest{}, nil
	}
	return Manifest{URLs: strings.Split(text, "\n")}, nil
}
