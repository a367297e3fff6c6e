// Package generator writes the per-piece QR codes, the contact sheet and the
// URL manifest for one run.
package generator

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	imagepkg "github.com/youruser/tangramqr/internal/image"
	"github.com/youruser/tangramqr/internal/manifest"
	"github.com/youruser/tangramqr/internal/pieces"
	"github.com/youruser/tangramqr/internal/util"
)

const (
	SheetFile    = "qr_sheet.png"
	SheetPDFFile = "qr_sheet.pdf"
)

type Generator struct {
	Pieces pieces.Set
	// Base is normalized by New; trailing '?' are already gone.
	Base   string
	OutDir string
	Layout imagepkg.Layout
	// PDF also writes the sheet as an A4 PDF next to the PNG.
	PDF bool
	Log *logrus.Entry
}

// New returns a Generator with the default layout. log may be nil.
func New(set pieces.Set, base, outDir string, log *logrus.Logger) *Generator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Generator{
		Pieces: set,
		Base:   pieces.NormalizeBase(base),
		OutDir: outDir,
		Layout: imagepkg.DefaultLayout(),
		Log:    log.WithField("component", "generator"),
	}
}

// RunResult lists what a run wrote.
type RunResult struct {
	Pieces   []string
	URLs     []string
	Sheet    SheetResult
	Manifest string
}

// SheetResult reports the outcome of the best-effort sheet step.
type SheetResult struct {
	Path    string
	PDFPath string
	Err     error
	// PDFErr is set when the PNG was saved but the PDF copy was not.
	PDFErr error
}

func (r SheetResult) OK() bool { return r.Err == nil }

// PiecePath returns where the PNG for id is written.
func (g *Generator) PiecePath(id string) string {
	return filepath.Join(g.OutDir, id+".png")
}

// Run writes every piece PNG, then the sheet, then the manifest. A failed
// sheet is logged and does not stop the run; any other failure is returned.
func (g *Generator) Run() (RunResult, error) {
	var res RunResult
	urls, err := g.WritePieces()
	if err != nil {
		return res, err
	}
	res.URLs = urls
	for _, id := range g.Pieces.IDs() {
		res.Pieces = append(res.Pieces, g.PiecePath(id))
	}

	res.Sheet = g.BuildSheet()
	if !res.Sheet.OK() {
		g.Log.WithError(res.Sheet.Err).Warn("could not create sheet")
	}
	if res.Sheet.PDFErr != nil {
		g.Log.WithError(res.Sheet.PDFErr).Warn("could not create sheet pdf")
	}

	res.Manifest, err = g.WriteManifest(urls)
	if err != nil {
		return res, err
	}
	return res, nil
}

// WritePieces encodes and saves one QR PNG per piece, in set order, and
// returns the URLs it encoded.
func (g *Generator) WritePieces() ([]string, error) {
	var urls []string
	for _, id := range g.Pieces.IDs() {
		url := pieces.URL(g.Base, id)
		b, err := imagepkg.GenerateQRPNG(url, 0)
		if err != nil {
			return urls, fmt.Errorf("encode %s: %w", id, err)
		}
		path := g.PiecePath(id)
		if err := util.WriteFile(path, b); err != nil {
			return urls, fmt.Errorf("write %s: %w", path, err)
		}
		g.Log.WithField("path", path).Info("saved")
		urls = append(urls, url)
	}
	return urls, nil
}

// BuildSheet re-reads the piece PNGs from disk and composes them into
// qr_sheet.png. It never fails the run; problems are reported in the result.
func (g *Generator) BuildSheet() (res SheetResult) {
	defer func() {
		if r := recover(); r != nil {
			res = SheetResult{Err: fmt.Errorf("sheet: %v", r)}
		}
	}()

	ids := g.Pieces.IDs()
	imgs := make([]image.Image, 0, len(ids))
	for _, id := range ids {
		img, err := imagepkg.LoadNormalized(g.PiecePath(id))
		if err != nil {
			return SheetResult{Err: fmt.Errorf("load %s: %w", id, err)}
		}
		imgs = append(imgs, img)
	}

	sheet, err := imagepkg.ComposeSheet(g.Base, ids, imgs, g.Layout)
	if err != nil {
		return SheetResult{Err: err}
	}

	if err := util.EnsureDir(g.OutDir); err != nil {
		return SheetResult{Err: err}
	}
	path := filepath.Join(g.OutDir, SheetFile)
	if err := imaging.Save(sheet, path); err != nil {
		return SheetResult{Err: fmt.Errorf("save %s: %w", path, err)}
	}
	g.Log.WithField("path", path).Info("saved")
	res.Path = path

	if g.PDF {
		pdfPath := filepath.Join(g.OutDir, SheetPDFFile)
		if err := imagepkg.WriteSheetPDF(sheet, pdfPath); err != nil {
			res.PDFErr = err
			return res
		}
		g.Log.WithField("path", pdfPath).Info("saved")
		res.PDFPath = pdfPath
	}
	return res
}

// WriteManifest writes urls.txt and returns its path.
func (g *Generator) WriteManifest(urls []string) (string, error) {
	path, err := manifest.Manifest{URLs: urls}.Write(g.OutDir)
	if err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	g.Log.WithField("path", path).Info("saved")
	return path, nil
}
