package imagepkg

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

var (
	ErrNoImages     = errors.New("no images to compose")
	ErrSizeMismatch = errors.New("images differ in size")
	ErrTooManyCells = errors.New("grid too small for images")
)

const SheetTitle = "Tangram QR Codes"

// Layout describes the contact sheet grid. Units are pixels.
type Layout struct {
	Columns int
	Rows    int
	Margin  int
	Header  int
	// TitleY is the top of the first title line; cells start at
	// HeaderOffset + Margin.
	TitleY       int
	HeaderOffset int
	LabelGap     int
}

// DefaultLayout is a 4x2 grid with 20px margins and a 60px header band.
func DefaultLayout() Layout {
	return Layout{
		Columns:      4,
		Rows:         2,
		Margin:       20,
		Header:       60,
		TitleY:       10,
		HeaderOffset: 50,
		LabelGap:     5,
	}
}

// CanvasSize returns the sheet dimensions for cells of w x h.
func (l Layout) CanvasSize(w, h int) (int, int) {
	cw := l.Columns*w + (l.Columns+1)*l.Margin
	ch := l.Rows*h + (l.Rows+1)*l.Margin + l.Header
	return cw, ch
}

// CellOrigin returns the top-left pixel of cell idx, filled row by row.
func (l Layout) CellOrigin(idx, w, h int) image.Point {
	r := idx / l.Columns
	c := idx % l.Columns
	return image.Pt(
		l.Margin+c*(w+l.Margin),
		l.HeaderOffset+l.Margin+r*(h+l.Margin),
	)
}

// ComposeSheet lays imgs out on a white canvas with a title naming base and
// each image's label drawn below it. All images must share one size.
func ComposeSheet(base string, labels []string, imgs []image.Image, layout Layout) (*image.NRGBA, error) {
	if len(imgs) == 0 {
		return nil, ErrNoImages
	}
	if len(labels) != len(imgs) {
		return nil, fmt.Errorf("%d labels for %d images", len(labels), len(imgs))
	}
	if len(imgs) > layout.Columns*layout.Rows {
		return nil, fmt.Errorf("%w: %d images, %dx%d grid", ErrTooManyCells, len(imgs), layout.Columns, layout.Rows)
	}

	size := imgs[0].Bounds().Size()
	for i, img := range imgs[1:] {
		if got := img.Bounds().Size(); got != size {
			return nil, fmt.Errorf("%w: %s is %v, %s is %v", ErrSizeMismatch, labels[0], size, labels[i+1], got)
		}
	}
	w, h := size.X, size.Y

	cw, ch := layout.CanvasSize(w, h)
	canvas := imaging.New(cw, ch, color.White)
	for i, img := range imgs {
		canvas = imaging.Paste(canvas, img, layout.CellOrigin(i, w, h))
	}

	dc := gg.NewContextForImage(canvas)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(color.Black)

	lineHeight := dc.FontHeight() + 2
	title := []string{SheetTitle, "Base: " + base}
	for i, line := range title {
		drawTopLeft(dc, line, float64(layout.Margin), float64(layout.TitleY)+float64(i)*lineHeight)
	}
	for i, label := range labels {
		pt := layout.CellOrigin(i, w, h)
		drawTopLeft(dc, label, float64(pt.X), float64(pt.Y+h+layout.LabelGap))
	}

	return imaging.Clone(dc.Image()), nil
}

// drawTopLeft draws s with (x, y) as the top-left corner of its box.
func drawTopLeft(dc *gg.Context, s string, x, y float64) {
	dc.DrawStringAnchored(s, x, y, 0, 1)
}
