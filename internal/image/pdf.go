package imagepkg

import (
	"fmt"
	"image"

	"github.com/signintech/gopdf"
)

// pageMargin is the border kept around the sheet on the PDF page, in points.
const pageMargin = 36.0

// WriteSheetPDF places img on a single A4 page, scaled to fit the printable
// area, and writes it to path.
func WriteSheetPDF(img image.Image, path string) error {
	page := *gopdf.PageSizeA4
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: page})
	pdf.AddPage()

	rect := fitRect(img.Bounds().Dx(), img.Bounds().Dy(), page.W-2*pageMargin, page.H-2*pageMargin)
	if err := pdf.ImageFrom(img, pageMargin, pageMargin, rect); err != nil {
		return fmt.Errorf("place sheet: %w", err)
	}
	if err := pdf.WritePdf(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// fitRect scales w x h down to fit maxW x maxH, keeping the aspect ratio.
// Images that already fit keep their size.
func fitRect(w, h int, maxW, maxH float64) *gopdf.Rect {
	fw, fh := float64(w), float64(h)
	scale := 1.0
	if fw > maxW {
		scale = maxW / fw
	}
	if fh*scale > maxH {
		scale = maxH / fh
	}
	return &gopdf.Rect{W: fw * scale, H: fh * scale}
}
