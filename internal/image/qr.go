package imagepkg

import (
	"bytes"
	"image"
	"image/png"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultModuleSize is the pixel width of one QR module when no explicit
// image size is requested. go-qrcode treats a negative size as px/module.
const DefaultModuleSize = 10

// GenerateQRPNG returns PNG bytes of a QR code for the given text.
// A size <= 0 renders at DefaultModuleSize pixels per module with the
// standard quiet zone, so the image grows with the QR version.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	if size <= 0 {
		size = -DefaultModuleSize
	}
	pngBytes, err := qrcode.Encode(text, qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	// validate png decode
	_, err = png.Decode(bytes.NewReader(pngBytes))
	if err != nil {
		return nil, err
	}
	return pngBytes, nil
}

// GenerateQRImage returns an image.Image for further composition.
func GenerateQRImage(text string, size int) (image.Image, error) {
	b, err := GenerateQRPNG(text, size)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(b))
	return img, err
}
