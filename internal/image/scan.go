package imagepkg

import (
	"fmt"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// ScanFile opens an image file and decodes the QR code in it.
func ScanFile(path string) (string, error) {
	img, err := LoadNormalized(path)
	if err != nil {
		return "", err
	}
	return DecodeQR(img)
}

// DecodeQR reads the text encoded by the QR code in img.
func DecodeQR(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("creating bitmap: %w", err)
	}

	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", fmt.Errorf("no QR code found in image: %w", err)
	}

	return result.GetText(), nil
}
