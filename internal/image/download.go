package imagepkg

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/youruser/tangramqr/internal/util"
)

// DownloadImage downloads an image from url and returns it decoded.
func DownloadImage(url string) (image.Image, error) {
	body, err := util.GetBytes(url)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return img, nil
}

// LoadNormalized opens an image file and converts it to NRGBA.
func LoadNormalized(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return imaging.Clone(img), nil
}
