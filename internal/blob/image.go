package blob

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"

	"github.com/disintegration/imaging"
)

// maxImageDim bounds either edge of a stored image; anything larger is
// downscaled before it hits the blob store.
const maxImageDim = 1600

var ErrUnsupportedImage = errors.New("unsupported image format")

var formats = map[string]imaging.Format{
	"jpeg": imaging.JPEG,
	"png":  imaging.PNG,
	"gif":  imaging.GIF,
}

// NormalizeImage proves the upload is a decodable JPEG/PNG/GIF and
// downscales oversized ones, re-encoding in the original format. Rejecting
// undecodable bytes here is what keeps arbitrary files out of the image
// store.
func NormalizeImage(r io.Reader) (io.Reader, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	format, ok := formats[name]
	if !ok {
		return nil, ErrUnsupportedImage
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxImageDim || bounds.Dy() > maxImageDim {
		img = imaging.Fit(img, maxImageDim, maxImageDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return &buf, nil
}
