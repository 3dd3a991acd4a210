package agent

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	"kitabi-buddy/backend/internal/agent/deps"
	"kitabi-buddy/backend/internal/cover"
)

// JPEGQuality is the compression quality of the image sent to the model
const JPEGQuality = 95

var errNoImage = errors.New("no image to encode")

// EncodeInline normalizes img to opaque RGB and compresses it to JPEG for
// the model's inline-data input
func EncodeInline(img image.Image) (deps.InlineImage, error) {
	if img == nil || img.Bounds().Empty() {
		return deps.InlineImage{}, errNoImage
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, cover.ToRGB(img), &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return deps.InlineImage{}, fmt.Errorf("encode jpeg: %w", err)
	}

	return deps.InlineImage{
		MIMEType: "image/jpeg",
		Data:     buf.Bytes(),
	}, nil
}
