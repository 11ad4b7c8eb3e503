package vision

import (
	"bytes"
	"image"
	"image/draw"

	_ "image/gif"  // register GIF decoding
	_ "image/jpeg" // register JPEG decoding
	_ "image/png"  // register PNG decoding

	"carprice/pkg/errors"
)

// DecodeRGB decodes an uploaded byte payload and normalizes it to a
// three-channel RGBA image regardless of source format. Empty payloads
// and undecodable bytes are client errors, never panics.
func DecodeRGB(data []byte) (*image.RGBA, error) {
	if len(data) == 0 {
		return nil, errors.ErrEmptyImage
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrBadImage, err.Error())
	}

	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba, nil
}
