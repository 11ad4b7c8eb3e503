package vision

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carprice/pkg/errors"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 5), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeRGBValidPNG(t *testing.T) {
	data := encodePNG(t, 32, 24)

	img, err := DecodeRGB(data)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 24, img.Bounds().Dy())
}

func TestDecodeRGBEmptyPayload(t *testing.T) {
	_, err := DecodeRGB(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrEmptyImage))
}

func TestDecodeRGBGarbage(t *testing.T) {
	_, err := DecodeRGB([]byte("definitely not an image"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBadImage))
}

func TestPreprocessShape(t *testing.T) {
	data := encodePNG(t, 320, 240)
	img, err := DecodeRGB(data)
	require.NoError(t, err)

	tensor := Preprocess(img)
	require.Len(t, tensor, 3*cropTo*cropTo)
}

func TestPreprocessSmallImage(t *testing.T) {
	// Smaller than the crop size; resize brings it up first.
	data := encodePNG(t, 40, 60)
	img, err := DecodeRGB(data)
	require.NoError(t, err)

	tensor := Preprocess(img)
	require.Len(t, tensor, 3*cropTo*cropTo)
}
