package vision

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// ResNet-style preprocessing constants: resize the shorter side to 256,
// center-crop 224 and standardize with the ImageNet channel statistics.
const (
	resizeTo = 256
	cropTo   = 224
)

var (
	imagenetMean = [3]float32{0.485, 0.456, 0.406}
	imagenetStd  = [3]float32{0.229, 0.224, 0.225}
)

// Preprocess converts a decoded image into the NCHW float32 tensor the
// ONNX classifier expects (batch of one).
func Preprocess(img image.Image) []float32 {
	resized := resizeShorterSide(img, resizeTo)
	cropped := centerCrop(resized, cropTo)

	tensor := make([]float32, 3*cropTo*cropTo)
	bounds := cropped.Bounds()
	for y := 0; y < cropTo; y++ {
		for x := 0; x < cropTo; x++ {
			r, g, b, _ := cropped.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA returns 16-bit channels.
			px := [3]float32{
				float32(r) / 65535.0,
				float32(g) / 65535.0,
				float32(b) / 65535.0,
			}
			for c := 0; c < 3; c++ {
				tensor[c*cropTo*cropTo+y*cropTo+x] = (px[c] - imagenetMean[c]) / imagenetStd[c]
			}
		}
	}
	return tensor
}

func resizeShorterSide(img image.Image, target int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return img
	}

	var newW, newH int
	if w < h {
		newW = target
		newH = h * target / w
	} else {
		newH = target
		newW = w * target / h
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return dst
}

func centerCrop(img image.Image, size int) image.Image {
	bounds := img.Bounds()
	x0 := bounds.Min.X + (bounds.Dx()-size)/2
	y0 := bounds.Min.Y + (bounds.Dy()-size)/2

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.Copy(dst, image.Point{}, img, image.Rect(x0, y0, x0+size, y0+size), xdraw.Src, nil)
	return dst
}
