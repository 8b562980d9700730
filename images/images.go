// Package images prepares raster images for placement: fitting them to
// their display box and downsampling oversized pixel data.
package images

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// FitBox returns the largest width/height inside maxW×maxH that preserves
// the image's aspect ratio.
func FitBox(img image.Image, maxW, maxH float64) (float64, float64) {
	b := img.Bounds()
	w := float64(b.Dx())
	h := float64(b.Dy())
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	scale := math.Min(maxW/w, maxH/h)
	if scale > 1 {
		scale = 1
	}
	return w * scale, h * scale
}

// Downsample rescales img so neither dimension exceeds maxDim pixels.
// Images already small enough are returned unchanged.
func Downsample(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}
	scale := float64(maxDim) / float64(w)
	if h > w {
		scale = float64(maxDim) / float64(h)
	}
	dw := int(math.Round(float64(w) * scale))
	dh := int(math.Round(float64(h) * scale))
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
