package images

import (
	"image"
	"testing"
)

func TestFitBox(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		maxW, maxH   float64
		wantW, wantH float64
	}{
		{"fits untouched", 100, 50, 200, 200, 100, 50},
		{"width bound", 400, 200, 200, 200, 200, 100},
		{"height bound", 200, 400, 200, 200, 100, 200},
		{"never upscaled", 10, 10, 500, 500, 10, 10},
	}
	for _, tc := range tests {
		img := image.NewRGBA(image.Rect(0, 0, tc.w, tc.h))
		w, h := FitBox(img, tc.maxW, tc.maxH)
		if w != tc.wantW || h != tc.wantH {
			t.Errorf("%s: got %gx%g, want %gx%g", tc.name, w, h, tc.wantW, tc.wantH)
		}
	}
}

func TestFitBoxDegenerate(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 0, 0))
	if w, h := FitBox(img, 100, 100); w != 0 || h != 0 {
		t.Errorf("got %gx%g, want zeros", w, h)
	}
}

func TestDownsample(t *testing.T) {
	small := image.NewRGBA(image.Rect(0, 0, 30, 20))
	if got := Downsample(small, 100); got != small {
		t.Error("small image was rescaled")
	}

	wide := image.NewRGBA(image.Rect(0, 0, 400, 100))
	got := Downsample(wide, 200).Bounds()
	if got.Dx() != 200 || got.Dy() != 50 {
		t.Errorf("wide: got %dx%d, want 200x50", got.Dx(), got.Dy())
	}

	tall := image.NewRGBA(image.Rect(0, 0, 100, 400))
	got = Downsample(tall, 200).Bounds()
	if got.Dx() != 50 || got.Dy() != 200 {
		t.Errorf("tall: got %dx%d, want 50x200", got.Dx(), got.Dy())
	}
}
