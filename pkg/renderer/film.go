package renderer

import (
	"image"
	"image/color"
)

// Film is the developed output of a capture: one packed R<<16|G<<8|B value
// per pixel, row-major with (0, 0) in the top-left corner
type Film struct {
	Width  int
	Height int
	Pixels []uint32
}

// NewFilm creates a black film of the given size
func NewFilm(width, height int) *Film {
	return &Film{
		Width:  width,
		Height: height,
		Pixels: make([]uint32, width*height),
	}
}

// At returns the packed color of a pixel
func (f *Film) At(x, y int) uint32 {
	return f.Pixels[y*f.Width+x]
}

// Set stores the packed color of a pixel
func (f *Film) Set(x, y int, packed uint32) {
	f.Pixels[y*f.Width+x] = packed
}

// Image converts the film to an opaque RGBA image
func (f *Film) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetRGBA(x, y, unpack(f.At(x, y)))
		}
	}
	return img
}

func unpack(packed uint32) color.RGBA {
	return color.RGBA{
		R: uint8(packed >> 16),
		G: uint8(packed >> 8),
		B: uint8(packed),
		A: 255,
	}
}
