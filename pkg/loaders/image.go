package loaders

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
)

// SavePNG writes img to filename, creating parent directories as needed
func SavePNG(filename string, img *image.RGBA) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := gg.NewContextForRGBA(img).SavePNG(filename); err != nil {
		return fmt.Errorf("failed to save %s: %w", filename, err)
	}
	return nil
}

// LoadPNG reads a PNG image from filename
func LoadPNG(filename string) (image.Image, error) {
	img, err := gg.LoadPNG(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}
	return img, nil
}
