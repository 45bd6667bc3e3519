package renderer

import (
	"fmt"

	"github.com/df07/obscura/pkg/core"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// CameraConfig contains everything needed to place and aim a camera
type CameraConfig struct {
	Position  core.Vec3  // Eye position
	Direction core.Vec3  // Viewing direction, need not be normalized
	Up        core.Vec3  // Up vector used to orient the screen
	Width     int        // Image width in pixels
	Height    int        // Image height in pixels
	Samples   int        // Rays per pixel
	Depth     int        // Maximum bounces per ray
	FOV       float64    // Horizontal field of view in degrees
	Frustum   core.Range // Hit distances that count
}

// DefaultCameraConfig returns sensible default values
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Position:  core.NewVec3(0, 0, 0),
		Direction: core.NewVec3(1, 0, 0),
		Up:        core.NewVec3(0, 0, 1), // Z is vertical
		Width:     800,
		Height:    400,
		Samples:   100,
		Depth:     10,
		FOV:       90.0,
		Frustum:   core.NewRange(0.1, 1000.0),
	}
}

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base

	if !override.Position.IsZero() {
		result.Position = override.Position
	}
	if !override.Direction.IsZero() {
		result.Direction = override.Direction
	}
	if !override.Up.IsZero() {
		result.Up = override.Up
	}
	if override.Width > 0 {
		result.Width = override.Width
	}
	if override.Height > 0 {
		result.Height = override.Height
	}
	if override.Samples > 0 {
		result.Samples = override.Samples
	}
	if override.Depth > 0 {
		result.Depth = override.Depth
	}
	if override.FOV > 0 {
		result.FOV = override.FOV
	}
	if override.Frustum != (core.Range{}) {
		result.Frustum = override.Frustum
	}

	return result
}

// CaptureConfig controls how a capture is split across workers
type CaptureConfig struct {
	TileSize   int   // Size of each square tile in pixels
	NumWorkers int   // Number of parallel workers (0 = use CPU count)
	Seed       int64 // Base seed; each tile derives its own generator from it
}

// DefaultCaptureConfig returns sensible default values
func DefaultCaptureConfig() CaptureConfig {
	return CaptureConfig{
		TileSize:   32,
		NumWorkers: 0,
		Seed:       42,
	}
}
