package renderer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/df07/obscura/pkg/core"
)

var (
	// ErrNotAimed is returned when capturing with a camera whose screen frame was never set up
	ErrNotAimed = errors.New("camera has not been aimed")

	// ErrDegenerateFrame is returned when camera settings cannot span a screen
	ErrDegenerateFrame = errors.New("degenerate camera frame")
)

// Scene interface to avoid circular imports
type Scene interface {
	CastRay(ray core.Ray, window core.Range, depth int, sampler core.Sampler) core.Color
	Preview(ray core.Ray, window core.Range) core.Color
}

// Camera fires rays from its position through a virtual screen one unit in
// front of it. The zero value is not aimed and cannot capture.
type Camera struct {
	Position core.Vec3

	width, height int
	samples       int
	depth         int
	frustum       core.Range

	// Screen frame: origin is the top-left corner, iHat and jHat span one
	// pixel to the right and one pixel down
	origin     core.Vec3
	iHat, jHat core.Vec3
	aimed      bool

	captureConfig CaptureConfig
	hooks         Hooks
	logger        core.Logger
}

// NewCamera creates a camera from config and aims it
func NewCamera(config CameraConfig) (*Camera, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("image size %dx%d: %w", config.Width, config.Height, ErrDegenerateFrame)
	}
	if config.Samples <= 0 {
		return nil, fmt.Errorf("samples per pixel must be positive, got %d", config.Samples)
	}
	if config.Depth < 0 {
		return nil, fmt.Errorf("depth must not be negative, got %d", config.Depth)
	}

	frustum := config.Frustum
	if frustum == (core.Range{}) {
		frustum = DefaultCameraConfig().Frustum
	}

	c := &Camera{
		Position:      config.Position,
		width:         config.Width,
		height:        config.Height,
		samples:       config.Samples,
		depth:         config.Depth,
		frustum:       frustum,
		captureConfig: DefaultCaptureConfig(),
		logger:        NewDefaultLogger(),
	}

	if err := c.Aim(config.FOV, config.Direction, config.Up); err != nil {
		return nil, err
	}
	return c, nil
}

// Aim computes the screen frame for a horizontal field of view in degrees,
// a viewing direction and an up vector. On error the previous frame is kept.
func (c *Camera) Aim(fov float64, direction, up core.Vec3) error {
	if c.width <= 0 || c.height <= 0 {
		return fmt.Errorf("image size %dx%d: %w", c.width, c.height, ErrDegenerateFrame)
	}
	if !(fov > 0 && fov < 180) {
		return fmt.Errorf("field of view %g: %w", fov, ErrDegenerateFrame)
	}
	if direction.IsZero() {
		return fmt.Errorf("camera direction: %w", core.ErrZeroDirection)
	}

	unitDirection := direction.Normalize()

	// Half extents of the screen
	halfWidth := math.Tan(fov * math.Pi / 360.0)
	halfHeight := float64(c.height) / float64(c.width) * halfWidth

	// iStar points left and jStar points down
	iStar := up.Cross(unitDirection)
	if iStar.IsZero() {
		return fmt.Errorf("up %v is parallel to direction %v: %w", up, direction, ErrDegenerateFrame)
	}
	iStar = iStar.Normalize()
	jStar := iStar.Cross(unitDirection).Normalize()

	c.iHat = iStar.Multiply(-2 * halfWidth / float64(c.width))
	c.jHat = jStar.Multiply(2 * halfHeight / float64(c.height))
	c.origin = unitDirection.Add(iStar.Multiply(halfWidth)).Subtract(jStar.Multiply(halfHeight))
	c.aimed = true

	return nil
}

// SetCaptureConfig updates tiling, worker count and seed
func (c *Camera) SetCaptureConfig(config CaptureConfig) {
	c.captureConfig = config
}

// SetHooks installs capture observers
func (c *Camera) SetHooks(hooks Hooks) {
	c.hooks = hooks
}

// SetLogger replaces the logger used for capture summaries
func (c *Camera) SetLogger(logger core.Logger) {
	c.logger = logger
}

// Width returns the image width in pixels
func (c *Camera) Width() int { return c.width }

// Height returns the image height in pixels
func (c *Camera) Height() int { return c.height }

// PixelRay returns the ray through the centre of a pixel
func (c *Camera) PixelRay(x, y int) (core.Ray, error) {
	if !c.aimed {
		return core.Ray{}, ErrNotAimed
	}
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return core.Ray{}, fmt.Errorf("pixel (%d, %d) is outside %dx%d", x, y, c.width, c.height)
	}
	return c.rayThrough(float64(x)+0.5, float64(y)+0.5), nil
}

// Frustum returns the distance window of primary rays
func (c *Camera) Frustum() core.Range { return c.frustum }

// rayThrough returns the ray through fractional screen coordinates
func (c *Camera) rayThrough(x, y float64) core.Ray {
	screen := c.origin.Add(c.iHat.Multiply(x)).Add(c.jHat.Multiply(y))
	return core.NewRay(c.Position, screen)
}

// Capture renders scene by path tracing, averaging jittered samples per pixel
func (c *Camera) Capture(ctx context.Context, scene Scene) (*Film, RenderStats, error) {
	return c.develop(ctx, "Capture Scene", c.samples, func(x, y int, sampler core.Sampler) core.Color {
		var pixel PixelStats
		for s := 0; s < c.samples; s++ {
			offset := sampler.Get2D()
			ray := c.rayThrough(float64(x)+offset.X, float64(y)+offset.Y)
			pixel.AddSample(scene.CastRay(ray, c.frustum, c.depth, sampler))
		}
		return pixel.GetColor()
	})
}

// Preview renders scene with one ray through each pixel centre and flat shading
func (c *Camera) Preview(ctx context.Context, scene Scene) (*Film, RenderStats, error) {
	return c.develop(ctx, "Preview Scene", 1, func(x, y int, _ core.Sampler) core.Color {
		return scene.Preview(c.rayThrough(float64(x)+0.5, float64(y)+0.5), c.frustum)
	})
}

type pixelShader func(x, y int, sampler core.Sampler) core.Color

// develop shades every pixel tile by tile and quantizes the result onto film
func (c *Camera) develop(ctx context.Context, eventName string, samplesPerPixel int, shade pixelShader) (*Film, RenderStats, error) {
	if !c.aimed {
		return nil, RenderStats{}, ErrNotAimed
	}

	tileSize := c.captureConfig.TileSize
	if tileSize <= 0 {
		tileSize = DefaultCaptureConfig().TileSize
	}

	startTime := time.Now()
	film := NewFilm(c.width, c.height)
	tiles := NewTileGrid(c.width, c.height, tileSize, c.captureConfig.Seed)
	pool := NewWorkerPool(c.captureConfig.NumWorkers)

	c.hooks.gridSize(c.width, c.height)
	c.hooks.eventStart(eventName)

	err := pool.Run(ctx, tiles, func(tile *Tile) error {
		for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
			for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
				c.hooks.pixelStart(x, y)
				film.Set(x, y, shade(x, y, tile.Sampler).Quantize())
				c.hooks.pixelStop(x, y)
			}
		}
		return nil
	})

	c.hooks.eventStop(eventName)

	if err != nil {
		return nil, RenderStats{}, fmt.Errorf("%s interrupted: %w", eventName, err)
	}

	totalPixels := c.width * c.height
	stats := RenderStats{
		TotalPixels:    totalPixels,
		TotalSamples:   totalPixels * samplesPerPixel,
		AverageSamples: float64(samplesPerPixel),
		TilesRendered:  len(tiles),
		NumWorkers:     pool.GetNumWorkers(),
		Elapsed:        time.Since(startTime),
	}

	if c.logger != nil {
		c.logger.Printf("%s: %dx%d, %d samples/pixel, %d tiles on %d workers in %v\n",
			eventName, c.width, c.height, samplesPerPixel, stats.TilesRendered, stats.NumWorkers, stats.Elapsed)
	}

	return film, stats, nil
}
