package renderer

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/df07/obscura/pkg/core"
)

func TestNewCamera_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CameraConfig)
		target error
	}{
		{"Zero width", func(c *CameraConfig) { c.Width = 0 }, ErrDegenerateFrame},
		{"Negative height", func(c *CameraConfig) { c.Height = -1 }, ErrDegenerateFrame},
		{"Zero field of view", func(c *CameraConfig) { c.FOV = 0 }, ErrDegenerateFrame},
		{"Straight angle field of view", func(c *CameraConfig) { c.FOV = 180 }, ErrDegenerateFrame},
		{"Zero direction", func(c *CameraConfig) { c.Direction = core.Vec3{} }, core.ErrZeroDirection},
		{"Up parallel to direction", func(c *CameraConfig) { c.Up = core.NewVec3(2, 0, 0) }, ErrDegenerateFrame},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testCameraConfig()
			tt.modify(&config)

			if _, err := NewCamera(config); !errors.Is(err, tt.target) {
				t.Errorf("Expected %v, got %v", tt.target, err)
			}
		})
	}

	config := testCameraConfig()
	config.Samples = 0
	if _, err := NewCamera(config); err == nil {
		t.Error("Expected error for zero samples")
	}
}

func TestCamera_ScreenFrame(t *testing.T) {
	// Looking along +x with z up, 90 degree fov on a 4x2 image:
	// half width 1, half height 0.5
	camera, err := NewCamera(testCameraConfig())
	if err != nil {
		t.Fatalf("NewCamera failed: %v", err)
	}

	tests := []struct {
		name     string
		x, y     float64
		expected core.Vec3
	}{
		{"Top left corner", 0, 0, core.NewVec3(1, 1, 0.5)},
		{"Bottom right corner", 4, 2, core.NewVec3(1, -1, -0.5)},
		{"Centre", 2, 1, core.NewVec3(1, 0, 0)},
		{"Top right corner", 4, 0, core.NewVec3(1, -1, 0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := camera.rayThrough(tt.x, tt.y)
			expected := tt.expected.Normalize()
			if !ray.Direction.Equals(expected, 1e-9) {
				t.Errorf("Expected direction %v, got %v", expected, ray.Direction)
			}
			if ray.Origin != camera.Position {
				t.Errorf("Rays should start at the camera, got %v", ray.Origin)
			}
		})
	}
}

func TestCamera_AimKeepsFrameOnError(t *testing.T) {
	camera, err := NewCamera(testCameraConfig())
	if err != nil {
		t.Fatalf("NewCamera failed: %v", err)
	}
	before := camera.rayThrough(0, 0)

	if err := camera.Aim(90, core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1)); !errors.Is(err, ErrDegenerateFrame) {
		t.Fatalf("Expected ErrDegenerateFrame, got %v", err)
	}
	if after := camera.rayThrough(0, 0); after != before {
		t.Errorf("Failed aim changed the frame from %v to %v", before.Direction, after.Direction)
	}

	// Re-aiming straight down with y as up
	if err := camera.Aim(90, core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0)); err != nil {
		t.Fatalf("Aim failed: %v", err)
	}
	centre := camera.rayThrough(2, 1)
	if !centre.Direction.Equals(core.NewVec3(0, 0, -1), 1e-9) {
		t.Errorf("Expected centre ray straight down, got %v", centre.Direction)
	}
}

func TestCamera_CaptureBeforeAim(t *testing.T) {
	var camera Camera

	if _, _, err := camera.Capture(context.Background(), directionScene{}); !errors.Is(err, ErrNotAimed) {
		t.Errorf("Expected ErrNotAimed from Capture, got %v", err)
	}
	if _, _, err := camera.Preview(context.Background(), directionScene{}); !errors.Is(err, ErrNotAimed) {
		t.Errorf("Expected ErrNotAimed from Preview, got %v", err)
	}
	if err := camera.Aim(90, core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1)); !errors.Is(err, ErrDegenerateFrame) {
		t.Errorf("A zero camera has no image size to aim, got %v", err)
	}
}

func TestCamera_PreviewOrientation(t *testing.T) {
	camera, err := NewCamera(testCameraConfig())
	if err != nil {
		t.Fatalf("NewCamera failed: %v", err)
	}
	camera.SetLogger(&recordingLogger{})

	film, stats, err := camera.Preview(context.Background(), directionScene{})
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}

	// Left half is red, top row is green
	expected := [][]uint32{
		{0xFFFF00, 0xFFFF00, 0x00FF00, 0x00FF00},
		{0xFF0000, 0xFF0000, 0x000000, 0x000000},
	}
	for y, row := range expected {
		for x, packed := range row {
			if got := film.At(x, y); got != packed {
				t.Errorf("Pixel (%d,%d): expected %06X, got %06X", x, y, packed, got)
			}
		}
	}

	if stats.TotalPixels != 8 || stats.TotalSamples != 8 {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

func TestCamera_CaptureAveragesSamples(t *testing.T) {
	config := testCameraConfig()
	config.Samples = 200
	camera, err := NewCamera(config)
	if err != nil {
		t.Fatalf("NewCamera failed: %v", err)
	}
	camera.SetLogger(&recordingLogger{})

	film, stats, err := camera.Capture(context.Background(), directionScene{})
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	// Red is the mean of uniform draws, so it settles near 127
	for i, packed := range film.Pixels {
		red := int(packed >> 16)
		if math.Abs(float64(red)-127.5) > 25 {
			t.Errorf("Pixel %d: red %d is far from the sample mean", i, red)
		}
	}
	if stats.TotalSamples != 8*200 || stats.AverageSamples != 200 {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

func TestCamera_CaptureDeterministicAcrossWorkers(t *testing.T) {
	config := testCameraConfig()
	config.Width, config.Height, config.Samples = 37, 23, 3

	render := func(workers int, seed int64) []uint32 {
		camera, err := NewCamera(config)
		if err != nil {
			t.Fatalf("NewCamera failed: %v", err)
		}
		camera.SetLogger(&recordingLogger{})
		camera.SetCaptureConfig(CaptureConfig{TileSize: 8, NumWorkers: workers, Seed: seed})

		film, _, err := camera.Capture(context.Background(), directionScene{})
		if err != nil {
			t.Fatalf("Capture failed: %v", err)
		}
		return film.Pixels
	}

	serial := render(1, 7)
	for _, workers := range []int{2, 4, 16} {
		parallel := render(workers, 7)
		for i := range serial {
			if serial[i] != parallel[i] {
				t.Fatalf("%d workers differ from serial at pixel %d: %06X vs %06X", workers, i, parallel[i], serial[i])
			}
		}
	}

	other := render(1, 8)
	same := true
	for i := range serial {
		if serial[i] != other[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("Different seeds should give different captures")
	}
}

func TestCamera_CaptureCancelled(t *testing.T) {
	camera, err := NewCamera(testCameraConfig())
	if err != nil {
		t.Fatalf("NewCamera failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := camera.Capture(ctx, directionScene{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestCamera_Hooks(t *testing.T) {
	camera, err := NewCamera(testCameraConfig())
	if err != nil {
		t.Fatalf("NewCamera failed: %v", err)
	}
	camera.SetLogger(&recordingLogger{})

	var pixelStarts, pixelStops atomic.Int32
	var events []string
	var gridWidth, gridHeight int

	camera.SetHooks(Hooks{
		GridSize:   func(width, height int) { gridWidth, gridHeight = width, height },
		EventStart: func(name string) { events = append(events, "start "+name) },
		EventStop:  func(name string) { events = append(events, "stop "+name) },
		PixelStart: func(x, y int) { pixelStarts.Add(1) },
		PixelStop:  func(x, y int) { pixelStops.Add(1) },
	})

	if _, _, err := camera.Capture(context.Background(), directionScene{}); err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	if gridWidth != 4 || gridHeight != 2 {
		t.Errorf("Expected grid 4x2, got %dx%d", gridWidth, gridHeight)
	}
	if pixelStarts.Load() != 8 || pixelStops.Load() != 8 {
		t.Errorf("Expected 8 pixel starts and stops, got %d and %d", pixelStarts.Load(), pixelStops.Load())
	}
	if len(events) != 2 || events[0] != "start Capture Scene" || events[1] != "stop Capture Scene" {
		t.Errorf("Unexpected events %v", events)
	}
}

func TestMergeCameraConfig(t *testing.T) {
	base := DefaultCameraConfig()
	merged := MergeCameraConfig(base, CameraConfig{Width: 64, FOV: 45, Position: core.NewVec3(1, 2, 3)})

	if merged.Width != 64 || merged.FOV != 45 || merged.Position != core.NewVec3(1, 2, 3) {
		t.Errorf("Overrides not applied: %+v", merged)
	}
	if merged.Height != base.Height || merged.Samples != base.Samples || merged.Up != base.Up || merged.Frustum != base.Frustum {
		t.Errorf("Zero override fields should keep the base: %+v", merged)
	}
}

func TestDefaultCameraConfig(t *testing.T) {
	config := DefaultCameraConfig()

	if config.Frustum.Lower != 0.1 || config.Frustum.Upper != 1000.0 {
		t.Errorf("Expected frustum (0.1, 1000), got %+v", config.Frustum)
	}
	if config.Up != core.NewVec3(0, 0, 1) {
		t.Errorf("Expected z up, got %v", config.Up)
	}
}

func TestCamera_PixelRay(t *testing.T) {
	camera, err := NewCamera(testCameraConfig())
	if err != nil {
		t.Fatalf("NewCamera failed: %v", err)
	}

	ray, err := camera.PixelRay(0, 0)
	if err != nil {
		t.Fatalf("PixelRay failed: %v", err)
	}
	if expected := camera.rayThrough(0.5, 0.5); ray != expected {
		t.Errorf("Expected pixel centre ray %v, got %v", expected.Direction, ray.Direction)
	}

	if _, err := camera.PixelRay(4, 0); err == nil {
		t.Error("Expected error for pixel outside the image")
	}
	if _, err := (&Camera{}).PixelRay(0, 0); !errors.Is(err, ErrNotAimed) {
		t.Errorf("Expected ErrNotAimed, got %v", err)
	}
}
