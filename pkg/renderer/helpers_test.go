package renderer

import (
	"fmt"
	"sync"

	"github.com/df07/obscura/pkg/core"
)

// directionScene colors rays by where they point: red for left, green for up
type directionScene struct{}

func (directionScene) CastRay(ray core.Ray, window core.Range, depth int, sampler core.Sampler) core.Color {
	return core.NewColor(sampler.Get1D(), ray.Direction.Z, 0)
}

func (directionScene) Preview(ray core.Ray, window core.Range) core.Color {
	color := core.Black
	if ray.Direction.Y > 0 {
		color.R = 1
	}
	if ray.Direction.Z > 0 {
		color.G = 1
	}
	return color
}

// recordingLogger keeps every formatted line
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func testCameraConfig() CameraConfig {
	config := DefaultCameraConfig()
	config.Width = 4
	config.Height = 2
	config.Samples = 1
	config.Depth = 1
	return config
}
