package scene

import (
	"github.com/df07/obscura/pkg/core"
	"github.com/df07/obscura/pkg/geometry"
	"github.com/df07/obscura/pkg/renderer"
)

// DefaultSky is the color seen looking straight up
var DefaultSky = core.NewColor(0.5, 0.7, 1.0)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name            string
	Surfaces        []geometry.Surface // Objects in the scene, order is irrelevant
	RefractionIndex float64            // Index of the space outside any object
	Sky             core.Color         // Sky color at the zenith
	CameraConfig    renderer.CameraConfig
}

// NewScene creates an empty scene with the default sky and camera
func NewScene(refractionIndex float64) *Scene {
	return &Scene{
		RefractionIndex: refractionIndex,
		Sky:             DefaultSky,
		CameraConfig:    renderer.DefaultCameraConfig(),
	}
}

// Add appends surfaces to the scene
func (s *Scene) Add(surfaces ...geometry.Surface) {
	s.Surfaces = append(s.Surfaces, surfaces...)
}

// SkyColor is where all the light comes from: white at and below the horizon
// fading to the sky color straight up
func (s *Scene) SkyColor(direction core.Vec3) core.Color {
	interpolate := 0.5 * (direction.Z + 1.0)
	return core.White.Lerp(s.Sky, interpolate)
}

// FindNearest checks every surface and returns the closest hit inside window
func (s *Scene) FindNearest(ray core.Ray, window core.Range) (*geometry.Intersection, bool) {
	var nearest *geometry.Intersection
	current := window

	for _, surface := range s.Surfaces {
		if hit, ok := surface.Intersect(ray, current); ok {
			nearest = hit
			current = window.WithUpper(hit.Distance)
		}
	}

	return nearest, nearest != nil
}

// CastRay follows a ray through up to depth bounces and returns the light it
// gathers. Each bounce shortens the window by the distance already travelled.
func (s *Scene) CastRay(ray core.Ray, window core.Range, depth int, sampler core.Sampler) core.Color {
	if depth <= 0 {
		return core.Black
	}

	nearest, ok := s.FindNearest(ray, window)
	if !ok {
		return s.SkyColor(ray.Direction)
	}

	bounce, ok := nearest.Material.Scatter(ray, nearest.Point, nearest.Normal, s.RefractionIndex, sampler)
	if !ok {
		return core.Black
	}

	// A literal range: the window may become empty but must never flip
	remaining := core.Range{Lower: window.Lower, Upper: window.Upper - nearest.Distance}

	return nearest.Material.Attenuation().Mix(s.CastRay(bounce, remaining, depth-1, sampler))
}

// Preview shades the nearest hit by how much its normal faces up
func (s *Scene) Preview(ray core.Ray, window core.Range) core.Color {
	nearest, ok := s.FindNearest(ray, window)
	if !ok {
		return s.SkyColor(ray.Direction)
	}

	interpolate := 0.5 * (nearest.Normal.Z + 1.0)
	return core.Black.Lerp(nearest.Material.Attenuation(), interpolate)
}
