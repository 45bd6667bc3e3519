package material

import (
	"github.com/df07/obscura/pkg/core"
)

// Lambertian represents a perfectly diffuse, matte material
type Lambertian struct {
	Albedo core.Color
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Color) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Scatter bounces toward a random point on the unit sphere sitting on the
// surface, ignoring the incoming direction. It never absorbs.
func (l *Lambertian) Scatter(incoming core.Ray, point, normal core.Vec3, ambientIndex float64, sampler core.Sampler) (core.Ray, bool) {
	direction := normal.Add(core.RandomUnitVector(sampler))

	// The unit sample can cancel the normal exactly
	if direction.LengthSquared() < 1e-16 {
		direction = normal
	}

	return core.NewRay(point, direction), true
}

// Attenuation returns the diffuse color
func (l *Lambertian) Attenuation() core.Color {
	return l.Albedo
}

// OneSided is true: diffuse surfaces only reflect from their outer face
func (l *Lambertian) OneSided() bool {
	return true
}
