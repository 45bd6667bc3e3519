package material

import (
	"github.com/df07/obscura/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract.
// For reference: vacuum is 1.0, water about 1.33, glass 1.5 to 1.62, diamond about 2.42.
type Dielectric struct {
	Albedo          core.Color // Tint, already brightened by a square root
	RefractiveIndex float64
}

// NewDielectric creates a new dielectric material. Refracted light passes
// through the tint several times, so the color is brightened by a square root
// to keep the perceived tint close to the requested one.
func NewDielectric(tint core.Color, refractiveIndex float64) *Dielectric {
	return &Dielectric{
		Albedo:          tint.Sqrt(),
		RefractiveIndex: refractiveIndex,
	}
}

// Scatter either reflects or refracts, choosing reflection with the Schlick
// probability or whenever refraction is impossible. It never absorbs.
func (d *Dielectric) Scatter(incoming core.Ray, point, normal core.Vec3, ambientIndex float64, sampler core.Sampler) (core.Ray, bool) {
	direction := incoming.Direction
	alignment := direction.Dot(normal)

	var cosX float64
	var refracted core.Vec3
	var canRefract bool

	if alignment > 0 {
		// Travelling with the normal: leaving the material
		cosX = alignment
		refracted, canRefract = direction.Refract(normal.Negate(), d.RefractiveIndex/ambientIndex)
	} else {
		// Travelling against the normal: entering the material
		cosX = -alignment
		refracted, canRefract = direction.Refract(normal, ambientIndex/d.RefractiveIndex)
	}

	if !canRefract || sampler.Get1D() < Reflectance(cosX, ambientIndex, d.RefractiveIndex) {
		return core.NewRay(point, direction.Reflect(normal)), true
	}

	return core.NewRay(point, refracted), true
}

// Attenuation returns the brightened tint
func (d *Dielectric) Attenuation() core.Color {
	return d.Albedo
}

// OneSided is false: light must be able to enter and leave through the same surface
func (d *Dielectric) OneSided() bool {
	return false
}

// Reflectance calculates the Fresnel reflectance between two media using
// Schlick's approximation
func Reflectance(cosine, n1, n2 float64) float64 {
	r0 := (n1 - n2) / (n1 + n2)
	r0 = r0 * r0
	x := 1.0 - cosine
	return r0 + (1.0-r0)*x*x*x*x*x
}
