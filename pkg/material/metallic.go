package material

import (
	"github.com/df07/obscura/pkg/core"
)

// Metallic represents a reflective material, from mirror finish to brushed
type Metallic struct {
	Albedo core.Color // Metal color
	Fuzz   float64    // 0.0 = perfect mirror
}

// NewMetallic creates a new metallic material. Negative fuzz is treated as zero.
func NewMetallic(albedo core.Color, fuzz float64) *Metallic {
	return &Metallic{Albedo: albedo, Fuzz: max(fuzz, 0.0)}
}

// Scatter mirrors the incoming ray about the normal and perturbs it by the
// fuzz factor. Bounces that end up at or below the surface are absorbed.
func (m *Metallic) Scatter(incoming core.Ray, point, normal core.Vec3, ambientIndex float64, sampler core.Sampler) (core.Ray, bool) {
	reflected := incoming.Direction.Reflect(normal)

	if m.Fuzz > 0 {
		reflected = reflected.Add(core.RandomUnitVector(sampler).Multiply(m.Fuzz))
	}

	// Grazing bounces count as absorbed
	if reflected.IsZero() || reflected.Dot(normal) <= 0 {
		return core.Ray{}, false
	}

	return core.NewRay(point, reflected), true
}

// Attenuation returns the metal color
func (m *Metallic) Attenuation() core.Color {
	return m.Albedo
}

// OneSided is true: metals only reflect from their outer face
func (m *Metallic) OneSided() bool {
	return true
}
