package geometry

import (
	"github.com/df07/obscura/pkg/core"
	"github.com/df07/obscura/pkg/material"
)

// Sphere is a quadric with sphere coefficients and a cheaper normal
type Sphere struct {
	*Quadric
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Quadric: NewQuadric(center, SphereCoefficients(radius), mat),
		Radius:  radius,
	}
}

// NormalAt returns the outward unit normal, pointing from the centre to point
func (s *Sphere) NormalAt(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Position).Normalize()
}

// Intersect tests if a ray intersects with the sphere
func (s *Sphere) Intersect(ray core.Ray, window core.Range) (*Intersection, bool) {
	t, ok := s.nearestRoot(ray, window)
	if !ok {
		return nil, false
	}

	return resolveHit(ray, t, s.NormalAt(ray.At(t)), s.Material)
}
