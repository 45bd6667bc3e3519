package geometry

import (
	"github.com/df07/obscura/pkg/core"
	"github.com/df07/obscura/pkg/material"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Position core.Vec3         // A point on the plane
	Normal   core.Vec3         // Unit normal, also the front face
	Material material.Material // Material of the plane
}

// NewPlane creates a new plane
func NewPlane(position, normal core.Vec3, mat material.Material) *Plane {
	return &Plane{
		Position: position,
		Normal:   normal.Normalize(),
		Material: mat,
	}
}

// Intersect tests if a ray intersects with the plane
func (p *Plane) Intersect(ray core.Ray, window core.Range) (*Intersection, bool) {
	denominator := p.Normal.Dot(ray.Direction)

	// Parallel rays never meet the plane
	if denominator == 0 {
		return nil, false
	}

	// Solve dot(normal, origin + t*direction) = dot(normal, position)
	t := (p.Normal.Dot(p.Position) - p.Normal.Dot(ray.Origin)) / denominator
	if !window.Contains(t) {
		return nil, false
	}

	return resolveHit(ray, t, p.Normal, p.Material)
}
