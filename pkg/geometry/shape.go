package geometry

import (
	"github.com/df07/obscura/pkg/core"
	"github.com/df07/obscura/pkg/material"
)

// Intersection contains information about a ray-surface hit
type Intersection struct {
	Distance float64           // Distance along the ray
	Point    core.Vec3         // Point of intersection
	Normal   core.Vec3         // Unit surface normal at the point
	Material material.Material // Material of the surface that was hit
}

// Surface is anything a ray can hit
type Surface interface {
	// Intersect returns the nearest hit inside window, or false on a miss
	Intersect(ray core.Ray, window core.Range) (*Intersection, bool)
}

// resolveHit builds the intersection for a root that was already accepted.
// One-sided materials discard hits on their back face.
func resolveHit(ray core.Ray, distance float64, normal core.Vec3, mat material.Material) (*Intersection, bool) {
	if mat.OneSided() && ray.Direction.Dot(normal) >= 0 {
		return nil, false
	}

	return &Intersection{
		Distance: distance,
		Point:    ray.At(distance),
		Normal:   normal,
		Material: mat,
	}, true
}
