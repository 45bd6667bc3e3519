package geometry

import (
	"math"

	"github.com/df07/obscura/pkg/core"
	"github.com/df07/obscura/pkg/material"
)

// QuadricCoefficients holds the ten coefficients of
// Ax² + By² + Cz² + 2Dyz + 2Exz + 2Fxy + 2Gx + 2Hy + 2Iz + J = 0
type QuadricCoefficients struct {
	A, B, C, D, E, F, G, H, I, J float64
}

// SphereCoefficients returns the coefficients of a sphere centred on the origin
func SphereCoefficients(radius float64) QuadricCoefficients {
	return QuadricCoefficients{A: 1, B: 1, C: 1, J: -radius * radius}
}

// Quadric is a second degree surface, offset from the origin by Position
type Quadric struct {
	Position     core.Vec3
	Coefficients QuadricCoefficients
	Material     material.Material
}

// NewQuadric creates a new quadric surface
func NewQuadric(position core.Vec3, coefficients QuadricCoefficients, mat material.Material) *Quadric {
	return &Quadric{
		Position:     position,
		Coefficients: coefficients,
		Material:     mat,
	}
}

// transform applies the symmetric matrix of the quadratic terms:
// [A F E; F B D; E D C]
func (q *Quadric) transform(v core.Vec3) core.Vec3 {
	c := q.Coefficients
	return core.NewVec3(
		c.A*v.X+c.F*v.Y+c.E*v.Z,
		c.F*v.X+c.B*v.Y+c.D*v.Z,
		c.E*v.X+c.D*v.Y+c.C*v.Z,
	)
}

func (q *Quadric) linear() core.Vec3 {
	return core.NewVec3(q.Coefficients.G, q.Coefficients.H, q.Coefficients.I)
}

// nearestRoot returns the smallest ray distance inside window at which the ray
// meets the surface
func (q *Quadric) nearestRoot(ray core.Ray, window core.Range) (float64, bool) {
	origin := ray.Origin.Subtract(q.Position)
	direction := ray.Direction
	linear := q.linear()

	// a t² + 2b t + c = 0
	a := direction.Dot(q.transform(direction))
	b := origin.Dot(q.transform(direction)) + linear.Dot(direction)
	c := origin.Dot(q.transform(origin)) + 2*linear.Dot(origin) + q.Coefficients.J

	if a == 0 {
		// Ray runs along an asymptotic direction: one root at most
		if b == 0 {
			return 0, false
		}
		t := -c / (2 * b)
		return t, window.Contains(t)
	}

	discriminant := b*b - a*c
	if discriminant < 0 {
		return 0, false
	}

	sqrtD := math.Sqrt(discriminant)
	near := (-b - sqrtD) / a
	far := (-b + sqrtD) / a
	if near > far {
		near, far = far, near
	}

	// The far root counts when the origin is already past the near surface
	if window.Contains(near) {
		return near, true
	}
	if window.Contains(far) {
		return far, true
	}
	return 0, false
}

// NormalAt returns the normalized gradient of the quadratic form at point
func (q *Quadric) NormalAt(point core.Vec3) core.Vec3 {
	r := point.Subtract(q.Position)
	return q.transform(r).Add(q.linear()).Normalize()
}

// Intersect tests if a ray intersects with the quadric
func (q *Quadric) Intersect(ray core.Ray, window core.Range) (*Intersection, bool) {
	t, ok := q.nearestRoot(ray, window)
	if !ok {
		return nil, false
	}

	return resolveHit(ray, t, q.NormalAt(ray.At(t)), q.Material)
}
