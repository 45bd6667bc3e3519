package core

import (
	"errors"
	"fmt"
)

// ErrZeroDirection is raised when a ray is built from a zero-length direction
var ErrZeroDirection = errors.New("ray direction has zero length")

// Ray represents a ray with an origin and a unit direction
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray, normalizing the direction so that the ray
// parameter is a true distance. A zero direction is a programming error and
// panics with ErrZeroDirection.
func NewRay(origin, direction Vec3) Ray {
	if direction.IsZero() {
		panic(fmt.Errorf("core.NewRay from %v: %w", origin, ErrZeroDirection))
	}
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// NewRayTowards creates a ray from origin through target
func NewRayTowards(origin, target Vec3) Ray {
	return NewRay(origin, target.Subtract(origin))
}

// At returns the point at distance t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}
