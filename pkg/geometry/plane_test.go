package geometry

import (
	"math"
	"testing"

	"github.com/df07/obscura/pkg/core"
	"github.com/df07/obscura/pkg/material"
)

var (
	matte = material.NewLambertian(core.NewColor(0.5, 0.5, 0.5))
	glass = material.NewDielectric(core.White, 1.5)
)

func TestPlane_Intersect_BasicIntersection(t *testing.T) {
	// Ground plane at z=0
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), matte)

	// Ray shooting down from above
	ray := core.NewRay(core.NewVec3(1, 2, 3), core.NewVec3(0, 0, -1))

	hit, isHit := plane.Intersect(ray, core.NewRange(0.001, 1000.0))
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}

	if math.Abs(hit.Distance-3.0) > 1e-9 {
		t.Errorf("Expected distance 3, got %f", hit.Distance)
	}
	if !hit.Point.Equals(core.NewVec3(1, 2, 0), 1e-9) {
		t.Errorf("Expected hit point (1, 2, 0), got %v", hit.Point)
	}
	if !hit.Normal.Equals(core.NewVec3(0, 0, 1), 1e-12) {
		t.Errorf("Expected normal (0, 0, 1), got %v", hit.Normal)
	}
	if hit.Material != matte {
		t.Error("Expected the plane's material on the intersection")
	}
}

func TestPlane_Intersect_Misses(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), matte)
	window := core.NewRange(0.001, 1000.0)

	tests := []struct {
		name      string
		origin    core.Vec3
		direction core.Vec3
	}{
		{"Parallel ray", core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 0)},
		{"Plane behind ray", core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1)},
		{"Beyond window", core.NewVec3(0, 0, 2000), core.NewVec3(0, 0, -1)},
		{"Back face of one-sided material", core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := plane.Intersect(core.NewRay(tt.origin, tt.direction), window)
			if isHit {
				t.Errorf("Expected miss, but got hit at distance %f", hit.Distance)
			}
		})
	}
}

func TestPlane_Intersect_WindowBoundsInclusive(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), matte)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	if _, isHit := plane.Intersect(ray, core.NewRange(0.001, 2.0)); !isHit {
		t.Error("A hit exactly on the upper bound should count")
	}
	if _, isHit := plane.Intersect(ray, core.NewRange(2.0, 5.0)); !isHit {
		t.Error("A hit exactly on the lower bound should count")
	}
}

func TestPlane_Intersect_TwoSidedBackFace(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), glass)
	ray := core.NewRay(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1))

	hit, isHit := plane.Intersect(ray, core.NewRange(0.001, 1000.0))
	if !isHit {
		t.Fatal("Two-sided material should keep back face hits")
	}
	// The normal is never flipped toward the ray
	if !hit.Normal.Equals(core.NewVec3(0, 0, 1), 1e-12) {
		t.Errorf("Expected unflipped normal (0, 0, 1), got %v", hit.Normal)
	}
}

func TestNewPlane_NormalizesNormal(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 5), matte)
	if math.Abs(plane.Normal.Length()-1.0) > 1e-12 {
		t.Errorf("Expected unit normal, got length %f", plane.Normal.Length())
	}
}
