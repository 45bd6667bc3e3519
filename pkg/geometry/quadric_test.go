package geometry

import (
	"math"
	"testing"

	"github.com/df07/obscura/pkg/core"
)

func TestSphere_Intersect_Radius3(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 3.0, matte)
	ray := core.NewRay(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Intersect(ray, core.NewRange(0.001, math.Inf(1)))
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}

	if math.Abs(hit.Distance-7.0) > 1e-9 {
		t.Errorf("Expected distance 7, got %f", hit.Distance)
	}
	if !hit.Point.Equals(core.NewVec3(0, 0, 3), 1e-9) {
		t.Errorf("Expected hit point (0, 0, 3), got %v", hit.Point)
	}
	if !hit.Normal.Equals(core.NewVec3(0, 0, 1), 1e-9) {
		t.Errorf("Expected normal (0, 0, 1), got %v", hit.Normal)
	}
}

func TestSphere_Intersect_Cases(t *testing.T) {
	window := core.NewRange(0.001, math.Inf(1))

	tests := []struct {
		name             string
		sphere           *Sphere
		origin           core.Vec3
		direction        core.Vec3
		expectHit        bool
		expectedDistance float64
		expectedNormal   core.Vec3
	}{
		{
			name:      "Miss",
			sphere:    NewSphere(core.NewVec3(0, 0, 0), 1.0, matte),
			origin:    core.NewVec3(2, 0, 0),
			direction: core.NewVec3(0, 1, 0),
		},
		{
			name:             "Offset sphere",
			sphere:           NewSphere(core.NewVec3(5, 0, 3), 3.0, matte),
			origin:           core.NewVec3(0, 0, 3),
			direction:        core.NewVec3(1, 0, 0),
			expectHit:        true,
			expectedDistance: 2.0,
			expectedNormal:   core.NewVec3(-1, 0, 0),
		},
		{
			name:      "Sphere behind ray",
			sphere:    NewSphere(core.NewVec3(0, 0, -5), 1.0, matte),
			origin:    core.NewVec3(0, 0, 0),
			direction: core.NewVec3(0, 0, 1),
		},
		{
			name:      "Inside one-sided sphere",
			sphere:    NewSphere(core.NewVec3(0, 0, 0), 2.0, matte),
			origin:    core.NewVec3(0, 0, 0),
			direction: core.NewVec3(0, 0, 1),
		},
		{
			name:             "Inside two-sided sphere takes far root",
			sphere:           NewSphere(core.NewVec3(0, 0, 0), 2.0, glass),
			origin:           core.NewVec3(0, 0, 0),
			direction:        core.NewVec3(0, 0, 1),
			expectHit:        true,
			expectedDistance: 2.0,
			expectedNormal:   core.NewVec3(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := tt.sphere.Intersect(core.NewRay(tt.origin, tt.direction), window)
			if isHit != tt.expectHit {
				t.Fatalf("Expected hit=%t, got %t", tt.expectHit, isHit)
			}
			if !isHit {
				return
			}
			if math.Abs(hit.Distance-tt.expectedDistance) > 1e-9 {
				t.Errorf("Expected distance %f, got %f", tt.expectedDistance, hit.Distance)
			}
			if !hit.Normal.Equals(tt.expectedNormal, 1e-9) {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
		})
	}
}

func TestSphere_MatchesGenericQuadric(t *testing.T) {
	center := core.NewVec3(1, -2, 0.5)
	sphere := NewSphere(center, 1.5, glass)
	quadric := NewQuadric(center, SphereCoefficients(1.5), glass)
	sampler := core.NewSeededSampler(42)
	window := core.NewRange(0.001, math.Inf(1))

	for i := 0; i < 100; i++ {
		origin := center.Add(core.RandomUnitVector(sampler).Multiply(5))
		target := center.Add(core.RandomUnitVector(sampler))
		ray := core.NewRayTowards(origin, target)

		sphereHit, sphereOK := sphere.Intersect(ray, window)
		quadricHit, quadricOK := quadric.Intersect(ray, window)
		if sphereOK != quadricOK {
			t.Fatalf("Ray %d: sphere hit=%t, quadric hit=%t", i, sphereOK, quadricOK)
		}
		if !sphereOK {
			continue
		}
		if math.Abs(sphereHit.Distance-quadricHit.Distance) > 1e-9 {
			t.Errorf("Ray %d: distances differ: %f vs %f", i, sphereHit.Distance, quadricHit.Distance)
		}
		if !sphereHit.Normal.Equals(quadricHit.Normal, 1e-9) {
			t.Errorf("Ray %d: shortcut normal %v differs from gradient %v", i, sphereHit.Normal, quadricHit.Normal)
		}
	}
}

func TestQuadric_Intersect_Cylinder(t *testing.T) {
	// Infinite cylinder x² + y² = 1 around the z axis
	cylinder := NewQuadric(core.NewVec3(0, 0, 0), QuadricCoefficients{A: 1, B: 1, J: -1}, matte)
	window := core.NewRange(0.001, math.Inf(1))

	t.Run("Side hit", func(t *testing.T) {
		ray := core.NewRay(core.NewVec3(5, 0, 7), core.NewVec3(-1, 0, 0))
		hit, isHit := cylinder.Intersect(ray, window)
		if !isHit {
			t.Fatal("Expected hit, but got miss")
		}
		if math.Abs(hit.Distance-4.0) > 1e-9 {
			t.Errorf("Expected distance 4, got %f", hit.Distance)
		}
		if !hit.Normal.Equals(core.NewVec3(1, 0, 0), 1e-9) {
			t.Errorf("Expected normal (1, 0, 0), got %v", hit.Normal)
		}
	})

	t.Run("Ray along the axis never hits", func(t *testing.T) {
		ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
		if _, isHit := cylinder.Intersect(ray, window); isHit {
			t.Error("Expected miss for ray parallel to the cylinder axis")
		}
	})
}

func TestQuadric_Intersect_LinearCase(t *testing.T) {
	// Upward paraboloid z = x² + y², written as -x² - y² + 2(0.5)z = 0
	paraboloid := NewQuadric(core.NewVec3(0, 0, 0), QuadricCoefficients{A: -1, B: -1, I: 0.5}, matte)

	// Straight down the axis the quadratic term vanishes
	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
	hit, isHit := paraboloid.Intersect(ray, core.NewRange(0.001, math.Inf(1)))
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if math.Abs(hit.Distance-5.0) > 1e-9 {
		t.Errorf("Expected distance 5, got %f", hit.Distance)
	}
	if !hit.Normal.Equals(core.NewVec3(0, 0, 1), 1e-9) {
		t.Errorf("Expected normal (0, 0, 1), got %v", hit.Normal)
	}
}

func TestQuadric_NormalAt_CrossTerms(t *testing.T) {
	// Hyperbolic paraboloid 2xy - 2z = 0, i.e. z = xy
	saddle := NewQuadric(core.NewVec3(0, 0, 0), QuadricCoefficients{F: 1, I: -1}, matte)

	// Gradient of xy - z is (y, x, -1)
	point := core.NewVec3(2, 3, 6)
	expected := core.NewVec3(3, 2, -1).Normalize()
	if got := saddle.NormalAt(point); !got.Equals(expected, 1e-12) {
		t.Errorf("Expected normal %v, got %v", expected, got)
	}
}
