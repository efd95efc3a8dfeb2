package actor

import (
	"math"
	"testing"

	"github.com/akmonengine/sweep/fixed"
	"github.com/go-gl/mathgl/mgl64"
)

// Helper functions
func vec3Equal(a, b mgl64.Vec3, tolerance float64) bool {
	return math.Abs(a.X()-b.X()) < tolerance &&
		math.Abs(a.Y()-b.Y()) < tolerance &&
		math.Abs(a.Z()-b.Z()) < tolerance
}

func floatEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

func transformAt(x, y, z float64, rotation mgl64.Quat) Transform {
	return Transform{
		Position: fixed.Vec3FromMeters(mgl64.Vec3{x, y, z}),
		Rotation: rotation,
	}
}

// =============================================================================
// ShapeType Tests
// =============================================================================

func TestShapeType_String(t *testing.T) {
	tests := []struct {
		shape ShapeType
		want  string
	}{
		{ShapeTypeSphere, "sphere"},
		{ShapeTypeCuboid, "cuboid"},
		{ShapeType(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.shape.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// =============================================================================
// AABB Tests
// =============================================================================

func TestSphereComputeAABB(t *testing.T) {
	tests := []struct {
		name        string
		sphere      Sphere
		transform   Transform
		expectedMin mgl64.Vec3
		expectedMax mgl64.Vec3
	}{
		{
			name:        "sphere at origin",
			sphere:      Sphere{Radius: fixed.FromMeters(2.0)},
			transform:   transformAt(0, 0, 0, mgl64.QuatRotate(mgl64.DegToRad(45), mgl64.Vec3{1, 0, 0})),
			expectedMin: mgl64.Vec3{-2, -2, -2},
			expectedMax: mgl64.Vec3{2, 2, 2},
		},
		{
			name:        "sphere with offset position",
			sphere:      Sphere{Radius: fixed.FromMeters(1.5)},
			transform:   transformAt(3, -2, 5, mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{0, 0, 1})),
			expectedMin: mgl64.Vec3{1.5, -3.5, 3.5},
			expectedMax: mgl64.Vec3{4.5, -0.5, 6.5},
		},
		{
			name:        "small sphere",
			sphere:      Sphere{Radius: fixed.FromMeters(0.1)},
			transform:   transformAt(10, 20, 30, mgl64.QuatIdent()),
			expectedMin: mgl64.Vec3{9.9, 19.9, 29.9},
			expectedMax: mgl64.Vec3{10.1, 20.1, 30.1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aabb := tt.sphere.ComputeAABB(tt.transform)

			if !vec3Equal(aabb.Min, tt.expectedMin, 1e-9) {
				t.Errorf("Min = %v, want %v", aabb.Min, tt.expectedMin)
			}
			if !vec3Equal(aabb.Max, tt.expectedMax, 1e-9) {
				t.Errorf("Max = %v, want %v", aabb.Max, tt.expectedMax)
			}

			// rotation never changes a sphere's AABB
			noRotation := tt.transform
			noRotation.Rotation = mgl64.QuatIdent()
			aabbNoRotation := tt.sphere.ComputeAABB(noRotation)
			if !aabb.Min.ApproxEqual(aabbNoRotation.Min) || !aabb.Max.ApproxEqual(aabbNoRotation.Max) {
				t.Errorf("Sphere AABB affected by rotation, but should not be")
			}
		})
	}
}

func TestCuboidComputeAABBWithRotation(t *testing.T) {
	tests := []struct {
		name        string
		cuboid      Cuboid
		transform   Transform
		expectedMin mgl64.Vec3
		expectedMax mgl64.Vec3
	}{
		{
			name:        "rotation 90° around Z-axis",
			cuboid:      Cuboid{HalfExtents: fixed.Vec3FromMeters(mgl64.Vec3{1, 2, 3})},
			transform:   transformAt(0, 0, 0, mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{0, 0, 1})),
			expectedMin: mgl64.Vec3{-2, -1, -3},
			expectedMax: mgl64.Vec3{2, 1, 3},
		},
		{
			name:        "rotation 45° around Y-axis",
			cuboid:      Cuboid{HalfExtents: fixed.Vec3FromMeters(mgl64.Vec3{1, 1, 1})},
			transform:   transformAt(0, 0, 0, mgl64.QuatRotate(mgl64.DegToRad(45), mgl64.Vec3{0, 1, 0})),
			expectedMin: mgl64.Vec3{-1.4142, -1, -1.4142}, // approx sqrt(2)
			expectedMax: mgl64.Vec3{1.4142, 1, 1.4142},
		},
		{
			name:        "rotation with offset position",
			cuboid:      Cuboid{HalfExtents: fixed.Vec3FromMeters(mgl64.Vec3{1, 1, 1})},
			transform:   transformAt(5, 10, -3, mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{0, 0, 1})),
			expectedMin: mgl64.Vec3{4, 9, -4},
			expectedMax: mgl64.Vec3{6, 11, -2},
		},
		{
			name:        "zero quaternion treated as identity",
			cuboid:      Cuboid{HalfExtents: fixed.Vec3FromMeters(mgl64.Vec3{1, 2, 3})},
			transform:   transformAt(0, 0, 0, mgl64.Quat{}),
			expectedMin: mgl64.Vec3{-1, -2, -3},
			expectedMax: mgl64.Vec3{1, 2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aabb := tt.cuboid.ComputeAABB(tt.transform)

			if !vec3Equal(aabb.Min, tt.expectedMin, 1e-3) {
				t.Errorf("Min = %v, want %v (tolerance 1e-3)", aabb.Min, tt.expectedMin)
			}
			if !vec3Equal(aabb.Max, tt.expectedMax, 1e-3) {
				t.Errorf("Max = %v, want %v (tolerance 1e-3)", aabb.Max, tt.expectedMax)
			}

			if aabb.Min[0] > aabb.Max[0] || aabb.Min[1] > aabb.Max[1] || aabb.Min[2] > aabb.Max[2] {
				t.Errorf("Invalid AABB: Min %v > Max %v", aabb.Min, aabb.Max)
			}
		})
	}
}

// =============================================================================
// Volume Tests
// =============================================================================

func TestShapeVolume(t *testing.T) {
	sphere := Sphere{Radius: fixed.FromMeters(1)}
	if !floatEqual(sphere.Volume(), 4.0/3.0*math.Pi, 1e-9) {
		t.Errorf("sphere Volume() = %v, want %v", sphere.Volume(), 4.0/3.0*math.Pi)
	}

	cuboid := Cuboid{HalfExtents: fixed.Vec3FromMeters(mgl64.Vec3{0.5, 1, 2})}
	if !floatEqual(cuboid.Volume(), 8, 1e-9) {
		t.Errorf("cuboid Volume() = %v, want 8", cuboid.Volume())
	}
}

func TestMaterial_GetMass(t *testing.T) {
	tests := []struct {
		name     string
		material Material
		wantMass float64
	}{
		{name: "normal mass", material: Material{Mass: 10.0}, wantMass: 10.0},
		{name: "zero mass", material: Material{Mass: 0.0}, wantMass: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if mass := tt.material.GetMass(); mass != tt.wantMass {
				t.Errorf("GetMass() = %v, want %v", mass, tt.wantMass)
			}
		})
	}
}
