package toi

import (
	"math"
	"testing"

	"github.com/akmonengine/sweep/actor"
	"github.com/akmonengine/sweep/fixed"
	"github.com/go-gl/mathgl/mgl64"
)

// Helper functions
func floatEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

func vec3Equal(a, b mgl64.Vec3, tolerance float64) bool {
	return floatEqual(a.X(), b.X(), tolerance) &&
		floatEqual(a.Y(), b.Y(), tolerance) &&
		floatEqual(a.Z(), b.Z(), tolerance)
}

func newSphere(x fixed.Unit, radius fixed.Unit, velocity mgl64.Vec3, bodyType actor.BodyType) *actor.SphereObject {
	sphere := actor.NewSphereObject(fixed.NewVec3(x, 0, 0), radius, 1, bodyType)
	sphere.SetVelocity(velocity)
	return sphere
}

// =============================================================================
// Overlap Tests
// =============================================================================

func TestOverlap(t *testing.T) {
	tests := []struct {
		name string
		x    fixed.Unit
		want bool
	}{
		{name: "separated", x: 2500, want: false},
		{name: "exactly touching", x: 2000, want: false},
		{name: "one unit deep", x: 1999, want: true},
		{name: "coincident", x: 0, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlap(fixed.Vec3{}, 1000, fixed.NewVec3(tt.x, 0, 0), 1000)
			if got != tt.want {
				t.Errorf("Overlap() = %v, want %v", got, tt.want)
			}
		})
	}
}

// =============================================================================
// WillCollide Tests
// =============================================================================

func TestWillCollide_HeadOn(t *testing.T) {
	a := newSphere(0, 1000, mgl64.Vec3{10, 0, 0}, actor.BodyTypeDynamic)
	b := newSphere(50000, 1000, mgl64.Vec3{}, actor.BodyTypeDynamic)

	var collision SphereCollision
	if !Detect(a, b, 1, 0, 0, DefaultOptions(), &collision) {
		t.Fatal("Detect() = false, want a collision")
	}

	if collision.AreStuck {
		t.Error("AreStuck = true, want false")
	}
	if !floatEqual(collision.Time, 0.48, 1e-9) {
		t.Errorf("Time = %v, want 0.48", collision.Time)
	}
	if collision.Obj0Position != fixed.NewVec3(48000, 0, 0) {
		t.Errorf("Obj0Position = %v, want (48000, 0, 0)", collision.Obj0Position)
	}
	if collision.Obj1Position != fixed.NewVec3(50000, 0, 0) {
		t.Errorf("Obj1Position = %v, want (50000, 0, 0)", collision.Obj1Position)
	}
	if !vec3Equal(collision.Normal0, mgl64.Vec3{-1, 0, 0}, 1e-9) {
		t.Errorf("Normal0 = %v, want (-1, 0, 0)", collision.Normal0)
	}
	if !vec3Equal(collision.Normal1, mgl64.Vec3{1, 0, 0}, 1e-9) {
		t.Errorf("Normal1 = %v, want (1, 0, 0)", collision.Normal1)
	}
	if collision.Position != fixed.NewVec3(49000, 0, 0) {
		t.Errorf("Position = %v, want (49000, 0, 0)", collision.Position)
	}
	if collision.Object0 != a || collision.Object1 != b {
		t.Error("collision should point to the detected objects")
	}

	// nothing moved during detection
	if a.Transform.Position != fixed.NewVec3(0, 0, 0) || b.Transform.Position != fixed.NewVec3(50000, 0, 0) {
		t.Error("detection should not move the spheres")
	}
}

func TestWillCollide_Symmetry(t *testing.T) {
	a := newSphere(0, 1000, mgl64.Vec3{10, 0, 0}, actor.BodyTypeDynamic)
	b := newSphere(50000, 1000, mgl64.Vec3{}, actor.BodyTypeDynamic)

	var ab, ba SphereCollision
	if !Detect(a, b, 1, 0, 0, DefaultOptions(), &ab) || !Detect(b, a, 1, 0, 0, DefaultOptions(), &ba) {
		t.Fatal("both orders should collide")
	}

	if !floatEqual(ab.Time, ba.Time, 1e-12) {
		t.Errorf("Time differs: %v vs %v", ab.Time, ba.Time)
	}
	if ab.Obj0Position != ba.Obj1Position || ab.Obj1Position != ba.Obj0Position {
		t.Errorf("positions differ: %v/%v vs %v/%v", ab.Obj0Position, ab.Obj1Position, ba.Obj1Position, ba.Obj0Position)
	}
	if !vec3Equal(ab.Normal0, ba.Normal1, 1e-12) {
		t.Errorf("normals differ: %v vs %v", ab.Normal0, ba.Normal1)
	}
	if ab.Position != ba.Position {
		t.Errorf("contact points differ: %v vs %v", ab.Position, ba.Position)
	}
}

func TestWillCollide_OffsetClocks(t *testing.T) {
	// a already resolved half the window, b is brought to a's time first
	a := newSphere(0, 1000, mgl64.Vec3{}, actor.BodyTypeStatic)
	b := newSphere(50000, 1000, mgl64.Vec3{-5, 0, 0}, actor.BodyTypeDynamic)

	var collision SphereCollision
	if !Detect(a, b, 1, 0.5, 0, DefaultOptions(), &collision) {
		t.Fatal("Detect() = false, want a collision")
	}

	if !floatEqual(collision.Time, 0.96, 1e-9) {
		t.Errorf("Time = %v, want 0.96", collision.Time)
	}
	if collision.Obj1Position != fixed.NewVec3(2000, 0, 0) {
		t.Errorf("Obj1Position = %v, want (2000, 0, 0)", collision.Obj1Position)
	}
	if collision.Obj0Position != fixed.NewVec3(0, 0, 0) {
		t.Errorf("Obj0Position = %v, want origin", collision.Obj0Position)
	}
}

func TestWillCollide_TouchingAndApproaching(t *testing.T) {
	a := newSphere(0, 1000, mgl64.Vec3{1, 0, 0}, actor.BodyTypeDynamic)
	b := newSphere(2000, 1000, mgl64.Vec3{}, actor.BodyTypeDynamic)

	var collision SphereCollision
	if !Detect(a, b, 1, 0, 0, DefaultOptions(), &collision) {
		t.Fatal("Detect() = false, want a collision at the start of the window")
	}
	if collision.AreStuck {
		t.Error("touching spheres are not stuck")
	}
	if collision.Time != 0 {
		t.Errorf("Time = %v, want 0", collision.Time)
	}
}

func TestDetect_NoCollision(t *testing.T) {
	tests := []struct {
		name string
		a, b *actor.SphereObject
		dt   float64
	}{
		{
			name: "no relative motion",
			a:    newSphere(0, 1000, mgl64.Vec3{1, 0, 0}, actor.BodyTypeDynamic),
			b:    newSphere(5000, 1000, mgl64.Vec3{1, 0, 0}, actor.BodyTypeDynamic),
			dt:   1,
		},
		{
			name: "moving apart",
			a:    newSphere(0, 1000, mgl64.Vec3{-1, 0, 0}, actor.BodyTypeDynamic),
			b:    newSphere(5000, 1000, mgl64.Vec3{}, actor.BodyTypeDynamic),
			dt:   1,
		},
		{
			name: "collision after the window",
			a:    newSphere(0, 1000, mgl64.Vec3{10, 0, 0}, actor.BodyTypeDynamic),
			b:    newSphere(50000, 1000, mgl64.Vec3{}, actor.BodyTypeDynamic),
			dt:   0.4,
		},
		{
			name: "paths miss each other",
			a:    newSphere(0, 1000, mgl64.Vec3{10, 10, 0}, actor.BodyTypeDynamic),
			b:    newSphere(50000, 1000, mgl64.Vec3{}, actor.BodyTypeDynamic),
			dt:   1,
		},
		{
			name: "both static",
			a:    newSphere(0, 1000, mgl64.Vec3{}, actor.BodyTypeStatic),
			b:    newSphere(1500, 1000, mgl64.Vec3{}, actor.BodyTypeStatic),
			dt:   1,
		},
		{
			name: "empty window",
			a:    newSphere(0, 1000, mgl64.Vec3{10, 0, 0}, actor.BodyTypeDynamic),
			b:    newSphere(5000, 1000, mgl64.Vec3{}, actor.BodyTypeDynamic),
			dt:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var collision SphereCollision
			if Detect(tt.a, tt.b, tt.dt, 0, 0, DefaultOptions(), &collision) {
				t.Errorf("Detect() = true at t=%v, want false", collision.Time)
			}
		})
	}
}

func TestCouldCollide(t *testing.T) {
	approaching := newSphere(0, 1000, mgl64.Vec3{10, 0, 0}, actor.BodyTypeDynamic)
	target := newSphere(50000, 1000, mgl64.Vec3{}, actor.BodyTypeDynamic)
	if !CouldCollide(approaching, target, 1, 0, 0, 1) {
		t.Error("CouldCollide() = false for spheres that collide")
	}
	if !CouldCollide(approaching, target, 1, 0, 0, 8) {
		t.Error("CouldCollide() = false with a finer resolution")
	}

	far := newSphere(100000, 1000, mgl64.Vec3{}, actor.BodyTypeDynamic)
	slow := newSphere(0, 1000, mgl64.Vec3{1, 0, 0}, actor.BodyTypeDynamic)
	if CouldCollide(slow, far, 1, 0, 0, 1) {
		t.Error("CouldCollide() = true for spheres that never get close")
	}
}

// =============================================================================
// IsColliding Tests
// =============================================================================

func TestIsColliding_Stuck(t *testing.T) {
	a := newSphere(0, 1000, mgl64.Vec3{}, actor.BodyTypeDynamic)
	b := newSphere(1500, 1000, mgl64.Vec3{}, actor.BodyTypeDynamic)

	var collision SphereCollision
	if !Detect(a, b, 1, 0.25, 0.1, DefaultOptions(), &collision) {
		t.Fatal("Detect() = false, want a stuck collision")
	}

	if !collision.AreStuck {
		t.Error("AreStuck = false, want true")
	}
	if collision.Time != 0.25 {
		t.Errorf("Time = %v, want the later clock 0.25", collision.Time)
	}
	if collision.Obj0Position != fixed.NewVec3(-251, 0, 0) {
		t.Errorf("Obj0Position = %v, want (-251, 0, 0)", collision.Obj0Position)
	}
	if collision.Obj1Position != fixed.NewVec3(1751, 0, 0) {
		t.Errorf("Obj1Position = %v, want (1751, 0, 0)", collision.Obj1Position)
	}
	if Overlap(collision.Obj0Position, a.Radius, collision.Obj1Position, b.Radius) {
		t.Error("separated positions still overlap")
	}
}

func TestIsColliding_StaticDoesNotMove(t *testing.T) {
	a := newSphere(0, 1000, mgl64.Vec3{}, actor.BodyTypeStatic)
	b := newSphere(1500, 1000, mgl64.Vec3{}, actor.BodyTypeDynamic)

	var collision SphereCollision
	if !IsColliding(a, b, 1, 0, 0, DefaultAllowedOverlap, &collision) {
		t.Fatal("IsColliding() = false, want true")
	}

	if collision.Obj0Position != fixed.NewVec3(0, 0, 0) {
		t.Errorf("static Obj0Position = %v, want origin", collision.Obj0Position)
	}
	if collision.Obj1Position != fixed.NewVec3(2001, 0, 0) {
		t.Errorf("Obj1Position = %v, want (2001, 0, 0)", collision.Obj1Position)
	}
}

func TestIsColliding_CoincidentCenters(t *testing.T) {
	a := newSphere(0, 1000, mgl64.Vec3{}, actor.BodyTypeDynamic)
	b := newSphere(0, 1000, mgl64.Vec3{}, actor.BodyTypeDynamic)

	var collision SphereCollision
	if !IsColliding(a, b, 1, 0, 0, DefaultAllowedOverlap, &collision) {
		t.Fatal("IsColliding() = false, want true")
	}

	if !vec3Equal(collision.Normal0, mgl64.Vec3{1, 0, 0}, 1e-12) {
		t.Errorf("Normal0 = %v, want +X", collision.Normal0)
	}
	if Overlap(collision.Obj0Position, a.Radius, collision.Obj1Position, b.Radius) {
		t.Error("separated positions still overlap")
	}
}

func TestIsColliding_WithinTolerance(t *testing.T) {
	// one unit deep, within the default allowed overlap
	a := newSphere(0, 1000, mgl64.Vec3{}, actor.BodyTypeDynamic)
	b := newSphere(1999, 1000, mgl64.Vec3{}, actor.BodyTypeDynamic)

	var collision SphereCollision
	if IsColliding(a, b, 1, 0, 0, DefaultAllowedOverlap, &collision) {
		t.Error("IsColliding() = true within the allowed overlap")
	}
}

// =============================================================================
// Collision record Tests
// =============================================================================

func TestCollision_Swap(t *testing.T) {
	a := newSphere(0, 1000, mgl64.Vec3{10, 0, 0}, actor.BodyTypeDynamic)
	b := newSphere(50000, 1000, mgl64.Vec3{}, actor.BodyTypeDynamic)

	var collision SphereCollision
	if !Detect(a, b, 1, 0, 0, DefaultOptions(), &collision) {
		t.Fatal("Detect() = false, want a collision")
	}

	swapped := collision.Swap()
	if swapped.Object0 != b || swapped.Object1 != a {
		t.Error("Swap() should exchange the objects")
	}
	if swapped.Obj0Position != collision.Obj1Position || swapped.Obj1Position != collision.Obj0Position {
		t.Error("Swap() should exchange the positions")
	}
	if swapped.Normal0 != collision.Normal1 || swapped.Normal1 != collision.Normal0 {
		t.Error("Swap() should exchange the normals")
	}
	if swapped.Time != collision.Time || swapped.Position != collision.Position {
		t.Error("Swap() should keep the time and contact point")
	}

	collision.Reset()
	if collision.WillCollide || collision.Object0 != nil {
		t.Error("Reset() should clear the record")
	}
}
