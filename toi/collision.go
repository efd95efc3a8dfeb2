// Package toi computes the time of impact between moving spheres.
//
// Detection runs in three stages of increasing cost:
//  1. CouldCollide: broad phase, rejects separating pairs and pairs whose swept
//     paths (approximated by inflated spheres) never come close
//  2. WillCollide: narrow phase, solves |d0 + v·t| = r0 + r1 for t
//  3. IsColliding: fallback for pairs that already overlap (stuck)
//
// Every stage receives the same window [0, dt] and the time each object has
// already been resolved through (t0, t1). An object's stored position is its
// state at its own resolved time; both are brought to the later of the two
// before anything is compared.
package toi

import (
	"github.com/akmonengine/sweep/actor"
	"github.com/akmonengine/sweep/fixed"
	"github.com/go-gl/mathgl/mgl64"
)

// Collision holds information about the collision of two objects.
// Object0 and Object1 point into the scene's storage, they are not owned
type Collision[T0, T1 any] struct {
	Object0 *T0
	Object1 *T1

	WillCollide bool
	// AreStuck is set when the objects already overlapped at the start of the window
	AreStuck bool
	// Time in seconds from the start of the window
	Time float64

	// A point at which the two objects touch (may not be the only one)
	Position fixed.Vec3

	// Where each object has to be placed to exactly touch the other one
	Obj0Position fixed.Vec3
	Obj1Position fixed.Vec3

	// Unit contact normals, Normal0 points from object 1 toward object 0
	Normal0 mgl64.Vec3
	Normal1 mgl64.Vec3
}

// SphereCollision is the only collision record the detector produces
type SphereCollision = Collision[actor.SphereObject, actor.SphereObject]

// Swap returns the same collision seen from the other object
func (c Collision[T0, T1]) Swap() Collision[T1, T0] {
	return Collision[T1, T0]{
		Object0:      c.Object1,
		Object1:      c.Object0,
		WillCollide:  c.WillCollide,
		AreStuck:     c.AreStuck,
		Time:         c.Time,
		Position:     c.Position,
		Obj0Position: c.Obj1Position,
		Obj1Position: c.Obj0Position,
		Normal0:      c.Normal1,
		Normal1:      c.Normal0,
	}
}

// Reset clears the record so it can be reused
func (c *Collision[T0, T1]) Reset() {
	*c = Collision[T0, T1]{}
}
