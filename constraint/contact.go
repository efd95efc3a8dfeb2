package constraint

import (
	"github.com/akmonengine/sweep/toi"
)

// ContactConstraint applies the physics of one accepted collision
type ContactConstraint struct {
	Collision *toi.SphereCollision

	// Speeds under this threshold (m/s) are set to zero after the exchange
	VelocitySnap float64
}

func NewContactConstraint(collision *toi.SphereCollision, velocitySnap float64) *ContactConstraint {
	return &ContactConstraint{
		Collision:    collision,
		VelocitySnap: velocitySnap,
	}
}

// SolvePosition snaps both spheres to where they exactly touch
func (c *ContactConstraint) SolvePosition() {
	bodyA := c.Collision.Object0
	bodyB := c.Collision.Object1

	if !bodyA.IsStatic() {
		bodyA.SetPosition(c.Collision.Obj0Position)
	}
	if !bodyB.IsStatic() {
		bodyB.SetPosition(c.Collision.Obj1Position)
	}
}

// SolveVelocity exchanges the velocities of the two spheres.
// A stuck pair that is already moving apart keeps its velocities
func (c *ContactConstraint) SolveVelocity() {
	bodyA := c.Collision.Object0
	bodyB := c.Collision.Object1

	if c.Collision.AreStuck {
		closingSpeed := bodyA.Velocity.Sub(bodyB.Velocity).Dot(c.Collision.Normal0)
		if closingSpeed >= 0 {
			return
		}
	}

	restitution := ComputeRestitution(bodyA.Sphere.Material, bodyB.Sphere.Material)
	vA, vB := ExchangeVelocities(bodyA.Velocity, bodyB.Velocity, bodyA.InverseMass(), bodyB.InverseMass(), restitution)

	if !bodyA.IsStatic() {
		bodyA.Velocity = clampSmallVelocity(vA, c.VelocitySnap)
	}
	if !bodyB.IsStatic() {
		bodyB.Velocity = clampSmallVelocity(vB, c.VelocitySnap)
	}
}
