package constraint

import (
	"math"

	"github.com/akmonengine/sweep/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultVelocitySnap is the speed (m/s) under which a velocity is set to zero after a collision
const DefaultVelocitySnap = 0.1

type Constraint interface {
	SolvePosition()
	SolveVelocity()
}

// ComputeRestitution returns the restitution of a pair: it bounces as much as its least bouncy object
func ComputeRestitution(matA, matB actor.Material) float64 {
	return math.Min(matA.Restitution, matB.Restitution)
}

// ExchangeVelocities applies the elastic/inelastic collision formula
//
//	v0' = (m0·v0 + m1·v1 − m1·(v0−v1)·k) / (m0+m1)
//	v1' = (m0·v0 + m1·v1 + m0·(v0−v1)·k) / (m0+m1)
//
// written with inverse masses so that a static object (inverse mass 0) acts as infinitely heavy
func ExchangeVelocities(v0, v1 mgl64.Vec3, invMass0, invMass1, restitution float64) (mgl64.Vec3, mgl64.Vec3) {
	totalInvMass := invMass0 + invMass1
	if totalInvMass <= 0 {
		return v0, v1
	}

	relative := v0.Sub(v1)
	shared := v0.Mul(invMass1).Add(v1.Mul(invMass0))

	newV0 := shared.Sub(relative.Mul(invMass0 * restitution)).Mul(1.0 / totalInvMass)
	newV1 := shared.Add(relative.Mul(invMass1 * restitution)).Mul(1.0 / totalInvMass)

	return newV0, newV1
}

// clampSmallVelocity suppresses micro-jitter after a collision
func clampSmallVelocity(velocity mgl64.Vec3, threshold float64) mgl64.Vec3 {
	if velocity.Len() < threshold {
		return mgl64.Vec3{0, 0, 0}
	}
	return velocity
}
