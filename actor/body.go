package actor

import (
	"math"

	"github.com/akmonengine/sweep/fixed"
	"github.com/go-gl/mathgl/mgl64"
)

// Body is the kinematic state of an object: where it is, how it is oriented,
// and how both change over time
type Body struct {
	// Spatial properties
	Transform Transform

	// Linear velocity (m/s)
	Velocity mgl64.Vec3

	// Rotation applied to the object every second.
	// Not necessarily normalized: composing increments keeps their magnitude
	AngularVelocity mgl64.Quat
}

// NewBody creates a body at rest at the given position
func NewBody(position fixed.Vec3) Body {
	return Body{
		Transform: Transform{
			Position: position,
			Rotation: mgl64.QuatIdent(),
		},
		AngularVelocity: mgl64.QuatIdent(),
	}
}

// Integrate moves and rotates the body according to its velocities.
// dt is in seconds and must not be negative; zero is a no-op
func (b *Body) Integrate(dt float64) {
	if dt <= 0 {
		return
	}

	b.Translate(dt)
	b.Rotate(dt)
}

// Translate moves the body along its velocity for dt seconds
func (b *Body) Translate(dt float64) {
	b.Transform.Position = b.PositionAt(dt)
}

// Rotate applies the angular velocity for dt seconds.
// new = normalize(old * angularVelocity^dt), the multiplication order matters
func (b *Body) Rotate(dt float64) {
	if dt <= 0 {
		return
	}

	increment := QuatPow(b.AngularVelocity, dt)
	b.Transform.Rotation = b.Transform.Rotation.Mul(increment).Normalize()
}

// PositionAt returns where the body will be after dt seconds, without moving it
func (b *Body) PositionAt(dt float64) fixed.Vec3 {
	return b.Transform.Position.Add(fixed.Displacement(b.Velocity, dt))
}

func (b *Body) SetPosition(position fixed.Vec3) {
	b.Transform.Position = position
}

func (b *Body) AddPosition(offset fixed.Vec3) {
	b.Transform.Position = b.Transform.Position.Add(offset)
}

func (b *Body) SetRotation(rotation mgl64.Quat) {
	b.Transform.Rotation = rotation.Normalize()
}

// AddRotation rotates the body once by rotation
func (b *Body) AddRotation(rotation mgl64.Quat) {
	b.Transform.Rotation = b.Transform.Rotation.Mul(rotation).Normalize()
}

func (b *Body) SetVelocity(velocity mgl64.Vec3) {
	b.Velocity = velocity
}

func (b *Body) AddVelocity(velocity mgl64.Vec3) {
	b.Velocity = b.Velocity.Add(velocity)
}

func (b *Body) SetAngularVelocity(angularVelocity mgl64.Quat) {
	b.AngularVelocity = angularVelocity
}

// AddAngularVelocity composes the increments.
// No normalization here: rotating 40° and 400° per second are not the same
func (b *Body) AddAngularVelocity(angularVelocity mgl64.Quat) {
	b.AngularVelocity = b.AngularVelocity.Mul(angularVelocity)
}

// RotationMatrix returns a matrix representing the current rotation, for renderers
func (b *Body) RotationMatrix() mgl64.Mat4 {
	return b.Transform.Rotation.Mat4()
}

// QuatPow scales the rotation described by q by the given factor:
// the result rotates around the same axis by angle * scale
func QuatPow(q mgl64.Quat, scale float64) mgl64.Quat {
	length := q.Len()
	if length < 1e-12 {
		return mgl64.QuatIdent()
	}
	q = q.Scale(1.0 / length)

	w := math.Max(-1.0, math.Min(1.0, q.W))
	sinHalf := math.Sqrt(1.0 - w*w)
	if sinHalf < 1e-12 {
		return mgl64.QuatIdent()
	}

	angle := 2.0 * math.Acos(w)
	axis := q.V.Mul(1.0 / sinHalf)

	return mgl64.QuatRotate(angle*scale, axis)
}
