// Package fixed implements the fixed-point position space of the simulation.
//
// One Unit is a tenth of a millimeter (1e-4 m). Positions and extents live in
// this integer space so that geometry keeps the same precision everywhere in
// the world, no matter how far an object is from the origin or how long the
// simulation runs. Velocities stay in floating point (m/s) and only become
// positions through Displacement.
//
// Squared lengths are computed in int64, which stays exact as long as every
// component of a difference vector is below ~1.75e9 units (175 km).
package fixed

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// UnitsPerMeter is the scale between Unit and meters
const UnitsPerMeter = 10000

// Unit is a length in tenths of a millimeter
type Unit int64

// FromMeters converts a length in meters, rounding to the nearest unit
func FromMeters(m float64) Unit {
	return Unit(math.Round(m * UnitsPerMeter))
}

// Meters converts the length back to meters
func (u Unit) Meters() float64 {
	return float64(u) / UnitsPerMeter
}

// Float returns the raw unit count as a float64
func (u Unit) Float() float64 {
	return float64(u)
}

// Vec3 is a position (or offset) in fixed-point space
type Vec3 struct {
	X, Y, Z Unit
}

func NewVec3(x, y, z Unit) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Dot is the exact integer dot product
func (v Vec3) Dot(o Vec3) int64 {
	return int64(v.X)*int64(o.X) + int64(v.Y)*int64(o.Y) + int64(v.Z)*int64(o.Z)
}

// LenSq is the exact squared length in units²
func (v Vec3) LenSq() int64 {
	return v.Dot(v)
}

// Len is the length in units
func (v Vec3) Len() float64 {
	x, y, z := float64(v.X), float64(v.Y), float64(v.Z)
	return math.Sqrt(x*x + y*y + z*z)
}

// IsZero reports whether all components are zero
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Float returns the raw unit components as floats (no unit conversion)
func (v Vec3) Float() mgl64.Vec3 {
	return mgl64.Vec3{float64(v.X), float64(v.Y), float64(v.Z)}
}

// Meters converts the vector to meters
func (v Vec3) Meters() mgl64.Vec3 {
	return v.Float().Mul(1.0 / UnitsPerMeter)
}

// Round converts raw unit floats back to fixed point, rounding each component
func Round(v mgl64.Vec3) Vec3 {
	return Vec3{
		Unit(math.Round(v.X())),
		Unit(math.Round(v.Y())),
		Unit(math.Round(v.Z())),
	}
}

// Vec3FromMeters converts a vector in meters to fixed point
func Vec3FromMeters(m mgl64.Vec3) Vec3 {
	return Round(m.Mul(UnitsPerMeter))
}

// Displacement is how far a body moving at velocity (m/s) travels in dt seconds
func Displacement(velocity mgl64.Vec3, dt float64) Vec3 {
	return Round(velocity.Mul(UnitsPerMeter * dt))
}
