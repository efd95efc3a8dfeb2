package actor

import (
	"math"

	"github.com/akmonengine/sweep/fixed"
	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeSphere ShapeType = iota
	ShapeTypeCuboid
)

func (s ShapeType) String() string {
	switch s {
	case ShapeTypeSphere:
		return "sphere"
	case ShapeTypeCuboid:
		return "cuboid"
	}
	return "unknown"
}

// DefaultRestitution is the bounce of a new shape
const DefaultRestitution = 0.7

type Material struct {
	Mass        float64 // kg, assuming a uniform distribution across the shape
	Restitution float64 // 0= no rebound, 1= perfect restitution
}

func (material Material) GetMass() float64 {
	return material.Mass
}

// Sphere represents a spherical collision shape.
// The radius uses the fixed-point unit, so it has the same precision
// at every position and for every sphere size
type Sphere struct {
	Radius   fixed.Unit
	Material Material
}

// ComputeAABB calculates the axis-aligned bounding box for the sphere
func (s Sphere) ComputeAABB(transform Transform) AABB {
	// Sphere AABB is not affected by rotation, only by position
	r := s.Radius.Meters()
	radiusVec := mgl64.Vec3{r, r, r}
	center := transform.Position.Meters()

	return AABB{
		Min: center.Sub(radiusVec),
		Max: center.Add(radiusVec),
	}
}

// Volume in m³
func (s Sphere) Volume() float64 {
	return (4.0 / 3.0) * math.Pi * math.Pow(s.Radius.Meters(), 3)
}

// Cuboid represents an oriented box collision shape.
// The box is defined by its half-extents (distance from the center to its faces)
type Cuboid struct {
	HalfExtents fixed.Vec3
	Material    Material
}

func (c Cuboid) ComputeAABB(transform Transform) AABB {
	hx, hy, hz := c.HalfExtents.X.Meters(), c.HalfExtents.Y.Meters(), c.HalfExtents.Z.Meters()
	corners := [8]mgl64.Vec3{
		{-hx, -hy, -hz},
		{+hx, -hy, -hz},
		{-hx, +hy, -hz},
		{+hx, +hy, -hz},
		{-hx, -hy, +hz},
		{+hx, -hy, +hz},
		{-hx, +hy, +hz},
		{+hx, +hy, +hz},
	}

	rotation := transform.Rotation
	if rotation.Len() == 0 {
		rotation = mgl64.QuatIdent()
	}
	center := transform.Position.Meters()

	worldCorner := rotation.Rotate(corners[0]).Add(center)
	min := worldCorner
	max := worldCorner

	for i := 1; i < 8; i++ {
		worldCorner = rotation.Rotate(corners[i]).Add(center)

		min[0] = math.Min(min[0], worldCorner[0])
		min[1] = math.Min(min[1], worldCorner[1])
		min[2] = math.Min(min[2], worldCorner[2])

		max[0] = math.Max(max[0], worldCorner[0])
		max[1] = math.Max(max[1], worldCorner[1])
		max[2] = math.Max(max[2], worldCorner[2])
	}

	return AABB{Min: min, Max: max}
}

// Volume in m³
func (c Cuboid) Volume() float64 {
	return 8.0 * c.HalfExtents.X.Meters() * c.HalfExtents.Y.Meters() * c.HalfExtents.Z.Meters()
}
