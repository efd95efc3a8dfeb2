package actor

import (
	"github.com/akmonengine/sweep/fixed"
	"github.com/go-gl/mathgl/mgl64"
)

// BodyType represents the type of object
type BodyType int

const (
	// BodyTypeDynamic objects are affected by accelerations and collisions
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic objects never move and behave as if their mass was infinite
	BodyTypeStatic
)

// Object is a Body composed with a shape.
// Collision code switches on the concrete type (*SphereObject, *CuboidObject)
type Object interface {
	GetBody() *Body
	GetMaterial() *Material
	GetBodyType() BodyType
	ShapeType() ShapeType
	// AABB is the bounding box at the current transform
	AABB() AABB
}

// SphereObject is a Body composed with a Sphere
type SphereObject struct {
	Body
	Sphere

	BodyType BodyType
	Id       interface{}
}

// NewSphereObject creates a sphere at rest. Validation is the caller's job
func NewSphereObject(position fixed.Vec3, radius fixed.Unit, mass float64, bodyType BodyType) *SphereObject {
	return &SphereObject{
		Body: NewBody(position),
		Sphere: Sphere{
			Radius: radius,
			Material: Material{
				Mass:        mass,
				Restitution: DefaultRestitution,
			},
		},
		BodyType: bodyType,
	}
}

func (s *SphereObject) GetBody() *Body         { return &s.Body }
func (s *SphereObject) GetMaterial() *Material { return &s.Sphere.Material }
func (s *SphereObject) GetBodyType() BodyType  { return s.BodyType }
func (s *SphereObject) ShapeType() ShapeType   { return ShapeTypeSphere }

func (s *SphereObject) AABB() AABB {
	return s.Sphere.ComputeAABB(s.Transform)
}

// SweptAABB bounds the sphere over the next dt seconds at its current velocity
func (s *SphereObject) SweptAABB(dt float64) AABB {
	start := s.AABB()
	return start.Union(start.Translate(s.Velocity.Mul(dt)))
}

// InverseMass is zero for static objects
func (s *SphereObject) InverseMass() float64 {
	return inverseMass(s.BodyType, s.Sphere.Material)
}

// IsStatic reports whether the sphere is immovable
func (s *SphereObject) IsStatic() bool {
	return s.BodyType == BodyTypeStatic
}

// CuboidObject is a Body composed with a Cuboid.
// Cuboids are integrated like every other object but never collide
type CuboidObject struct {
	Body
	Cuboid

	BodyType BodyType
	Id       interface{}
}

func NewCuboidObject(position, halfExtents fixed.Vec3, mass float64, bodyType BodyType) *CuboidObject {
	return &CuboidObject{
		Body: NewBody(position),
		Cuboid: Cuboid{
			HalfExtents: halfExtents,
			Material: Material{
				Mass:        mass,
				Restitution: DefaultRestitution,
			},
		},
		BodyType: bodyType,
	}
}

func (c *CuboidObject) GetBody() *Body         { return &c.Body }
func (c *CuboidObject) GetMaterial() *Material { return &c.Cuboid.Material }
func (c *CuboidObject) GetBodyType() BodyType  { return c.BodyType }
func (c *CuboidObject) ShapeType() ShapeType   { return ShapeTypeCuboid }

func (c *CuboidObject) AABB() AABB {
	return c.Cuboid.ComputeAABB(c.Transform)
}

func inverseMass(bodyType BodyType, material Material) float64 {
	if bodyType == BodyTypeStatic || material.Mass <= 0 {
		return 0
	}
	return 1.0 / material.Mass
}

// Speed returns the length of the object's velocity, in m/s
func Speed(o Object) float64 {
	return o.GetBody().Velocity.Len()
}

// ClampStatic zeroes the velocity of static objects
func ClampStatic(o Object) {
	if o.GetBodyType() == BodyTypeStatic {
		o.GetBody().Velocity = mgl64.Vec3{}
	}
}
