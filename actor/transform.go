package actor

import (
	"github.com/akmonengine/sweep/fixed"
	"github.com/go-gl/mathgl/mgl64"
)

// Transform represents a position in fixed-point space and an orientation
type Transform struct {
	Position fixed.Vec3
	Rotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: fixed.Vec3{},
		Rotation: mgl64.QuatIdent(),
	}
}
