package sweep

import "github.com/pkg/errors"

var (
	ErrInvalidMass        = errors.New("mass must be a finite positive number")
	ErrInvalidRadius      = errors.New("radius must be positive")
	ErrInvalidExtents     = errors.New("half extents must be positive on every axis")
	ErrInvalidRestitution = errors.New("restitution must be within [0, 1]")
	ErrUnknownHandle      = errors.New("unknown object handle")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrInvalidScene       = errors.New("invalid scene")
)
