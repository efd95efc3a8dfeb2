package sweep

import (
	"github.com/akmonengine/sweep/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

// ObjectState is a copy of an object's kinematic state, detached from the world
type ObjectState struct {
	Handle          Handle
	Shape           actor.ShapeType
	BodyType        actor.BodyType
	Transform       actor.Transform
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Quat
}

// Snapshot copies the state of every object still in the world, ordered by handle.
// Changing the returned states does not affect the world
func (w *World) Snapshot() ([]ObjectState, error) {
	states := make([]ObjectState, 0, len(w.objects))

	for i, object := range w.objects {
		if w.removed[i] {
			continue
		}

		state := ObjectState{
			Handle:   Handle(i),
			Shape:    object.ShapeType(),
			BodyType: object.GetBodyType(),
		}
		if err := copier.Copy(&state, object.GetBody()); err != nil {
			return nil, errors.Wrapf(err, "snapshot object %d", i)
		}

		states = append(states, state)
	}

	return states, nil
}
