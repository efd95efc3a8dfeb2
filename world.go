package sweep

import (
	"io"
	"log"
	"math"

	"github.com/akmonengine/sweep/actor"
	"github.com/akmonengine/sweep/fixed"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Handle identifies an object of a World. Handles stay valid after other objects are removed
type Handle int

// StepStats describes the last call to Advance
type StepStats struct {
	// Passes of the detect/resolve loop, including the final empty one
	Passes int
	// Collisions accepted by the unreachable filter, stuck ones included
	Collisions int
	Stuck      int
	// Capped is set when the loop stopped on MaxPasses instead of running out of collisions
	Capped bool
}

type World struct {
	Config Config
	// Gravity acceleration (m/s², or N/kg), applied every step
	Gravity     mgl64.Vec3
	Workers     int
	SpatialGrid *SpatialGrid

	Events Events
	Logger *log.Logger

	// List of all objects in the world, indexed by Handle
	objects []actor.Object
	removed []bool

	// one-shot accelerations, consumed by the next Advance
	universalAccelerations []mgl64.Vec3
	objectAccelerations    map[Handle][]mgl64.Vec3

	stats StepStats
}

// NewWorld creates an empty world. Zero values of cfg that would stall the
// resolver are replaced by their defaults
func NewWorld(cfg Config) *World {
	cfg = cfg.withDefaults()

	w := &World{
		Config:              cfg,
		Gravity:             cfg.Gravity,
		Workers:             cfg.Workers,
		Events:              NewEvents(),
		Logger:              log.New(io.Discard, "sweep: ", log.LstdFlags),
		objectAccelerations: make(map[Handle][]mgl64.Vec3),
	}
	if cfg.GridCellSize > 0 {
		w.SpatialGrid = NewSpatialGrid(cfg.GridCellSize, cfg.GridCells)
	}

	return w
}

func bodyType(movable bool) actor.BodyType {
	if movable {
		return actor.BodyTypeDynamic
	}
	return actor.BodyTypeStatic
}

func validMass(mass float64) bool {
	return mass > 0 && !math.IsInf(mass, 0) && !math.IsNaN(mass)
}

// AddSphere adds a sphere at rest. position and radius are in 0.1 mm, mass in kg.
// An immovable sphere never moves and acts as infinitely heavy in collisions
func (w *World) AddSphere(position fixed.Vec3, radius fixed.Unit, mass float64, movable bool) (Handle, error) {
	if radius <= 0 {
		return -1, errors.Wrapf(ErrInvalidRadius, "radius %d", radius)
	}
	if !validMass(mass) {
		return -1, errors.Wrapf(ErrInvalidMass, "mass %v", mass)
	}

	sphere := actor.NewSphereObject(position, radius, mass, bodyType(movable))
	return w.add(sphere), nil
}

// AddBox adds a cuboid at rest. Boxes are moved like every other object but never collide
func (w *World) AddBox(position, halfExtents fixed.Vec3, mass float64, movable bool) (Handle, error) {
	if halfExtents.X <= 0 || halfExtents.Y <= 0 || halfExtents.Z <= 0 {
		return -1, errors.Wrapf(ErrInvalidExtents, "half extents %v", halfExtents)
	}
	if !validMass(mass) {
		return -1, errors.Wrapf(ErrInvalidMass, "mass %v", mass)
	}

	box := actor.NewCuboidObject(position, halfExtents, mass, bodyType(movable))
	return w.add(box), nil
}

func (w *World) add(object actor.Object) Handle {
	h := Handle(len(w.objects))
	switch o := object.(type) {
	case *actor.SphereObject:
		o.Id = h
	case *actor.CuboidObject:
		o.Id = h
	}

	w.objects = append(w.objects, object)
	w.removed = append(w.removed, false)

	return h
}

// RemoveObject removes an object from the simulation. Its handle is never reused
func (w *World) RemoveObject(h Handle) error {
	if _, err := w.Object(h); err != nil {
		return err
	}

	w.removed[h] = true
	delete(w.objectAccelerations, h)
	w.Events.forget(h)

	return nil
}

// Clear removes every object and pending acceleration
func (w *World) Clear() {
	w.objects = w.objects[:0]
	w.removed = w.removed[:0]
	w.universalAccelerations = w.universalAccelerations[:0]
	clear(w.objectAccelerations)
	w.Events.reset()
}

// Object returns the object behind a handle
func (w *World) Object(h Handle) (actor.Object, error) {
	if h < 0 || int(h) >= len(w.objects) || w.removed[h] {
		return nil, errors.Wrapf(ErrUnknownHandle, "handle %d", h)
	}

	return w.objects[h], nil
}

// Len returns the number of objects still in the world
func (w *World) Len() int {
	n := 0
	for _, removed := range w.removed {
		if !removed {
			n++
		}
	}
	return n
}

// AddUniversalAcceleration queues an acceleration (m/s²) for every object, for the next step only
func (w *World) AddUniversalAcceleration(a mgl64.Vec3) {
	w.universalAccelerations = append(w.universalAccelerations, a)
}

// AddObjectAcceleration queues an acceleration (m/s²) for one object, for the next step only
func (w *World) AddObjectAcceleration(h Handle, a mgl64.Vec3) error {
	if _, err := w.Object(h); err != nil {
		return err
	}

	w.objectAccelerations[h] = append(w.objectAccelerations[h], a)
	return nil
}

func (w *World) Position(h Handle) (fixed.Vec3, error) {
	o, err := w.Object(h)
	if err != nil {
		return fixed.Vec3{}, err
	}
	return o.GetBody().Transform.Position, nil
}

func (w *World) SetPosition(h Handle, position fixed.Vec3) error {
	o, err := w.Object(h)
	if err != nil {
		return err
	}
	o.GetBody().SetPosition(position)
	return nil
}

func (w *World) Rotation(h Handle) (mgl64.Quat, error) {
	o, err := w.Object(h)
	if err != nil {
		return mgl64.Quat{}, err
	}
	return o.GetBody().Transform.Rotation, nil
}

func (w *World) SetRotation(h Handle, rotation mgl64.Quat) error {
	o, err := w.Object(h)
	if err != nil {
		return err
	}
	o.GetBody().SetRotation(rotation)
	return nil
}

func (w *World) Velocity(h Handle) (mgl64.Vec3, error) {
	o, err := w.Object(h)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return o.GetBody().Velocity, nil
}

// SetVelocity sets the velocity (m/s). Static objects keep a zero velocity
func (w *World) SetVelocity(h Handle, v mgl64.Vec3) error {
	o, err := w.Object(h)
	if err != nil {
		return err
	}
	o.GetBody().SetVelocity(v)
	actor.ClampStatic(o)
	return nil
}

func (w *World) AddVelocity(h Handle, dv mgl64.Vec3) error {
	o, err := w.Object(h)
	if err != nil {
		return err
	}
	o.GetBody().AddVelocity(dv)
	actor.ClampStatic(o)
	return nil
}

func (w *World) SetAngularVelocity(h Handle, angularVelocity mgl64.Quat) error {
	o, err := w.Object(h)
	if err != nil {
		return err
	}
	o.GetBody().SetAngularVelocity(angularVelocity)
	return nil
}

func (w *World) AddAngularVelocity(h Handle, angularVelocity mgl64.Quat) error {
	o, err := w.Object(h)
	if err != nil {
		return err
	}
	o.GetBody().AddAngularVelocity(angularVelocity)
	return nil
}

// SetRestitution sets the bounce coefficient of an object, within [0, 1]
func (w *World) SetRestitution(h Handle, restitution float64) error {
	o, err := w.Object(h)
	if err != nil {
		return err
	}
	if restitution < 0 || restitution > 1 || math.IsNaN(restitution) {
		return errors.Wrapf(ErrInvalidRestitution, "restitution %v", restitution)
	}

	o.GetMaterial().Restitution = restitution
	return nil
}

// Stats returns what happened during the last Advance
func (w *World) Stats() StepStats {
	return w.stats
}

// Advance runs one full step of dt seconds: accelerations, collision resolution,
// then integration of every object through the time it has left
func (w *World) Advance(dt float64) {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	w.Workers = max(DEFAULT_WORKERS, w.Workers)

	// Phase 1: velocities
	w.applyAccelerations(dt)

	// Phase 2: detect and resolve collisions until none is left
	localTime := make([]float64, len(w.objects))
	w.stats = w.resolveCollisions(dt, localTime)

	// Phase 3: move every object through its unresolved time
	w.integrate(dt, localTime)

	if w.Config.Debug {
		w.Logger.Printf("advance dt=%.5f passes=%d collisions=%d stuck=%d",
			dt, w.stats.Passes, w.stats.Collisions, w.stats.Stuck)
	}

	w.Events.flush()
}

// applyAccelerations adds a·dt to the velocity of every dynamic object, for
// gravity and each queued acceleration, then clears the queues.
// An object much slower than the added delta only receives RestingDamping of it:
// an approximation that stabilizes objects resting under gravity on top of others
func (w *World) applyAccelerations(dt float64) {
	for i, object := range w.objects {
		if w.removed[i] || object.GetBodyType() == actor.BodyTypeStatic {
			continue
		}

		w.accelerate(object, w.Gravity, dt)
		for _, a := range w.universalAccelerations {
			w.accelerate(object, a, dt)
		}
		for _, a := range w.objectAccelerations[Handle(i)] {
			w.accelerate(object, a, dt)
		}
	}

	w.universalAccelerations = w.universalAccelerations[:0]
	clear(w.objectAccelerations)
}

func (w *World) accelerate(object actor.Object, a mgl64.Vec3, dt float64) {
	delta := a.Mul(dt)
	deltaLen := delta.Len()
	if deltaLen == 0 {
		return
	}

	if actor.Speed(object) < deltaLen*w.Config.RestingSpeedRatio {
		delta = delta.Mul(w.Config.RestingDamping)
	}

	object.GetBody().AddVelocity(delta)
}

// integrate moves every dynamic object by dt minus the time already resolved
func (w *World) integrate(dt float64, localTime []float64) {
	for i, object := range w.objects {
		if w.removed[i] || object.GetBodyType() == actor.BodyTypeStatic {
			continue
		}

		object.GetBody().Integrate(dt - localTime[i])
	}
}
