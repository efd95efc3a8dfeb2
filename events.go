package sweep

import (
	"github.com/akmonengine/sweep/fixed"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	COLLISION_ENTER EventType = iota
	COLLISION_STAY
	COLLISION_EXIT
	STUCK
)

type pairKey struct {
	objectA Handle
	objectB Handle
}

// makePairKey creates a normalized pair key with consistent ordering
func makePairKey(objectA, objectB Handle) pairKey {
	if objectB < objectA {
		objectA, objectB = objectB, objectA
	}

	return pairKey{objectA: objectA, objectB: objectB}
}

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// CollisionEnterEvent is sent the first step a pair collides.
// Time, Position and Normal describe the first impact of that step
type CollisionEnterEvent struct {
	ObjectA  Handle
	ObjectB  Handle
	Time     float64
	Position fixed.Vec3
	Normal   mgl64.Vec3
}

func (e CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }

type CollisionStayEvent struct {
	ObjectA Handle
	ObjectB Handle
}

func (e CollisionStayEvent) Type() EventType { return COLLISION_STAY }

type CollisionExitEvent struct {
	ObjectA Handle
	ObjectB Handle
}

func (e CollisionExitEvent) Type() EventType { return COLLISION_EXIT }

// StuckEvent is sent every time an overlapping pair is pushed apart
type StuckEvent struct {
	ObjectA Handle
	ObjectB Handle
	Time    float64
}

func (e StuckEvent) Type() EventType { return STUCK }

// EventListener - callback for events
type EventListener func(event Event)

type impact struct {
	time     float64
	position fixed.Vec3
	normal   mgl64.Vec3
}

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Collision tracking for Enter/Stay/Exit detection
	previousActivePairs map[pairKey]bool
	currentActivePairs  map[pairKey]impact
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[pairKey]bool),
		currentActivePairs:  make(map[pairKey]impact),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordCollision is called for every accepted collision of a step.
// Only the earliest impact of a pair is kept
func (e *Events) recordCollision(objectA, objectB Handle, c impact, stuck bool) {
	pair := makePairKey(objectA, objectB)
	if objectB < objectA {
		c.normal = c.normal.Mul(-1)
	}

	if previous, ok := e.currentActivePairs[pair]; !ok || c.time < previous.time {
		e.currentActivePairs[pair] = c
	}

	if stuck {
		e.buffer = append(e.buffer, StuckEvent{ObjectA: pair.objectA, ObjectB: pair.objectB, Time: c.time})
	}
}

// forget drops every pair involving the object, without sending Exit events
func (e *Events) forget(object Handle) {
	for pair := range e.previousActivePairs {
		if pair.objectA == object || pair.objectB == object {
			delete(e.previousActivePairs, pair)
		}
	}
	for pair := range e.currentActivePairs {
		if pair.objectA == object || pair.objectB == object {
			delete(e.currentActivePairs, pair)
		}
	}
}

// reset drops every tracked pair and buffered event, listeners are kept
func (e *Events) reset() {
	clear(e.previousActivePairs)
	clear(e.currentActivePairs)
	e.buffer = e.buffer[:0]
}

// processCollisionEvents compares current and previous pairs to detect Enter/Stay/Exit
// Should be called once per step
func (e *Events) processCollisionEvents() {
	// Detect Enter and Stay events
	for pair, c := range e.currentActivePairs {
		if e.previousActivePairs[pair] {
			// Pair was active before and still is, Stay
			e.buffer = append(e.buffer, CollisionStayEvent{
				ObjectA: pair.objectA,
				ObjectB: pair.objectB,
			})
		} else {
			// New pair, Enter
			e.buffer = append(e.buffer, CollisionEnterEvent{
				ObjectA:  pair.objectA,
				ObjectB:  pair.objectB,
				Time:     c.time,
				Position: c.position,
				Normal:   c.normal,
			})
		}
	}

	// Detect Exit events
	for pair := range e.previousActivePairs {
		if _, ok := e.currentActivePairs[pair]; !ok {
			// Pair was active but is no longer, Exit
			e.buffer = append(e.buffer, CollisionExitEvent{
				ObjectA: pair.objectA,
				ObjectB: pair.objectB,
			})
		}
	}

	// Swap for next step and clear current
	clear(e.previousActivePairs)
	for pair := range e.currentActivePairs {
		e.previousActivePairs[pair] = true
	}
	clear(e.currentActivePairs)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processCollisionEvents()

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
