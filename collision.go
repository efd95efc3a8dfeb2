package sweep

import (
	"math"
	"sort"

	"github.com/akmonengine/sweep/actor"
	"github.com/akmonengine/sweep/constraint"
	"github.com/akmonengine/sweep/toi"
	"github.com/go-gl/mathgl/mgl64"
)

// gridPadding (m) widens swept AABBs so rounding to fixed point never hides a touching pair
const gridPadding = 1e-3

// contact is a detected collision between the objects at index i and j
type contact struct {
	i, j      int
	collision toi.SphereCollision
}

// candidate is a pair checked by one worker during a pass
type candidate struct {
	pair    Pair
	hit     bool
	contact contact
}

// resolveCollisions runs the detect/resolve loop until a pass finds nothing.
// localTime holds, per object, how much of dt has already been resolved
func (w *World) resolveCollisions(dt float64, localTime []float64) StepStats {
	var stats StepStats
	if dt <= 0 {
		return stats
	}

	options := w.Config.detectorOptions()

	for {
		if stats.Passes >= w.Config.MaxPasses {
			stats.Capped = true
			w.Logger.Printf("resolve loop stopped after %d passes with collisions left", stats.Passes)
			break
		}
		stats.Passes++

		// Phase 2.0: candidate pairs - broad phase
		// Phase 2.1: time of impact - narrow phase
		contacts := w.detectCollisions(dt, localTime, options)
		if len(contacts) == 0 {
			break
		}

		// Phase 2.2: only the earliest collision of each object is reachable
		contacts = filterUnreachable(contacts)

		// Phase 2.3: positions, velocities and clocks
		w.applyCollisions(contacts, dt, localTime)

		stats.Collisions += len(contacts)
		for _, c := range contacts {
			if c.collision.AreStuck {
				stats.Stuck++
			}
		}
	}

	return stats
}

// activeSpheres lists the spheres that can still collide during this step.
// Static spheres never move, their clock is irrelevant and they stay active
func (w *World) activeSpheres(dt float64, localTime []float64) []int {
	indices := make([]int, 0, len(w.objects))
	for i, object := range w.objects {
		if w.removed[i] || localTime[i] >= dt {
			continue
		}
		if _, ok := object.(*actor.SphereObject); !ok {
			continue // only sphere-sphere collisions are supported
		}
		indices = append(indices, i)
	}

	return indices
}

// candidatePairs returns the pairs worth a narrow phase check
func (w *World) candidatePairs(dt float64, localTime []float64) []Pair {
	indices := w.activeSpheres(dt, localTime)

	var pairs []Pair
	if w.SpatialGrid != nil {
		padding := mgl64.Vec3{gridPadding, gridPadding, gridPadding}
		aabbs := make([]actor.AABB, len(w.objects))

		w.SpatialGrid.Clear()
		for _, i := range indices {
			sphere := w.objects[i].(*actor.SphereObject)
			aabb := sphere.SweptAABB(dt - localTime[i])
			aabbs[i] = actor.AABB{Min: aabb.Min.Sub(padding), Max: aabb.Max.Add(padding)}
			w.SpatialGrid.Insert(i, aabbs[i])
		}
		w.SpatialGrid.SortCells()

		pairs = w.SpatialGrid.FindPairs(indices, aabbs)
	} else {
		// O(n²) brute force, fine for small numbers of objects
		pairs = make([]Pair, 0, len(indices))
		for a := 0; a < len(indices); a++ {
			for b := a + 1; b < len(indices); b++ {
				pairs = append(pairs, Pair{A: indices[a], B: indices[b]})
			}
		}
	}

	n := 0
	for _, pair := range pairs {
		if w.objects[pair.A].GetBodyType() == actor.BodyTypeStatic &&
			w.objects[pair.B].GetBodyType() == actor.BodyTypeStatic {
			continue
		}
		pairs[n] = pair
		n++
	}

	return pairs[:n]
}

// detectCollisions checks every candidate pair. The checks only read the
// world, so they are spread over the workers; task returns once all are done
func (w *World) detectCollisions(dt float64, localTime []float64, options toi.Options) []contact {
	pairs := w.candidatePairs(dt, localTime)

	candidates := make([]*candidate, len(pairs))
	for k, pair := range pairs {
		candidates[k] = &candidate{pair: pair}
	}

	task(w.Workers, candidates, func(c *candidate) {
		a := w.objects[c.pair.A].(*actor.SphereObject)
		b := w.objects[c.pair.B].(*actor.SphereObject)

		c.contact.i, c.contact.j = c.pair.A, c.pair.B
		c.hit = toi.Detect(a, b, dt, localTime[c.pair.A], localTime[c.pair.B], options, &c.contact.collision)
	})

	contacts := make([]contact, 0)
	for _, c := range candidates {
		if c.hit {
			contacts = append(contacts, c.contact)
		}
	}

	return contacts
}

// filterUnreachable keeps, for each object, only its earliest collision.
// An object diverted by an earlier collision cannot reach the later ones;
// they are detected again on the next pass from the object's new clock
func filterUnreachable(contacts []contact) []contact {
	sort.Slice(contacts, func(a, b int) bool {
		if contacts[a].collision.Time != contacts[b].collision.Time {
			return contacts[a].collision.Time < contacts[b].collision.Time
		}
		if contacts[a].i != contacts[b].i {
			return contacts[a].i < contacts[b].i
		}
		return contacts[a].j < contacts[b].j
	})

	used := make(map[int]bool, len(contacts)*2)
	kept := contacts[:0]
	for _, c := range contacts {
		if used[c.i] || used[c.j] {
			continue
		}
		used[c.i] = true
		used[c.j] = true
		kept = append(kept, c)
	}

	return kept
}

// applyCollisions resolves the surviving collisions and moves the clocks of their objects
func (w *World) applyCollisions(contacts []contact, dt float64, localTime []float64) {
	sweptTimes := make([]float64, 0, len(contacts))
	for _, c := range contacts {
		if !c.collision.AreStuck {
			sweptTimes = append(sweptTimes, c.collision.Time)
		}
	}
	sort.Float64s(sweptTimes)

	for k := range contacts {
		c := &contacts[k]

		contactConstraint := constraint.NewContactConstraint(&c.collision, w.Config.VelocitySnap)
		contactConstraint.SolvePosition()
		contactConstraint.SolveVelocity()

		var target float64
		if c.collision.AreStuck {
			// jump to the first collision reachable after this one, and at least a little forward.
			// Resolving the same overlap again at the same time would never end
			target = c.collision.Time + dt*w.Config.StuckStep
			for _, t := range sweptTimes {
				if t > c.collision.Time {
					target = math.Max(target, t)
					break
				}
			}
		} else {
			target = c.collision.Time + dt/w.Config.StepDivisions
		}

		w.advanceClock(c.i, target, dt, localTime)
		w.advanceClock(c.j, target, dt, localTime)

		w.Events.recordCollision(Handle(c.i), Handle(c.j), impact{
			time:     c.collision.Time,
			position: c.collision.Position,
			normal:   c.collision.Normal0,
		}, c.collision.AreStuck)
	}
}

// advanceClock moves an object's clock forward to target, never past dt,
// rotating it through the elapsed time
func (w *World) advanceClock(i int, target, dt float64, localTime []float64) {
	object := w.objects[i]
	if object.GetBodyType() == actor.BodyTypeStatic {
		return
	}

	newTime := math.Min(dt, math.Max(localTime[i], target))
	object.GetBody().Rotate(newTime - localTime[i])
	localTime[i] = newTime
}
