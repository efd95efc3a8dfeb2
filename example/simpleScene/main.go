package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/akmonengine/sweep"
	"github.com/akmonengine/sweep/fixed"
	"github.com/go-gl/mathgl/mgl64"
)

// CollisionDebugger prints the events sent by the world
type CollisionDebugger struct{}

func (d *CollisionDebugger) Subscribe(world *sweep.World) {
	world.Events.Subscribe(sweep.COLLISION_ENTER, func(event sweep.Event) {
		e := event.(sweep.CollisionEnterEvent)
		fmt.Printf("  💥 enter %d/%d at t=%.5f position=%v normal=%v\n",
			e.ObjectA, e.ObjectB, e.Time, e.Position, e.Normal)
	})
	world.Events.Subscribe(sweep.COLLISION_EXIT, func(event sweep.Event) {
		e := event.(sweep.CollisionExitEvent)
		fmt.Printf("  exit %d/%d\n", e.ObjectA, e.ObjectB)
	})
	world.Events.Subscribe(sweep.STUCK, func(event sweep.Event) {
		e := event.(sweep.StuckEvent)
		fmt.Printf("  ⚠️  stuck %d/%d at t=%.5f\n", e.ObjectA, e.ObjectB, e.Time)
	})
}

// SetupScene drops a ball on a static one, next to a row of touching balls hit by a fast one
func SetupScene(debug bool) (*sweep.World, []sweep.Handle, error) {
	cfg := sweep.DefaultConfig()
	cfg.Gravity = mgl64.Vec3{0, -9.81, 0}
	cfg.GridCellSize = 1.0
	cfg.Debug = debug

	world := sweep.NewWorld(cfg)
	handles := make([]sweep.Handle, 0)

	add := func(position fixed.Vec3, radius fixed.Unit, mass float64, movable bool) error {
		h, err := world.AddSphere(position, radius, mass, movable)
		if err != nil {
			return err
		}
		handles = append(handles, h)
		return nil
	}

	// Ground ball, static
	if err := add(fixed.Vec3FromMeters(mgl64.Vec3{0, 0, 0}), fixed.FromMeters(1), 1, false); err != nil {
		return nil, nil, err
	}
	// Falling ball
	if err := add(fixed.Vec3FromMeters(mgl64.Vec3{0, 3, 0}), fixed.FromMeters(0.5), 1, true); err != nil {
		return nil, nil, err
	}

	// Cradle, far from the rest and without gravity effect on the line
	for i := 0; i < 4; i++ {
		position := fixed.Vec3FromMeters(mgl64.Vec3{10 + float64(i)*0.2, 0, 10})
		if err := add(position, fixed.FromMeters(0.1), 1, true); err != nil {
			return nil, nil, err
		}
	}
	// Striker, fast enough to cross a ball diameter in a single step
	if err := add(fixed.Vec3FromMeters(mgl64.Vec3{8, 0, 10}), fixed.FromMeters(0.1), 1, true); err != nil {
		return nil, nil, err
	}
	if err := world.SetVelocity(handles[len(handles)-1], mgl64.Vec3{30, 0, 0}); err != nil {
		return nil, nil, err
	}

	return world, handles, nil
}

func main() {
	scenePath := flag.String("scene", "", "YAML scene file, the built-in scene is used when empty")
	steps := flag.Int("steps", 120, "number of steps to simulate")
	dt := flag.Float64("dt", 1.0/60.0, "step duration in seconds")
	debug := flag.Bool("debug", false, "log every step of the resolver")
	flag.Parse()

	var (
		world   *sweep.World
		handles []sweep.Handle
		err     error
	)

	if *scenePath != "" {
		var scene *sweep.Scene
		scene, err = sweep.LoadScene(*scenePath)
		if err == nil {
			scene.Config.Debug = scene.Config.Debug || *debug
			world, handles, err = scene.Build()
		}
	} else {
		world, handles, err = SetupScene(*debug)
	}
	if err != nil {
		log.Fatalf("setup scene: %v", err)
	}

	if world.Config.Debug {
		world.Logger.SetOutput(os.Stderr)
	}

	debugger := &CollisionDebugger{}
	debugger.Subscribe(world)

	fmt.Println("🧪 Simulation")
	fmt.Println("=============")
	fmt.Printf("  Objects: %d, gravity: %v, dt: %.5f\n", world.Len(), world.Gravity, *dt)
	fmt.Println()

	for step := 0; step < *steps; step++ {
		fmt.Printf("--- STEP %d ---\n", step+1)
		world.Advance(*dt)

		stats := world.Stats()
		if stats.Capped {
			fmt.Printf("  resolver capped after %d passes\n", stats.Passes)
		}

		for _, h := range handles {
			position, _ := world.Position(h)
			velocity, _ := world.Velocity(h)
			fmt.Printf("  #%d position=%v velocity=%v\n", h, position.Meters(), velocity)
		}
		fmt.Println()
	}

	fmt.Println("Done!")
}
