package sweep

import (
	"os"

	"github.com/akmonengine/sweep/fixed"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SceneObject describes one object of a scene file.
// Positions and sizes are in 0.1 mm units, velocities in m/s
type SceneObject struct {
	Name        string     `yaml:"name"`
	Shape       string     `yaml:"shape"`
	Position    fixed.Vec3 `yaml:"position"`
	Radius      fixed.Unit `yaml:"radius"`
	HalfExtents fixed.Vec3 `yaml:"half_extents"`
	Mass        float64    `yaml:"mass"`
	// nil keeps actor.DefaultRestitution
	Restitution *float64   `yaml:"restitution"`
	Velocity    mgl64.Vec3 `yaml:"velocity"`
	Static      bool       `yaml:"static"`
}

// Scene is a world configuration and its initial objects
type Scene struct {
	Config  Config        `yaml:"config"`
	Objects []SceneObject `yaml:"objects"`
}

// ParseScene decodes a YAML scene. Missing config values keep their defaults
func ParseScene(data []byte) (*Scene, error) {
	scene := &Scene{Config: DefaultConfig()}
	if err := yaml.Unmarshal(data, scene); err != nil {
		return nil, errors.Wrap(err, "decode scene")
	}
	if err := scene.Config.Validate(); err != nil {
		return nil, err
	}

	return scene, nil
}

// LoadScene reads and decodes a YAML scene file
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read scene %s", path)
	}

	return ParseScene(data)
}

// Build creates the world described by the scene.
// The handles are returned in the order of Objects
func (s *Scene) Build() (*World, []Handle, error) {
	world := NewWorld(s.Config)
	handles := make([]Handle, 0, len(s.Objects))

	for i, object := range s.Objects {
		var (
			h   Handle
			err error
		)

		switch object.Shape {
		case "sphere", "":
			h, err = world.AddSphere(object.Position, object.Radius, object.Mass, !object.Static)
		case "box":
			h, err = world.AddBox(object.Position, object.HalfExtents, object.Mass, !object.Static)
		default:
			err = errors.Wrapf(ErrInvalidScene, "unknown shape %q", object.Shape)
		}
		if err != nil {
			return nil, nil, errors.Wrapf(err, "object %d (%s)", i, object.Name)
		}

		if object.Restitution != nil {
			if err := world.SetRestitution(h, *object.Restitution); err != nil {
				return nil, nil, errors.Wrapf(err, "object %d (%s)", i, object.Name)
			}
		}
		if err := world.SetVelocity(h, object.Velocity); err != nil {
			return nil, nil, errors.Wrapf(err, "object %d (%s)", i, object.Name)
		}

		handles = append(handles, h)
	}

	return world, handles, nil
}
