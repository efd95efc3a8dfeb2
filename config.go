package sweep

import (
	"os"

	"github.com/akmonengine/sweep/constraint"
	"github.com/akmonengine/sweep/fixed"
	"github.com/akmonengine/sweep/toi"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DEFAULT_WORKERS = 1

	// An object at rest receiving an acceleration only gets a fraction of it.
	// This keeps objects resting on top of others from sinking into them under gravity
	DEFAULT_RESTING_SPEED_RATIO = 0.1
	DEFAULT_RESTING_DAMPING     = 0.1

	// After a collision, an object's clock moves forward by dt / DEFAULT_STEP_DIVISIONS,
	// which bounds the number of bounces per object and step
	DEFAULT_STEP_DIVISIONS = 10.0
	// Fraction of dt a stuck pair moves forward when nothing else collides after it
	DEFAULT_STUCK_STEP = 0.01

	DEFAULT_MAX_PASSES = 10000
	DEFAULT_GRID_CELLS = 1024
)

// Config holds the tunables of a World.
// The heuristic constants are not physically derived, only validated by behaviour
type Config struct {
	// Gravity acceleration (m/s²) applied to every dynamic object on each step
	Gravity mgl64.Vec3 `yaml:"gravity"`
	Workers int        `yaml:"workers"`

	// Broad phase grid, in meters. Zero disables the grid and checks every pair
	GridCellSize float64 `yaml:"grid_cell_size"`
	GridCells    int     `yaml:"grid_cells"`

	AllowedOverlap  fixed.Unit `yaml:"allowed_overlap"`
	SweepResolution int        `yaml:"sweep_resolution"`

	RestingSpeedRatio float64 `yaml:"resting_speed_ratio"`
	RestingDamping    float64 `yaml:"resting_damping"`
	VelocitySnap      float64 `yaml:"velocity_snap"`
	StepDivisions     float64 `yaml:"step_divisions"`
	StuckStep         float64 `yaml:"stuck_step"`
	MaxPasses         int     `yaml:"max_passes"`

	Debug bool `yaml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		Workers:           DEFAULT_WORKERS,
		GridCells:         DEFAULT_GRID_CELLS,
		AllowedOverlap:    toi.DefaultAllowedOverlap,
		SweepResolution:   toi.DefaultSweepResolution,
		RestingSpeedRatio: DEFAULT_RESTING_SPEED_RATIO,
		RestingDamping:    DEFAULT_RESTING_DAMPING,
		VelocitySnap:      constraint.DefaultVelocitySnap,
		StepDivisions:     DEFAULT_STEP_DIVISIONS,
		StuckStep:         DEFAULT_STUCK_STEP,
		MaxPasses:         DEFAULT_MAX_PASSES,
	}
}

// ParseConfig decodes a YAML document on top of DefaultConfig
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadConfig reads and decodes a YAML config file
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}

	return ParseConfig(data)
}

// Validate rejects values the resolver cannot work with
func (c Config) Validate() error {
	switch {
	case c.Workers < 0:
		return errors.Wrapf(ErrInvalidConfig, "workers %d", c.Workers)
	case c.GridCellSize < 0:
		return errors.Wrapf(ErrInvalidConfig, "grid_cell_size %v", c.GridCellSize)
	case c.AllowedOverlap < 0:
		return errors.Wrapf(ErrInvalidConfig, "allowed_overlap %d", c.AllowedOverlap)
	case c.RestingDamping < 0 || c.RestingDamping > 1:
		return errors.Wrapf(ErrInvalidConfig, "resting_damping %v", c.RestingDamping)
	case c.RestingSpeedRatio < 0:
		return errors.Wrapf(ErrInvalidConfig, "resting_speed_ratio %v", c.RestingSpeedRatio)
	case c.VelocitySnap < 0:
		return errors.Wrapf(ErrInvalidConfig, "velocity_snap %v", c.VelocitySnap)
	case c.StepDivisions < 0:
		return errors.Wrapf(ErrInvalidConfig, "step_divisions %v", c.StepDivisions)
	case c.StuckStep < 0 || c.StuckStep > 1:
		return errors.Wrapf(ErrInvalidConfig, "stuck_step %v", c.StuckStep)
	case c.MaxPasses < 0:
		return errors.Wrapf(ErrInvalidConfig, "max_passes %d", c.MaxPasses)
	}

	return nil
}

// withDefaults replaces the zero values that would stall the resolver
func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = DEFAULT_WORKERS
	}
	if c.GridCells <= 0 {
		c.GridCells = DEFAULT_GRID_CELLS
	}
	if c.SweepResolution <= 0 {
		c.SweepResolution = toi.DefaultSweepResolution
	}
	if c.StepDivisions <= 0 {
		c.StepDivisions = DEFAULT_STEP_DIVISIONS
	}
	if c.StuckStep <= 0 {
		c.StuckStep = DEFAULT_STUCK_STEP
	}
	if c.MaxPasses <= 0 {
		c.MaxPasses = DEFAULT_MAX_PASSES
	}

	return c
}

func (c Config) detectorOptions() toi.Options {
	return toi.Options{
		AllowedOverlap:  c.AllowedOverlap,
		SweepResolution: c.SweepResolution,
	}
}
