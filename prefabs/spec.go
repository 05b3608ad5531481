package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// WorldSpec is the fixed-step simulation tuning from world.yaml.
type WorldSpec struct {
	TimeStep           float64                `yaml:"time_step"`
	VelocityIterations int                    `yaml:"velocity_iterations"`
	PositionIterations int                    `yaml:"position_iterations"`
	GravityX           float64                `yaml:"gravity_x"`
	GravityY           float64                `yaml:"gravity_y"`
	ShooterJitter      float64                `yaml:"shooter_jitter"`
	Stomp              StompSpec              `yaml:"stomp"`
	Surfaces           map[string]SurfaceSpec `yaml:"surfaces"`
	DefaultSpawnX      float64                `yaml:"default_spawn_x"`
	DefaultSpawnY      float64                `yaml:"default_spawn_y"`
}

type StompSpec struct {
	Velocity    float64 `yaml:"velocity"`
	TopFraction float64 `yaml:"top_fraction"`
	Bounce      float64 `yaml:"bounce"`
}

// SurfaceSpec is the material of one collision surface type.
type SurfaceSpec struct {
	Role     string  `yaml:"role"`
	Friction float64 `yaml:"friction"`
}

func LoadWorldSpec() (WorldSpec, error) {
	return LoadSpec[WorldSpec]("world.yaml")
}
