package prefabs

import "gopkg.in/yaml.v3"

// EntityBuildSpec is a prefab: a name plus a map of component name to raw
// component spec.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

// DecodeComponentSpec re-decodes a raw component map into T.
func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// PlayerComponentSpec is the player's movement and damage tuning. Distances
// are pixels, velocities m/s, impulses kg·m/s, times seconds.
type PlayerComponentSpec struct {
	MoveSpeed          float64 `yaml:"move_speed"`
	JumpImpulse        float64 `yaml:"jump_impulse"`
	KnockbackX         float64 `yaml:"knockback_x"`
	KnockbackY         float64 `yaml:"knockback_y"`
	FallDamage         int     `yaml:"fall_damage"`
	DeathPlaneY        float64 `yaml:"death_plane_y"`
	InvulnDuration     float64 `yaml:"invuln_duration"`
	RecoveryInvuln     float64 `yaml:"recovery_invuln"`
	SafeInterval       float64 `yaml:"safe_interval"`
	WalkSoundPeriod    float64 `yaml:"walk_sound_period"`
	KnockbackLockSpeed float64 `yaml:"knockback_lock_speed"`
}

type HealthComponentSpec struct {
	Max int `yaml:"max"`
}

// FeetComponentSpec is a sensor box below the body, in pixels.
type FeetComponentSpec struct {
	HalfWidth  float64 `yaml:"half_width"`
	HalfHeight float64 `yaml:"half_height"`
	OffsetY    float64 `yaml:"offset_y"`
}

// PhysicsBodyComponentSpec describes the body and its main fixture. Sizes
// are pixels; Width/Height are the visual size and HalfWidth/HalfHeight the
// collision box. Zero collision half-extents fall back to half the visual
// size.
type PhysicsBodyComponentSpec struct {
	Role          string             `yaml:"role"`
	Static        bool               `yaml:"static"`
	Sensor        bool               `yaml:"sensor"`
	Width         float64            `yaml:"width"`
	Height        float64            `yaml:"height"`
	HalfWidth     float64            `yaml:"half_width"`
	HalfHeight    float64            `yaml:"half_height"`
	Density       float64            `yaml:"density"`
	Friction      float64            `yaml:"friction"`
	LinearDamping float64            `yaml:"linear_damping"`
	NoGravity     bool               `yaml:"no_gravity"`
	FixedRotation bool               `yaml:"fixed_rotation"`
	Feet          *FeetComponentSpec `yaml:"feet"`
}

type HostileComponentSpec struct {
	ContactDamage int `yaml:"contact_damage"`
}

// PatrolComponentSpec: Distance is the full patrol width in pixels.
type PatrolComponentSpec struct {
	Speed    float64 `yaml:"speed"`
	Distance float64 `yaml:"distance"`
}

// ShooterComponentSpec: DetectionRadius is in pixels.
type ShooterComponentSpec struct {
	Cooldown        float64 `yaml:"cooldown"`
	DetectionRadius float64 `yaml:"detection_radius"`
}

type ProjectileComponentSpec struct {
	Speed    float64 `yaml:"speed"`
	Lifetime float64 `yaml:"lifetime"`
	Damage   int     `yaml:"damage"`
}

type DoorComponentSpec struct {
	NextLevel       string `yaml:"next_level"`
	InitiallyLocked *bool  `yaml:"initially_locked"`
}
