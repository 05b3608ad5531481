package entity

import (
	"fmt"
	"math/rand/v2"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/boneyard/ecs"
	"github.com/milk9111/boneyard/ecs/component"
)

// Spawner builds prefab entities into one physics world. Positions are
// body centers in meters.
type Spawner struct {
	Physics *ecs.PhysicsWorld
	RNG     *rand.Rand
}

func NewSpawner(physics *ecs.PhysicsWorld, rng *rand.Rand) *Spawner {
	if rng == nil {
		rng = rand.New(rand.NewPCG(3, 4))
	}
	return &Spawner{Physics: physics, RNG: rng}
}

func (s *Spawner) context(x, y float64) *buildContext {
	return &buildContext{Physics: s.Physics, RNG: s.RNG, X: x, Y: y}
}

func (s *Spawner) NewPlayerAt(w *ecs.World, x, y float64) (ecs.Entity, error) {
	return BuildEntity(w, "player.yaml", s.context(x, y))
}

// NewEnemyAt spawns a patrolling enemy centered on its patrol range.
// patrolDistance is in pixels; a negative value keeps the prefab default.
func (s *Spawner) NewEnemyAt(w *ecs.World, x, y, patrolDistance float64) (ecs.Entity, error) {
	ctx := s.context(x, y)
	if patrolDistance >= 0 {
		ctx.Overrides = map[string]map[string]any{"patrol": {"distance": patrolDistance}}
	}
	return BuildEntity(w, "enemy.yaml", ctx)
}

// NewShooterAt spawns a stationary shooter. Non-positive radius (pixels) or
// cooldown (seconds) keep the prefab defaults.
func (s *Spawner) NewShooterAt(w *ecs.World, x, y, radius, cooldown float64) (ecs.Entity, error) {
	ctx := s.context(x, y)
	over := map[string]any{}
	if radius > 0 {
		over["detection_radius"] = radius
	}
	if cooldown > 0 {
		over["cooldown"] = cooldown
	}
	if len(over) > 0 {
		ctx.Overrides = map[string]map[string]any{"shooter": over}
	}
	return BuildEntity(w, "shooting_enemy.yaml", ctx)
}

// NewProjectileAt spawns a projectile at pos travelling along dir.
func (s *Spawner) NewProjectileAt(w *ecs.World, pos, dir cp.Vector) (ecs.Entity, error) {
	e, err := BuildEntity(w, "projectile.yaml", s.context(pos.X, pos.Y))
	if err != nil {
		return 0, err
	}
	proj, ok := ecs.Get(w, e, component.ProjectileComponent.Kind())
	if !ok {
		return 0, fmt.Errorf("projectile prefab has no projectile component")
	}
	if dir.Length() > 0 {
		dir = dir.Normalize()
		proj.DirX, proj.DirY = dir.X, dir.Y
	}
	if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
		pb.Body.SetVelocity(proj.DirX*proj.Speed, proj.DirY*proj.Speed)
	}
	return e, nil
}

func (s *Spawner) NewCoinAt(w *ecs.World, x, y float64) (ecs.Entity, error) {
	return BuildEntity(w, "coin.yaml", s.context(x, y))
}

func (s *Spawner) NewKeyAt(w *ecs.World, x, y float64) (ecs.Entity, error) {
	return BuildEntity(w, "key.yaml", s.context(x, y))
}

// NewDoorAt spawns a door. An empty nextLevel or nil locked keeps the
// prefab default. Unlocked doors start as sensors.
func (s *Spawner) NewDoorAt(w *ecs.World, x, y float64, nextLevel string, locked *bool) (ecs.Entity, error) {
	ctx := s.context(x, y)
	over := map[string]any{}
	if nextLevel != "" {
		over["next_level"] = nextLevel
	}
	if locked != nil {
		over["initially_locked"] = *locked
	}
	if len(over) > 0 {
		ctx.Overrides = map[string]map[string]any{"door": over}
	}
	return BuildEntity(w, "door.yaml", ctx)
}
