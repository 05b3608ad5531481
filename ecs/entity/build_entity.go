package entity

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/boneyard/common"
	"github.com/milk9111/boneyard/ecs"
	"github.com/milk9111/boneyard/ecs/component"
	"github.com/milk9111/boneyard/prefabs"
)

var errNoPhysics = errors.New("physics world is nil")

type buildContext struct {
	PrefabPath string
	Physics    *ecs.PhysicsWorld
	RNG        *rand.Rand

	// X and Y are the spawn center in meters.
	X, Y float64
	// Width and Height override the prefab's visual size (pixels) when set.
	Width, Height float64
	// Overrides replaces individual fields of a component spec, keyed by
	// component name then yaml field.
	Overrides map[string]map[string]any
}

// componentSpec returns the raw spec for name with any overrides applied.
func (ctx *buildContext) componentSpec(name string, raw any) any {
	over, ok := ctx.Overrides[name]
	if !ok || len(over) == 0 {
		return raw
	}
	merged := make(map[string]any)
	if m, ok := raw.(map[string]any); ok {
		for k, v := range m {
			merged[k] = v
		}
	}
	for k, v := range over {
		merged[k] = v
	}
	return merged
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":       addPlayerTag,
	"enemy_tag":        addEnemyTag,
	"player":           addPlayer,
	"health":           addHealth,
	"invulnerable":     addInvulnerable,
	"safe_respawn":     addSafeRespawn,
	"spawn_point":      addSpawnPoint,
	"player_collision": addPlayerCollision,
	"input":            addInput,
	"score":            addScore,
	"lifecycle":        addLifecycle,
	"hostile":          addHostile,
	"patrol":           addPatrol,
	"shooter":          addShooter,
	"projectile":       addProjectile,
	"coin":             addCoin,
	"key":              addKey,
	"door":             addDoor,
	"physics_body":     addPhysicsBody,
}

// physics_body goes last so gameplay components exist before shapes can be
// touched by a contact, and so door can pick the sensor flag.
var componentBuildOrder = []string{
	"player_tag",
	"enemy_tag",
	"player",
	"health",
	"invulnerable",
	"safe_respawn",
	"spawn_point",
	"player_collision",
	"input",
	"score",
	"lifecycle",
	"hostile",
	"patrol",
	"shooter",
	"projectile",
	"coin",
	"key",
	"door",
	"physics_body",
}

// BuildEntity creates an entity from a prefab, placing its body at the
// context's spawn point.
func BuildEntity(w *ecs.World, prefabPath string, ctx *buildContext) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}
	if ctx == nil {
		ctx = &buildContext{}
	}
	ctx.PrefabPath = prefabPath

	e := ecs.CreateEntity(w)

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	names := make([]string, 0, len(remaining))
	for _, name := range componentBuildOrder {
		if _, ok := remaining[name]; ok {
			names = append(names, name)
			delete(remaining, name)
		}
	}
	if len(remaining) > 0 {
		unknown := make([]string, 0, len(remaining))
		for name := range remaining {
			unknown = append(unknown, name)
		}
		sort.Strings(unknown)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, unknown[0])
	}

	for _, name := range names {
		if err := componentRegistry[name](w, e, ctx.componentSpec(name, spec.Components[name]), ctx); err != nil {
			destroyPartial(w, e, ctx)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
	}

	return e, nil
}

func destroyPartial(w *ecs.World, e ecs.Entity, ctx *buildContext) {
	if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && ctx.Physics != nil {
		_ = ctx.Physics.DestroyBody(pb.Body)
	}
	ecs.DestroyEntity(w, e)
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addEnemyTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.EnemyTagComponent.Kind(), &component.EnemyTag{})
}

func addPlayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PlayerComponentSpec](raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{
		State:            component.PlayerIdle,
		Facing:           1,
		MoveSpeed:        spec.MoveSpeed,
		JumpImpulse:      spec.JumpImpulse,
		KnockbackX:       spec.KnockbackX,
		KnockbackY:       spec.KnockbackY,
		FallDamage:       spec.FallDamage,
		DeathPlaneY:      common.ToMeters(spec.DeathPlaneY),
		InvulnDuration:   spec.InvulnDuration,
		RecoveryInvuln:   spec.RecoveryInvuln,
		SafeInterval:     spec.SafeInterval,
		WalkSoundPeriod:  spec.WalkSoundPeriod,
		KnockbackLockVel: spec.KnockbackLockSpeed,
	})
}

func addHealth(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.HealthComponentSpec](raw)
	if err != nil {
		return err
	}
	if spec.Max <= 0 {
		return fmt.Errorf("health max must be positive, got %d", spec.Max)
	}
	return ecs.Add(w, e, component.HealthComponent.Kind(), &component.Health{Current: spec.Max, Max: spec.Max})
}

func addInvulnerable(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InvulnerableComponent.Kind(), &component.Invulnerable{})
}

func addSafeRespawn(w *ecs.World, e ecs.Entity, _ any, ctx *buildContext) error {
	return ecs.Add(w, e, component.SafeRespawnComponent.Kind(), &component.SafeRespawn{X: ctx.X, Y: ctx.Y, Initialized: true})
}

func addSpawnPoint(w *ecs.World, e ecs.Entity, _ any, ctx *buildContext) error {
	return ecs.Add(w, e, component.SpawnPointComponent.Kind(), &component.SpawnPoint{X: ctx.X, Y: ctx.Y})
}

func addPlayerCollision(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerCollisionComponent.Kind(), &component.PlayerCollision{})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

func addScore(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.ScoreComponent.Kind(), &component.Score{})
}

func addLifecycle(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.LifecycleComponent.Kind(), &component.Lifecycle{State: component.LifeActive})
}

func addHostile(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.HostileComponentSpec](raw)
	if err != nil {
		return err
	}
	// VisualHeight is filled in by physics_body.
	return ecs.Add(w, e, component.HostileComponent.Kind(), &component.Hostile{ContactDamage: spec.ContactDamage, VisualHeight: ctx.Height})
}

func addPatrol(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PatrolComponentSpec](raw)
	if err != nil {
		return err
	}
	half := common.ToMeters(math.Max(0, spec.Distance)) / 2
	return ecs.Add(w, e, component.PatrolComponent.Kind(), &component.Patrol{
		Speed: spec.Speed,
		MinX:  ctx.X - half,
		MaxX:  ctx.X + half,
		Dir:   1,
	})
}

func addShooter(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ShooterComponentSpec](raw)
	if err != nil {
		return err
	}
	jitter := 0.0
	if ctx.RNG != nil {
		jitter = ctx.RNG.Float64()
	}
	return ecs.Add(w, e, component.ShooterComponent.Kind(), &component.Shooter{
		Cooldown:        spec.Cooldown,
		Timer:           spec.Cooldown * jitter,
		DetectionRadius: common.ToMeters(spec.DetectionRadius),
		FacingRight:     true,
	})
}

func addProjectile(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ProjectileComponentSpec](raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.ProjectileComponent.Kind(), &component.Projectile{
		Speed:     spec.Speed,
		DirX:      1,
		Remaining: spec.Lifetime,
		Damage:    spec.Damage,
	})
}

func addCoin(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.CoinComponent.Kind(), &component.Coin{})
}

func addKey(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.KeyComponent.Kind(), &component.Key{})
}

func addDoor(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.DoorComponentSpec](raw)
	if err != nil {
		return err
	}
	locked := true
	if spec.InitiallyLocked != nil {
		locked = *spec.InitiallyLocked
	}
	next := spec.NextLevel
	if next == "" {
		next = "main_menu"
	}
	return ecs.Add(w, e, component.DoorComponent.Kind(), &component.Door{
		Locked:    locked,
		Open:      !locked,
		NextLevel: next,
	})
}

var roleByName = map[string]ecs.RoleKind{
	"player":     ecs.RolePlayer,
	"ground":     ecs.RoleGround,
	"wall":       ecs.RoleWall,
	"coin":       ecs.RoleCoin,
	"key":        ecs.RoleKey,
	"enemy":      ecs.RoleEnemy,
	"shooter":    ecs.RoleShooter,
	"door":       ecs.RoleDoor,
	"projectile": ecs.RoleProjectile,
}

// ParseRole maps a prefab role name to its RoleKind.
func ParseRole(name string) (ecs.RoleKind, bool) {
	k, ok := roleByName[name]
	return k, ok
}

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	if ctx.Physics == nil {
		return errNoPhysics
	}
	spec, err := prefabs.DecodeComponentSpec[prefabs.PhysicsBodyComponentSpec](raw)
	if err != nil {
		return err
	}
	role, ok := ParseRole(spec.Role)
	if !ok {
		return fmt.Errorf("unknown physics role %q", spec.Role)
	}

	width, height := spec.Width, spec.Height
	if ctx.Width > 0 {
		width = ctx.Width
	}
	if ctx.Height > 0 {
		height = ctx.Height
	}
	halfW, halfH := spec.HalfWidth, spec.HalfHeight
	if halfW <= 0 || ctx.Width > 0 {
		halfW = width / 2
	}
	if halfH <= 0 || ctx.Height > 0 {
		halfH = height / 2
	}
	if halfW <= 0 || halfH <= 0 {
		return fmt.Errorf("physics body %q has no size", spec.Role)
	}
	boxW, boxH := common.ToMeters(halfW*2), common.ToMeters(halfH*2)

	var body *cp.Body
	if spec.Static {
		body = cp.NewStaticBody()
	} else {
		density := spec.Density
		if density <= 0 {
			density = 1
		}
		mass := density * boxW * boxH
		moment := cp.MomentForBox(mass, boxW, boxH)
		if spec.FixedRotation {
			moment = math.Inf(1)
		}
		body = cp.NewBody(mass, moment)
		switch {
		case spec.NoGravity:
			body.SetVelocityUpdateFunc(ecs.NoGravity)
		case spec.LinearDamping > 0:
			body.SetVelocityUpdateFunc(ecs.LinearDamping(spec.LinearDamping))
		}
	}
	body.SetPosition(cp.Vector{X: ctx.X, Y: ctx.Y})
	ctx.Physics.AddBody(body, e)

	sensor := spec.Sensor
	if door, ok := ecs.Get(w, e, component.DoorComponent.Kind()); ok {
		sensor = !door.Locked
	}

	shape := cp.NewBox(body, boxW, boxH, 0)
	shape.SetSensor(sensor)
	shape.SetFriction(spec.Friction)
	ctx.Physics.AddShape(shape, ecs.FixtureRole{Kind: role, Owner: e})

	pb := &component.PhysicsBody{Body: body, Shape: shape, Width: width, Height: height}
	if spec.Feet != nil {
		offset := common.ToMeters(spec.Feet.OffsetY)
		fw, fh := common.ToMeters(spec.Feet.HalfWidth), common.ToMeters(spec.Feet.HalfHeight)
		feet := cp.NewBox2(body, cp.BB{L: -fw, B: offset - fh, R: fw, T: offset + fh}, 0)
		feet.SetSensor(true)
		ctx.Physics.AddShape(feet, ecs.FixtureRole{Kind: ecs.RolePlayerFeet, Owner: e})
		pb.Feet = feet
		pb.FeetOffsetY = offset
	}

	if hostile, ok := ecs.Get(w, e, component.HostileComponent.Kind()); ok {
		hostile.VisualHeight = height
	}
	if shooter, ok := ecs.Get(w, e, component.ShooterComponent.Kind()); ok {
		shooter.VisualWidth = width
	}
	if door, ok := ecs.Get(w, e, component.DoorComponent.Kind()); ok {
		door.Shape = shape
	}

	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), pb)
}
