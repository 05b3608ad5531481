package system

import (
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/boneyard/common"
	"github.com/milk9111/boneyard/ecs"
	"github.com/milk9111/boneyard/ecs/component"
)

// stateEpsilon is the velocity threshold (m/s) used for state derivation and
// safe-position checks.
const stateEpsilon = 0.1

// PlayerSystem owns the player state machine: input, damage, knockback, fall
// recovery, safe-position checkpointing and state derivation. It never
// mutates the space structurally.
type PlayerSystem struct {
	dt       float64
	notifier Notifier
	rng      *rand.Rand
}

func NewPlayerSystem(dt float64, notifier Notifier, rng *rand.Rand) *PlayerSystem {
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 2))
	}
	return &PlayerSystem{dt: dt, notifier: notifierOrNop(notifier), rng: rng}
}

// Update applies input and advances every player by one frame. Dead players
// are skipped.
func (s *PlayerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.PlayerComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, p *component.Player, pb *component.PhysicsBody) {
		if p.State == component.PlayerDead || pb.Body == nil {
			return
		}
		s.handleInput(w, e, p, pb.Body)
		s.update(w, e, p, pb.Body)
	})
}

func (s *PlayerSystem) handleInput(w *ecs.World, e ecs.Entity, p *component.Player, body *cp.Body) {
	in, ok := ecs.Get(w, e, component.InputComponent.Kind())
	if !ok {
		return
	}
	inv, _ := ecs.Get(w, e, component.InvulnerableComponent.Kind())
	v := body.Velocity()
	if inv.Active() && (math.Abs(v.X) > p.KnockbackLockVel || math.Abs(v.Y) > p.KnockbackLockVel) {
		return
	}

	move := in.MoveX()
	if move != 0 {
		p.Facing = move
	}
	body.SetVelocity(move*p.MoveSpeed, v.Y)

	if in.Jump && grounded(w, e) {
		body.ApplyImpulseAtWorldPoint(cp.Vector{X: 0, Y: body.Mass() * p.JumpImpulse}, body.Position())
		s.notifier.PlaySound(component.SoundJump)
	}
}

func (s *PlayerSystem) update(w *ecs.World, e ecs.Entity, p *component.Player, body *cp.Body) {
	onGround := grounded(w, e)

	if safe, ok := ecs.Get(w, e, component.SafeRespawnComponent.Kind()); ok {
		safe.Timer += s.dt
		vy := body.Velocity().Y
		if onGround && safe.Timer >= p.SafeInterval && vy > -stateEpsilon && vy < stateEpsilon {
			pos := body.Position()
			safe.X, safe.Y = pos.X, pos.Y
			safe.Initialized = true
			safe.Timer = 0
		}
	}

	if body.Position().Y < p.DeathPlaneY {
		s.handleFall(w, e, p, body)
	}

	if inv, ok := ecs.Get(w, e, component.InvulnerableComponent.Kind()); ok && inv.Remaining > 0 {
		inv.Remaining = math.Max(0, inv.Remaining-s.dt)
	}

	if p.State == component.PlayerDead {
		return
	}
	p.State = DeriveState(onGround, body.Velocity())

	if p.State == component.PlayerRunning && onGround {
		p.WalkSoundTimer += s.dt
		if p.WalkSoundTimer >= p.WalkSoundPeriod {
			s.notifier.PlaySound(component.SoundWalk)
			p.WalkSoundTimer = 0
		}
	} else {
		p.WalkSoundTimer = 0
	}
}

// DeriveState computes the non-terminal player state from kinematics.
func DeriveState(grounded bool, v cp.Vector) component.PlayerState {
	switch {
	case !grounded && v.Y > stateEpsilon:
		return component.PlayerJumping
	case !grounded:
		return component.PlayerFalling
	case math.Abs(v.X) > stateEpsilon:
		return component.PlayerRunning
	default:
		return component.PlayerIdle
	}
}

func (s *PlayerSystem) handleFall(w *ecs.World, e ecs.Entity, p *component.Player, body *cp.Body) {
	if p.State == component.PlayerDead {
		return
	}
	log.Info("player fell below death plane", "y", body.Position().Y)
	s.TakeDamage(w, e, p.FallDamage, nil)
	if p.State == component.PlayerDead {
		return
	}
	s.ResetToSafe(w, e)
}

// TakeDamage applies amount to the player unless it is dead or
// invulnerable, knocking it away from source. A nil source falls back to
// facing, then to a random direction. It reports whether damage was applied.
func (s *PlayerSystem) TakeDamage(w *ecs.World, e ecs.Entity, amount int, source *cp.Body) bool {
	p, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	if !ok || p.State == component.PlayerDead {
		return false
	}
	inv, ok := ecs.Get(w, e, component.InvulnerableComponent.Kind())
	if ok && inv.Active() {
		return false
	}
	health, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok {
		return false
	}

	health.Current = max(0, health.Current-amount)
	if inv != nil {
		inv.Remaining = p.InvulnDuration
	}
	log.Info("player took damage", "amount", amount, "health", health.Current)

	if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && pb.Body != nil {
		dir := s.knockbackDir(p, pb.Body, source)
		pb.Body.SetVelocity(0, 0)
		pb.Body.ApplyImpulseAtWorldPoint(cp.Vector{X: dir * p.KnockbackX, Y: p.KnockbackY}, pb.Body.Position())
	}
	s.notifier.PlaySound(component.SoundHurt)

	if health.Current <= 0 {
		s.die(w, e, p)
	}
	return true
}

func (s *PlayerSystem) knockbackDir(p *component.Player, body, source *cp.Body) float64 {
	if source != nil {
		if dir := common.Sign(body.Position().X - source.Position().X); dir != 0 {
			return dir
		}
		if dir := -common.Sign(source.Velocity().X); dir != 0 {
			return dir
		}
	}
	if dir := -common.Sign(p.Facing); dir != 0 {
		return dir
	}
	if s.rng.IntN(2) == 0 {
		return -1
	}
	return 1
}

func (s *PlayerSystem) die(w *ecs.World, e ecs.Entity, p *component.Player) {
	if p.State == component.PlayerDead {
		return
	}
	p.State = component.PlayerDead
	if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && pb.Body != nil {
		pb.Body.SetVelocity(0, 0)
	}
	log.Info("player died")
	s.notifier.PlaySound(component.SoundDeath)
}

// ResetToSafe teleports a living player to its last safe position and
// grants a short recovery invulnerability.
func (s *PlayerSystem) ResetToSafe(w *ecs.World, e ecs.Entity) {
	p, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	if !ok || p.State == component.PlayerDead {
		return
	}
	pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || pb.Body == nil {
		return
	}
	safe, ok := ecs.Get(w, e, component.SafeRespawnComponent.Kind())
	if !ok || !safe.Initialized {
		return
	}
	pb.Body.SetPosition(cp.Vector{X: safe.X, Y: safe.Y})
	pb.Body.SetVelocity(0, 0)
	if inv, ok := ecs.Get(w, e, component.InvulnerableComponent.Kind()); ok {
		inv.Remaining = p.RecoveryInvuln
	}
	p.State = component.PlayerIdle
	log.Info("player reset to safe position", "x", safe.X, "y", safe.Y)
}

// ResetToSpawn moves a living player back to the level spawn without
// touching health.
func (s *PlayerSystem) ResetToSpawn(w *ecs.World, e ecs.Entity) {
	p, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	if !ok || p.State == component.PlayerDead {
		return
	}
	moveToSpawn(w, e)
}

// Respawn fully resets the player: health, invulnerability, position and
// state.
func (s *PlayerSystem) Respawn(w *ecs.World, e ecs.Entity) {
	p, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	if health, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
		health.Current = health.Max
	}
	if inv, ok := ecs.Get(w, e, component.InvulnerableComponent.Kind()); ok {
		inv.Remaining = 0
	}
	moveToSpawn(w, e)
	p.State = component.PlayerIdle
	p.Facing = 1
	p.WalkSoundTimer = 0
	log.Info("player respawned")
}

func moveToSpawn(w *ecs.World, e ecs.Entity) {
	spawn, ok := ecs.Get(w, e, component.SpawnPointComponent.Kind())
	if !ok {
		return
	}
	if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && pb.Body != nil {
		pb.Body.SetPosition(cp.Vector{X: spawn.X, Y: spawn.Y})
		pb.Body.SetVelocity(0, 0)
	}
}

func grounded(w *ecs.World, e ecs.Entity) bool {
	pc, ok := ecs.Get(w, e, component.PlayerCollisionComponent.Kind())
	return ok && pc.Grounded()
}
