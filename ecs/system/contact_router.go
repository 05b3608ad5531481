package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/boneyard/common"
	"github.com/milk9111/boneyard/ecs"
	"github.com/milk9111/boneyard/ecs/component"
)

// RouterConfig holds the stomp tuning. Velocities are in m/s.
type RouterConfig struct {
	StompVelocity    float64
	StompTopFraction float64
	StompBounce      float64
}

func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		StompVelocity:    -0.1,
		StompTopFraction: 0.5,
		StompBounce:      4,
	}
}

// ContactRouter classifies contacts by fixture role and dispatches them to
// gameplay handlers. It runs inside the physics step, so every structural
// change goes through the removal queue.
type ContactRouter struct {
	world    *ecs.World
	queue    *RemovalQueue
	players  *PlayerSystem
	notifier Notifier
	cfg      RouterConfig
}

func NewContactRouter(w *ecs.World, queue *RemovalQueue, players *PlayerSystem, notifier Notifier, cfg RouterConfig) *ContactRouter {
	return &ContactRouter{
		world:    w,
		queue:    queue,
		players:  players,
		notifier: notifierOrNop(notifier),
		cfg:      cfg,
	}
}

// IsGrounded reports whether the player's feet touch any ground fixture.
func (r *ContactRouter) IsGrounded() bool {
	player, ok := ecs.First(r.world, component.PlayerComponent.Kind())
	if !ok {
		return false
	}
	return grounded(r.world, player)
}

// GroundContacts returns the raw feet/ground contact counter.
func (r *ContactRouter) GroundContacts() int {
	player, ok := ecs.First(r.world, component.PlayerComponent.Kind())
	if !ok {
		return 0
	}
	pc, ok := ecs.Get(r.world, player, component.PlayerCollisionComponent.Kind())
	if !ok {
		return 0
	}
	return pc.GroundContacts
}

// orient returns the pair ordered so that the first fixture satisfies match.
func orient(a, b ecs.Fixture, match func(ecs.RoleKind) bool) (ecs.Fixture, ecs.Fixture, bool) {
	if match(a.Role.Kind) {
		return a, b, true
	}
	if match(b.Role.Kind) {
		return b, a, true
	}
	return a, b, false
}

func is(kind ecs.RoleKind) func(ecs.RoleKind) bool {
	return func(k ecs.RoleKind) bool { return k == kind }
}

func isPlayer(k ecs.RoleKind) bool { return k.IsPlayer() }

func (r *ContactRouter) BeginContact(a, b ecs.Fixture) bool {
	if feet, other, ok := orient(a, b, is(ecs.RolePlayerFeet)); ok && other.Role.Kind == ecs.RoleGround {
		r.adjustGround(feet.Role.Owner, 1)
		return false
	}

	if proj, other, ok := orient(a, b, is(ecs.RoleProjectile)); ok {
		if other.Role.Kind.IsPlayer() {
			return r.projectileHitsPlayer(proj, other)
		}
		return false
	}

	player, other, ok := orient(a, b, isPlayer)
	if !ok {
		return false
	}
	switch other.Role.Kind {
	case ecs.RoleCoin:
		r.collectCoin(other.Role.Owner)
		return false
	case ecs.RoleKey:
		r.collectKey(player.Role.Owner, other.Role.Owner)
		return false
	case ecs.RoleDoor:
		r.touchDoor(player.Role.Owner, other)
		return false
	case ecs.RoleEnemy, ecs.RoleShooter:
		return r.hostileContact(player, other)
	default:
		return false
	}
}

func (r *ContactRouter) EndContact(a, b ecs.Fixture) {
	if feet, other, ok := orient(a, b, is(ecs.RolePlayerFeet)); ok && other.Role.Kind == ecs.RoleGround {
		r.adjustGround(feet.Role.Owner, -1)
	}
}

// PreSolve only decides whether the contact is resolved physically. The one
// side effect is scheduling a projectile that touched ground.
func (r *ContactRouter) PreSolve(a, b ecs.Fixture) bool {
	if proj, other, ok := orient(a, b, is(ecs.RoleProjectile)); ok {
		if r.removed(proj.Role.Owner) {
			return true
		}
		if other.Role.Kind == ecs.RoleGround {
			ScheduleEntity(r.world, r.queue, proj.Role.Owner)
			return true
		}
		return false
	}

	player, other, ok := orient(a, b, isPlayer)
	if !ok {
		return false
	}
	switch other.Role.Kind {
	case ecs.RoleCoin:
		return true
	case ecs.RoleEnemy, ecs.RoleShooter:
		return r.removed(other.Role.Owner) || r.invulnerable(player.Role.Owner)
	}
	return false
}

func (r *ContactRouter) adjustGround(player ecs.Entity, delta int) {
	pc, ok := ecs.Get(r.world, player, component.PlayerCollisionComponent.Kind())
	if !ok {
		return
	}
	pc.GroundContacts = max(0, pc.GroundContacts+delta)
	log.Debug("ground contacts", "count", pc.GroundContacts)
}

func (r *ContactRouter) projectileHitsPlayer(proj, player ecs.Fixture) bool {
	owner := proj.Role.Owner
	if r.removed(owner) || !r.alive(player.Role.Owner) || r.invulnerable(player.Role.Owner) {
		return true
	}
	damage := 0
	if p, ok := ecs.Get(r.world, owner, component.ProjectileComponent.Kind()); ok {
		damage = p.Damage
	}
	r.players.TakeDamage(r.world, player.Role.Owner, damage, proj.Body())
	ScheduleEntity(r.world, r.queue, owner)
	return false
}

func (r *ContactRouter) collectCoin(coin ecs.Entity) {
	if !ScheduleEntity(r.world, r.queue, coin) {
		return
	}
	if player, ok := ecs.First(r.world, component.PlayerComponent.Kind()); ok {
		if score, ok := ecs.Get(r.world, player, component.ScoreComponent.Kind()); ok {
			score.Value++
			log.Info("coin collected", "score", score.Value)
		}
	}
	r.notifier.OnScoreIncrement()
	r.notifier.PlaySound(component.SoundCoin)
}

func (r *ContactRouter) collectKey(player, key ecs.Entity) {
	if !ecs.Has(r.world, key, component.KeyComponent.Kind()) {
		return
	}
	if !ScheduleEntity(r.world, r.queue, key) {
		return
	}
	if p, ok := ecs.Get(r.world, player, component.PlayerComponent.Kind()); ok {
		p.HasKey = true
	}
	log.Info("key collected")
	r.notifier.PlaySound(component.SoundKey)
}

func (r *ContactRouter) touchDoor(player ecs.Entity, doorFixture ecs.Fixture) {
	door, ok := ecs.Get(r.world, doorFixture.Role.Owner, component.DoorComponent.Kind())
	if !ok {
		return
	}
	shape := doorFixture.Shape
	if shape == nil {
		shape = door.Shape
	}

	if shape.Sensor() {
		log.Info("door transition", "target", door.NextLevel)
		r.notifier.RequestScreenTransition(door.NextLevel)
		return
	}

	if !door.Locked && r.queue.SensorScheduled(shape) {
		// unlocking; the conversion lands after this step
		return
	}
	if !door.Locked {
		log.Warn("door solid while unlocked, converting to sensor", "door", doorFixture.Role.Owner)
		door.Open = true
		r.queue.ScheduleSensor(shape)
		return
	}

	p, ok := ecs.Get(r.world, player, component.PlayerComponent.Kind())
	if !ok || !p.HasKey {
		return
	}
	door.Locked = false
	door.Open = true
	r.queue.ScheduleSensor(shape)
	log.Info("door unlocked", "door", doorFixture.Role.Owner, "target", door.NextLevel)
	r.notifier.PlaySound(component.SoundDoor)
}

func (r *ContactRouter) hostileContact(player, enemy ecs.Fixture) bool {
	owner := enemy.Role.Owner
	if r.removed(owner) || r.invulnerable(player.Role.Owner) {
		return true
	}
	if player.Role.Kind == ecs.RolePlayerFeet && r.isStomp(player, enemy) {
		r.stomp(player, enemy)
		return true
	}
	damage := 0
	if h, ok := ecs.Get(r.world, owner, component.HostileComponent.Kind()); ok {
		damage = h.ContactDamage
	}
	r.players.TakeDamage(r.world, player.Role.Owner, damage, enemy.Body())
	return false
}

// isStomp requires the player to be moving down faster than the stomp
// velocity with its feet above the enemy's effective top.
func (r *ContactRouter) isStomp(feet, enemy ecs.Fixture) bool {
	playerBody, enemyBody := feet.Body(), enemy.Body()
	if playerBody == nil || enemyBody == nil {
		return false
	}
	if playerBody.Velocity().Y >= r.cfg.StompVelocity {
		return false
	}
	visualHeight := 0.0
	if h, ok := ecs.Get(r.world, enemy.Role.Owner, component.HostileComponent.Kind()); ok {
		visualHeight = h.VisualHeight
	}
	top := enemyBody.Position().Y + common.ToMeters(visualHeight)/2*r.cfg.StompTopFraction
	return r.feetY(feet) > top
}

// feetY is the world-space center of the feet sensor.
func (r *ContactRouter) feetY(feet ecs.Fixture) float64 {
	y := feet.Body().Position().Y
	if pb, ok := ecs.Get(r.world, feet.Role.Owner, component.PhysicsBodyComponent.Kind()); ok {
		y += pb.FeetOffsetY
	}
	return y
}

func (r *ContactRouter) stomp(player, enemy ecs.Fixture) {
	owner := enemy.Role.Owner
	if life, ok := ecs.Get(r.world, owner, component.LifecycleComponent.Kind()); ok && !life.Stomp() {
		return
	}
	if body := enemy.Body(); body != nil {
		r.queue.ScheduleBody(body, owner)
	}
	if pb := player.Body(); pb != nil {
		pb.SetVelocity(pb.Velocity().X, r.cfg.StompBounce)
	}
	log.Info("enemy stomped", "enemy", owner)
	r.notifier.PlaySound(component.SoundEnemyDeath)
}

func (r *ContactRouter) removed(e ecs.Entity) bool {
	if !ecs.IsAlive(r.world, e) {
		return true
	}
	life, ok := ecs.Get(r.world, e, component.LifecycleComponent.Kind())
	return ok && life.Removed()
}

func (r *ContactRouter) alive(player ecs.Entity) bool {
	p, ok := ecs.Get(r.world, player, component.PlayerComponent.Kind())
	return ok && p.State != component.PlayerDead
}

func (r *ContactRouter) invulnerable(player ecs.Entity) bool {
	inv, ok := ecs.Get(r.world, player, component.InvulnerableComponent.Kind())
	return ok && inv.Active()
}

var _ ecs.ContactListener = (*ContactRouter)(nil)
