package system

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/boneyard/common"
	"github.com/milk9111/boneyard/ecs"
	"github.com/milk9111/boneyard/ecs/component"
)

const (
	facingRadiusScale = 1.2
	muzzleClearance   = 0.1
)

// RayCaster finds the nearest fixture along a segment.
type RayCaster interface {
	FirstHit(from, to cp.Vector, skip *cp.Body, stopAt func(ecs.FixtureRole) bool) (ecs.Fixture, bool)
}

// ProjectileSpawner creates a projectile at pos travelling along dir.
type ProjectileSpawner func(w *ecs.World, pos, dir cp.Vector) (ecs.Entity, error)

// ShooterSystem aims stationary shooters at the player and fires when the
// cooldown has elapsed and the player is visible.
type ShooterSystem struct {
	dt       float64
	rays     RayCaster
	spawn    ProjectileSpawner
	notifier Notifier
	rng      *rand.Rand
	jitter   float64
}

func NewShooterSystem(dt float64, rays RayCaster, spawn ProjectileSpawner, notifier Notifier, rng *rand.Rand, jitter float64) *ShooterSystem {
	if rng == nil {
		rng = rand.New(rand.NewPCG(3, 4))
	}
	return &ShooterSystem{
		dt:       dt,
		rays:     rays,
		spawn:    spawn,
		notifier: notifierOrNop(notifier),
		rng:      rng,
		jitter:   jitter,
	}
}

func (s *ShooterSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	target, hasTarget := s.target(w)

	ecs.ForEach2(w, component.ShooterComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, sh *component.Shooter, pb *component.PhysicsBody) {
		if pb.Body == nil {
			return
		}
		if life, ok := ecs.Get(w, e, component.LifecycleComponent.Kind()); ok && life.Removed() {
			return
		}
		sh.Timer -= s.dt
		if !hasTarget {
			return
		}

		pos := pb.Body.Position()
		dist := pos.Distance(target.Position())
		if dist <= sh.DetectionRadius*facingRadiusScale {
			sh.FacingRight = target.Position().X > pos.X
		}
		if sh.Timer > 0 || dist > sh.DetectionRadius {
			return
		}
		if !s.lineOfSight(pb.Body, target) {
			return
		}
		s.fire(w, sh, pb.Body, target)
	})
}

// target returns the living player's body.
func (s *ShooterSystem) target(w *ecs.World) (*cp.Body, bool) {
	player, ok := ecs.First(w, component.PlayerComponent.Kind())
	if !ok {
		return nil, false
	}
	p, _ := ecs.Get(w, player, component.PlayerComponent.Kind())
	if p.State == component.PlayerDead {
		return nil, false
	}
	pb, ok := ecs.Get(w, player, component.PhysicsBodyComponent.Kind())
	if !ok || pb.Body == nil {
		return nil, false
	}
	return pb.Body, true
}

func (s *ShooterSystem) lineOfSight(from, target *cp.Body) bool {
	if s.rays == nil {
		return false
	}
	hit, ok := s.rays.FirstHit(from.Position(), target.Position(), from, func(role ecs.FixtureRole) bool {
		switch role.Kind {
		case ecs.RolePlayer, ecs.RoleGround, ecs.RoleWall:
			return true
		default:
			return false
		}
	})
	return ok && hit.Role.Kind == ecs.RolePlayer
}

func (s *ShooterSystem) fire(w *ecs.World, sh *component.Shooter, body, target *cp.Body) {
	offset := common.ToMeters(sh.VisualWidth)/2 + muzzleClearance
	if !sh.FacingRight {
		offset = -offset
	}
	muzzle := body.Position().Add(cp.Vector{X: offset, Y: 0})
	dir := target.Position().Sub(muzzle).Normalize()

	sh.Timer = sh.Cooldown + s.rng.Float64()*s.jitter*sh.Cooldown
	if s.spawn == nil {
		return
	}
	if _, err := s.spawn(w, muzzle, dir); err != nil {
		log.Error("spawn projectile", "err", err)
		return
	}
	log.Debug("shooter fired", "x", muzzle.X, "y", muzzle.Y)
	s.notifier.PlaySound(component.SoundShoot)
}
