// Package scene wires a level, its physics world and every gameplay system
// into one headless, frame-stepped simulation.
package scene

import (
	"fmt"
	"io/fs"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/boneyard/common"
	"github.com/milk9111/boneyard/ecs"
	"github.com/milk9111/boneyard/ecs/component"
	"github.com/milk9111/boneyard/ecs/entity"
	"github.com/milk9111/boneyard/ecs/system"
	"github.com/milk9111/boneyard/levels"
	"github.com/milk9111/boneyard/prefabs"
)

// Options configures a scene. A zero Seed keeps the fixed default streams.
type Options struct {
	Seed uint64
	// Levels is where level descriptors are read from; nil means the
	// embedded levels.
	Levels fs.FS
}

// Scene owns one running level.
type Scene struct {
	opts Options
	spec prefabs.WorldSpec

	world   *ecs.World
	physics *ecs.PhysicsWorld
	queue   *system.RemovalQueue
	players *system.PlayerSystem
	router  *system.ContactRouter
	spawner *entity.Spawner
	frame   *system.FrameOrchestrator

	events   ecs.EventQueue
	input    component.Input
	level    *levels.Level
	loaded   *entity.LoadedLevel
	restarts int
}

// New builds a scene and loads levelName into it.
func New(levelName string, opts Options) (*Scene, error) {
	spec, err := prefabs.LoadWorldSpec()
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	s := &Scene{opts: opts, spec: spec}
	s.build()
	if err := s.Load(levelName); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scene) streams() (*rand.Rand, *rand.Rand) {
	if s.opts.Seed == 0 {
		return rand.New(rand.NewPCG(1, 2)), rand.New(rand.NewPCG(3, 4))
	}
	return rand.New(rand.NewPCG(s.opts.Seed, 2)), rand.New(rand.NewPCG(s.opts.Seed, 4))
}

func (s *Scene) physicsConfig() ecs.PhysicsConfig {
	cfg := ecs.DefaultPhysicsConfig()
	if s.spec.TimeStep > 0 {
		cfg.TimeStep = s.spec.TimeStep
	}
	if s.spec.VelocityIterations > 0 {
		cfg.VelocityIterations = s.spec.VelocityIterations
	}
	if s.spec.PositionIterations > 0 {
		cfg.PositionIterations = s.spec.PositionIterations
	}
	if s.spec.GravityX != 0 || s.spec.GravityY != 0 {
		cfg.Gravity = cp.Vector{X: s.spec.GravityX, Y: s.spec.GravityY}
	}
	return cfg
}

func (s *Scene) routerConfig() system.RouterConfig {
	cfg := system.DefaultRouterConfig()
	if s.spec.Stomp.Velocity != 0 {
		cfg.StompVelocity = s.spec.Stomp.Velocity
	}
	if s.spec.Stomp.TopFraction > 0 {
		cfg.StompTopFraction = s.spec.Stomp.TopFraction
	}
	if s.spec.Stomp.Bounce > 0 {
		cfg.StompBounce = s.spec.Stomp.Bounce
	}
	return cfg
}

func (s *Scene) build() {
	cfg := s.physicsConfig()
	playerRNG, shooterRNG := s.streams()
	notifier := &eventNotifier{queue: &s.events}

	s.world = ecs.NewWorld()
	s.physics = ecs.NewPhysicsWorld(cfg)
	s.queue = system.NewRemovalQueue()
	s.players = system.NewPlayerSystem(cfg.TimeStep, notifier, playerRNG)
	s.router = system.NewContactRouter(s.world, s.queue, s.players, notifier, s.routerConfig())
	s.physics.SetContactListener(s.router)
	s.spawner = entity.NewSpawner(s.physics, shooterRNG)

	input := system.NewInputSystem(func() component.Input { return s.input })
	s.frame = system.NewFrameOrchestrator(
		system.NewPendingActionSystem(s.players, s.Restart),
		ecs.NewScheduler(input, s.players),
		ecs.NewScheduler(
			system.NewGameOverSystem(notifier),
			system.NewEnemySystem(),
			system.NewShooterSystem(cfg.TimeStep, s.physics, s.spawner.NewProjectileAt, notifier, shooterRNG, s.spec.ShooterJitter),
			system.NewProjectileSystem(cfg.TimeStep, s.queue),
			system.NewCoinSystem(cfg.TimeStep),
		),
		s.physics,
		s.queue,
	)
}

// Load replaces the current level with levelName.
func (s *Scene) Load(levelName string) error {
	var (
		lvl *levels.Level
		err error
	)
	if s.opts.Levels != nil {
		lvl, err = levels.LoadLevel(s.opts.Levels, levelName)
	} else {
		lvl, err = levels.LoadLevelFromFS(levelName)
	}
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	return s.LoadLevel(lvl)
}

// LoadLevel replaces the current level with lvl.
func (s *Scene) LoadLevel(lvl *levels.Level) error {
	if s.physics.Locked() {
		return ecs.ErrWorldLocked
	}
	s.teardown()
	loaded, err := entity.LoadLevelToWorld(s.world, s.spawner, lvl, s.spec)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	s.level = lvl
	s.loaded = loaded
	return nil
}

// Restart rebuilds the current level from its descriptor: score, key,
// health and every pickup and enemy are reset.
func (s *Scene) Restart() error {
	if s.level == nil {
		return fmt.Errorf("scene: no level loaded")
	}
	s.restarts++
	log.Info("restarting level", "level", s.level.Name, "restarts", s.restarts)
	return s.LoadLevel(s.level)
}

// teardown destroys every body, the level geometry and every entity.
func (s *Scene) teardown() {
	s.queue.Reset()
	ecs.ForEach(s.world, component.PhysicsBodyComponent.Kind(), func(_ ecs.Entity, pb *component.PhysicsBody) {
		if err := s.physics.DestroyBody(pb.Body); err != nil {
			log.Error("teardown body", "err", err)
		}
	})
	if err := s.physics.DestroyBody(s.physics.StaticBody()); err != nil {
		log.Error("teardown geometry", "err", err)
	}
	ecs.Clear(s.world)
}

// Update runs one fixed frame with in as the frame's input.
func (s *Scene) Update(in component.Input) {
	s.input = in
	s.frame.Update(s.world)
}

// DrainEvents returns the notifications emitted since the last call.
func (s *Scene) DrainEvents() []ecs.Event {
	return s.events.Drain()
}

// RequestRestart schedules a level restart for the next frame.
func (s *Scene) RequestRestart() {
	system.RequestReload(s.world)
}

// RequestPositionReset schedules a move back to spawn for the next frame.
func (s *Scene) RequestPositionReset() {
	system.RequestPositionReset(s.world)
}

func (s *Scene) World() *ecs.World             { return s.world }
func (s *Scene) Physics() *ecs.PhysicsWorld    { return s.physics }
func (s *Scene) Router() *system.ContactRouter { return s.router }
func (s *Scene) Queue() *system.RemovalQueue   { return s.queue }
func (s *Scene) Players() *system.PlayerSystem { return s.players }
func (s *Scene) Level() *levels.Level          { return s.level }
func (s *Scene) Loaded() *entity.LoadedLevel   { return s.loaded }
func (s *Scene) Frames() uint64                { return s.frame.Frames() }
func (s *Scene) TimeStep() float64             { return s.physics.Config().TimeStep }

// Player returns the current player entity.
func (s *Scene) Player() (ecs.Entity, bool) {
	return ecs.First(s.world, component.PlayerComponent.Kind())
}

// Status is a read-only view of the player for the HUD.
type Status struct {
	Level        string
	State        component.PlayerState
	Health       int
	MaxHealth    int
	Score        int
	HasKey       bool
	Invulnerable bool
	Grounded     bool
	// X and Y are the player's center in pixels.
	X, Y float64
}

func (s *Scene) Status() Status {
	st := Status{}
	if s.level != nil {
		st.Level = s.level.Name
	}
	player, ok := s.Player()
	if !ok {
		return st
	}
	if p, ok := ecs.Get(s.world, player, component.PlayerComponent.Kind()); ok {
		st.State = p.State
		st.HasKey = p.HasKey
	}
	if h, ok := ecs.Get(s.world, player, component.HealthComponent.Kind()); ok {
		st.Health, st.MaxHealth = h.Current, h.Max
	}
	if score, ok := ecs.Get(s.world, player, component.ScoreComponent.Kind()); ok {
		st.Score = score.Value
	}
	if inv, ok := ecs.Get(s.world, player, component.InvulnerableComponent.Kind()); ok {
		st.Invulnerable = inv.Active()
	}
	if pb, ok := ecs.Get(s.world, player, component.PhysicsBodyComponent.Kind()); ok && pb.Body != nil {
		pos := pb.Body.Position()
		st.X, st.Y = common.ToPixels(pos.X), common.ToPixels(pos.Y)
	}
	st.Grounded = s.router.IsGrounded()
	return st
}
