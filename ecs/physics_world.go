package ecs

import (
	"errors"
	"math"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
)

// ErrWorldLocked is returned by structural mutations requested while the
// space is stepping.
var ErrWorldLocked = errors.New("physics: world is locked")

// RoleKind is the closed set of semantic fixture roles.
type RoleKind uint8

const (
	RoleNone RoleKind = iota
	RolePlayer
	RolePlayerFeet
	RoleGround
	RoleWall
	RoleCoin
	RoleKey
	RoleEnemy
	RoleShooter
	RoleDoor
	RoleProjectile
	roleCount
)

var roleNames = [...]string{
	RoleNone:       "none",
	RolePlayer:     "player",
	RolePlayerFeet: "playerFeet",
	RoleGround:     "ground",
	RoleWall:       "wall",
	RoleCoin:       "coin",
	RoleKey:        "key",
	RoleEnemy:      "enemy",
	RoleShooter:    "shooter",
	RoleDoor:       "door",
	RoleProjectile: "projectile",
}

func (k RoleKind) String() string {
	if int(k) < len(roleNames) {
		return roleNames[k]
	}
	return "unknown"
}

// IsPlayer reports whether the role is either of the player's fixtures.
func (k RoleKind) IsPlayer() bool {
	return k == RolePlayer || k == RolePlayerFeet
}

// IsHostile reports whether touching the role can hurt the player.
func (k RoleKind) IsHostile() bool {
	return k == RoleEnemy || k == RoleShooter
}

func (k RoleKind) collisionType() cp.CollisionType {
	return cp.CollisionType(k)
}

// FixtureRole tags a shape. It is set once when the shape is registered.
type FixtureRole struct {
	Kind  RoleKind
	Owner Entity
}

// Fixture is one side of a contact as delivered to a ContactListener.
type Fixture struct {
	Shape *cp.Shape
	Role  FixtureRole
}

// Body returns the fixture's body, or nil.
func (f Fixture) Body() *cp.Body {
	if f.Shape == nil {
		return nil
	}
	return f.Shape.Body()
}

// ContactListener receives contact callbacks synchronously from Step.
// Implementations must not mutate the space.
type ContactListener interface {
	BeginContact(a, b Fixture) (disable bool)
	EndContact(a, b Fixture)
	PreSolve(a, b Fixture) (disable bool)
}

type PhysicsConfig struct {
	TimeStep           float64
	VelocityIterations int
	PositionIterations int
	Gravity            cp.Vector
}

func DefaultPhysicsConfig() PhysicsConfig {
	return PhysicsConfig{
		TimeStep:           1.0 / 60.0,
		VelocityIterations: 6,
		PositionIterations: 2,
		Gravity:            cp.Vector{X: 0, Y: -10},
	}
}

// PhysicsWorld owns the Chipmunk space, the fixture role table and the
// body owner table.
type PhysicsWorld struct {
	space    *cp.Space
	cfg      PhysicsConfig
	stepping bool

	roles      map[*cp.Shape]FixtureRole
	bodyShapes map[*cp.Body][]*cp.Shape
	owners     map[*cp.Body]Entity

	listener      ContactListener
	handlersReady bool
}

// NewPhysicsWorld creates an empty world. Chipmunk has a single solver
// iteration count, so it is driven by the velocity iteration count.
func NewPhysicsWorld(cfg PhysicsConfig) *PhysicsWorld {
	if cfg.TimeStep <= 0 {
		cfg.TimeStep = DefaultPhysicsConfig().TimeStep
	}
	if cfg.VelocityIterations <= 0 {
		cfg.VelocityIterations = DefaultPhysicsConfig().VelocityIterations
	}

	space := cp.NewSpace()
	space.Iterations = uint(cfg.VelocityIterations)
	space.SetGravity(cfg.Gravity)

	log.Debug("physics world created", "dt", cfg.TimeStep, "velocityIterations", cfg.VelocityIterations, "positionIterations", cfg.PositionIterations)

	return &PhysicsWorld{
		space:      space,
		cfg:        cfg,
		roles:      make(map[*cp.Shape]FixtureRole),
		bodyShapes: make(map[*cp.Body][]*cp.Shape),
		owners:     make(map[*cp.Body]Entity),
	}
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// StaticBody returns the shared static body used for level geometry.
func (pw *PhysicsWorld) StaticBody() *cp.Body {
	return pw.space.StaticBody
}

func (pw *PhysicsWorld) Config() PhysicsConfig {
	return pw.cfg
}

// Locked reports whether Step is currently running.
func (pw *PhysicsWorld) Locked() bool {
	return pw != nil && pw.stepping
}

// AddBody adds a body owned by owner (NoEntity for ownerless geometry).
func (pw *PhysicsWorld) AddBody(body *cp.Body, owner Entity) *cp.Body {
	if pw == nil || body == nil {
		return body
	}
	pw.space.AddBody(body)
	pw.owners[body] = owner
	if _, ok := pw.bodyShapes[body]; !ok {
		pw.bodyShapes[body] = nil
	}
	return body
}

// AddShape adds a shape and records its role. The collision type is derived
// from the role.
func (pw *PhysicsWorld) AddShape(shape *cp.Shape, role FixtureRole) *cp.Shape {
	if pw == nil || shape == nil {
		return shape
	}
	shape.SetCollisionType(role.Kind.collisionType())
	pw.space.AddShape(shape)
	pw.roles[shape] = role
	body := shape.Body()
	pw.bodyShapes[body] = append(pw.bodyShapes[body], shape)
	return shape
}

// Role returns the role recorded for shape.
func (pw *PhysicsWorld) Role(shape *cp.Shape) (FixtureRole, bool) {
	if pw == nil || shape == nil {
		return FixtureRole{}, false
	}
	role, ok := pw.roles[shape]
	return role, ok
}

// Owner returns the entity owning body.
func (pw *PhysicsWorld) Owner(body *cp.Body) (Entity, bool) {
	if pw == nil || body == nil {
		return NoEntity, false
	}
	e, ok := pw.owners[body]
	return e, ok && e != NoEntity
}

// HasBody reports whether body is still in the world.
func (pw *PhysicsWorld) HasBody(body *cp.Body) bool {
	if pw == nil || body == nil {
		return false
	}
	_, ok := pw.bodyShapes[body]
	return ok
}

// Shapes returns the shapes registered on body.
func (pw *PhysicsWorld) Shapes(body *cp.Body) []*cp.Shape {
	if pw == nil {
		return nil
	}
	return append([]*cp.Shape(nil), pw.bodyShapes[body]...)
}

// BodyCount returns the number of tracked bodies, including the shared
// static body once level geometry has been added to it.
func (pw *PhysicsWorld) BodyCount() int {
	if pw == nil {
		return 0
	}
	return len(pw.bodyShapes)
}

// DestroyBody removes body and all of its shapes. Destroying an unknown body
// is a no-op.
func (pw *PhysicsWorld) DestroyBody(body *cp.Body) error {
	if pw == nil || body == nil {
		return nil
	}
	if pw.stepping {
		return ErrWorldLocked
	}
	shapes, ok := pw.bodyShapes[body]
	if !ok {
		return nil
	}
	for _, shape := range shapes {
		pw.space.RemoveShape(shape)
		delete(pw.roles, shape)
	}
	delete(pw.bodyShapes, body)
	if _, owned := pw.owners[body]; owned {
		pw.space.RemoveBody(body)
		delete(pw.owners, body)
	}
	return nil
}

// MakeSensor turns shape into a sensor and re-adds it to the space so
// existing contacts are separated and re-evaluated on the next step.
func (pw *PhysicsWorld) MakeSensor(shape *cp.Shape) error {
	if pw == nil || shape == nil {
		return nil
	}
	if pw.stepping {
		return ErrWorldLocked
	}
	if shape.Sensor() {
		return nil
	}
	shape.SetSensor(true)
	if _, ok := pw.roles[shape]; ok {
		pw.space.RemoveShape(shape)
		pw.space.AddShape(shape)
	}
	return nil
}

// Step advances the simulation by exactly one fixed step.
func (pw *PhysicsWorld) Step() {
	if pw == nil || pw.space == nil {
		return
	}
	pw.stepping = true
	defer func() { pw.stepping = false }()
	pw.space.Step(pw.cfg.TimeStep)
}

// SetContactListener routes contacts between every pair of roles to l.
func (pw *PhysicsWorld) SetContactListener(l ContactListener) {
	if pw == nil {
		return
	}
	pw.listener = l
	if pw.handlersReady {
		return
	}
	for a := RolePlayer; a < roleCount; a++ {
		for b := a; b < roleCount; b++ {
			handler := pw.space.NewCollisionHandler(a.collisionType(), b.collisionType())
			handler.UserData = pw
			handler.BeginFunc = beginContact
			handler.PreSolveFunc = preSolve
			handler.SeparateFunc = separate
		}
	}
	pw.handlersReady = true
}

func (pw *PhysicsWorld) fixtures(arb *cp.Arbiter) (Fixture, Fixture) {
	shapeA, shapeB := arb.Shapes()
	return Fixture{Shape: shapeA, Role: pw.roles[shapeA]}, Fixture{Shape: shapeB, Role: pw.roles[shapeB]}
}

func beginContact(arb *cp.Arbiter, _ *cp.Space, userData interface{}) bool {
	pw, ok := userData.(*PhysicsWorld)
	if !ok || pw.listener == nil {
		return true
	}
	a, b := pw.fixtures(arb)
	return !pw.listener.BeginContact(a, b)
}

func preSolve(arb *cp.Arbiter, _ *cp.Space, userData interface{}) bool {
	pw, ok := userData.(*PhysicsWorld)
	if !ok || pw.listener == nil {
		return true
	}
	a, b := pw.fixtures(arb)
	return !pw.listener.PreSolve(a, b)
}

func separate(arb *cp.Arbiter, _ *cp.Space, userData interface{}) {
	pw, ok := userData.(*PhysicsWorld)
	if !ok || pw.listener == nil {
		return
	}
	a, b := pw.fixtures(arb)
	pw.listener.EndContact(a, b)
}

// FirstHit casts a segment from -> to and returns the nearest fixture whose
// role satisfies stopAt, ignoring shapes on skip.
func (pw *PhysicsWorld) FirstHit(from, to cp.Vector, skip *cp.Body, stopAt func(FixtureRole) bool) (Fixture, bool) {
	if pw == nil || pw.space == nil {
		return Fixture{}, false
	}
	var (
		best      Fixture
		bestAlpha = math.Inf(1)
	)
	pw.space.SegmentQuery(from, to, 0, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _, _ cp.Vector, alpha float64, _ interface{}) {
		if shape.Body() == skip {
			return
		}
		role, ok := pw.roles[shape]
		if !ok || (stopAt != nil && !stopAt(role)) {
			return
		}
		if alpha < bestAlpha {
			bestAlpha = alpha
			best = Fixture{Shape: shape, Role: role}
		}
	}, nil)
	return best, best.Shape != nil
}

// LinearDamping returns a velocity update func applying per-body damping in
// the same form as a per-step 1/(1+dt*c) factor.
func LinearDamping(c float64) cp.BodyVelocityFunc {
	return func(body *cp.Body, gravity cp.Vector, damping, dt float64) {
		cp.BodyUpdateVelocity(body, gravity, damping/(1+dt*c), dt)
	}
}

// NoGravity is a velocity update func that ignores space gravity.
func NoGravity(body *cp.Body, _ cp.Vector, damping, dt float64) {
	cp.BodyUpdateVelocity(body, cp.Vector{}, damping, dt)
}
