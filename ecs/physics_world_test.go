package ecs

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingListener struct {
	pw       *PhysicsWorld
	begins   []RoleKind
	ends     int
	lockErrs []error
	disable  bool
}

func (l *recordingListener) BeginContact(a, b Fixture) bool {
	l.begins = append(l.begins, a.Role.Kind, b.Role.Kind)
	l.lockErrs = append(l.lockErrs, l.pw.DestroyBody(a.Body()), l.pw.MakeSensor(a.Shape))
	return l.disable
}

func (l *recordingListener) EndContact(a, b Fixture) { l.ends++ }

func (l *recordingListener) PreSolve(a, b Fixture) bool { return false }

func newGround(t *testing.T, pw *PhysicsWorld) *cp.Shape {
	t.Helper()
	shape := cp.NewBox2(pw.StaticBody(), cp.BB{L: -10, B: -1, R: 10, T: 0}, 0)
	shape.SetFriction(0.8)
	return pw.AddShape(shape, FixtureRole{Kind: RoleGround})
}

func newBox(pw *PhysicsWorld, owner Entity, role RoleKind, x, y float64) (*cp.Body, *cp.Shape) {
	body := cp.NewBody(1, math.Inf(1))
	body.SetPosition(cp.Vector{X: x, Y: y})
	pw.AddBody(body, owner)
	shape := cp.NewBox(body, 0.4, 0.4, 0)
	pw.AddShape(shape, FixtureRole{Kind: role, Owner: owner})
	return body, shape
}

func TestPhysicsWorldDefaults(t *testing.T) {
	pw := NewPhysicsWorld(PhysicsConfig{})
	cfg := pw.Config()
	assert.InDelta(t, 1.0/60.0, cfg.TimeStep, 1e-12)
	assert.Equal(t, 6, cfg.VelocityIterations)
	assert.False(t, pw.Locked())
}

func TestContactCallbacksAndStepLock(t *testing.T) {
	w := NewWorld()
	pw := NewPhysicsWorld(DefaultPhysicsConfig())
	l := &recordingListener{pw: pw}
	pw.SetContactListener(l)

	newGround(t, pw)
	owner := CreateEntity(w)
	body, _ := newBox(pw, owner, RolePlayer, 0, 0.5)

	for i := 0; i < 120 && len(l.begins) == 0; i++ {
		pw.Step()
	}
	require.NotEmpty(t, l.begins, "box should land on the ground")
	assert.ElementsMatch(t, []RoleKind{RolePlayer, RoleGround}, l.begins[:2])
	for _, err := range l.lockErrs {
		assert.ErrorIs(t, err, ErrWorldLocked)
	}
	assert.False(t, pw.Locked(), "lock is released after the step")
	assert.True(t, pw.HasBody(body))

	require.NoError(t, pw.DestroyBody(body))
	assert.False(t, pw.HasBody(body))
	assert.Equal(t, 1, l.ends, "removing a touching body ends its contact")

	require.NoError(t, pw.DestroyBody(body), "destroying twice is a no-op")
}

func TestMakeSensorStopsCollision(t *testing.T) {
	pw := NewPhysicsWorld(DefaultPhysicsConfig())
	pw.SetContactListener(&recordingListener{pw: pw})

	ground := newGround(t, pw)
	require.NoError(t, pw.MakeSensor(ground))
	assert.True(t, ground.Sensor())
	require.NoError(t, pw.MakeSensor(ground), "already a sensor")

	body, _ := newBox(pw, NoEntity, RolePlayer, 0, 0.5)
	for i := 0; i < 60; i++ {
		pw.Step()
	}
	assert.Less(t, body.Position().Y, 0.0, "falls through a sensor")
}

func TestFirstHit(t *testing.T) {
	pw := NewPhysicsWorld(DefaultPhysicsConfig())
	shooter, _ := newBox(pw, NoEntity, RoleShooter, 0, 0.5)
	_, wall := newBox(pw, NoEntity, RoleWall, 2, 0.5)
	newBox(pw, NoEntity, RolePlayer, 4, 0.5)

	hit, ok := pw.FirstHit(cp.Vector{X: 0, Y: 0.5}, cp.Vector{X: 5, Y: 0.5}, shooter, nil)
	require.True(t, ok)
	assert.Same(t, wall, hit.Shape)
	assert.Equal(t, RoleWall, hit.Role.Kind)

	hit, ok = pw.FirstHit(cp.Vector{X: 0, Y: 0.5}, cp.Vector{X: 5, Y: 0.5}, shooter, func(r FixtureRole) bool {
		return r.Kind == RolePlayer
	})
	require.True(t, ok)
	assert.Equal(t, RolePlayer, hit.Role.Kind)

	_, ok = pw.FirstHit(cp.Vector{X: 0, Y: 3}, cp.Vector{X: 5, Y: 3}, nil, nil)
	assert.False(t, ok)
}

func TestDestroyStaticGeometryKeepsStaticBody(t *testing.T) {
	pw := NewPhysicsWorld(DefaultPhysicsConfig())
	ground := newGround(t, pw)
	require.Equal(t, 1, pw.BodyCount())

	require.NoError(t, pw.DestroyBody(pw.StaticBody()))
	_, ok := pw.Role(ground)
	assert.False(t, ok)
	assert.Equal(t, 0, pw.BodyCount())
	assert.NotNil(t, pw.StaticBody())
}

func TestNoGravity(t *testing.T) {
	pw := NewPhysicsWorld(DefaultPhysicsConfig())
	body, _ := newBox(pw, NoEntity, RoleProjectile, 0, 5)
	body.SetVelocityUpdateFunc(NoGravity)
	body.SetVelocity(2, 0)
	for i := 0; i < 30; i++ {
		pw.Step()
	}
	assert.InDelta(t, 5, body.Position().Y, 1e-9)
	assert.InDelta(t, 2, body.Velocity().X, 1e-9)
}

func TestRoleKindString(t *testing.T) {
	assert.Equal(t, "playerFeet", RolePlayerFeet.String())
	assert.Equal(t, "unknown", RoleKind(200).String())
	assert.True(t, RolePlayerFeet.IsPlayer())
	assert.True(t, RoleShooter.IsHostile())
	assert.False(t, RoleCoin.IsHostile())
}
