package system

import (
	"math/rand/v2"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/boneyard/ecs"
	"github.com/milk9111/boneyard/ecs/component"
	"github.com/milk9111/boneyard/ecs/entity"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	sounds      []component.SoundKind
	transitions []string
	scores      int
}

func (n *recordingNotifier) PlaySound(kind component.SoundKind)    { n.sounds = append(n.sounds, kind) }
func (n *recordingNotifier) RequestScreenTransition(target string) { n.transitions = append(n.transitions, target) }
func (n *recordingNotifier) OnScoreIncrement()                     { n.scores++ }

func (n *recordingNotifier) count(kind component.SoundKind) int {
	c := 0
	for _, s := range n.sounds {
		if s == kind {
			c++
		}
	}
	return c
}

// testbed is a physics world with a flat ground slab whose top is y=0 and
// the gameplay systems wired the way the scene wires them.
type testbed struct {
	w        *ecs.World
	pw       *ecs.PhysicsWorld
	queue    *RemovalQueue
	players  *PlayerSystem
	router   *ContactRouter
	notifier *recordingNotifier
	spawner  *entity.Spawner
	ground   *cp.Shape
	dt       float64
}

func newTestbed(t *testing.T) *testbed {
	t.Helper()
	cfg := ecs.DefaultPhysicsConfig()
	tb := &testbed{
		w:        ecs.NewWorld(),
		pw:       ecs.NewPhysicsWorld(cfg),
		queue:    NewRemovalQueue(),
		notifier: &recordingNotifier{},
		dt:       cfg.TimeStep,
	}
	tb.players = NewPlayerSystem(tb.dt, tb.notifier, rand.New(rand.NewPCG(1, 2)))
	tb.router = NewContactRouter(tb.w, tb.queue, tb.players, tb.notifier, DefaultRouterConfig())
	tb.pw.SetContactListener(tb.router)
	tb.spawner = entity.NewSpawner(tb.pw, rand.New(rand.NewPCG(3, 4)))

	ground := cp.NewBox2(tb.pw.StaticBody(), cp.BB{L: -50, B: -1, R: 50, T: 0}, 0)
	ground.SetFriction(0.8)
	tb.ground = tb.pw.AddShape(ground, ecs.FixtureRole{Kind: ecs.RoleGround})
	return tb
}

func (tb *testbed) player(t *testing.T, x, y float64) ecs.Entity {
	t.Helper()
	e, err := tb.spawner.NewPlayerAt(tb.w, x, y)
	require.NoError(t, err)
	return e
}

func (tb *testbed) enemy(t *testing.T, x, y, patrol float64) ecs.Entity {
	t.Helper()
	e, err := tb.spawner.NewEnemyAt(tb.w, x, y, patrol)
	require.NoError(t, err)
	return e
}

// step runs physics then drains the queue, like the tail of a frame.
func (tb *testbed) step(n int) {
	for i := 0; i < n; i++ {
		tb.pw.Step()
		tb.queue.Drain(tb.w, tb.pw)
	}
}

func body(t *testing.T, w *ecs.World, e ecs.Entity) *component.PhysicsBody {
	t.Helper()
	pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	require.True(t, ok, "entity %s has no physics body", e)
	return pb
}

func mainFixture(t *testing.T, w *ecs.World, pw *ecs.PhysicsWorld, e ecs.Entity) ecs.Fixture {
	t.Helper()
	pb := body(t, w, e)
	role, ok := pw.Role(pb.Shape)
	require.True(t, ok)
	return ecs.Fixture{Shape: pb.Shape, Role: role}
}

func feetFixture(t *testing.T, w *ecs.World, pw *ecs.PhysicsWorld, e ecs.Entity) ecs.Fixture {
	t.Helper()
	pb := body(t, w, e)
	require.NotNil(t, pb.Feet)
	role, ok := pw.Role(pb.Feet)
	require.True(t, ok)
	return ecs.Fixture{Shape: pb.Feet, Role: role}
}

func health(t *testing.T, w *ecs.World, e ecs.Entity) int {
	t.Helper()
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	require.True(t, ok)
	return h.Current
}

func playerState(t *testing.T, w *ecs.World, e ecs.Entity) *component.Player {
	t.Helper()
	p, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	require.True(t, ok)
	return p
}
