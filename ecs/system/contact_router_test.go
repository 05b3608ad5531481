package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/boneyard/ecs"
	"github.com/milk9111/boneyard/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groundFixture(tb *testbed) ecs.Fixture {
	return ecs.Fixture{Shape: tb.ground, Role: ecs.FixtureRole{Kind: ecs.RoleGround}}
}

func TestGroundCounter(t *testing.T) {
	tb := newTestbed(t)
	player := tb.player(t, 0, 3)
	feet := feetFixture(t, tb.w, tb.pw, player)
	ground := groundFixture(tb)

	assert.False(t, tb.router.IsGrounded())

	tb.router.BeginContact(feet, ground)
	tb.router.BeginContact(ground, feet)
	assert.Equal(t, 2, tb.router.GroundContacts())

	tb.router.EndContact(feet, ground)
	assert.True(t, tb.router.IsGrounded(), "still touching the second ground fixture")

	tb.router.EndContact(feet, ground)
	tb.router.EndContact(feet, ground)
	assert.Equal(t, 0, tb.router.GroundContacts(), "never negative")
	assert.False(t, tb.router.IsGrounded())
}

func TestGroundCounterFromSimulation(t *testing.T) {
	tb := newTestbed(t)
	tb.player(t, 0, 1)

	for i := 0; i < 120 && !tb.router.IsGrounded(); i++ {
		tb.step(1)
	}
	assert.True(t, tb.router.IsGrounded(), "player lands on the ground")
	assert.Equal(t, 1, tb.router.GroundContacts())
}

func TestStomp(t *testing.T) {
	tests := []struct {
		name      string
		playerY   float64
		vy        float64
		viaFeet   bool
		wantStomp bool
	}{
		{name: "falling onto top", playerY: 0.6, vy: -2, viaFeet: true, wantStomp: true},
		{name: "too slow", playerY: 0.6, vy: -0.05, viaFeet: true},
		{name: "rising", playerY: 0.6, vy: 1, viaFeet: true},
		{name: "feet below top", playerY: 0.4, vy: -2, viaFeet: true},
		{name: "main body", playerY: 0.6, vy: -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := newTestbed(t)
			player := tb.player(t, 0, tt.playerY)
			enemy := tb.enemy(t, 0, 0.2, 0)
			pb := body(t, tb.w, player)
			pb.Body.SetVelocity(0, tt.vy)

			pf := mainFixture(t, tb.w, tb.pw, player)
			if tt.viaFeet {
				pf = feetFixture(t, tb.w, tb.pw, player)
			}
			disable := tb.router.BeginContact(mainFixture(t, tb.w, tb.pw, enemy), pf)

			life, ok := ecs.Get(tb.w, enemy, component.LifecycleComponent.Kind())
			require.True(t, ok)
			if tt.wantStomp {
				assert.True(t, disable)
				assert.Equal(t, component.LifeStomped, life.State)
				assert.True(t, tb.queue.BodyScheduled(body(t, tb.w, enemy).Body))
				assert.InDelta(t, 4, pb.Body.Velocity().Y, 1e-9)
				assert.Equal(t, 100, health(t, tb.w, player))
				assert.Equal(t, 1, tb.notifier.count(component.SoundEnemyDeath))

				// the second fixture touching in the same step sees a removed enemy
				assert.True(t, tb.router.BeginContact(mainFixture(t, tb.w, tb.pw, enemy), mainFixture(t, tb.w, tb.pw, player)))
				assert.Equal(t, 100, health(t, tb.w, player))

				tb.step(1)
				assert.False(t, ecs.IsAlive(tb.w, enemy))
				return
			}
			assert.False(t, disable)
			assert.Equal(t, component.LifeActive, life.State)
			assert.Equal(t, 80, health(t, tb.w, player))
			assert.Equal(t, 1, tb.notifier.count(component.SoundHurt))
		})
	}
}

func TestHostileContactWhileInvulnerable(t *testing.T) {
	tb := newTestbed(t)
	player := tb.player(t, 0, 0.6)
	enemy := tb.enemy(t, 2, 0.2, 0)
	pf, ef := mainFixture(t, tb.w, tb.pw, player), mainFixture(t, tb.w, tb.pw, enemy)

	assert.False(t, tb.router.BeginContact(pf, ef))
	assert.Equal(t, 80, health(t, tb.w, player))

	assert.True(t, tb.router.BeginContact(pf, ef), "invulnerable contacts are disabled")
	assert.True(t, tb.router.PreSolve(pf, ef))
	assert.Equal(t, 80, health(t, tb.w, player))
}

func TestCoinCollectedOnce(t *testing.T) {
	tb := newTestbed(t)
	player := tb.player(t, 0, 3)
	coin, err := tb.spawner.NewCoinAt(tb.w, 0, 3)
	require.NoError(t, err)
	cf := mainFixture(t, tb.w, tb.pw, coin)

	assert.False(t, tb.router.BeginContact(mainFixture(t, tb.w, tb.pw, player), cf))
	assert.False(t, tb.router.BeginContact(cf, feetFixture(t, tb.w, tb.pw, player)))
	assert.True(t, tb.router.PreSolve(mainFixture(t, tb.w, tb.pw, player), cf), "coins never resolve physically")

	score, ok := ecs.Get(tb.w, player, component.ScoreComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 1, score.Value)
	assert.Equal(t, 1, tb.notifier.scores)
	assert.Equal(t, 1, tb.notifier.count(component.SoundCoin))
	assert.Equal(t, 1, tb.queue.PendingBodies())

	coinBody := body(t, tb.w, coin).Body
	tb.step(1)
	assert.False(t, ecs.IsAlive(tb.w, coin))
	assert.False(t, tb.pw.HasBody(coinBody))
}

func TestKeyCollection(t *testing.T) {
	tb := newTestbed(t)
	player := tb.player(t, 0, 3)
	key, err := tb.spawner.NewKeyAt(tb.w, 0, 3)
	require.NoError(t, err)
	kf := mainFixture(t, tb.w, tb.pw, key)

	tb.router.BeginContact(mainFixture(t, tb.w, tb.pw, player), kf)
	tb.router.BeginContact(feetFixture(t, tb.w, tb.pw, player), kf)
	assert.True(t, playerState(t, tb.w, player).HasKey)
	assert.Equal(t, 1, tb.notifier.count(component.SoundKey))

	tb.step(1)
	assert.False(t, ecs.IsAlive(tb.w, key))
}

func TestDoorFlow(t *testing.T) {
	tb := newTestbed(t)
	player := tb.player(t, 0, 3)
	locked := true
	door, err := tb.spawner.NewDoorAt(tb.w, 1, 0.4, "lvl2", &locked)
	require.NoError(t, err)
	df := mainFixture(t, tb.w, tb.pw, door)
	pf := mainFixture(t, tb.w, tb.pw, player)
	state, ok := ecs.Get(tb.w, door, component.DoorComponent.Kind())
	require.True(t, ok)
	require.False(t, df.Shape.Sensor(), "locked doors are solid")

	// no key: blocked, nothing changes
	assert.False(t, tb.router.BeginContact(pf, df))
	assert.True(t, state.Locked)
	assert.False(t, state.Open)
	assert.Equal(t, 0, tb.queue.PendingFixtures())

	// key: unlock and schedule the conversion
	playerState(t, tb.w, player).HasKey = true
	tb.router.BeginContact(pf, df)
	assert.False(t, state.Locked)
	assert.True(t, state.Open)
	assert.True(t, tb.queue.SensorScheduled(df.Shape))
	assert.False(t, df.Shape.Sensor(), "still solid for the rest of this step")
	assert.Equal(t, 1, tb.notifier.count(component.SoundDoor))

	// feet touching in the same step is not an anomaly and does not transition
	tb.router.BeginContact(feetFixture(t, tb.w, tb.pw, player), df)
	assert.Empty(t, tb.notifier.transitions)
	assert.Equal(t, 1, tb.queue.PendingFixtures())

	tb.step(1)
	assert.True(t, df.Shape.Sensor())

	tb.router.BeginContact(pf, df)
	tb.router.BeginContact(pf, df)
	assert.Equal(t, []string{"lvl2", "lvl2"}, tb.notifier.transitions)
}

func TestDoorUnlockedButSolidIsHealed(t *testing.T) {
	tb := newTestbed(t)
	player := tb.player(t, 0, 3)
	locked := true
	door, err := tb.spawner.NewDoorAt(tb.w, 1, 0.4, "", &locked)
	require.NoError(t, err)
	state, _ := ecs.Get(tb.w, door, component.DoorComponent.Kind())
	state.Locked = false
	df := mainFixture(t, tb.w, tb.pw, door)

	tb.router.BeginContact(mainFixture(t, tb.w, tb.pw, player), df)
	assert.True(t, state.Open)
	assert.True(t, tb.queue.SensorScheduled(df.Shape))
	tb.step(1)
	assert.True(t, df.Shape.Sensor())
	assert.Equal(t, "main_menu", state.NextLevel)
}

func TestUnlockedDoorSpawnsAsSensor(t *testing.T) {
	tb := newTestbed(t)
	open := false
	door, err := tb.spawner.NewDoorAt(tb.w, 1, 0.4, "lvl2", &open)
	require.NoError(t, err)
	assert.True(t, body(t, tb.w, door).Shape.Sensor())
}

func TestProjectileHitsPlayerOnce(t *testing.T) {
	tb := newTestbed(t)
	player := tb.player(t, 0, 3)
	proj, err := tb.spawner.NewProjectileAt(tb.w, cp.Vector{X: 1, Y: 3}, cp.Vector{X: -1})
	require.NoError(t, err)
	prf := mainFixture(t, tb.w, tb.pw, proj)

	assert.False(t, tb.router.BeginContact(prf, mainFixture(t, tb.w, tb.pw, player)))
	assert.Equal(t, 90, health(t, tb.w, player))
	assert.Less(t, body(t, tb.w, player).Body.Velocity().X, 0.0, "knocked away from the projectile")

	pb := body(t, tb.w, player)
	pb.Body.SetVelocity(0, 0)
	inv, _ := ecs.Get(tb.w, player, component.InvulnerableComponent.Kind())
	inv.Remaining = 0

	assert.True(t, tb.router.BeginContact(feetFixture(t, tb.w, tb.pw, player), prf), "already scheduled")
	assert.True(t, tb.router.PreSolve(prf, mainFixture(t, tb.w, tb.pw, player)))
	assert.Equal(t, 90, health(t, tb.w, player))
	assert.Equal(t, 1, tb.queue.PendingBodies())

	projBody := body(t, tb.w, proj).Body
	tb.step(1)
	assert.False(t, ecs.IsAlive(tb.w, proj))
	assert.False(t, tb.pw.HasBody(projBody))
}

func TestProjectileAgainstInvulnerablePlayer(t *testing.T) {
	tb := newTestbed(t)
	player := tb.player(t, 0, 3)
	inv, _ := ecs.Get(tb.w, player, component.InvulnerableComponent.Kind())
	inv.Remaining = 1
	proj, err := tb.spawner.NewProjectileAt(tb.w, cp.Vector{X: 1, Y: 3}, cp.Vector{X: -1})
	require.NoError(t, err)

	assert.True(t, tb.router.BeginContact(mainFixture(t, tb.w, tb.pw, proj), mainFixture(t, tb.w, tb.pw, player)))
	assert.Equal(t, 100, health(t, tb.w, player))
	assert.Equal(t, 0, tb.queue.PendingBodies())
}

func TestProjectileHitsGroundInPreSolve(t *testing.T) {
	tb := newTestbed(t)
	proj, err := tb.spawner.NewProjectileAt(tb.w, cp.Vector{X: 0, Y: 0.1}, cp.Vector{X: 1})
	require.NoError(t, err)
	prf := mainFixture(t, tb.w, tb.pw, proj)

	assert.True(t, tb.router.PreSolve(groundFixture(tb), prf))
	assert.True(t, tb.router.PreSolve(prf, groundFixture(tb)))
	assert.Equal(t, 1, tb.queue.PendingBodies())
}
