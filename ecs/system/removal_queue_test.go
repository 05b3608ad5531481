package system

import (
	"errors"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/boneyard/ecs"
	"github.com/milk9111/boneyard/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePhysics records the mutations applied to it.
type fakePhysics struct {
	locked    bool
	destroyed []*cp.Body
	sensors   []*cp.Shape
	log       *[]string
	err       error
}

func (f *fakePhysics) Locked() bool { return f.locked }

func (f *fakePhysics) DestroyBody(body *cp.Body) error {
	f.destroyed = append(f.destroyed, body)
	f.record("destroy")
	return f.err
}

func (f *fakePhysics) MakeSensor(shape *cp.Shape) error {
	f.sensors = append(f.sensors, shape)
	f.record("sensor")
	return f.err
}

func (f *fakePhysics) Step() { f.record("step") }

func (f *fakePhysics) record(s string) {
	if f.log != nil {
		*f.log = append(*f.log, s)
	}
}

func TestScheduleIsIdempotent(t *testing.T) {
	q := NewRemovalQueue()
	body := cp.NewBody(1, 1)
	shape := cp.NewBox(body, 1, 1, 0)

	assert.True(t, q.ScheduleBody(body, ecs.NoEntity))
	assert.False(t, q.ScheduleBody(body, ecs.NoEntity))
	assert.True(t, q.ScheduleSensor(shape))
	assert.False(t, q.ScheduleSensor(shape))
	assert.False(t, q.ScheduleBody(nil, ecs.NoEntity))
	assert.False(t, q.ScheduleSensor(nil))

	assert.Equal(t, 1, q.PendingBodies())
	assert.Equal(t, 1, q.PendingFixtures())
	assert.True(t, q.BodyScheduled(body))
	assert.True(t, q.SensorScheduled(shape))
}

func TestDrainFIFO(t *testing.T) {
	w := ecs.NewWorld()
	q := NewRemovalQueue()
	bodies := []*cp.Body{cp.NewBody(1, 1), cp.NewBody(1, 1), cp.NewBody(1, 1)}
	owners := []ecs.Entity{ecs.CreateEntity(w), ecs.NoEntity, ecs.CreateEntity(w)}
	for i, b := range bodies {
		q.ScheduleBody(b, owners[i])
	}
	s1, s2 := cp.NewBox(bodies[0], 1, 1, 0), cp.NewBox(bodies[1], 1, 1, 0)
	q.ScheduleSensor(s2)
	q.ScheduleSensor(s1)

	var order []string
	phys := &fakePhysics{log: &order}
	require.True(t, q.Drain(w, phys))

	assert.Equal(t, bodies, phys.destroyed)
	assert.Equal(t, []*cp.Shape{s2, s1}, phys.sensors)
	assert.Equal(t, []string{"destroy", "destroy", "destroy", "sensor", "sensor"}, order)
	assert.False(t, ecs.IsAlive(w, owners[0]))
	assert.False(t, ecs.IsAlive(w, owners[2]))
	assert.Zero(t, q.PendingBodies())
	assert.Zero(t, q.PendingFixtures())

	// drained entries may be scheduled again
	assert.True(t, q.ScheduleBody(bodies[0], ecs.NoEntity))
}

func TestDrainWhileLockedKeepsEntries(t *testing.T) {
	w := ecs.NewWorld()
	q := NewRemovalQueue()
	body := cp.NewBody(1, 1)
	q.ScheduleBody(body, ecs.NoEntity)
	q.ScheduleSensor(cp.NewBox(body, 1, 1, 0))

	phys := &fakePhysics{locked: true}
	assert.False(t, q.Drain(w, phys))
	assert.Empty(t, phys.destroyed)
	assert.Equal(t, 1, q.PendingBodies())
	assert.Equal(t, 1, q.PendingFixtures())

	phys.locked = false
	assert.True(t, q.Drain(w, phys))
	assert.Len(t, phys.destroyed, 1)
	assert.Len(t, phys.sensors, 1)
}

func TestDrainContinuesAfterErrors(t *testing.T) {
	q := NewRemovalQueue()
	q.ScheduleBody(cp.NewBody(1, 1), ecs.NoEntity)
	q.ScheduleBody(cp.NewBody(1, 1), ecs.NoEntity)
	phys := &fakePhysics{err: errors.New("gone")}
	assert.True(t, q.Drain(ecs.NewWorld(), phys))
	assert.Len(t, phys.destroyed, 2)
}

func TestResetDropsEntries(t *testing.T) {
	q := NewRemovalQueue()
	body := cp.NewBody(1, 1)
	q.ScheduleBody(body, ecs.NoEntity)
	q.Reset()
	assert.Zero(t, q.PendingBodies())
	assert.False(t, q.BodyScheduled(body))

	phys := &fakePhysics{}
	q.Drain(ecs.NewWorld(), phys)
	assert.Empty(t, phys.destroyed)
}

func TestNilQueue(t *testing.T) {
	var q *RemovalQueue
	assert.False(t, q.ScheduleBody(cp.NewBody(1, 1), ecs.NoEntity))
	assert.False(t, q.Drain(ecs.NewWorld(), &fakePhysics{}))
	assert.Zero(t, q.PendingBodies())
	q.Reset()
}

func TestScheduleEntity(t *testing.T) {
	tb := newTestbed(t)
	coin, err := tb.spawner.NewCoinAt(tb.w, 0, 1)
	require.NoError(t, err)

	assert.True(t, ScheduleEntity(tb.w, tb.queue, coin))
	assert.False(t, ScheduleEntity(tb.w, tb.queue, coin))
	life, _ := ecs.Get(tb.w, coin, component.LifecycleComponent.Kind())
	assert.Equal(t, component.LifeScheduled, life.State)

	stomped := tb.enemy(t, 2, 0.2, 0)
	life, _ = ecs.Get(tb.w, stomped, component.LifecycleComponent.Kind())
	require.True(t, life.Stomp())
	assert.False(t, ScheduleEntity(tb.w, tb.queue, stomped), "stomped is terminal")
	assert.Equal(t, component.LifeStomped, life.State)

	bodies := tb.pw.BodyCount()
	tb.step(1)
	assert.False(t, ecs.IsAlive(tb.w, coin))
	assert.Equal(t, bodies-1, tb.pw.BodyCount())
}
