package system

import (
	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/boneyard/ecs"
	"github.com/milk9111/boneyard/ecs/component"
)

// PhysicsMutator is the slice of the physics world the removal queue needs.
type PhysicsMutator interface {
	Locked() bool
	DestroyBody(body *cp.Body) error
	MakeSensor(shape *cp.Shape) error
}

type pendingBody struct {
	body  *cp.Body
	owner ecs.Entity
}

// RemovalQueue collects structural physics mutations requested while the
// space is stepping. Both sets are FIFO and deduplicated.
type RemovalQueue struct {
	bodies     []pendingBody
	bodySet    map[*cp.Body]struct{}
	fixtures   []*cp.Shape
	fixtureSet map[*cp.Shape]struct{}
}

func NewRemovalQueue() *RemovalQueue {
	return &RemovalQueue{
		bodySet:    make(map[*cp.Body]struct{}),
		fixtureSet: make(map[*cp.Shape]struct{}),
	}
}

// ScheduleBody queues body (and its owning entity) for destruction. It
// returns false if the body was already queued.
func (q *RemovalQueue) ScheduleBody(body *cp.Body, owner ecs.Entity) bool {
	if q == nil || body == nil {
		return false
	}
	if _, ok := q.bodySet[body]; ok {
		return false
	}
	q.bodySet[body] = struct{}{}
	q.bodies = append(q.bodies, pendingBody{body: body, owner: owner})
	return true
}

// ScheduleSensor queues shape for conversion into a sensor. It returns false
// if the shape was already queued.
func (q *RemovalQueue) ScheduleSensor(shape *cp.Shape) bool {
	if q == nil || shape == nil {
		return false
	}
	if _, ok := q.fixtureSet[shape]; ok {
		return false
	}
	q.fixtureSet[shape] = struct{}{}
	q.fixtures = append(q.fixtures, shape)
	return true
}

func (q *RemovalQueue) BodyScheduled(body *cp.Body) bool {
	if q == nil {
		return false
	}
	_, ok := q.bodySet[body]
	return ok
}

func (q *RemovalQueue) SensorScheduled(shape *cp.Shape) bool {
	if q == nil {
		return false
	}
	_, ok := q.fixtureSet[shape]
	return ok
}

func (q *RemovalQueue) PendingBodies() int {
	if q == nil {
		return 0
	}
	return len(q.bodies)
}

func (q *RemovalQueue) PendingFixtures() int {
	if q == nil {
		return 0
	}
	return len(q.fixtures)
}

// Reset drops every pending entry without applying it.
func (q *RemovalQueue) Reset() {
	if q == nil {
		return
	}
	q.bodies, q.fixtures = nil, nil
	clear(q.bodySet)
	clear(q.fixtureSet)
}

// Drain applies every queued mutation in FIFO order: bodies first, each
// taking its owning entity with it, then sensor conversions. When physics
// is locked nothing is applied or dropped and Drain returns false.
func (q *RemovalQueue) Drain(w *ecs.World, physics PhysicsMutator) bool {
	if q == nil || physics == nil {
		return false
	}
	if physics.Locked() {
		log.Debug("removal queue drain deferred, world locked", "bodies", len(q.bodies), "fixtures", len(q.fixtures))
		return false
	}

	bodies, fixtures := q.bodies, q.fixtures
	q.bodies, q.fixtures = nil, nil
	clear(q.bodySet)
	clear(q.fixtureSet)

	for _, p := range bodies {
		if p.owner != ecs.NoEntity {
			ecs.DestroyEntity(w, p.owner)
		}
		if err := physics.DestroyBody(p.body); err != nil {
			log.Error("destroy body", "owner", p.owner, "err", err)
		}
	}
	for _, shape := range fixtures {
		if err := physics.MakeSensor(shape); err != nil {
			log.Error("make sensor", "err", err)
		}
	}
	return true
}

// ScheduleEntity moves e's lifecycle to Scheduled and queues its body. It is
// idempotent and reports whether this call did the scheduling.
func ScheduleEntity(w *ecs.World, q *RemovalQueue, e ecs.Entity) bool {
	life, ok := ecs.Get(w, e, component.LifecycleComponent.Kind())
	if ok && !life.Schedule() {
		return false
	}
	pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || pb.Body == nil {
		return false
	}
	return q.ScheduleBody(pb.Body, e)
}
