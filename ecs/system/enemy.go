package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/boneyard/ecs"
	"github.com/milk9111/boneyard/ecs/component"
)

// minPatrolSpeedFraction is how slow an enemy may drift before its patrol
// velocity is re-applied.
const minPatrolSpeedFraction = 0.9

type EnemySystem struct{}

func NewEnemySystem() *EnemySystem { return &EnemySystem{} }

// Update walks every patrolling enemy between its bounds. Stomped or
// scheduled enemies are frozen in place.
func (s *EnemySystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.PatrolComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, patrol *component.Patrol, pb *component.PhysicsBody) {
		if pb.Body == nil {
			return
		}
		if life, ok := ecs.Get(w, e, component.LifecycleComponent.Kind()); ok && life.Removed() {
			pb.Body.SetVelocity(0, 0)
			return
		}
		updatePatrol(patrol, pb.Body)
	})
}

func updatePatrol(patrol *component.Patrol, body *cp.Body) {
	v := body.Velocity()
	if patrol.Stationary() {
		body.SetVelocity(0, v.Y)
		return
	}
	if patrol.Dir == 0 {
		patrol.Dir = 1
	}

	pos := body.Position()
	switch {
	case patrol.Dir > 0 && pos.X >= patrol.MaxX:
		body.SetPosition(cp.Vector{X: patrol.MaxX, Y: pos.Y})
		patrol.Dir = -1
		body.SetVelocity(-patrol.Speed, v.Y)
	case patrol.Dir < 0 && pos.X <= patrol.MinX:
		body.SetPosition(cp.Vector{X: patrol.MinX, Y: pos.Y})
		patrol.Dir = 1
		body.SetVelocity(patrol.Speed, v.Y)
	case v.X*patrol.Dir < patrol.Speed*minPatrolSpeedFraction:
		body.SetVelocity(patrol.Dir*patrol.Speed, v.Y)
	}
}
