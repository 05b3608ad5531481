package system

import (
	"github.com/milk9111/boneyard/ecs"
	"github.com/milk9111/boneyard/ecs/component"
)

// ProjectileSystem keeps projectiles at constant speed and expires them
// through the removal queue once their lifetime runs out.
type ProjectileSystem struct {
	dt    float64
	queue *RemovalQueue
}

func NewProjectileSystem(dt float64, queue *RemovalQueue) *ProjectileSystem {
	return &ProjectileSystem{dt: dt, queue: queue}
}

func (s *ProjectileSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.ProjectileComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, p *component.Projectile, pb *component.PhysicsBody) {
		if life, ok := ecs.Get(w, e, component.LifecycleComponent.Kind()); ok && life.Removed() {
			return
		}
		p.Remaining -= s.dt
		if p.Remaining <= 0 {
			ScheduleEntity(w, s.queue, e)
			return
		}
		if pb.Body != nil {
			pb.Body.SetVelocity(p.DirX*p.Speed, p.DirY*p.Speed)
		}
	})
}
