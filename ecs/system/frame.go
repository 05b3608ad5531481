package system

import "github.com/milk9111/boneyard/ecs"

// Stepper is a physics world that can be advanced one fixed step.
type Stepper interface {
	PhysicsMutator
	Step()
}

// FrameOrchestrator runs one fixed frame in strict order: pending actions,
// player input and update, behavior updates, one physics step, then the
// removal queue drain.
type FrameOrchestrator struct {
	pending   ecs.System
	player    *ecs.Scheduler
	behaviors *ecs.Scheduler
	physics   Stepper
	queue     *RemovalQueue
	frames    uint64
}

func NewFrameOrchestrator(pending ecs.System, player, behaviors *ecs.Scheduler, physics Stepper, queue *RemovalQueue) *FrameOrchestrator {
	if player == nil {
		player = ecs.NewScheduler()
	}
	if behaviors == nil {
		behaviors = ecs.NewScheduler()
	}
	return &FrameOrchestrator{
		pending:   pending,
		player:    player,
		behaviors: behaviors,
		physics:   physics,
		queue:     queue,
	}
}

func (f *FrameOrchestrator) Update(w *ecs.World) {
	if f.pending != nil {
		f.pending.Update(w)
	}
	f.player.Update(w)
	f.behaviors.Update(w)
	if f.physics != nil {
		f.physics.Step()
		f.queue.Drain(w, f.physics)
	}
	f.frames++
}

// Frames returns how many frames have run.
func (f *FrameOrchestrator) Frames() uint64 {
	return f.frames
}
