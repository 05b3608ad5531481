package scene

import (
	"github.com/milk9111/boneyard/ecs"
	"github.com/milk9111/boneyard/ecs/component"
	"github.com/milk9111/boneyard/ecs/system"
)

// eventNotifier buffers notifications for the shell to drain after the
// frame.
type eventNotifier struct {
	queue *ecs.EventQueue
}

func (n *eventNotifier) PlaySound(kind component.SoundKind) {
	n.queue.Push(ecs.Event{Kind: ecs.EventSound, Data: kind})
}

func (n *eventNotifier) RequestScreenTransition(target string) {
	n.queue.Push(ecs.Event{Kind: ecs.EventTransition, Data: target})
}

func (n *eventNotifier) OnScoreIncrement() {
	n.queue.Push(ecs.Event{Kind: ecs.EventScore})
}

var _ system.Notifier = (*eventNotifier)(nil)
