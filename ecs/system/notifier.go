package system

import "github.com/milk9111/boneyard/ecs/component"

// Notifier is the one-way outbound port to presentation and audio. Calls
// must return promptly; gameplay never waits on them.
type Notifier interface {
	PlaySound(kind component.SoundKind)
	RequestScreenTransition(target string)
	OnScoreIncrement()
}

// NopNotifier discards every notification.
type NopNotifier struct{}

func (NopNotifier) PlaySound(component.SoundKind)  {}
func (NopNotifier) RequestScreenTransition(string) {}
func (NopNotifier) OnScoreIncrement()              {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return NopNotifier{}
	}
	return n
}
