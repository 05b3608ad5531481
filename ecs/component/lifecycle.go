package component

// Life is the removal lifecycle of a non-player entity. Every transition is
// one-way: Active -> Scheduled, or Active -> Stomped. Stomped implies the
// body is scheduled for removal.
type Life uint8

const (
	LifeActive Life = iota
	LifeScheduled
	LifeStomped
)

func (l Life) String() string {
	switch l {
	case LifeActive:
		return "active"
	case LifeScheduled:
		return "scheduled"
	case LifeStomped:
		return "stomped"
	default:
		return "unknown"
	}
}

type Lifecycle struct {
	State Life
}

// Removed reports whether the entity has left the Active state.
func (l *Lifecycle) Removed() bool {
	return l != nil && l.State != LifeActive
}

// Schedule moves an active entity to Scheduled and reports whether the
// transition happened.
func (l *Lifecycle) Schedule() bool {
	if l == nil || l.State != LifeActive {
		return false
	}
	l.State = LifeScheduled
	return true
}

// Stomp moves an active entity to Stomped and reports whether the
// transition happened.
func (l *Lifecycle) Stomp() bool {
	if l == nil || l.State != LifeActive {
		return false
	}
	l.State = LifeStomped
	return true
}

var LifecycleComponent = NewComponent[Lifecycle]()
