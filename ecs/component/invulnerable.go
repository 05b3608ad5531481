package component

// Invulnerable counts down the remaining seconds during which an entity
// ignores damage.
type Invulnerable struct {
	Remaining float64
}

func (i *Invulnerable) Active() bool {
	return i != nil && i.Remaining > 0
}

var InvulnerableComponent = NewComponent[Invulnerable]()
