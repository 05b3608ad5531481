package component

// Hostile marks an entity that hurts the player on contact and can be
// stomped. VisualHeight is in pixels.
type Hostile struct {
	ContactDamage int
	VisualHeight  float64
}

var HostileComponent = NewComponent[Hostile]()
