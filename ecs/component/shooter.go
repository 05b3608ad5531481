package component

// Shooter fires projectiles at the player when it is in range and visible.
type Shooter struct {
	Cooldown        float64
	Timer           float64
	DetectionRadius float64
	FacingRight     bool
	VisualWidth     float64
}

var ShooterComponent = NewComponent[Shooter]()
