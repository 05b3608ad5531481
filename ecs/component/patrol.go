package component

// Patrol walks an enemy back and forth between MinX and MaxX (meters).
// Dir is +1 or -1. A zero-width patrol is a stationary guard.
type Patrol struct {
	Speed float64
	MinX  float64
	MaxX  float64
	Dir   float64
}

func (p *Patrol) Stationary() bool {
	return (p.MaxX-p.MinX)/2 <= 0.001
}

var PatrolComponent = NewComponent[Patrol]()
