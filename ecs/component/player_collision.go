package component

// PlayerCollision stores per-player collision state derived from physics
// contacts. GroundContacts counts feet/ground contacts currently touching;
// it never goes below zero.
type PlayerCollision struct {
	GroundContacts int
}

func (c *PlayerCollision) Grounded() bool {
	return c != nil && c.GroundContacts > 0
}

var PlayerCollisionComponent = NewComponent[PlayerCollision]()
