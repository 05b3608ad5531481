package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data. Width and Height are the
// visual size in pixels. Feet and FeetOffsetY (meters, body-local) are only
// set for the player.
type PhysicsBody struct {
	Body        *cp.Body
	Shape       *cp.Shape
	Feet        *cp.Shape
	FeetOffsetY float64
	Width       float64
	Height      float64
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
