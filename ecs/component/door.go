package component

import "github.com/jakecoffman/cp"

// Door gates a level transition. Its shape is solid while Locked and a
// sensor once opened.
type Door struct {
	Locked    bool
	Open      bool
	NextLevel string
	Shape     *cp.Shape
}

var DoorComponent = NewComponent[Door]()
