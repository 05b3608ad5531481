package component

// Input stores per-frame input state for an entity.
type Input struct {
	Left    bool
	Right   bool
	Jump    bool
	Restart bool
	Menu    bool
}

// MoveX resolves the horizontal axis; both directions cancel out.
func (in Input) MoveX() float64 {
	switch {
	case in.Left && !in.Right:
		return -1
	case in.Right && !in.Left:
		return 1
	default:
		return 0
	}
}

var InputComponent = NewComponent[Input]()
