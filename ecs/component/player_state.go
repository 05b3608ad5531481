package component

// PlayerState is the player's animation/kinematic state. Dead is terminal
// until the player respawns; every other state is derived each frame.
type PlayerState uint8

const (
	PlayerIdle PlayerState = iota
	PlayerRunning
	PlayerJumping
	PlayerFalling
	PlayerDead
)

func (s PlayerState) String() string {
	switch s {
	case PlayerIdle:
		return "idle"
	case PlayerRunning:
		return "running"
	case PlayerJumping:
		return "jumping"
	case PlayerFalling:
		return "falling"
	case PlayerDead:
		return "dead"
	default:
		return "unknown"
	}
}
