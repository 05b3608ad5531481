package component

// Player holds the player's gameplay state plus its movement and damage
// tuning, which is loaded from the player prefab.
type Player struct {
	State  PlayerState
	Facing float64 // 1 right, -1 left, 0 unknown
	HasKey bool

	MoveSpeed        float64
	JumpImpulse      float64
	KnockbackX       float64
	KnockbackY       float64
	FallDamage       int
	DeathPlaneY      float64
	InvulnDuration   float64
	RecoveryInvuln   float64
	SafeInterval     float64
	WalkSoundPeriod  float64
	KnockbackLockVel float64

	WalkSoundTimer float64
}

var PlayerComponent = NewComponent[Player]()
