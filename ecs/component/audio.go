package component

// SoundKind names a one-shot sound effect.
type SoundKind uint8

const (
	SoundJump SoundKind = iota
	SoundWalk
	SoundHurt
	SoundDeath
	SoundCoin
	SoundKey
	SoundDoor
	SoundEnemyDeath
	SoundShoot
	soundKindCount
)

// SoundKinds lists every sound kind in declaration order.
func SoundKinds() []SoundKind {
	out := make([]SoundKind, 0, soundKindCount)
	for k := SoundKind(0); k < soundKindCount; k++ {
		out = append(out, k)
	}
	return out
}

func (k SoundKind) String() string {
	switch k {
	case SoundJump:
		return "jump"
	case SoundWalk:
		return "walk"
	case SoundHurt:
		return "hurt"
	case SoundDeath:
		return "death"
	case SoundCoin:
		return "coin"
	case SoundKey:
		return "key"
	case SoundDoor:
		return "door"
	case SoundEnemyDeath:
		return "enemy_death"
	case SoundShoot:
		return "shoot"
	default:
		return "unknown"
	}
}
