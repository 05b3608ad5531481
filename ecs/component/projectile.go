package component

type Projectile struct {
	Speed     float64
	DirX      float64
	DirY      float64
	Remaining float64
	Damage    int
}

var ProjectileComponent = NewComponent[Projectile]()
