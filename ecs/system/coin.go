package system

import (
	"github.com/milk9111/boneyard/ecs"
	"github.com/milk9111/boneyard/ecs/component"
)

type CoinSystem struct {
	dt float64
}

func NewCoinSystem(dt float64) *CoinSystem { return &CoinSystem{dt: dt} }

// Update advances each coin's idle animation while it is still collectable.
func (s *CoinSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.CoinComponent.Kind(), func(e ecs.Entity, coin *component.Coin) {
		if life, ok := ecs.Get(w, e, component.LifecycleComponent.Kind()); ok && life.Removed() {
			return
		}
		coin.AnimTime += s.dt
	})
}
