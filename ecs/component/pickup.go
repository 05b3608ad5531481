package component

// Coin is worth one point. AnimTime drives its idle animation.
type Coin struct {
	AnimTime float64
}

var CoinComponent = NewComponent[Coin]()

// Key unlocks doors for the player that collects it.
type Key struct{}

var KeyComponent = NewComponent[Key]()
