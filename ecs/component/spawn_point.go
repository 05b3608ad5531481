package component

// SpawnPoint is where Respawn puts an entity, in meters.
type SpawnPoint struct {
	X float64
	Y float64
}

var SpawnPointComponent = NewComponent[SpawnPoint]()

// SafeRespawn is the last position where the player stood still on ground,
// in meters. A fall below the death plane returns the player here. Timer
// counts seconds since the last checkpoint.
type SafeRespawn struct {
	X, Y        float64
	Timer       float64
	Initialized bool
}

var SafeRespawnComponent = NewComponent[SafeRespawn]()

// LevelBounds is the size of the loaded level in pixels. The camera is
// clamped to it.
type LevelBounds struct {
	Width, Height float64
}

var LevelBoundsComponent = NewComponent[LevelBounds]()
