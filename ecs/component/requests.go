package component

// ReloadRequest asks for the current level to be rebuilt at the start of
// the next frame. It lives on its own short-lived entity; at most one is
// kept.
type ReloadRequest struct{}

var ReloadRequestComponent = NewComponent[ReloadRequest]()

// RespawnRequest sits on a player that should be moved back to its
// SpawnPoint at the start of the next frame.
type RespawnRequest struct{}

var RespawnRequestComponent = NewComponent[RespawnRequest]()
