package common

// BaseWidth and BaseHeight are the logical viewport size in pixels.
const (
	BaseWidth  = 320
	BaseHeight = 240
)
