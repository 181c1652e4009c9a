package common

const (
	BaseWidth  = 1280
	BaseHeight = 720

	// WorldScale converts world units to screen pixels in the top-down demo.
	WorldScale = 24.0

	MaxViewAngle = 360.0
)
