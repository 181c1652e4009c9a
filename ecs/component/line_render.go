package component

import (
	"image/color"

	"github.com/milk9111/fovsystem/geom"
)

// DebugLine is a world-space segment drawn for one frame.
type DebugLine struct {
	From  geom.Vec3
	To    geom.Vec3
	Color color.Color
}

// LineRender holds the debug lines an entity emitted this frame.
type LineRender struct {
	Lines     []DebugLine
	Width     float32
	AntiAlias bool
}

var LineRenderComponent = NewComponent[LineRender]()
