package component

import "image/color"

// VisibilityMarker is the indicator a sensor flips on the target it watches.
type VisibilityMarker struct {
	Visible bool
	Color   color.Color
}

var VisibilityMarkerComponent = NewComponent[VisibilityMarker]()
