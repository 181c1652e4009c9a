package component

import (
	"image/color"

	"github.com/milk9111/fovsystem/fov"
)

// FieldOfView attaches a sensor to an entity. Last is the most recent verdict,
// kept for display only; the sensor itself stays stateless.
type FieldOfView struct {
	Sensor *fov.Sensor
	Debug  bool
	Last   fov.Result
}

var FieldOfViewComponent = NewComponent[FieldOfView]()

// SensorColors are the debug line colors for a sensor.
type SensorColors struct {
	Seen    color.Color
	Blocked color.Color
}

var SensorColorsComponent = NewComponent[SensorColors]()
