package component

// SensorScript names the tengo script whose on_visible / on_not_visible
// handlers run after each verdict.
type SensorScript struct {
	Path string
}

var SensorScriptComponent = NewComponent[SensorScript]()
