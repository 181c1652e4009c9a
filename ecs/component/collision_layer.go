package component

// CollisionLayer places an occluder on one of the 32 collision layers a sensor
// mask can select.
type CollisionLayer struct {
	Layer int `json:"layer,omitempty"`
}

var CollisionLayerComponent = NewComponent[CollisionLayer]()
