package component

type TargetTag struct{}

var TargetTagComponent = NewComponent[TargetTag]()

// Name is a designer-facing label carried over from prefab specs.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()
