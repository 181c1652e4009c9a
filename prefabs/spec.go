package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/fovsystem/fov"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type TransformSpec struct {
	X   float64 `yaml:"x"`
	Y   float64 `yaml:"y"`
	Z   float64 `yaml:"z"`
	Yaw float64 `yaml:"yaw"`
}

// FieldOfViewSpec is the designer-facing sensor configuration.
type FieldOfViewSpec struct {
	ViewRadius      float64    `yaml:"view_radius"`
	ViewAngle       float64    `yaml:"view_angle"`
	OcclusionLayers []string   `yaml:"occlusion_layers"`
	Debug           bool       `yaml:"debug"`
	SeenColor       *YAMLColor `yaml:"seen_color,omitempty"`
	BlockedColor    *YAMLColor `yaml:"blocked_color,omitempty"`
}

// Config resolves layer names and builds the sensor configuration.
func (s FieldOfViewSpec) Config(layers LayerTable) (fov.Config, error) {
	mask, err := layers.Mask(s.OcclusionLayers)
	if err != nil {
		return fov.Config{}, err
	}
	return fov.Config{
		ViewRadius:    s.ViewRadius,
		ViewAngle:     s.ViewAngle,
		OcclusionMask: mask,
	}, nil
}

type SensorSpec struct {
	Name        string          `yaml:"name"`
	Transform   TransformSpec   `yaml:"transform"`
	FieldOfView FieldOfViewSpec `yaml:"field_of_view"`
	Script      string          `yaml:"script,omitempty"`
}

func LoadSensorSpec(filename string) (*SensorSpec, error) {
	spec, err := LoadSpec[SensorSpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type TargetSpec struct {
	Name      string        `yaml:"name"`
	Transform TransformSpec `yaml:"transform"`
}

type WallSpec struct {
	Name      string        `yaml:"name"`
	Shape     string        `yaml:"shape"`
	Transform TransformSpec `yaml:"transform"`
	Width     float64       `yaml:"width"`
	Depth     float64       `yaml:"depth"`
	Radius    float64       `yaml:"radius"`
	End       TransformSpec `yaml:"end"`
	Thickness float64       `yaml:"thickness"`
	Layer     string        `yaml:"layer"`
}

// ScenarioSensorSpec places a sensor prefab in a scenario. Transform and Script
// override the prefab when set.
type ScenarioSensorSpec struct {
	Prefab    string         `yaml:"prefab"`
	Name      string         `yaml:"name"`
	Transform *TransformSpec `yaml:"transform"`
	Script    string         `yaml:"script,omitempty"`
	Target    string         `yaml:"target"`
}

type ScenarioSpec struct {
	Name    string               `yaml:"name"`
	Sensors []ScenarioSensorSpec `yaml:"sensors"`
	Targets []TargetSpec         `yaml:"targets"`
	Walls   []WallSpec           `yaml:"walls"`
}

func LoadScenario(filename string) (*ScenarioSpec, error) {
	spec, err := LoadSpec[ScenarioSpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// YAMLColor accepts "#rrggbb", "#rrggbbaa" or an SVG color name.
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	if named, ok := colornames.Map[strings.ToLower(value.Value)]; ok {
		c.Color = named
		return nil
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

func (c YAMLColor) MarshalYAML() (any, error) {
	if c.Color == nil {
		return nil, nil
	}
	n := color.NRGBAModel.Convert(c.Color).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A), nil
}

// ColorOr returns the parsed color, or fallback when unset.
func (c *YAMLColor) ColorOr(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}
