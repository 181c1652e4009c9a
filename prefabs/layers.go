package prefabs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/milk9111/fovsystem/fov"
)

var ErrUnknownLayer = errors.New("prefabs: unknown layer")

// LayerTable maps collision layer names to bit indices.
type LayerTable map[string]int

type layersFile struct {
	Layers map[string]int `yaml:"layers"`
}

func LoadLayers() (LayerTable, error) {
	f, err := LoadSpec[layersFile]("layers.yaml")
	if err != nil {
		return nil, err
	}
	for name, idx := range f.Layers {
		if idx < 0 || idx >= fov.MaxLayers {
			return nil, fmt.Errorf("prefabs: layer %q index %d out of range", name, idx)
		}
	}
	return LayerTable(f.Layers), nil
}

// Index resolves a layer name. Plain numbers are accepted as indices.
func (t LayerTable) Index(name string) (int, error) {
	name = strings.TrimSpace(name)
	if idx, ok := t[name]; ok {
		return idx, nil
	}
	if idx, err := strconv.Atoi(name); err == nil && idx >= 0 && idx < fov.MaxLayers {
		return idx, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLayer, name)
}

func (t LayerTable) Mask(names []string) (fov.LayerMask, error) {
	var mask fov.LayerMask
	for _, name := range names {
		idx, err := t.Index(name)
		if err != nil {
			return fov.Nothing, err
		}
		mask |= fov.LayerMaskOf(idx)
	}
	return mask, nil
}

// Names lists the layers set in mask, by index. Bits without a name are
// written as their index.
func (t LayerTable) Names(mask fov.LayerMask) []string {
	byIndex := make(map[int]string, len(t))
	for name, idx := range t {
		if prev, ok := byIndex[idx]; !ok || name < prev {
			byIndex[idx] = name
		}
	}
	var out []string
	for idx := 0; idx < fov.MaxLayers; idx++ {
		if !mask.Contains(idx) {
			continue
		}
		if name, ok := byIndex[idx]; ok {
			out = append(out, name)
			continue
		}
		out = append(out, strconv.Itoa(idx))
	}
	return out
}
