// Package script runs tengo handlers for sensor verdicts. A script defines
// on_visible(sensor) and on_not_visible(sensor); either may return a map of
// requests for the host to apply:
//
//	{reach: 2, widen: 10}   // grow radius by 2 and angle by 10 degrees
//	{reach: -2, widen: -10} // shrink
//	{forget: true}          // clear the target
package script

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/fovsystem/fov"
)

var ErrEmptyPath = errors.New("script: empty path")

const dispatchScript = `
if __phase == "visible" {
	__result = on_visible(__sensor)
} else if __phase == "not_visible" {
	__result = on_not_visible(__sensor)
}
`

// Loader returns the source of a script by path.
type Loader func(path string) ([]byte, error)

// Action is what a handler asked the host to do.
type Action struct {
	Reach  float64
	Widen  float64
	Forget bool
}

func (a Action) Empty() bool {
	return a.Reach == 0 && a.Widen == 0 && !a.Forget
}

// Verdict is the view of a sensor evaluation handed to scripts.
type Verdict struct {
	Sensor    uint64
	Target    uint64
	Outcome   fov.Outcome
	Reason    fov.Reason
	Distance  float64
	Angle     float64
	Radius    float64
	ViewAngle float64
}

// Runtime compiles scripts once per path and dispatches verdicts to them.
type Runtime struct {
	load Loader

	mu       sync.Mutex
	compiled map[string]*tengo.Compiled
}

func NewRuntime(load Loader) *Runtime {
	return &Runtime{load: load, compiled: make(map[string]*tengo.Compiled)}
}

// Invalidate drops the cached compilation of path so the next call reloads it.
func (r *Runtime) Invalidate(path string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.compiled, Key(path))
}

// Key normalizes a script path so "guard.tengo", "scripts/guard.tengo" and
// "prefabs/scripts/guard.tengo" share one cache entry.
func Key(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = path.Clean(filepath.ToSlash(p))
	p = strings.TrimPrefix(p, "prefabs/")
	return strings.TrimPrefix(p, "scripts/")
}

// Dispatch runs the handler for v.Outcome. Skipped verdicts run nothing.
// A failed run, including a panic inside the VM such as integer division by
// zero, is reported as an error and drops the compiled script.
func (r *Runtime) Dispatch(path string, v Verdict) (action Action, err error) {
	var phase string
	switch v.Outcome {
	case fov.Visible:
		phase = "visible"
	case fov.NotVisible:
		phase = "not_visible"
	default:
		return Action{}, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	defer func() {
		if p := recover(); p != nil {
			delete(r.compiled, Key(path))
			action = Action{}
			err = fmt.Errorf("script: %s: run %s: %v", path, phase, p)
		}
	}()

	compiled, err := r.get(path)
	if err != nil {
		return Action{}, err
	}
	if err := compiled.Set("__phase", phase); err != nil {
		return Action{}, fmt.Errorf("script: %s: %w", path, err)
	}
	if err := compiled.Set("__sensor", v.toMap()); err != nil {
		return Action{}, fmt.Errorf("script: %s: %w", path, err)
	}
	if err := compiled.Run(); err != nil {
		delete(r.compiled, Key(path))
		return Action{}, fmt.Errorf("script: %s: run %s: %w", path, phase, err)
	}
	return parseAction(compiled.Get("__result").Map()), nil
}

func (r *Runtime) get(path string) (*tengo.Compiled, error) {
	key := Key(path)
	if key == "" {
		return nil, ErrEmptyPath
	}
	path = strings.TrimSpace(path)
	if c, ok := r.compiled[key]; ok {
		return c, nil
	}
	if r.load == nil {
		return nil, fmt.Errorf("script: no loader for %s", path)
	}

	src, err := r.load(path)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", path, err)
	}

	s := tengo.NewScript(append(append([]byte{}, src...), []byte("\n"+dispatchScript)...))
	_ = s.Add("__phase", "")
	_ = s.Add("__sensor", map[string]any{})
	_ = s.Add("__result", nil)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", path, err)
	}
	r.compiled[key] = compiled
	return compiled, nil
}

func (v Verdict) toMap() map[string]any {
	return map[string]any{
		"id":         int64(v.Sensor),
		"target":     int64(v.Target),
		"outcome":    v.Outcome.String(),
		"reason":     v.Reason.String(),
		"distance":   v.Distance,
		"angle":      v.Angle,
		"radius":     v.Radius,
		"view_angle": v.ViewAngle,
	}
}

func parseAction(m map[string]any) Action {
	if m == nil {
		return Action{}
	}
	var a Action
	a.Reach = toFloat(m["reach"])
	a.Widen = toFloat(m["widen"])
	if b, ok := m["forget"].(bool); ok {
		a.Forget = b
	}
	return a
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	default:
		return 0
	}
}
