package main

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/fovsystem/common"
	"github.com/milk9111/fovsystem/ecs"
	"github.com/milk9111/fovsystem/ecs/component"
	"github.com/milk9111/fovsystem/ecs/entity"
	"github.com/milk9111/fovsystem/ecs/system"
	"github.com/milk9111/fovsystem/fov"
	"github.com/milk9111/fovsystem/geom"
	"github.com/milk9111/fovsystem/prefabs"
	"github.com/milk9111/fovsystem/render"
	"github.com/milk9111/fovsystem/script"
	"github.com/sirupsen/logrus"
	"golang.design/x/clipboard"
	"gopkg.in/yaml.v3"
)

const (
	turnSpeed    = 2.0
	moveSpeed    = 0.1
	adjustRadius = 0.5
	adjustAngle  = 5.0
)

var backgroundColor = color.NRGBA{R: 0x18, G: 0x1a, B: 0x20, A: 0xff}

type Game struct {
	scenarioName string
	debug        bool

	layers   prefabs.LayerTable
	scripts  *script.Runtime
	world    *ecs.World
	scenario *entity.Scenario
	physics  *system.PhysicsSystem
	sched    *ecs.Scheduler

	selected  int
	cam       render.Camera
	ui        *ebitenui.UI
	hud       *hud
	watcher   *prefabs.Watcher
	clipboard bool
	status    string

	log *logrus.Entry
}

func NewGame(scenarioName string, debug, watch bool, zoom float64) (*Game, error) {
	g := &Game{
		scenarioName: scenarioName,
		debug:        debug,
		scripts:      script.NewRuntime(prefabs.LoadScript),
		cam:          render.Camera{Z: 4, Zoom: zoom, Width: common.BaseWidth, Height: common.BaseHeight},
		log:          logrus.WithField("cmd", "fovdemo"),
	}
	if err := g.load(); err != nil {
		return nil, err
	}

	if err := clipboard.Init(); err != nil {
		g.log.WithError(err).Warn("clipboard unavailable")
	} else {
		g.clipboard = true
	}

	if watch {
		w, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
		if err != nil {
			g.log.WithError(err).Warn("hot reload disabled")
		} else {
			g.watcher = w
		}
	}

	g.ui, g.hud = newHUD(g)
	return g, nil
}

func (g *Game) load() error {
	layers, err := prefabs.LoadLayers()
	if err != nil {
		return err
	}
	spec, err := prefabs.LoadScenario(g.scenarioName)
	if err != nil {
		return err
	}

	world := ecs.NewWorld()
	sc, err := entity.BuildScenario(world, *spec, layers)
	if err != nil {
		return err
	}

	g.layers = layers
	g.world = world
	g.scenario = sc
	g.physics = system.NewPhysicsSystem(nil)
	g.sched = system.NewSensorScheduler(g.physics, g.scripts)
	if g.selected >= len(sc.Order) {
		g.selected = 0
	}
	g.log.WithFields(logrus.Fields{
		"scenario": sc.Name,
		"sensors":  len(sc.Sensors),
		"walls":    len(sc.Walls),
	}).Info("scenario loaded")
	return nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.drainWatcher()
	g.handleInput()
	g.ui.Update()

	g.sched.Update(g.world)
	for _, evt := range g.world.Events().Drain() {
		if evt.Type == ecs.EventMutationRejected {
			g.log.WithField("event", evt.Data).Debug("mutation rejected")
		}
	}
	g.hud.status.Label = g.statusText()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	if g.debug {
		render.DrawOcclusionSpace(screen, g.physics.OcclusionWorld(), g.cam)
	}
	render.DrawWorld(screen, g.world, g.cam)
	ebitenutil.DebugPrintAt(screen, "tab: next sensor  wasd: move  q/e: turn  =/-: widen/narrow  rmb: move target  c: copy  r: reload  f1: gizmos", 10, common.BaseHeight-20)
	g.ui.Draw(screen)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.nextSensor()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.toggleDebug()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.adjust(component.AdjustIncrease)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.adjust(component.AdjustDecrease)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copySelected()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reload()
	}

	if t, ok := g.selectedTransform(); ok {
		if ebiten.IsKeyPressed(ebiten.KeyQ) {
			t.Yaw -= turnSpeed
		}
		if ebiten.IsKeyPressed(ebiten.KeyE) {
			t.Yaw += turnSpeed
		}
		if ebiten.IsKeyPressed(ebiten.KeyW) {
			t.Z += moveSpeed
		}
		if ebiten.IsKeyPressed(ebiten.KeyS) {
			t.Z -= moveSpeed
		}
		if ebiten.IsKeyPressed(ebiten.KeyA) {
			t.X -= moveSpeed
		}
		if ebiten.IsKeyPressed(ebiten.KeyD) {
			t.X += moveSpeed
		}
	}

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		x, y := ebiten.CursorPosition()
		g.moveTarget(g.cam.ToWorld(float64(x), float64(y)))
	}
}

// moveTarget drags whatever the selected sensor is watching.
func (g *Game) moveTarget(p geom.Vec3) {
	e, ok := g.selectedSensor()
	if !ok {
		return
	}
	fc, ok := ecs.Get(g.world, e, component.FieldOfViewComponent)
	if !ok || fc.Sensor == nil {
		return
	}
	if t, ok := ecs.GetPtr(g.world, ecs.EntityOf(fc.Sensor.Target()), component.TransformComponent); ok {
		t.X, t.Z = p.X, p.Z
	}
}

func (g *Game) selectedSensor() (ecs.Entity, bool) {
	if g.scenario == nil || len(g.scenario.Order) == 0 {
		return 0, false
	}
	e, ok := g.scenario.Sensors[g.scenario.Order[g.selected%len(g.scenario.Order)]]
	return e, ok && g.world.IsAlive(e)
}

func (g *Game) selectedTransform() (*component.Transform, bool) {
	e, ok := g.selectedSensor()
	if !ok {
		return nil, false
	}
	return ecs.GetPtr(g.world, e, component.TransformComponent)
}

func (g *Game) nextSensor() {
	if g.scenario == nil || len(g.scenario.Order) == 0 {
		return
	}
	g.selected = (g.selected + 1) % len(g.scenario.Order)
}

func (g *Game) toggleDebug() {
	g.debug = !g.debug
	ecs.ForEach(g.world, component.FieldOfViewComponent.Kind(), func(e ecs.Entity, fc *component.FieldOfView) {
		fc.Debug = g.debug
	})
}

// adjust queues a request on behalf of the sensor's owner, the same path a
// script takes.
func (g *Game) adjust(mode component.AdjustMode) {
	e, ok := g.selectedSensor()
	if !ok {
		return
	}
	fc, ok := ecs.Get(g.world, e, component.FieldOfViewComponent)
	if !ok || fc.Sensor == nil {
		return
	}
	_ = ecs.Add(g.world, e, component.FieldOfViewAdjustRequestComponent, component.FieldOfViewAdjustRequest{
		Caller: fc.Sensor.Owner(),
		Mode:   mode,
		Radius: adjustRadius,
		Angle:  adjustAngle,
	})
}

func (g *Game) copySelected() {
	e, ok := g.selectedSensor()
	if !ok {
		return
	}
	spec, ok := entity.SensorSpecOf(g.world, e, g.layers)
	if !ok {
		return
	}
	data, err := yaml.Marshal(spec)
	if err != nil {
		g.log.WithError(err).Warn("failed to encode sensor")
		return
	}
	if !g.clipboard {
		g.status = "clipboard unavailable"
		fmt.Print(string(data))
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	g.status = fmt.Sprintf("copied %s", spec.Name)
}

func (g *Game) reload() {
	if err := g.load(); err != nil {
		g.log.WithError(err).Warn("reload failed")
		g.status = "reload failed"
		return
	}
	g.status = "reloaded"
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.WithField("file", name).Info("file changed")
			if strings.HasSuffix(name, ".tengo") {
				g.scripts.Invalidate(name)
				continue
			}
			g.reload()
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.WithError(err).Warn("watcher error")
		default:
			return
		}
	}
}

func (g *Game) statusText() string {
	e, ok := g.selectedSensor()
	if !ok {
		return "no sensors"
	}
	fc, _ := ecs.Get(g.world, e, component.FieldOfViewComponent)
	if fc.Sensor == nil {
		return "no sensors"
	}
	name := g.scenario.Order[g.selected%len(g.scenario.Order)]
	line := fmt.Sprintf("%s\nradius %.1f  angle %.0f\n%s", name, fc.Sensor.ViewRadius(), fc.Sensor.ViewAngle(), fc.Last.Outcome)
	if fc.Last.Reason != fov.ReasonNone {
		line += " (" + fc.Last.Reason.String() + ")"
	}
	if g.status != "" {
		line += "\n" + g.status
	}
	return line
}
