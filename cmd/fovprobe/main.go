// Command fovprobe loads a scenario, runs a few ticks without a window and
// prints every sensor's verdict. With -geojson it also writes the gizmos.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/milk9111/fovsystem/ecs"
	"github.com/milk9111/fovsystem/ecs/component"
	"github.com/milk9111/fovsystem/ecs/entity"
	"github.com/milk9111/fovsystem/ecs/system"
	"github.com/milk9111/fovsystem/overlay"
	"github.com/milk9111/fovsystem/prefabs"
	"github.com/milk9111/fovsystem/script"
	"github.com/sirupsen/logrus"
)

func main() {
	scenario := flag.String("scenario", "courtyard.yaml", "scenario file in prefabs/")
	ticks := flag.Int("ticks", 1, "number of ticks to run before reporting")
	geojsonPath := flag.String("geojson", "", "write sensor gizmos and walls as GeoJSON to this file")
	segments := flag.Int("segments", overlay.DefaultSegments, "arc resolution for GeoJSON output")
	scripts := flag.Bool("scripts", true, "run sensor scripts")
	level := flag.String("log-level", "warn", "logrus level")
	jsonLogs := flag.Bool("json-logs", false, "log as JSON")
	list := flag.Bool("list", false, "list available prefab files and exit")
	flag.Parse()

	if *list {
		names, err := prefabs.List(".yaml")
		if err != nil {
			logrus.WithError(err).Fatal("failed to list prefabs")
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	lvl, err := logrus.ParseLevel(*level)
	if err != nil {
		logrus.WithError(err).Fatal("bad log level")
	}
	logrus.SetLevel(lvl)
	if *jsonLogs {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	w, sc, err := buildWorld(*scenario)
	if err != nil {
		logrus.WithError(err).WithField("scenario", *scenario).Fatal("failed to load scenario")
	}

	var rt *script.Runtime
	if *scripts {
		rt = script.NewRuntime(prefabs.LoadScript)
	}
	sched := system.NewSensorScheduler(system.NewPhysicsSystem(nil), rt)
	for i := 0; i < *ticks; i++ {
		sched.Update(w)
		for _, evt := range w.Events().Drain() {
			logrus.WithFields(logrus.Fields{"tick": i, "type": evt.Type}).Debug("event")
		}
	}

	logrus.WithField("ticks", sched.Ticks()).Debug("simulation done")
	if err := report(os.Stdout, w, sc); err != nil {
		logrus.WithError(err).Fatal("failed to write report")
	}

	if *geojsonPath != "" {
		data, err := overlay.Collect(w, *segments).MarshalJSON()
		if err != nil {
			logrus.WithError(err).Fatal("failed to encode geojson")
		}
		if err := os.WriteFile(*geojsonPath, data, 0o644); err != nil {
			logrus.WithError(err).WithField("path", *geojsonPath).Fatal("failed to write geojson")
		}
		logrus.WithField("path", *geojsonPath).Info("geojson written")
	}
}

func buildWorld(name string) (*ecs.World, *entity.Scenario, error) {
	layers, err := prefabs.LoadLayers()
	if err != nil {
		return nil, nil, err
	}
	spec, err := prefabs.LoadScenario(name)
	if err != nil {
		return nil, nil, err
	}
	w := ecs.NewWorld()
	sc, err := entity.BuildScenario(w, *spec, layers)
	if err != nil {
		return nil, nil, err
	}
	return w, sc, nil
}

func report(out io.Writer, w *ecs.World, sc *entity.Scenario) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SENSOR\tOUTCOME\tREASON\tDISTANCE\tANGLE\tRADIUS\tVIEW")
	for _, name := range sc.Order {
		fc, ok := ecs.Get(w, sc.Sensors[name], component.FieldOfViewComponent)
		if !ok || fc.Sensor == nil {
			continue
		}
		r := fc.Last
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%.1f\t%.1f\t%.0f\n",
			name, r.Outcome, r.Reason, r.Distance, r.Angle, fc.Sensor.ViewRadius(), fc.Sensor.ViewAngle())
	}
	return tw.Flush()
}
