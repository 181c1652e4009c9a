package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/fovsystem/common"
	"github.com/sirupsen/logrus"
)

func main() {
	scenario := flag.String("scenario", "courtyard.yaml", "scenario file in prefabs/ (embedded copy used when missing on disk)")
	debug := flag.Bool("debug", true, "draw sensor gizmos and the occluder space")
	watch := flag.Bool("watch", false, "reload prefabs and scripts when they change on disk")
	zoom := flag.Float64("zoom", common.WorldScale, "pixels per world unit")
	level := flag.String("log-level", "info", "logrus level")
	flag.Parse()

	lvl, err := logrus.ParseLevel(*level)
	if err != nil {
		logrus.WithError(err).Fatal("bad log level")
	}
	logrus.SetLevel(lvl)

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("fov demo")

	game, err := NewGame(*scenario, *debug, *watch, *zoom)
	if err != nil {
		logrus.WithError(err).WithField("scenario", *scenario).Fatal("failed to load scenario")
	}
	err = ebiten.RunGame(game)
	game.Close()
	if err != nil {
		logrus.WithError(err).Error("game exited")
		os.Exit(1)
	}
}
