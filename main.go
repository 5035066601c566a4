package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	debug := flag.Bool("debug", false, "log every bus notification")
	watch := flag.Bool("watch", false, "hot reload prefabs, scripts and levels from disk")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "pit", "level name in levels/ (basename, .yaml optional)")
	seed := flag.Int64("seed", 1, "seed for chain reaction jitter")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	game, err := NewGame(*levelName, *debug, *watch, *seed)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(int(game.width), int(game.height))
	ebiten.SetWindowTitle("deadzone")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
