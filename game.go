package main

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/deadzone/arena"
	"github.com/milk9111/deadzone/bus"
	"github.com/milk9111/deadzone/levels"
	"github.com/milk9111/deadzone/prefabs"
	"github.com/pkg/errors"
	"golang.org/x/image/colornames"
)

const helpText = "WASD move  E use/barricade  F shoot  R repair  N spawn  F5 reload  Esc pause"

type Game struct {
	frames int

	level string
	seed  int64
	trace bool

	arena   *arena.Arena
	width   float64
	height  float64
	watcher *prefabs.Watcher

	paused  bool
	quit    bool
	pauseUI *ebitenui.UI
}

func NewGame(level string, trace, watch bool, seed int64) (*Game, error) {
	g := &Game{level: level, seed: seed, trace: trace}
	if err := g.load(); err != nil {
		return nil, err
	}
	g.pauseUI = NewPauseUI(g)

	if watch {
		dirs := []string{prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"), levels.Dir}
		w, err := prefabs.NewWatcher(dirs...)
		if err != nil {
			log.Printf("watch disabled: %v", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) load() error {
	catalog, err := prefabs.LoadCatalog()
	if err != nil {
		return err
	}
	layout, err := levels.Load(g.level)
	if err != nil {
		return err
	}
	a, err := arena.Build(layout, arena.Options{Catalog: catalog, Seed: g.seed, Debug: true, Input: true})
	if err != nil {
		return errors.Wrapf(err, "build %s", g.level)
	}
	if g.trace {
		a.Bus().Subscribe(bus.Wildcard, func(ev bus.Event) {
			log.Printf("bus: %s %s %v", ev.Topic, ev.SourceID, ev.Data)
		})
	}
	g.arena = a
	g.width, g.height = layout.Width, layout.Height
	return nil
}

// reload rebuilds the arena from disk, keeping the running one on failure.
func (g *Game) reload(reason string) {
	if err := g.load(); err != nil {
		log.Printf("reload (%s) failed: %v", reason, err)
		return
	}
	log.Printf("reloaded %s (%s)", g.level, reason)
}

// changed drains pending watcher events and reports the last changed path.
func (g *Game) changed() (string, bool) {
	if g.watcher == nil {
		return "", false
	}
	select {
	case err, ok := <-g.watcher.Errors:
		if ok && err != nil {
			log.Printf("watch: %v", err)
		}
	default:
	}

	var path string
	for g.watcher != nil {
		select {
		case p, ok := <-g.watcher.Events:
			if !ok {
				g.Close()
				break
			}
			path = p
			continue
		default:
		}
		break
	}
	return path, path != ""
}

func (g *Game) Update() error {
	if g.quit {
		g.Close()
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	if path, ok := g.changed(); ok {
		g.reload(filepath.Base(path))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.reload("manual")
	}

	g.frames++
	g.arena.Update(time.Second / time.Duration(ebiten.TPS()))
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)
	g.arena.World().Draw(screen)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.2f  spawned: %d", ebiten.ActualFPS(), g.arena.Spawned()), 8, int(g.height)-36)
	ebitenutil.DebugPrintAt(screen, helpText, 8, int(g.height)-20)

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(g.width), int(g.height)
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
		g.watcher = nil
	}
}
