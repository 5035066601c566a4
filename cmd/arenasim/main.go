// Command arenasim runs a layout headless for a fixed number of frames and
// logs every hazard notification. It is handy for checking catalog and
// script edits without opening a window.
package main

import (
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/milk9111/deadzone/arena"
	"github.com/milk9111/deadzone/bus"
	"github.com/milk9111/deadzone/ecs/system"
	"github.com/milk9111/deadzone/levels"
	"github.com/milk9111/deadzone/prefabs"
)

type simOptions struct {
	Level      string
	Frames     int
	Step       time.Duration
	Seed       int64
	SpawnEvery int
	SpawnKind  string
	Interact   []string
	Shoot      []string
	Quiet      bool
}

type summary struct {
	Frames   int
	Events   map[string]int
	Killed   map[string]int
	Spawned  int
	Zones    int
	Props    int
	Enemies  int
	Duration time.Duration
}

func simulate(opts simOptions, logger *log.Logger) (summary, error) {
	catalog, err := prefabs.LoadCatalog()
	if err != nil {
		return summary{}, err
	}
	layout, err := levels.Load(opts.Level)
	if err != nil {
		return summary{}, err
	}
	a, err := arena.Build(layout, arena.Options{Catalog: catalog, Seed: opts.Seed, SpawnKind: opts.SpawnKind})
	if err != nil {
		return summary{}, err
	}

	sum := summary{Events: make(map[string]int), Killed: make(map[string]int)}
	a.Bus().Subscribe(bus.Wildcard, func(ev bus.Event) {
		sum.Events[ev.Topic]++
		if !opts.Quiet {
			logger.Printf("%8.3fs %-24s %-16s %v", a.Now().Seconds(), ev.Topic, ev.SourceID, ev.Data)
		}
	})

	for _, id := range opts.Interact {
		if !a.Interact(id) {
			logger.Printf("interact %s: nothing happened", id)
		}
	}
	for _, id := range opts.Shoot {
		if !a.DamageProp(id, arena.ShotDamage, "player") {
			logger.Printf("shoot %s: prop survived or is missing", id)
		}
	}

	doors := a.Doors()
	next := 0
	for i := 1; i <= opts.Frames; i++ {
		if opts.SpawnEvery > 0 && i%opts.SpawnEvery == 0 && len(doors) > 0 {
			for j := 0; j < len(doors); j++ {
				d := doors[(next+j)%len(doors)]
				if _, ok := a.SpawnThrough(d.ID(), opts.SpawnKind); ok {
					next = (next + j + 1) % len(doors)
					break
				}
			}
		}
		a.Update(opts.Step)
		for _, ev := range a.World().Events().Drain() {
			if k, ok := ev.Data.(system.EnemyKilled); ok {
				sum.Killed[k.Source]++
				if !opts.Quiet {
					logger.Printf("%8.3fs %-24s %-16s by %s", a.Now().Seconds(), ev.Type, k.Kind, k.Source)
				}
			}
		}
	}

	sum.Frames = opts.Frames
	sum.Duration = a.Now()
	sum.Spawned = a.Spawned()
	sum.Zones = len(a.Zones())
	sum.Props = len(a.Props())
	sum.Enemies = a.EnemyCount()
	return sum, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func main() {
	level := flag.String("level", "pit", "level name in levels/")
	frames := flag.Int("frames", 600, "frames to simulate")
	step := flag.Duration("dt", time.Second/60, "frame duration")
	seed := flag.Int64("seed", 1, "seed for chain reaction jitter")
	spawnEvery := flag.Int("spawn-every", 0, "spawn an enemy through the next open door every N frames (0 = never)")
	spawnKind := flag.String("spawn-kind", "walker", "enemy kind for door spawns")
	interact := flag.String("interact", "", "comma separated prop ids to use before the first frame")
	shoot := flag.String("shoot", "", "comma separated prop ids to shoot before the first frame")
	quiet := flag.Bool("q", false, "only print the summary")
	flag.Parse()

	logger := log.New(os.Stdout, "", 0)
	sum, err := simulate(simOptions{
		Level:      *level,
		Frames:     *frames,
		Step:       *step,
		Seed:       *seed,
		SpawnEvery: *spawnEvery,
		SpawnKind:  *spawnKind,
		Interact:   splitList(*interact),
		Shoot:      splitList(*shoot),
		Quiet:      *quiet,
	}, logger)
	if err != nil {
		log.Fatal(err)
	}

	logger.Printf("simulated %d frames (%v): %d zones, %d props, %d enemies, %d spawned",
		sum.Frames, sum.Duration, sum.Zones, sum.Props, sum.Enemies, sum.Spawned)
	for source, n := range sum.Killed {
		logger.Printf("killed by %s: %d", source, n)
	}
}
