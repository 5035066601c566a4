package prop

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadzone/bus"
	"github.com/milk9111/deadzone/clock"
	"github.com/milk9111/deadzone/ecs"
	"github.com/milk9111/deadzone/zone"
)

type damageRecord struct {
	entity ecs.Entity
	amount float64
	source string
}

type testEnv struct {
	clock   *clock.Clock
	queue   *clock.Queue
	bus     *bus.Bus
	jitter  time.Duration
	targets []Target
	props   []*Prop
	damage  []damageRecord
	zones   []zone.Config
	presets map[zone.Kind]zone.Config
}

func newTestEnv() *testEnv {
	c := clock.New()
	return &testEnv{clock: c, queue: clock.NewQueue(c), bus: bus.New(), jitter: 100 * time.Millisecond}
}

// step advances one frame and runs due deferred jobs.
func (e *testEnv) step(dt time.Duration) int {
	e.clock.Advance(dt)
	return e.queue.Run()
}

func (e *testEnv) add(p *Prop) *Prop {
	e.props = append(e.props, p)
	return p
}

func (e *testEnv) Now() time.Duration { return e.clock.Now() }
func (e *testEnv) Bus() *bus.Bus      { return e.bus }

func (e *testEnv) After(delay time.Duration, job func()) { e.queue.After(delay, job) }

func (e *testEnv) Jitter(min, max time.Duration) time.Duration {
	if e.jitter < min {
		return min
	}
	if e.jitter > max {
		return max
	}
	return e.jitter
}

func (e *testEnv) TargetsInRadius(center mgl64.Vec2, radius float64) []Target {
	var out []Target
	for _, t := range e.targets {
		if t.Position.Sub(center).Len() <= radius {
			out = append(out, t)
		}
	}
	return out
}

func (e *testEnv) DamageTarget(ent ecs.Entity, amount float64, source string) bool {
	e.damage = append(e.damage, damageRecord{entity: ent, amount: amount, source: source})
	return true
}

func (e *testEnv) PropsInRadius(center mgl64.Vec2, radius float64) []*Prop {
	var out []*Prop
	for _, p := range e.props {
		if !p.Destroyed() && p.Position().Sub(center).Len() <= radius {
			out = append(out, p)
		}
	}
	return out
}

func (e *testEnv) SpawnZone(cfg zone.Config) *zone.Zone {
	e.zones = append(e.zones, cfg)
	return zone.New(cfg, e.Now(), nil)
}

func (e *testEnv) ZonePreset(kind zone.Kind) zone.Config {
	if cfg, ok := e.presets[kind]; ok {
		return cfg
	}
	return zone.Preset(kind)
}

func (e *testEnv) damageTo(ent ecs.Entity) float64 {
	total := 0.0
	for _, d := range e.damage {
		if d.entity == ent {
			total += d.amount
		}
	}
	return total
}

func zoneFire() zone.Config {
	cfg := zone.Preset(zone.KindFire)
	cfg.Duration = 500 * time.Millisecond
	return cfg
}
