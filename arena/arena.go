// Package arena runs the hazard engine: it owns the ECS world, the game
// clock and deferred work queue, the linking bus, and every zone, prop and
// door in play, and steps them in a fixed order once per frame.
package arena

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadzone/bus"
	"github.com/milk9111/deadzone/clock"
	"github.com/milk9111/deadzone/door"
	"github.com/milk9111/deadzone/ecs"
	"github.com/milk9111/deadzone/ecs/component"
	"github.com/milk9111/deadzone/ecs/system"
	"github.com/milk9111/deadzone/physics"
	"github.com/milk9111/deadzone/prefabs"
	"github.com/milk9111/deadzone/prop"
	"github.com/milk9111/deadzone/zone"
)

// Options configures a new arena.
type Options struct {
	Catalog *prefabs.Catalog
	Seed    int64
	Debug   bool
	// Input reads the keyboard and gamepad into the player's input each
	// frame. Headless runs leave it off and drive the component directly.
	Input bool
	// SpawnKind is the enemy the player's spawn action brings in.
	SpawnKind string
}

// Arena is a single running hazard scene.
type Arena struct {
	world   *ecs.World
	clock   *clock.Clock
	queue   *clock.Queue
	bus     *bus.Bus
	broad   *physics.Broadphase
	rng     *rand.Rand
	catalog *prefabs.Catalog
	overlay *DebugOverlay

	zones  []*zone.Zone
	props  []*prop.Prop
	doors  []*door.Door
	zoneID map[string]*zone.Zone
	propID map[string]*prop.Prop
	doorID map[string]*door.Door
	gens   map[string]*prop.Generator

	// nearby tracks which entities are inside each proximity prop's radius
	// so it fires on entry rather than every frame.
	nearby map[*prop.Prop]map[ecs.Entity]struct{}

	inFrame bool
	carry   []bus.Event
	spawned int
}

// New creates an empty arena. A nil catalog uses built-in presets.
func New(opts Options) *Arena {
	c := clock.New()
	a := &Arena{
		world:   ecs.NewWorld(),
		clock:   c,
		queue:   clock.NewQueue(c),
		bus:     bus.New(),
		broad:   physics.NewBroadphase(),
		rng:     rand.New(rand.NewSource(opts.Seed)),
		catalog: opts.Catalog,
		zoneID:  make(map[string]*zone.Zone),
		propID:  make(map[string]*prop.Prop),
		doorID:  make(map[string]*door.Door),
		gens:    make(map[string]*prop.Generator),
		nearby:  make(map[*prop.Prop]map[ecs.Entity]struct{}),
	}
	if a.catalog == nil {
		a.catalog = &prefabs.Catalog{}
	}

	if opts.Input {
		a.world.AddSystem(system.NewInputSystem())
	}
	a.world.AddSystem(system.NewPlayerControllerSystem())
	spawnKind := opts.SpawnKind
	if spawnKind == "" {
		spawnKind = "walker"
	}
	a.world.AddSystem(&playerActions{arena: a, spawnKind: spawnKind})
	a.world.AddSystem(system.NewSlowSystem())
	a.world.AddSystem(system.NewRevealSystem())
	a.world.AddSystem(system.NewBurnSystem())
	a.world.AddSystem(system.NewWhiteFlashSystem())
	a.world.AddSystem(system.NewDeathSystem())
	a.world.AddSystem(system.NewSeekSystem())
	if opts.Debug {
		a.overlay = NewDebugOverlay(a)
		a.world.AddSystem(a.overlay)
	}

	a.bus.Subscribe(bus.Wildcard, a.mirror)
	return a
}

// mirror copies every bus notification into the world event queue.
// Notifications raised between frames are held until the next frame starts.
func (a *Arena) mirror(ev bus.Event) {
	if !a.inFrame {
		a.carry = append(a.carry, ev)
		return
	}
	a.world.Events().Push(ecs.Event{Type: ev.Topic, Data: ev})
}

// Update advances the arena by one frame.
func (a *Arena) Update(dt time.Duration) {
	prev := a.clock.Now()
	now := a.clock.Advance(dt)
	a.world.BeginFrame(now, now-prev)
	a.inFrame = true
	for _, ev := range a.carry {
		a.world.Events().Push(ecs.Event{Type: ev.Topic, Data: ev})
	}
	a.carry = nil

	a.queue.Run()
	a.syncBroadphase()
	a.tickZones(now)
	a.tickProps(now)
	for _, d := range a.doors {
		d.Update(now)
	}
	a.world.Update()
	a.sweep()
	a.inFrame = false
}

func (a *Arena) syncBroadphase() {
	a.broad.Prune(a.world.IsAlive)
	ecs.ForEach(a.world, component.TransformComponent.Kind(), func(e ecs.Entity, t *component.Transform) {
		a.broad.Sync(e, t.Vec(), t.Radius)
	})
	a.broad.Step()
}

func (a *Arena) tickZones(now time.Duration) {
	for _, src := range a.zones {
		if src.Kind() != zone.KindElectric || !src.Active() || src.DamagePerSecond() <= 0 {
			continue
		}
		for _, z := range a.zones {
			if z != src && z.Active() && z.ConductsElectricity() && z.Overlaps(src) {
				z.Electrify(src.DamagePerSecond())
			}
		}
	}

	fx := effects{a}
	n := len(a.zones)
	for _, z := range a.zones[:n] {
		if z.Destroyed() {
			continue
		}
		z.Tick(now, a.candidates(z.Center(), z.Radius()+zone.ExitMargin), fx)
	}
}

// candidates are live entities with a transform whose bounds overlap the
// circle, paired with their positions.
func (a *Arena) candidates(center mgl64.Vec2, radius float64) []zone.Candidate {
	var out []zone.Candidate
	for _, e := range a.broad.Query(center, radius) {
		t, ok := ecs.Get(a.world, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		out = append(out, zone.Candidate{Entity: e, Position: t.Vec()})
	}
	return out
}

func (a *Arena) tickProps(now time.Duration) {
	n := len(a.props)
	for _, p := range a.props[:n] {
		if p.Destroyed() {
			continue
		}
		if p.TriggerType() == prop.OnProximity && p.ProximityRadius() > 0 {
			a.checkProximity(p)
		}
		p.Update(now)
	}
}

func (a *Arena) checkProximity(p *prop.Prop) {
	inside := a.nearby[p]
	if inside == nil {
		inside = make(map[ecs.Entity]struct{})
		a.nearby[p] = inside
	}
	current := make(map[ecs.Entity]struct{})
	for _, c := range a.candidates(p.Position(), p.ProximityRadius()) {
		if c.Position.Sub(p.Position()).Len() > p.ProximityRadius() {
			continue
		}
		current[c.Entity] = struct{}{}
		if _, was := inside[c.Entity]; was {
			continue
		}
		if kind, ok := a.kindOf(c.Entity); ok {
			p.OnEntityProximity(kind)
		}
	}
	a.nearby[p] = current
}

// kindOf names an entity for proximity filters: "player" or the enemy kind.
func (a *Arena) kindOf(e ecs.Entity) (string, bool) {
	if ecs.Has(a.world, e, component.PlayerTagComponent.Kind()) {
		return "player", true
	}
	if tag, ok := ecs.Get(a.world, e, component.EnemyTagComponent.Kind()); ok {
		return tag.Kind, true
	}
	return "", false
}

// sweep drops destroyed zones and props at the end of the frame.
func (a *Arena) sweep() {
	zones := a.zones[:0]
	for _, z := range a.zones {
		if z.Destroyed() {
			if a.zoneID[z.ID()] == z {
				delete(a.zoneID, z.ID())
			}
			continue
		}
		zones = append(zones, z)
	}
	clear(a.zones[len(zones):])
	a.zones = zones

	props := a.props[:0]
	for _, p := range a.props {
		if p.Destroyed() {
			delete(a.propID, p.ID())
			delete(a.gens, p.ID())
			delete(a.nearby, p)
			continue
		}
		props = append(props, p)
	}
	clear(a.props[len(props):])
	a.props = props
}

// AddZone registers a zone built from cfg. Ids must be unique among live
// zones; a clash gets a numeric suffix.
func (a *Arena) AddZone(cfg zone.Config) *zone.Zone {
	if cfg.ID == "" {
		cfg.ID = string(cfg.Kind)
	}
	base := cfg.ID
	for i := 2; a.zoneID[cfg.ID] != nil; i++ {
		cfg.ID = fmt.Sprintf("%s#%d", base, i)
	}
	z := zone.New(cfg, a.clock.Now(), a.bus)
	a.zones = append(a.zones, z)
	a.zoneID[cfg.ID] = z
	return z
}

// AddProp registers a prop. It returns false when the id is taken.
func (a *Arena) AddProp(p *prop.Prop) bool {
	if p == nil || p.ID() == "" || a.propID[p.ID()] != nil {
		return false
	}
	a.props = append(a.props, p)
	a.propID[p.ID()] = p
	if g, ok := p.Payload().(*prop.Generator); ok {
		a.gens[p.ID()] = g
	}
	return true
}

// AddDoor builds and registers a door. It returns nil when the id is taken.
func (a *Arena) AddDoor(cfg door.Config) *door.Door {
	if cfg.ID == "" || a.doorID[cfg.ID] != nil {
		return nil
	}
	d := door.New(a.catalog.Doors.Config(cfg), a.bus)
	a.doors = append(a.doors, d)
	a.doorID[cfg.ID] = d
	return d
}

// Interact is a player interaction with a prop.
func (a *Arena) Interact(propID string) bool {
	p, ok := a.propID[propID]
	return ok && p.OnPlayerInteract()
}

// DamageProp applies damage to a prop by id.
func (a *Arena) DamageProp(propID string, amount float64, source string) bool {
	p, ok := a.propID[propID]
	return ok && p.TakeDamage(amount, source)
}

// RepairGenerator restores a broken generator.
func (a *Arena) RepairGenerator(id string) bool {
	g, ok := a.gens[id]
	return ok && g.Repair()
}

func (a *Arena) Zone(id string) *zone.Zone           { return a.zoneID[id] }
func (a *Arena) Prop(id string) *prop.Prop           { return a.propID[id] }
func (a *Arena) Door(id string) *door.Door           { return a.doorID[id] }
func (a *Arena) Generator(id string) *prop.Generator { return a.gens[id] }

func (a *Arena) Zones() []*zone.Zone { return append([]*zone.Zone(nil), a.zones...) }
func (a *Arena) Props() []*prop.Prop { return append([]*prop.Prop(nil), a.props...) }
func (a *Arena) Doors() []*door.Door { return append([]*door.Door(nil), a.doors...) }

func (a *Arena) World() *ecs.World         { return a.world }
func (a *Arena) Catalog() *prefabs.Catalog { return a.catalog }
func (a *Arena) Overlay() *DebugOverlay    { return a.overlay }
func (a *Arena) Pending() int              { return a.queue.Pending() }
func (a *Arena) Frame() uint64             { return a.clock.Frame() }
