// Package zone implements area-effect hazards: radius-bounded regions that
// track the entities standing in them and apply throttled damage, slow
// pulses, and reveal marks.
package zone

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadzone/bus"
	"github.com/milk9111/deadzone/ecs"
)

const (
	DefaultTickRate   = 500 * time.Millisecond
	SlowPulseDuration = 200 * time.Millisecond
	FadeWindow        = 500 * time.Millisecond

	// MaxCatchUp caps the applications one frame may deliver to a member.
	// Frames up to MaxCatchUp periods apart lose nothing; longer stalls drop
	// the backlog.
	MaxCatchUp = 2

	// ExitMargin is how far past the radius a member may drift before it is
	// considered to have left. Keeps entities on the rim from flickering.
	ExitMargin = 4.0
)

// Candidate is an entity offered to a zone for containment testing.
type Candidate struct {
	Entity   ecs.Entity
	Position mgl64.Vec2
}

// Effects applies zone effects to entities. Implementations must treat an
// entity without a damage handler as a no-op.
type Effects interface {
	Damage(e ecs.Entity, amount float64, source string) bool
	Slow(e ecs.Entity, factor float64, d time.Duration)
	Reveal(e ecs.Entity)
}

// Config describes a zone. SlowFactor is a speed multiplier: 1 means no slow.
// Duration 0 makes the zone permanent.
type Config struct {
	ID                  string
	Kind                Kind
	Center              mgl64.Vec2
	Radius              float64
	Duration            time.Duration
	SlowFactor          float64
	DamagePerSecond     float64
	RevealInvisibles    bool
	ConductsElectricity bool
	TickRate            time.Duration
	LinkedGeneratorID   string
	LinkedSwitchID      string
	StartInactive       bool
}

// Zone is a single area-effect hazard. It is the only authority on its own
// membership: callers offer candidates, the zone decides who is inside.
type Zone struct {
	cfg       Config
	createdAt time.Duration

	members  []ecs.Entity
	inside   map[ecs.Entity]struct{}
	lastTick map[ecs.Entity]time.Duration

	active      bool
	destroyed   bool
	electrified float64

	bus   *bus.Bus
	unsub []func()
}

// New creates a zone at time now. When b is non-nil the zone publishes its
// lifecycle on it and listens for generator power and switch broadcasts.
func New(cfg Config, now time.Duration, b *bus.Bus) *Zone {
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultTickRate
	}
	cfg.SlowFactor = clamp01(cfg.SlowFactor)
	if cfg.Radius < 0 {
		cfg.Radius = 0
	}
	z := &Zone{
		cfg:       cfg,
		createdAt: now,
		inside:    make(map[ecs.Entity]struct{}),
		lastTick:  make(map[ecs.Entity]time.Duration),
		active:    !cfg.StartInactive,
		bus:       b,
	}
	if b != nil {
		z.unsub = append(z.unsub,
			b.Subscribe(bus.TopicGenerator, z.onGeneratorPower),
			b.Subscribe(bus.TopicSwitch, z.onSwitchToggled),
		)
	}
	z.publish(bus.TopicZoneSpawn, nil)
	return z
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 1
	}
	return math.Max(0, math.Min(1, v))
}

func (z *Zone) onGeneratorPower(ev bus.Event) {
	p, ok := ev.Data.(bus.GeneratorPower)
	if !ok {
		return
	}
	if (z.cfg.LinkedGeneratorID != "" && p.GeneratorID == z.cfg.LinkedGeneratorID) || bus.Listed(p.ZoneIDs, z.cfg.ID) {
		z.SetActive(p.Active)
	}
}

// onSwitchToggled powers the zone to the switch position when the switch is
// linked or lists the zone among its targets.
func (z *Zone) onSwitchToggled(ev bus.Event) {
	msg, ok := ev.Data.(bus.SwitchToggled)
	if !ok {
		return
	}
	if (z.cfg.LinkedSwitchID != "" && msg.SwitchID == z.cfg.LinkedSwitchID) || bus.Listed(msg.Targets, z.cfg.ID) {
		z.SetActive(msg.On)
	}
}

func (z *Zone) publish(topic string, data any) {
	if z == nil || z.bus == nil {
		return
	}
	z.bus.Publish(bus.Event{Topic: topic, SourceID: z.cfg.ID, Kind: string(z.cfg.Kind), Position: z.cfg.Center, Data: data})
}

// Tick reconciles membership against candidates, applies effects to every
// member, and expires a timed zone. It returns true exactly once, on the
// tick the zone expires; the caller removes the zone after the tick.
func (z *Zone) Tick(now time.Duration, candidates []Candidate, fx Effects) bool {
	if z == nil || z.destroyed {
		return false
	}

	if z.active {
		z.reconcile(now, candidates, fx)
		z.apply(now, fx)
	} else {
		z.releaseAll()
	}
	z.electrified = 0

	if z.Expired(now) {
		z.Destroy()
		return true
	}
	return false
}

func (z *Zone) reconcile(now time.Duration, candidates []Candidate, fx Effects) {
	offered := make(map[ecs.Entity]struct{}, len(candidates))
	for _, c := range candidates {
		offered[c.Entity] = struct{}{}
		dist := c.Position.Sub(z.cfg.Center).Len()
		if z.Contains(c.Entity) {
			if dist > z.cfg.Radius+ExitMargin {
				z.OnEntityExit(c.Entity)
			}
			continue
		}
		if dist <= z.cfg.Radius {
			z.OnEntityEnter(c.Entity, now, fx)
		}
	}
	for _, e := range append([]ecs.Entity(nil), z.members...) {
		if _, ok := offered[e]; !ok {
			z.OnEntityExit(e)
		}
	}
}

func (z *Zone) apply(now time.Duration, fx Effects) {
	if fx == nil {
		return
	}
	dps := z.DamagePerSecond()
	source := string(z.cfg.Kind)
	if z.electrified > 0 {
		source = string(KindElectric)
	}
	tick := z.cfg.TickRate
	for _, e := range z.members {
		if dps > 0 {
			last, ok := z.lastTick[e]
			if !ok {
				last = now
			}
			for n := 0; n < MaxCatchUp && now-last >= tick; n++ {
				fx.Damage(e, dps*tick.Seconds(), source)
				last += tick
			}
			if now-last >= tick {
				last = now
			}
			z.lastTick[e] = last
		}
		if z.cfg.SlowFactor < 1 {
			fx.Slow(e, z.cfg.SlowFactor, SlowPulseDuration)
		}
		if z.cfg.RevealInvisibles {
			fx.Reveal(e)
		}
	}
}

// OnEntityEnter adds e to the zone. Entering applies an immediate slow pulse
// and starts the entity's damage clock. Calling it for a member is a no-op.
func (z *Zone) OnEntityEnter(e ecs.Entity, now time.Duration, fx Effects) bool {
	if z == nil || z.destroyed || !z.active || z.Contains(e) {
		return false
	}
	z.inside[e] = struct{}{}
	z.members = append(z.members, e)
	if z.DamagePerSecond() > 0 {
		z.lastTick[e] = now
	}
	if fx != nil && z.cfg.SlowFactor < 1 {
		fx.Slow(e, z.cfg.SlowFactor, SlowPulseDuration)
	}
	z.publish(bus.TopicZoneEnter, e)
	return true
}

// OnEntityExit removes e from the zone. Calling it for a non-member is a no-op.
func (z *Zone) OnEntityExit(e ecs.Entity) bool {
	if z == nil || !z.Contains(e) {
		return false
	}
	delete(z.inside, e)
	delete(z.lastTick, e)
	for i, m := range z.members {
		if m == e {
			z.members = append(z.members[:i], z.members[i+1:]...)
			break
		}
	}
	z.publish(bus.TopicZoneExit, e)
	return true
}

func (z *Zone) releaseAll() {
	for len(z.members) > 0 {
		z.OnEntityExit(z.members[0])
	}
}

// Electrify adds dps of electric damage for the next tick only.
func (z *Zone) Electrify(dps float64) {
	if z == nil || !z.cfg.ConductsElectricity || dps <= 0 {
		return
	}
	z.electrified += dps
}

// SetActive powers the zone on or off. An inactive zone applies nothing and
// releases its members on the next tick.
func (z *Zone) SetActive(active bool) {
	if z == nil || z.destroyed || z.active == active {
		return
	}
	z.active = active
	z.publish(bus.TopicZonePower, active)
}

// Destroy removes the zone from play. It publishes the destroy notification
// once and stops listening on the bus; later calls return false.
func (z *Zone) Destroy() bool {
	if z == nil || z.destroyed {
		return false
	}
	z.releaseAll()
	z.destroyed = true
	z.publish(bus.TopicZoneDestroy, nil)
	for _, unsub := range z.unsub {
		unsub()
	}
	z.unsub = nil
	return true
}

// Expired reports whether a timed zone has outlived its duration.
func (z *Zone) Expired(now time.Duration) bool {
	return z != nil && z.cfg.Duration > 0 && now-z.createdAt >= z.cfg.Duration
}

// Alpha returns the presentation opacity: 1, ramping to 0 over the final
// FadeWindow of a timed zone.
func (z *Zone) Alpha(now time.Duration) float64 {
	if z == nil || z.destroyed {
		return 0
	}
	if z.cfg.Duration <= 0 {
		return 1
	}
	left := z.cfg.Duration - (now - z.createdAt)
	if left >= FadeWindow {
		return 1
	}
	if left <= 0 {
		return 0
	}
	return float64(left) / float64(FadeWindow)
}

// Overlaps reports whether two zones' areas intersect.
func (z *Zone) Overlaps(other *Zone) bool {
	if z == nil || other == nil {
		return false
	}
	return z.cfg.Center.Sub(other.cfg.Center).Len() <= z.cfg.Radius+other.cfg.Radius
}

// Contains reports whether e is currently a member.
func (z *Zone) Contains(e ecs.Entity) bool {
	if z == nil {
		return false
	}
	_, ok := z.inside[e]
	return ok
}

// Members returns the current members in entry order.
func (z *Zone) Members() []ecs.Entity {
	if z == nil {
		return nil
	}
	return append([]ecs.Entity(nil), z.members...)
}

// DamagePerSecond includes any electric charge picked up this frame.
func (z *Zone) DamagePerSecond() float64 {
	if z == nil {
		return 0
	}
	return z.cfg.DamagePerSecond + z.electrified
}

func (z *Zone) ID() string                { return z.cfg.ID }
func (z *Zone) Kind() Kind                { return z.cfg.Kind }
func (z *Zone) Center() mgl64.Vec2        { return z.cfg.Center }
func (z *Zone) Radius() float64           { return z.cfg.Radius }
func (z *Zone) SlowFactor() float64       { return z.cfg.SlowFactor }
func (z *Zone) TickRate() time.Duration   { return z.cfg.TickRate }
func (z *Zone) CreatedAt() time.Duration  { return z.createdAt }
func (z *Zone) Duration() time.Duration   { return z.cfg.Duration }
func (z *Zone) RevealsInvisibles() bool   { return z.cfg.RevealInvisibles }
func (z *Zone) ConductsElectricity() bool { return z.cfg.ConductsElectricity }
func (z *Zone) LinkedGeneratorID() string { return z.cfg.LinkedGeneratorID }
func (z *Zone) LinkedSwitchID() string    { return z.cfg.LinkedSwitchID }
func (z *Zone) Active() bool              { return z != nil && z.active && !z.destroyed }
func (z *Zone) Destroyed() bool           { return z == nil || z.destroyed }
