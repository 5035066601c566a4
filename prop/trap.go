package prop

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadzone/bus"
	"github.com/milk9111/deadzone/ecs"
	"github.com/milk9111/deadzone/zone"
)

// FlameTrap vents a short-lived fire zone at its nozzle each time it fires.
// Any switch toggle fires it, on or off.
type FlameTrap struct {
	*Prop
	Nozzle mgl64.Vec2
	Jet    zone.Config
	jets   int
}

// NewFlameTrap builds a flame trap. The nozzle is an offset from the prop
// position.
func NewFlameTrap(cfg Config, nozzle mgl64.Vec2, jet zone.Config, env Env) *FlameTrap {
	if cfg.Kind == "" {
		cfg.Kind = KindFlameTrap
	}
	if jet.Kind == "" {
		jet.Kind = zone.KindFire
	}
	f := &FlameTrap{Nozzle: nozzle, Jet: jet}
	f.Prop = New(cfg, f, env)
	return f
}

func (f *FlameTrap) Fire(p *Prop, source string) {
	if p.env == nil {
		return
	}
	f.jets++
	jet := f.Jet
	jet.ID = p.ID() + ".jet"
	jet.Center = p.Position().Add(f.Nozzle)
	p.env.SpawnZone(jet)
}

// Jets counts how many times the trap has vented.
func (f *FlameTrap) Jets() int { return f.jets }

// BladeTrap is a persistent rotating hazard. While active it cuts every
// target within radius, at most once per HitCooldown each.
type BladeTrap struct {
	*Prop
	Radius       float64
	Damage       float64
	HitCooldown  time.Duration
	AngularSpeed float64

	active     bool
	angle      float64
	lastUpdate time.Duration
	started    bool
	hits       map[ecs.Entity]time.Duration
}

// NewBladeTrap builds an unlimited blade trap with no trigger cooldown.
// Firing toggles it; a switch broadcast sets it to the switch position.
func NewBladeTrap(cfg Config, radius, damage float64, hitCooldown time.Duration, alwaysActive bool, env Env) *BladeTrap {
	if cfg.Kind == "" {
		cfg.Kind = KindBladeTrap
	}
	cfg.Charges = Unlimited
	cfg.Cooldown = 0
	b := &BladeTrap{
		Radius:       radius,
		Damage:       damage,
		HitCooldown:  hitCooldown,
		AngularSpeed: 2 * math.Pi,
		active:       alwaysActive,
		hits:         make(map[ecs.Entity]time.Duration),
	}
	b.Prop = New(cfg, b, env)
	return b
}

func (b *BladeTrap) Fire(p *Prop, source string) {
	b.SetActive(!b.active)
}

// FollowSwitch matches the blades to the switch position.
func (b *BladeTrap) FollowSwitch(p *Prop, on bool) {
	b.SetActive(on)
}

// SetActive starts or stops the blades.
func (b *BladeTrap) SetActive(active bool) {
	if b.active == active || b.Destroyed() {
		return
	}
	b.active = active
	if !active {
		clear(b.hits)
	}
	b.publish(bus.TopicPropActive, active)
}

func (b *BladeTrap) Step(p *Prop, now time.Duration) {
	dt := time.Duration(0)
	if b.started {
		dt = now - b.lastUpdate
	}
	b.lastUpdate = now
	b.started = true
	if !b.active || p.env == nil {
		return
	}

	b.angle = math.Mod(b.angle+b.AngularSpeed*dt.Seconds(), 2*math.Pi)
	for e, at := range b.hits {
		if now-at >= b.HitCooldown {
			delete(b.hits, e)
		}
	}
	for _, t := range p.env.TargetsInRadius(p.Position(), b.Radius) {
		if _, cooling := b.hits[t.Entity]; cooling {
			continue
		}
		b.hits[t.Entity] = now
		p.env.DamageTarget(t.Entity, b.Damage, string(KindBladeTrap))
	}
}

func (b *BladeTrap) Active() bool   { return b.active && !b.Destroyed() }
func (b *BladeTrap) Angle() float64 { return b.angle }
