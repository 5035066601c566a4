// Package prop implements triggerable interactive props: a shared
// charge-and-cooldown state machine with pluggable payloads.
package prop

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadzone/bus"
)

// Unlimited marks a prop that never runs out of charges.
const Unlimited = -1

// Config describes a prop. Health may be math.Inf(1), and zero also means
// indestructible. Charges of zero or Unlimited never run out. Recoverable
// props break at zero health instead of being destroyed.
type Config struct {
	ID              string
	Kind            Kind
	Trigger         TriggerType
	Position        mgl64.Vec2
	Health          float64
	Charges         int
	Cooldown        time.Duration
	LinkedID        string
	ProximityRadius float64
	ProximityKinds  []string
	Recoverable     bool
}

// Prop is the shared state machine behind every interactive object:
// armed -> triggered -> armed | destroyed.
type Prop struct {
	cfg Config

	health     float64
	charges    int
	lastFired  time.Duration
	fired      bool
	destroyed  bool
	broken     bool
	switchedOn bool

	payload Payload
	env     Env
	unsub   func()
}

// New builds a prop. An on-switch prop starts listening on the env's bus
// immediately, so a switch can reach it by its linked id or by listing its id
// in the switch targets.
func New(cfg Config, payload Payload, env Env) *Prop {
	if cfg.Health <= 0 || math.IsNaN(cfg.Health) {
		cfg.Health = math.Inf(1)
	}
	if cfg.Charges == 0 || cfg.Charges < Unlimited {
		cfg.Charges = Unlimited
	}
	p := &Prop{
		cfg:     cfg,
		health:  cfg.Health,
		charges: cfg.Charges,
		payload: payload,
		env:     env,
	}
	if cfg.Trigger == OnSwitch && env != nil && env.Bus() != nil {
		p.unsub = env.Bus().Subscribe(bus.TopicSwitch, p.onSwitchToggled)
	}
	return p
}

func (p *Prop) onSwitchToggled(ev bus.Event) {
	msg, ok := ev.Data.(bus.SwitchToggled)
	if !ok {
		return
	}
	linked := p.cfg.LinkedID != "" && msg.SwitchID == p.cfg.LinkedID
	if !linked && !bus.Listed(msg.Targets, p.cfg.ID) {
		return
	}
	if p.destroyed || p.broken {
		return
	}
	p.switchedOn = msg.On
	if f, ok := p.payload.(SwitchFollower); ok {
		f.FollowSwitch(p, msg.On)
		return
	}
	p.Trigger(SourceSwitch)
}

func (p *Prop) now() time.Duration {
	if p.env == nil {
		return 0
	}
	return p.env.Now()
}

func (p *Prop) publish(topic string, data any) {
	if p.env == nil || p.env.Bus() == nil {
		return
	}
	p.env.Bus().Publish(bus.Event{Topic: topic, SourceID: p.cfg.ID, Kind: string(p.cfg.Kind), Position: p.cfg.Position, Data: data})
}

// CanTrigger reports whether a trigger would succeed right now.
func (p *Prop) CanTrigger() bool {
	if p == nil || p.destroyed || p.broken || p.charges == 0 {
		return false
	}
	return !p.fired || p.now()-p.lastFired >= p.cfg.Cooldown
}

// Trigger fires the payload if the prop is armed. A prop whose last charge
// is spent is destroyed after the payload runs.
func (p *Prop) Trigger(source string) bool {
	if !p.CanTrigger() {
		return false
	}
	p.lastFired = p.now()
	p.fired = true
	if p.charges > 0 {
		p.charges--
	}
	p.publish(bus.TopicPropTrigger, source)
	if p.payload != nil {
		p.payload.Fire(p, source)
	}
	if p.charges == 0 {
		p.destroy()
	}
	return true
}

// TakeDamage subtracts health. On-damage props trigger on every non-zero hit.
// It returns true when the prop was destroyed or broken by this call.
func (p *Prop) TakeDamage(amount float64, source string) bool {
	if p == nil || p.destroyed || p.broken || !(amount > 0) {
		return false
	}
	p.health -= amount
	p.publish(bus.TopicPropDamage, amount)

	if p.cfg.Trigger == OnDamage {
		p.Trigger(source)
		if p.destroyed {
			return true
		}
	}
	if p.health > 0 {
		return false
	}
	if p.cfg.Recoverable {
		p.health = 0
		p.broken = true
		p.publish(bus.TopicPropBroken, source)
		if b, ok := p.payload.(Breaker); ok {
			b.OnBreak(p)
		}
		return true
	}
	p.destroy()
	return true
}

// OnPlayerInteract fires an on-interact prop.
func (p *Prop) OnPlayerInteract() bool {
	if p == nil || p.cfg.Trigger != OnInteract {
		return false
	}
	return p.Trigger(SourcePlayer)
}

// OnEntityProximity fires an on-proximity prop when kind passes its filter.
// An empty filter accepts every kind.
func (p *Prop) OnEntityProximity(kind string) bool {
	if p == nil || p.cfg.Trigger != OnProximity {
		return false
	}
	if len(p.cfg.ProximityKinds) > 0 && !bus.Listed(p.cfg.ProximityKinds, kind) {
		return false
	}
	return p.Trigger(SourceProximity)
}

// OnSwitchActivated fires an on-switch prop linked to linkID.
func (p *Prop) OnSwitchActivated(linkID string) bool {
	if p == nil || p.cfg.Trigger != OnSwitch || linkID == "" || linkID != p.cfg.LinkedID {
		return false
	}
	return p.Trigger(SourceSwitch)
}

// Update drives payloads with per-frame behaviour.
func (p *Prop) Update(now time.Duration) {
	if p == nil || p.destroyed {
		return
	}
	if s, ok := p.payload.(Stepper); ok {
		s.Step(p, now)
	}
}

// Destroy removes the prop from play. Safe to call more than once.
func (p *Prop) Destroy() bool {
	if p == nil || p.destroyed {
		return false
	}
	p.destroy()
	return true
}

func (p *Prop) destroy() {
	p.destroyed = true
	if p.unsub != nil {
		p.unsub()
		p.unsub = nil
	}
	p.publish(bus.TopicPropDestroy, nil)
}

// restore clears a break and refills health.
func (p *Prop) restore() bool {
	if p == nil || p.destroyed || !p.broken {
		return false
	}
	p.broken = false
	p.health = p.cfg.Health
	p.publish(bus.TopicPropRepaired, nil)
	return true
}

func (p *Prop) ID() string                   { return p.cfg.ID }
func (p *Prop) Kind() Kind                   { return p.cfg.Kind }
func (p *Prop) TriggerType() TriggerType     { return p.cfg.Trigger }
func (p *Prop) Position() mgl64.Vec2         { return p.cfg.Position }
func (p *Prop) LinkedID() string             { return p.cfg.LinkedID }
func (p *Prop) ProximityRadius() float64     { return p.cfg.ProximityRadius }
func (p *Prop) Health() float64              { return p.health }
func (p *Prop) MaxHealth() float64           { return p.cfg.Health }
func (p *Prop) Charges() int                 { return p.charges }
func (p *Prop) MaxCharges() int              { return p.cfg.Charges }
func (p *Prop) Cooldown() time.Duration      { return p.cfg.Cooldown }
func (p *Prop) LastTriggered() time.Duration { return p.lastFired }
func (p *Prop) Triggered() bool              { return p.fired }
func (p *Prop) Broken() bool                 { return p != nil && p.broken }
func (p *Prop) Payload() Payload             { return p.payload }

// SwitchOn is the state carried by the last switch broadcast this prop heard.
func (p *Prop) SwitchOn() bool { return p.switchedOn }

// Destroyed is nil-safe so deferred jobs can hold stale pointers.
func (p *Prop) Destroyed() bool { return p == nil || p.destroyed }
