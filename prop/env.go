package prop

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadzone/bus"
	"github.com/milk9111/deadzone/ecs"
	"github.com/milk9111/deadzone/zone"
)

// Target is a damageable entity near a prop.
type Target struct {
	Entity   ecs.Entity
	Position mgl64.Vec2
	Kind     string
}

// Env is everything a payload may reach outside its own prop. The arena
// implements it; tests use small fakes.
type Env interface {
	Now() time.Duration
	Bus() *bus.Bus
	// After runs job on a later frame, no earlier than delay from now.
	After(delay time.Duration, job func())
	Jitter(min, max time.Duration) time.Duration
	TargetsInRadius(center mgl64.Vec2, radius float64) []Target
	DamageTarget(e ecs.Entity, amount float64, source string) bool
	PropsInRadius(center mgl64.Vec2, radius float64) []*Prop
	SpawnZone(cfg zone.Config) *zone.Zone
	// ZonePreset is the current tuning for a zone kind.
	ZonePreset(kind zone.Kind) zone.Config
}

// Payload is the variant-specific effect run by a successful trigger.
type Payload interface {
	Fire(p *Prop, source string)
}

// Stepper is implemented by payloads with per-frame behaviour.
type Stepper interface {
	Step(p *Prop, now time.Duration)
}

// SwitchFollower is implemented by payloads that mirror the switch position
// instead of firing through the charge and cooldown economy.
type SwitchFollower interface {
	FollowSwitch(p *Prop, on bool)
}

// Breaker is notified when a recoverable prop reaches zero health.
type Breaker interface {
	OnBreak(p *Prop)
}
