package arena

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadzone/bus"
	"github.com/milk9111/deadzone/ecs"
	"github.com/milk9111/deadzone/ecs/component"
	"github.com/milk9111/deadzone/prop"
	"github.com/milk9111/deadzone/zone"
)

const (
	// RevealLinger is how long a reveal mark outlives the last frame it was
	// refreshed.
	RevealLinger = 250 * time.Millisecond
	// HitFlash is how long an entity blinks after taking damage.
	HitFlash         = 200 * time.Millisecond
	hitFlashInterval = 50 * time.Millisecond
)

func (a *Arena) Now() time.Duration { return a.clock.Now() }
func (a *Arena) Bus() *bus.Bus      { return a.bus }

// After schedules job on the deferred queue. It never runs this frame.
func (a *Arena) After(delay time.Duration, job func()) {
	a.queue.After(delay, job)
}

// Jitter returns a uniform duration in [min, max].
func (a *Arena) Jitter(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(a.rng.Int63n(int64(max-min)+1))
}

// TargetsInRadius returns live entities with health whose position lies
// within radius of center.
func (a *Arena) TargetsInRadius(center mgl64.Vec2, radius float64) []prop.Target {
	var out []prop.Target
	for _, c := range a.candidates(center, radius) {
		if c.Position.Sub(center).Len() > radius {
			continue
		}
		h, ok := ecs.Get(a.world, c.Entity, component.HealthComponent.Kind())
		if !ok || !h.IsAlive() {
			continue
		}
		kind, _ := a.kindOf(c.Entity)
		out = append(out, prop.Target{Entity: c.Entity, Position: c.Position, Kind: kind})
	}
	return out
}

// DamageTarget hurts an entity. Entities without health are ignored.
func (a *Arena) DamageTarget(e ecs.Entity, amount float64, source string) bool {
	h, ok := ecs.Get(a.world, e, component.HealthComponent.Kind())
	if !ok || !h.ApplyDamage(amount, source) {
		return false
	}
	if wf, ok := ecs.Get(a.world, e, component.WhiteFlashComponent.Kind()); ok {
		wf.Remaining = HitFlash
		return true
	}
	_ = ecs.Add(a.world, e, component.WhiteFlashComponent.Kind(), &component.WhiteFlash{Remaining: HitFlash, Interval: hitFlashInterval, On: true})
	return true
}

// PropsInRadius returns live props positioned within radius of center.
func (a *Arena) PropsInRadius(center mgl64.Vec2, radius float64) []*prop.Prop {
	var out []*prop.Prop
	for _, p := range a.props {
		if p.Destroyed() || p.Position().Sub(center).Len() > radius {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SpawnZone adds a zone at runtime. It starts ticking next frame.
func (a *Arena) SpawnZone(cfg zone.Config) *zone.Zone {
	return a.AddZone(cfg)
}

// ZonePreset returns the catalog tuning for a zone kind.
func (a *Arena) ZonePreset(kind zone.Kind) zone.Config {
	return a.catalog.Hazards.Zone(kind)
}

// effects applies zone effects to ECS components.
type effects struct {
	a *Arena
}

func (f effects) Damage(e ecs.Entity, amount float64, source string) bool {
	return f.a.DamageTarget(e, amount, source)
}

func (f effects) Slow(e ecs.Entity, factor float64, d time.Duration) {
	f.a.applySlow(e, factor, d)
}

func (f effects) Reveal(e ecs.Entity) {
	w := f.a.world
	if r, ok := ecs.Get(w, e, component.RevealedComponent.Kind()); ok {
		r.Remaining = max(r.Remaining, RevealLinger)
		return
	}
	_ = ecs.Add(w, e, component.RevealedComponent.Kind(), &component.Revealed{Remaining: RevealLinger})
}

func (a *Arena) applySlow(e ecs.Entity, factor float64, d time.Duration) {
	now := a.clock.Now()
	if s, ok := ecs.Get(a.world, e, component.SlowPulseComponent.Kind()); ok {
		if s.AppliedAt == now && s.Remaining > 0 {
			s.Factor = min(s.Factor, factor)
		} else {
			s.Factor = factor
		}
		s.Remaining = max(s.Remaining, d)
		s.AppliedAt = now
		return
	}
	_ = ecs.Add(a.world, e, component.SlowPulseComponent.Kind(), &component.SlowPulse{Factor: factor, Remaining: d, AppliedAt: now})
}

var (
	_ prop.Env     = (*Arena)(nil)
	_ zone.Effects = effects{}
)
