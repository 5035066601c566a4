package prop

import (
	"math"
	"time"

	"github.com/milk9111/deadzone/bus"
	"github.com/milk9111/deadzone/zone"
)

const (
	ChainRangeFactor  = 1.2
	ChainDamageFactor = 0.5
	ChainDelayMin     = 50 * time.Millisecond
	ChainDelayMax     = 150 * time.Millisecond
)

// Explosion is the payload of bus.TopicExplosion.
type Explosion struct {
	Damage float64
	Radius float64
}

// Barrel explodes once, damaging everything in radius with linear falloff and
// setting off nearby props a moment later.
type Barrel struct {
	*Prop
	Damage float64
	Radius float64
}

// NewBarrel builds a single-charge, on-damage explosive barrel.
func NewBarrel(cfg Config, damage, radius float64, env Env) *Barrel {
	if cfg.Kind == "" {
		cfg.Kind = KindBarrel
	}
	cfg.Trigger = OnDamage
	cfg.Charges = 1
	b := &Barrel{Damage: damage, Radius: radius}
	b.Prop = New(cfg, b, env)
	return b
}

func (b *Barrel) Fire(p *Prop, source string) {
	explode(p, b.Damage, b.Radius)
}

func explode(p *Prop, damage, radius float64) {
	if p.env == nil || radius <= 0 {
		return
	}
	env := p.env
	center := p.Position()
	p.publish(bus.TopicExplosion, Explosion{Damage: damage, Radius: radius})

	for _, t := range env.TargetsInRadius(center, radius) {
		d := t.Position.Sub(center).Len()
		if d > radius {
			continue
		}
		amount := math.Floor(damage * (1 - d/radius))
		if amount > 0 {
			env.DamageTarget(t.Entity, amount, SourceExplosion)
		}
	}

	chain := damage * ChainDamageFactor
	for _, other := range env.PropsInRadius(center, radius*ChainRangeFactor) {
		if other == p || other.Destroyed() {
			continue
		}
		target := other
		env.After(env.Jitter(ChainDelayMin, ChainDelayMax), func() {
			if target.Destroyed() {
				return
			}
			target.TakeDamage(chain, SourceChain)
		})
	}
}

// IncendiaryBarrel explodes and leaves a burning zone behind.
type IncendiaryBarrel struct {
	*Prop
	Damage float64
	Radius float64
	Flames zone.Config
}

// NewIncendiaryBarrel builds a single-charge barrel whose explosion spawns
// flames centered on the barrel.
func NewIncendiaryBarrel(cfg Config, damage, radius float64, flames zone.Config, env Env) *IncendiaryBarrel {
	if cfg.Kind == "" {
		cfg.Kind = KindIncendiaryBarrel
	}
	cfg.Trigger = OnDamage
	cfg.Charges = 1
	if flames.Kind == "" {
		flames.Kind = zone.KindFire
	}
	b := &IncendiaryBarrel{Damage: damage, Radius: radius, Flames: flames}
	b.Prop = New(cfg, b, env)
	return b
}

func (b *IncendiaryBarrel) Fire(p *Prop, source string) {
	explode(p, b.Damage, b.Radius)
	if p.env == nil {
		return
	}
	flames := b.Flames
	flames.ID = p.ID() + ".flames"
	flames.Center = p.Position()
	p.env.SpawnZone(flames)
}
