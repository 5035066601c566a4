package prop

import "github.com/milk9111/deadzone/bus"

// Generator powers linked zones. At zero health it breaks instead of being
// destroyed, cutting power until repaired.
type Generator struct {
	*Prop
	ZoneIDs []string
	active  bool
}

// NewGenerator builds a recoverable on-interact generator.
func NewGenerator(cfg Config, zoneIDs []string, startActive bool, env Env) *Generator {
	if cfg.Kind == "" {
		cfg.Kind = KindGenerator
	}
	cfg.Trigger = OnInteract
	cfg.Charges = Unlimited
	cfg.Recoverable = true
	g := &Generator{ZoneIDs: append([]string(nil), zoneIDs...), active: startActive}
	g.Prop = New(cfg, g, env)
	return g
}

// Fire toggles power.
func (g *Generator) Fire(p *Prop, source string) {
	g.setActive(!g.active)
}

func (g *Generator) OnBreak(p *Prop) {
	g.setActive(false)
}

// Repair clears a break, restores full health and powers the generator up.
func (g *Generator) Repair() bool {
	if !g.restore() {
		return false
	}
	g.setActive(true)
	return true
}

// Broadcast republishes the current power state, used when linked zones are
// created after the generator.
func (g *Generator) Broadcast() {
	g.publish(bus.TopicGenerator, bus.GeneratorPower{GeneratorID: g.ID(), Active: g.active, ZoneIDs: g.ZoneIDs})
}

func (g *Generator) setActive(active bool) {
	if g.active == active {
		return
	}
	g.active = active
	g.publish(bus.TopicPropActive, active)
	g.Broadcast()
}

// Active reports whether the generator is supplying power.
func (g *Generator) Active() bool { return g.active && !g.Broken() && !g.Destroyed() }
