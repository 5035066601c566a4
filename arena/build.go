package arena

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadzone/door"
	"github.com/milk9111/deadzone/ecs"
	"github.com/milk9111/deadzone/ecs/component"
	"github.com/milk9111/deadzone/levels"
	"github.com/milk9111/deadzone/prefabs"
	"github.com/milk9111/deadzone/prop"
	"github.com/milk9111/deadzone/zone"
	"github.com/pkg/errors"
)

// Build creates an arena populated from a layout.
func Build(l *levels.Layout, opts Options) (*Arena, error) {
	if l == nil {
		return nil, errors.New("arena: nil layout")
	}
	if err := l.CheckCatalog(opts.Catalog); err != nil {
		return nil, errors.Wrapf(err, "arena: %s", l.Name)
	}
	a := New(opts)
	bounds := a.world.CreateEntity()
	_ = ecs.Add(a.world, bounds, component.LevelBoundsComponent.Kind(), &component.LevelBounds{Width: l.Width, Height: l.Height})
	a.AddPlayer(mgl64.Vec2{l.Player.X, l.Player.Y})

	for i, e := range l.Entities {
		if err := a.place(e); err != nil {
			return nil, errors.Wrapf(err, "arena: %s entity %d (%q)", l.Name, i, e.ID)
		}
	}

	// zones built after their generator need its current state
	for _, g := range a.gens {
		g.Broadcast()
	}
	return a, nil
}

func (a *Arena) place(e levels.Entity) error {
	pos := mgl64.Vec2{e.X, e.Y}
	switch e.Type {
	case levels.TypeZone:
		entry, err := e.Zone()
		if err != nil {
			return err
		}
		cfg := a.catalog.Hazards.Zone(zone.Kind(entry.Kind))
		cfg.ID = e.ID
		cfg.Center = pos
		cfg.LinkedGeneratorID = entry.Generator
		cfg.LinkedSwitchID = entry.Switch
		cfg.StartInactive = entry.StartInactive
		if entry.Radius > 0 {
			cfg.Radius = entry.Radius
		}
		if entry.DurationMS != nil {
			cfg.Duration = time.Duration(*entry.DurationMS) * time.Millisecond
		}
		a.AddZone(cfg)

	case levels.TypeProp:
		entry, err := e.Prop()
		if err != nil {
			return err
		}
		p, err := a.buildProp(e.ID, pos, entry)
		if err != nil {
			return err
		}
		if !a.AddProp(p) {
			return errors.Errorf("duplicate prop id %q", e.ID)
		}

	case levels.TypeDoor:
		entry, err := e.Door()
		if err != nil {
			return err
		}
		side, _ := door.ParseSide(entry.Side)
		d := a.AddDoor(door.Config{ID: e.ID, Side: side, Position: pos, StartActive: entry.Active})
		if d == nil {
			return errors.Errorf("duplicate door id %q", e.ID)
		}
		if entry.Barricade != "" && !d.Barricade(door.BarricadeType(entry.Barricade)) {
			return errors.Errorf("door %q refused barricade %q", e.ID, entry.Barricade)
		}
		if entry.Trap != "" {
			trap, ok := a.catalog.Doors.Trap(door.TrapType(entry.Trap))
			if !ok || !d.SetTrap(trap.Type, trap.Charges, trap.Payload) {
				return errors.Errorf("door %q refused trap %q", e.ID, entry.Trap)
			}
		}

	case levels.TypeEnemy:
		entry, err := e.Enemy()
		if err != nil {
			return err
		}
		stats := enemyStats(entry.Kind)
		if entry.Health > 0 {
			stats.Health = entry.Health
		}
		if entry.Speed > 0 {
			stats.Speed = entry.Speed
		}
		if entry.Radius > 0 {
			stats.Radius = entry.Radius
		}
		stats.Invisible = stats.Invisible || entry.Invisible
		a.AddEnemy(entry.Kind, pos, stats)

	default:
		return errors.Errorf("unknown entity type %q", e.Type)
	}
	return nil
}

// buildProp turns a layout entry into a prop, filling unset tuning from the
// catalog.
func (a *Arena) buildProp(id string, pos mgl64.Vec2, entry levels.PropEntry) (*prop.Prop, error) {
	kind := prop.Kind(entry.Kind)
	base, _ := a.catalog.Props.Prop(entry.Kind)
	spec := entry.PropSpec.Merge(base)

	cfg := prop.Config{
		ID:              id,
		Kind:            kind,
		Position:        pos,
		Health:          spec.Health,
		Charges:         spec.Charges,
		Cooldown:        spec.Cooldown(),
		LinkedID:        entry.Link,
		ProximityRadius: spec.ProximityRadius,
		ProximityKinds:  entry.ProximityKinds,
	}
	if entry.Trigger != "" {
		t, ok := prop.ParseTriggerType(entry.Trigger)
		if !ok {
			return nil, errors.Errorf("unknown trigger %q", entry.Trigger)
		}
		cfg.Trigger = t
	}

	switch kind {
	case prop.KindBarrel:
		return prop.NewBarrel(cfg, spec.Damage, spec.Radius, a).Prop, nil
	case prop.KindIncendiaryBarrel:
		return prop.NewIncendiaryBarrel(cfg, spec.Damage, spec.Radius, spec.ZoneConfig(a.catalog.Hazards), a).Prop, nil
	case prop.KindSwitch:
		return prop.NewSwitch(cfg, entry.Targets, entry.Active, a).Prop, nil
	case prop.KindGenerator:
		return prop.NewGenerator(cfg, entry.Zones, entry.Active, a).Prop, nil
	case prop.KindFlameTrap:
		return prop.NewFlameTrap(cfg, spec.Nozzle(), spec.ZoneConfig(a.catalog.Hazards), a).Prop, nil
	case prop.KindBladeTrap:
		return prop.NewBladeTrap(cfg, spec.Radius, spec.Damage, spec.HitCooldown(), entry.Active, a).Prop, nil
	case prop.KindScripted:
		src, err := prefabs.LoadScript(entry.Script)
		if err != nil {
			return nil, errors.Wrapf(err, "load script %q", entry.Script)
		}
		s, err := prop.NewScripted(cfg, src, a)
		if err != nil {
			return nil, err
		}
		return s.Prop, nil
	}
	return nil, errors.Errorf("unknown prop kind %q", entry.Kind)
}
