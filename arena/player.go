package arena

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadzone/door"
	"github.com/milk9111/deadzone/ecs"
	"github.com/milk9111/deadzone/ecs/component"
	"github.com/milk9111/deadzone/prop"
)

const (
	// InteractReach is how close the player must be to use a prop or door.
	InteractReach = 48.0
	// ShotRange and ShotDamage tune the player's sidearm against props.
	ShotRange  = 240.0
	ShotDamage = 25.0
	// BarricadeRepair is the health restored per interaction.
	BarricadeRepair = 25.0
)

// playerActions turns the player's pressed buttons into arena operations.
type playerActions struct {
	arena     *Arena
	nextDoor  int
	spawnKind string
}

func (s *playerActions) Update(w *ecs.World) {
	a := s.arena
	e, ok := a.Player()
	if !ok {
		return
	}
	input, ok := ecs.Get(w, e, component.InputComponent.Kind())
	if !ok {
		return
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	pos := t.Vec()

	if input.InteractPressed || input.ShootPressed || input.RepairPressed || input.SpawnPressed {
		// the controller moved the player after the frame's first sync
		a.syncBroadphase()
	}
	if input.InteractPressed {
		if p := a.nearestProp(pos, InteractReach, func(p *prop.Prop) bool { return p.TriggerType() == prop.OnInteract }); p != nil {
			a.Interact(p.ID())
		} else if d := a.nearestDoor(pos, InteractReach); d != nil {
			if d.HasBarricade() {
				d.RepairBarricade(BarricadeRepair)
			} else {
				d.Barricade(door.BarricadeLight)
			}
		}
	}
	if input.ShootPressed {
		if p := a.nearestProp(pos, ShotRange, nil); p != nil {
			a.DamageProp(p.ID(), ShotDamage, prop.SourcePlayer)
		} else if d := a.nearestDoor(pos, ShotRange); d != nil && d.HasBarricade() {
			d.DamageBarricade(ShotDamage)
		}
	}
	if input.RepairPressed {
		if p := a.nearestProp(pos, InteractReach, func(p *prop.Prop) bool { return p.Broken() }); p != nil {
			a.RepairGenerator(p.ID())
		}
	}
	if input.SpawnPressed {
		s.spawn()
	}
	input.InteractPressed = false
	input.ShootPressed = false
	input.RepairPressed = false
	input.SpawnPressed = false
}

// spawn tries each door once, round robin, starting after the last door used.
func (s *playerActions) spawn() {
	a := s.arena
	n := len(a.doors)
	for i := 0; i < n; i++ {
		d := a.doors[(s.nextDoor+i)%n]
		if _, ok := a.SpawnThrough(d.ID(), s.spawnKind); ok {
			s.nextDoor = (s.nextDoor + i + 1) % n
			return
		}
	}
}

// Player returns the player entity.
func (a *Arena) Player() (ecs.Entity, bool) {
	return ecs.First(a.world, component.PlayerTagComponent.Kind())
}

func (a *Arena) nearestProp(pos mgl64.Vec2, reach float64, keep func(*prop.Prop) bool) *prop.Prop {
	var best *prop.Prop
	bestDist := math.Inf(1)
	for _, p := range a.props {
		if p.Destroyed() || (keep != nil && !keep(p)) {
			continue
		}
		if d := p.Position().Sub(pos).Len(); d <= reach && d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

func (a *Arena) nearestDoor(pos mgl64.Vec2, reach float64) *door.Door {
	var best *door.Door
	bestDist := math.Inf(1)
	for _, d := range a.doors {
		if d.State() == door.Destroyed {
			continue
		}
		if dist := d.Position().Sub(pos).Len(); dist <= reach && dist < bestDist {
			best, bestDist = d, dist
		}
	}
	return best
}
