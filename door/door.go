// Package door models enemy spawn doors: a core lifecycle plus an optional
// barricade and an optional trap, each changing independently.
package door

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadzone/bus"
)

const (
	DefaultOpenDuration     = 300 * time.Millisecond
	DefaultSpawnOffset      = 24.0
	DefaultDestroyedSpeedup = 1.5
)

// Config describes a door. Zero durations and multipliers take defaults.
type Config struct {
	ID                       string
	Side                     Side
	Position                 mgl64.Vec2
	SpawnOffset              float64
	OpenDuration             time.Duration
	DestroyedSpeedMultiplier float64
	StartActive              bool
	// BarricadeHealth overrides the package table when set.
	BarricadeHealth map[BarricadeType]float64
}

// Door is a single spawn door.
type Door struct {
	cfg      Config
	state    State
	openedAt time.Duration

	barricade *Barricade
	trap      *Trap

	bus *bus.Bus
}

// New builds a door. b may be nil.
func New(cfg Config, b *bus.Bus) *Door {
	if cfg.SpawnOffset <= 0 {
		cfg.SpawnOffset = DefaultSpawnOffset
	}
	if cfg.OpenDuration <= 0 {
		cfg.OpenDuration = DefaultOpenDuration
	}
	if cfg.DestroyedSpeedMultiplier <= 1 {
		cfg.DestroyedSpeedMultiplier = DefaultDestroyedSpeedup
	}
	d := &Door{cfg: cfg, bus: b}
	if cfg.StartActive {
		d.state = Active
	}
	return d
}

func (d *Door) publish(topic string, data any) {
	if d.bus == nil {
		return
	}
	d.bus.Publish(bus.Event{Topic: topic, SourceID: d.cfg.ID, Kind: d.cfg.Side.String(), Position: d.cfg.Position, Data: data})
}

// Activate moves an inactive door into service.
func (d *Door) Activate() bool {
	if d.state != Inactive {
		return false
	}
	d.state = Active
	d.publish(bus.TopicDoorActivate, nil)
	return true
}

// Deactivate takes an active or open door out of service.
func (d *Door) Deactivate() bool {
	if d.state != Active && d.state != Open {
		return false
	}
	d.state = Inactive
	d.publish(bus.TopicDoorDeactivate, nil)
	return true
}

// Open pulses an active door open; Update closes it again.
func (d *Door) Open(now time.Duration) bool {
	if d.state != Active {
		return false
	}
	d.state = Open
	d.openedAt = now
	d.publish(bus.TopicDoorOpen, nil)
	return true
}

// Update reverts an open door once its open pulse has elapsed.
func (d *Door) Update(now time.Duration) {
	if d.state == Open && now-d.openedAt >= d.cfg.OpenDuration {
		d.state = Active
	}
}

// DestroyDoor breaks the door for good. It clears any barricade and trap.
func (d *Door) DestroyDoor() bool {
	if d.state == Destroyed {
		return false
	}
	d.state = Destroyed
	d.barricade = nil
	d.trap = nil
	d.publish(bus.TopicDoorDestroy, nil)
	return true
}

// Barricade boards the door up with a fresh barricade of the given type.
func (d *Door) Barricade(t BarricadeType) bool {
	if d.state == Destroyed || d.barricade != nil {
		return false
	}
	table := d.cfg.BarricadeHealth
	if table == nil {
		table = BarricadeHealth
	}
	hp, ok := table[t]
	if !ok || hp <= 0 {
		return false
	}
	d.barricade = &Barricade{Type: t, Health: hp, MaxHealth: hp}
	d.publish(bus.TopicBarricadePlaced, t)
	return true
}

// DamageBarricade chips at the barricade, removing it at zero health.
func (d *Door) DamageBarricade(amount float64) bool {
	if d.barricade == nil || !(amount > 0) {
		return false
	}
	d.barricade.Health -= amount
	d.publish(bus.TopicBarricadeDamaged, amount)
	if d.barricade.Health <= 0 {
		t := d.barricade.Type
		d.barricade = nil
		d.publish(bus.TopicBarricadeDestroyed, t)
	}
	return true
}

// RepairBarricade restores health up to the barricade's max.
func (d *Door) RepairBarricade(amount float64) bool {
	if d.barricade == nil || !(amount > 0) || d.barricade.Health >= d.barricade.MaxHealth {
		return false
	}
	d.barricade.Health = math.Min(d.barricade.MaxHealth, d.barricade.Health+amount)
	d.publish(bus.TopicBarricadeRepaired, amount)
	return true
}

// SetTrap arms the door. A door holds at most one trap.
func (d *Door) SetTrap(t TrapType, charges int, payload Payload) bool {
	if d.state == Destroyed || d.trap != nil || charges <= 0 {
		return false
	}
	d.trap = &Trap{Type: t, Charges: charges, Payload: payload}
	d.publish(bus.TopicTrapSet, t)
	return true
}

// SetTrapPreset arms the door with a preset from TrapPresets.
func (d *Door) SetTrapPreset(t TrapType) bool {
	preset, ok := TrapPresets[t]
	if !ok {
		return false
	}
	return d.SetTrap(preset.Type, preset.Charges, preset.Payload)
}

// TriggerTrap spends one trap charge and returns its payload. The trap is
// removed once its last charge is spent.
func (d *Door) TriggerTrap() (Payload, bool) {
	if d.trap == nil {
		return Payload{}, false
	}
	payload := d.trap.Payload
	d.trap.Charges--
	d.publish(bus.TopicTrapTriggered, d.trap.Type)
	if d.trap.Charges <= 0 {
		t := d.trap.Type
		d.trap = nil
		d.publish(bus.TopicTrapDepleted, t)
	}
	return payload, true
}

// CanSpawn reports whether enemies may come through right now. Open doors
// are mid-spawn and report false.
func (d *Door) CanSpawn() bool {
	return (d.state == Active || d.state == Destroyed) && d.barricade == nil
}

// SpawnPosition is just inside the arena from the door.
func (d *Door) SpawnPosition() mgl64.Vec2 {
	var inward mgl64.Vec2
	switch d.cfg.Side {
	case Top:
		inward = mgl64.Vec2{0, 1}
	case Bottom:
		inward = mgl64.Vec2{0, -1}
	case Left:
		inward = mgl64.Vec2{1, 0}
	case Right:
		inward = mgl64.Vec2{-1, 0}
	}
	return d.cfg.Position.Add(inward.Mul(d.cfg.SpawnOffset))
}

// SpawnSpeedMultiplier scales enemy speed for spawns through this door.
func (d *Door) SpawnSpeedMultiplier() float64 {
	if d.state == Destroyed {
		return d.cfg.DestroyedSpeedMultiplier
	}
	return 1
}

// BarricadeState returns a copy of the barricade, if any.
func (d *Door) BarricadeState() (Barricade, bool) {
	if d.barricade == nil {
		return Barricade{}, false
	}
	return *d.barricade, true
}

// TrapState returns a copy of the trap, if any.
func (d *Door) TrapState() (Trap, bool) {
	if d.trap == nil {
		return Trap{}, false
	}
	return *d.trap, true
}

func (d *Door) HasBarricade() bool          { return d.barricade != nil }
func (d *Door) HasTrap() bool               { return d.trap != nil }
func (d *Door) ID() string                  { return d.cfg.ID }
func (d *Door) Side() Side                  { return d.cfg.Side }
func (d *Door) Position() mgl64.Vec2        { return d.cfg.Position }
func (d *Door) State() State                { return d.state }
func (d *Door) OpenDuration() time.Duration { return d.cfg.OpenDuration }
