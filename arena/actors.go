package arena

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadzone/door"
	"github.com/milk9111/deadzone/ecs"
	"github.com/milk9111/deadzone/ecs/component"
)

const (
	playerRadius = 10.0
	playerHealth = 100.0
	playerSpeed  = 120.0
)

// EnemyStats is the spawn template for an enemy kind.
type EnemyStats struct {
	Health    float64
	Speed     float64
	Radius    float64
	Invisible bool
}

// Enemies maps enemy kinds to templates. Unknown kinds spawn as walkers.
var Enemies = map[string]EnemyStats{
	"walker":  {Health: 60, Speed: 50, Radius: 10},
	"runner":  {Health: 35, Speed: 90, Radius: 8},
	"brute":   {Health: 180, Speed: 30, Radius: 16},
	"stalker": {Health: 40, Speed: 70, Radius: 9, Invisible: true},
}

// AddPlayer creates the player entity.
func (a *Arena) AddPlayer(pos mgl64.Vec2) ecs.Entity {
	w := a.world
	e := w.CreateEntity()
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X(), Y: pos.Y(), Radius: playerRadius})
	_ = ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	_ = ecs.Add(w, e, component.HealthComponent.Kind(), component.NewHealth(playerHealth))
	_ = ecs.Add(w, e, component.SpeedComponent.Kind(), &component.Speed{Base: playerSpeed, Multiplier: 1})
	_ = ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
	return e
}

// AddEnemy creates an enemy from stats.
func (a *Arena) AddEnemy(kind string, pos mgl64.Vec2, stats EnemyStats) ecs.Entity {
	w := a.world
	e := w.CreateEntity()
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X(), Y: pos.Y(), Radius: stats.Radius})
	_ = ecs.Add(w, e, component.EnemyTagComponent.Kind(), &component.EnemyTag{Kind: kind})
	_ = ecs.Add(w, e, component.HealthComponent.Kind(), component.NewHealth(stats.Health))
	_ = ecs.Add(w, e, component.SpeedComponent.Kind(), &component.Speed{Base: stats.Speed, Multiplier: 1})
	if stats.Invisible {
		_ = ecs.Add(w, e, component.InvisibleComponent.Kind(), &component.Invisible{})
	}
	return e
}

func enemyStats(kind string) EnemyStats {
	if s, ok := Enemies[kind]; ok {
		return s
	}
	return Enemies["walker"]
}

// SpawnThrough brings an enemy of kind in through a door. It fails when the
// door is missing or cannot spawn. An active door pulses open; a destroyed
// door speeds the enemy up; an armed trap hits it on the way in.
func (a *Arena) SpawnThrough(doorID, kind string) (ecs.Entity, bool) {
	d, ok := a.doorID[doorID]
	if !ok || !d.CanSpawn() {
		return 0, false
	}
	if d.State() == door.Active {
		d.Open(a.clock.Now())
	}

	e := a.AddEnemy(kind, d.SpawnPosition(), enemyStats(kind))
	if sp, ok := ecs.Get(a.world, e, component.SpeedComponent.Kind()); ok {
		sp.Multiplier = d.SpawnSpeedMultiplier()
	}
	if payload, ok := d.TriggerTrap(); ok {
		a.applyTrap(e, payload)
	}
	a.spawned++
	return e, true
}

func (a *Arena) applyTrap(e ecs.Entity, p door.Payload) {
	if p.Damage > 0 {
		a.DamageTarget(e, p.Damage, "door_trap")
	}
	if p.SlowDuration > 0 && p.SlowFactor < 1 {
		a.applySlow(e, p.SlowFactor, p.SlowDuration)
	}
	if p.BurnDPS > 0 && p.BurnDuration > 0 {
		_ = ecs.Add(a.world, e, component.BurnComponent.Kind(), &component.Burn{DPS: p.BurnDPS, Remaining: p.BurnDuration})
	}
}

// Spawned counts enemies that came through doors.
func (a *Arena) Spawned() int { return a.spawned }

// EnemyCount is the number of live enemies.
func (a *Arena) EnemyCount() int {
	n := 0
	ecs.ForEach(a.world, component.EnemyTagComponent.Kind(), func(ecs.Entity, *component.EnemyTag) { n++ })
	return n
}
