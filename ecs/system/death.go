package system

import (
	"github.com/milk9111/deadzone/ecs"
	"github.com/milk9111/deadzone/ecs/component"
)

// EventEnemyKilled is pushed on the world queue when an enemy is removed.
const EventEnemyKilled = "enemy.killed"

// DeathSystem destroys dead enemies. The player entity is left in place so
// the host can run its own game-over flow.
type DeathSystem struct{}

func NewDeathSystem() *DeathSystem {
	return &DeathSystem{}
}

func (s *DeathSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.EnemyTagComponent.Kind(), component.HealthComponent.Kind(), func(e ecs.Entity, tag *component.EnemyTag, h *component.Health) {
		if h.IsAlive() {
			return
		}
		w.Events().Push(ecs.Event{Type: EventEnemyKilled, Data: EnemyKilled{Entity: e, Kind: tag.Kind, Source: h.LastSource}})
		w.DestroyEntity(e)
	})
}

// EnemyKilled is the payload of EventEnemyKilled.
type EnemyKilled struct {
	Entity ecs.Entity
	Kind   string
	Source string
}
