package system

import (
	"time"

	"github.com/milk9111/deadzone/ecs"
	"github.com/milk9111/deadzone/ecs/component"
)

const defaultBurnTick = 500 * time.Millisecond

// BurnSystem applies damage-over-time from Burn components in whole ticks.
type BurnSystem struct{}

func NewBurnSystem() *BurnSystem {
	return &BurnSystem{}
}

func (s *BurnSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.Delta()
	ecs.ForEach(w, component.BurnComponent.Kind(), func(e ecs.Entity, b *component.Burn) {
		tick := b.Tick
		if tick <= 0 {
			tick = defaultBurnTick
		}
		step := min(dt, b.Remaining)
		b.Elapsed += step
		b.Remaining -= step
		for b.Elapsed >= tick {
			b.Elapsed -= tick
			if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
				h.ApplyDamage(b.DPS*tick.Seconds(), "burn")
			}
		}
		if b.Remaining <= 0 {
			_ = ecs.Remove(w, e, component.BurnComponent.Kind())
		}
	})
}
