package system

import (
	"github.com/milk9111/deadzone/ecs"
	"github.com/milk9111/deadzone/ecs/component"
)

// SlowSystem decays slow pulses and removes them once they run out. Zones
// re-apply the pulse every frame, so only entities that left a zone lose it.
type SlowSystem struct{}

func NewSlowSystem() *SlowSystem {
	return &SlowSystem{}
}

func (s *SlowSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.Delta()
	ecs.ForEach(w, component.SlowPulseComponent.Kind(), func(e ecs.Entity, slow *component.SlowPulse) {
		slow.Remaining -= dt
		if slow.Remaining <= 0 {
			_ = ecs.Remove(w, e, component.SlowPulseComponent.Kind())
		}
	})
}
