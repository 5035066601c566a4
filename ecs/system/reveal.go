package system

import (
	"github.com/milk9111/deadzone/ecs"
	"github.com/milk9111/deadzone/ecs/component"
)

// RevealSystem counts reveal markers down and drops them when they expire.
type RevealSystem struct{}

func NewRevealSystem() *RevealSystem {
	return &RevealSystem{}
}

func (s *RevealSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.Delta()
	ecs.ForEach(w, component.RevealedComponent.Kind(), func(e ecs.Entity, r *component.Revealed) {
		r.Remaining -= dt
		if r.Remaining <= 0 {
			_ = ecs.Remove(w, e, component.RevealedComponent.Kind())
		}
	})
}

// IsVisible reports whether e should be drawn and targeted.
func IsVisible(w *ecs.World, e ecs.Entity) bool {
	if !ecs.Has(w, e, component.InvisibleComponent.Kind()) {
		return true
	}
	return ecs.Has(w, e, component.RevealedComponent.Kind())
}
