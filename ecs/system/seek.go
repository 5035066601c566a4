package system

import (
	"github.com/milk9111/deadzone/ecs"
	"github.com/milk9111/deadzone/ecs/component"
)

// SeekSystem walks enemies straight at the player at their effective speed.
// It stands in for the AI layer in the sandbox and simulator.
type SeekSystem struct{}

func NewSeekSystem() *SeekSystem {
	return &SeekSystem{}
}

func (s *SeekSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	target, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return
	}

	dt := w.Delta().Seconds()
	ecs.ForEach2(w, component.EnemyTagComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.EnemyTag, t *component.Transform) {
		speed, ok := ecs.Get(w, e, component.SpeedComponent.Kind())
		if !ok {
			return
		}
		slow, _ := ecs.Get(w, e, component.SlowPulseComponent.Kind())
		step := speed.Effective(slow) * dt

		delta := target.Vec().Sub(t.Vec())
		dist := delta.Len()
		if dist <= step || dist == 0 {
			t.SetVec(target.Vec())
			return
		}
		t.SetVec(t.Vec().Add(delta.Mul(step / dist)))
	})
}
