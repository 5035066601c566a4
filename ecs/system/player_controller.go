package system

import (
	"math"

	"github.com/milk9111/deadzone/ecs"
	"github.com/milk9111/deadzone/ecs/component"
)

// PlayerControllerSystem moves the player from its input at the effective
// speed, so hazard slows apply to the player too. Movement is clamped to the
// level bounds when an entity carries them.
type PlayerControllerSystem struct{}

func NewPlayerControllerSystem() *PlayerControllerSystem {
	return &PlayerControllerSystem{}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	var bounds *component.LevelBounds
	if e, ok := ecs.First(w, component.LevelBoundsComponent.Kind()); ok {
		bounds, _ = ecs.Get(w, e, component.LevelBoundsComponent.Kind())
	}

	dt := w.Delta().Seconds()
	ecs.ForEach2(w, component.PlayerTagComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, _ *component.PlayerTag, input *component.Input) {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return
		}
		speed, ok := ecs.Get(w, e, component.SpeedComponent.Kind())
		if !ok {
			return
		}
		slow, _ := ecs.Get(w, e, component.SlowPulseComponent.Kind())
		step := speed.Effective(slow) * dt

		t.X += input.MoveX * step
		t.Y += input.MoveY * step
		if bounds != nil {
			t.X = math.Max(t.Radius, math.Min(t.X, bounds.Width-t.Radius))
			t.Y = math.Max(t.Radius, math.Min(t.Y, bounds.Height-t.Radius))
		}
	})
}
