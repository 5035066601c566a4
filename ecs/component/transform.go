package component

import "github.com/go-gl/mathgl/mgl64"

// Transform places an entity in arena space. Radius is the body radius used
// by the broad phase.
type Transform struct {
	X      float64
	Y      float64
	Radius float64
}

// Vec returns the position as a vector.
func (t *Transform) Vec() mgl64.Vec2 {
	if t == nil {
		return mgl64.Vec2{}
	}
	return mgl64.Vec2{t.X, t.Y}
}

// SetVec moves the transform to v.
func (t *Transform) SetVec(v mgl64.Vec2) {
	if t == nil {
		return
	}
	t.X, t.Y = v.X(), v.Y()
}

var TransformComponent = NewComponent[Transform]()
