// Package physics adapts a chipmunk space into the candidate lookup used by
// zones and props. It never decides membership; callers test exact distance.
package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/deadzone/ecs"
)

const minRadius = 1.0

type proxy struct {
	body   *cp.Body
	shape  *cp.Shape
	radius float64
}

// Broadphase tracks one kinematic sensor circle per entity.
type Broadphase struct {
	space   *cp.Space
	proxies map[ecs.Entity]*proxy
	dirty   bool
}

// NewBroadphase creates an empty broad phase.
func NewBroadphase() *Broadphase {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{})
	return &Broadphase{space: space, proxies: make(map[ecs.Entity]*proxy)}
}

// Sync creates or moves the proxy for e.
func (b *Broadphase) Sync(e ecs.Entity, pos mgl64.Vec2, radius float64) {
	if b == nil {
		return
	}
	if radius < minRadius {
		radius = minRadius
	}
	p, ok := b.proxies[e]
	if ok && p.radius != radius {
		b.space.RemoveShape(p.shape)
		p.shape = b.space.AddShape(newSensor(p.body, radius, e))
		p.radius = radius
	}
	if !ok {
		body := b.space.AddBody(cp.NewKinematicBody())
		p = &proxy{body: body, radius: radius}
		p.shape = b.space.AddShape(newSensor(body, radius, e))
		b.proxies[e] = p
	}
	p.body.SetPosition(cp.Vector{X: pos.X(), Y: pos.Y()})
	b.dirty = true
}

func newSensor(body *cp.Body, radius float64, e ecs.Entity) *cp.Shape {
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetSensor(true)
	shape.UserData = e
	return shape
}

// Remove drops the proxy for e.
func (b *Broadphase) Remove(e ecs.Entity) bool {
	if b == nil {
		return false
	}
	p, ok := b.proxies[e]
	if !ok {
		return false
	}
	b.space.RemoveShape(p.shape)
	b.space.RemoveBody(p.body)
	delete(b.proxies, e)
	return true
}

// Prune removes proxies whose entity is no longer alive and returns how many
// were dropped.
func (b *Broadphase) Prune(alive func(ecs.Entity) bool) int {
	if b == nil || alive == nil {
		return 0
	}
	removed := 0
	for e := range b.proxies {
		if !alive(e) {
			b.Remove(e)
			removed++
		}
	}
	return removed
}

// Step refreshes cached bounds after Sync. Bodies are kinematic with no
// velocity, so the step size only matters to chipmunk's bookkeeping.
func (b *Broadphase) Step() {
	if b == nil || !b.dirty {
		return
	}
	b.space.Step(1.0)
	b.dirty = false
}

// Query returns every entity whose proxy bounds overlap the circle. Results
// are candidates only.
func (b *Broadphase) Query(center mgl64.Vec2, radius float64) []ecs.Entity {
	if b == nil || radius < 0 {
		return nil
	}
	b.Step()
	var out []ecs.Entity
	seen := make(map[ecs.Entity]struct{})
	bb := cp.NewBBForCircle(cp.Vector{X: center.X(), Y: center.Y()}, radius)
	b.space.BBQuery(bb, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		e, ok := shape.UserData.(ecs.Entity)
		if !ok {
			return
		}
		if _, dup := seen[e]; dup {
			return
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}, nil)
	return out
}

// Len reports how many entities are tracked.
func (b *Broadphase) Len() int {
	if b == nil {
		return 0
	}
	return len(b.proxies)
}
