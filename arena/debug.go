package arena

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/deadzone/bus"
	"github.com/milk9111/deadzone/door"
	"github.com/milk9111/deadzone/ecs"
	"github.com/milk9111/deadzone/ecs/component"
	"github.com/milk9111/deadzone/ecs/system"
	"github.com/milk9111/deadzone/prop"
	"github.com/milk9111/deadzone/zone"
	"golang.org/x/image/colornames"
)

const overlayLogSize = 12

var zoneColors = map[zone.Kind]color.RGBA{
	zone.KindWater:    colornames.Deepskyblue,
	zone.KindBlood:    colornames.Darkred,
	zone.KindDebris:   colornames.Sienna,
	zone.KindElectric: colornames.Yellow,
	zone.KindFire:     colornames.Orangered,
	zone.KindAcid:     colornames.Chartreuse,
	zone.KindFlare:    colornames.Gold,
}

// DebugOverlay draws zones, props, doors and actors as outlines, plus a
// rolling log of recent hazard events. It drains the world event queue, so
// it runs last.
type DebugOverlay struct {
	arena *Arena
	log   []string
}

func NewDebugOverlay(a *Arena) *DebugOverlay {
	return &DebugOverlay{arena: a}
}

func (d *DebugOverlay) Update(w *ecs.World) {
	for _, ev := range w.Events().Drain() {
		d.record(ev)
	}
}

func (d *DebugOverlay) record(ev ecs.Event) {
	line := ev.Type
	switch data := ev.Data.(type) {
	case bus.Event:
		if data.SourceID != "" {
			line += " " + data.SourceID
		}
	case system.EnemyKilled:
		line += fmt.Sprintf(" %s by %s", data.Kind, data.Source)
	}
	d.log = append(d.log, line)
	if len(d.log) > overlayLogSize {
		d.log = d.log[len(d.log)-overlayLogSize:]
	}
}

// Log returns the recent event lines, oldest first.
func (d *DebugOverlay) Log() []string {
	return append([]string(nil), d.log...)
}

func (d *DebugOverlay) Draw(w *ecs.World, screen *ebiten.Image) {
	a := d.arena
	now := a.Now()

	for _, z := range a.zones {
		c := zoneColors[z.Kind()]
		alpha := z.Alpha(now)
		if !z.Active() {
			alpha *= 0.3
		}
		c.A = uint8(255 * alpha)
		cx, cy := float32(z.Center().X()), float32(z.Center().Y())
		vector.StrokeCircle(screen, cx, cy, float32(z.Radius()), 1.5, c, false)
		if len(z.Members()) > 0 {
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d", len(z.Members())), int(cx)-3, int(cy)-8)
		}
	}

	for _, p := range a.props {
		drawProp(screen, p)
	}

	for _, dr := range a.doors {
		drawDoor(screen, dr)
	}

	ecs.ForEach(w, component.TransformComponent.Kind(), func(e ecs.Entity, t *component.Transform) {
		c := colornames.White
		switch {
		case flashing(w, e):
			c = colornames.Red
		case ecs.Has(w, e, component.PlayerTagComponent.Kind()):
			c = colornames.Lime
		case !system.IsVisible(w, e):
			c = colornames.Dimgray
		case ecs.Has(w, e, component.SlowPulseComponent.Kind()):
			c = colornames.Lightskyblue
		case ecs.Has(w, e, component.BurnComponent.Kind()):
			c = colornames.Orange
		}
		vector.StrokeCircle(screen, float32(t.X), float32(t.Y), float32(t.Radius), 1, c, false)
	})

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("t=%.2fs zones=%d props=%d pending=%d", now.Seconds(), len(a.zones), len(a.props), a.Pending()), 8, 8)
	for i, line := range d.log {
		ebitenutil.DebugPrintAt(screen, line, 8, 28+i*14)
	}
}

func drawProp(screen *ebiten.Image, p *prop.Prop) {
	x, y := float32(p.Position().X()), float32(p.Position().Y())
	c := colornames.Lightgray
	switch v := p.Payload().(type) {
	case *prop.Barrel:
		c = colornames.Red
	case *prop.IncendiaryBarrel:
		c = colornames.Darkorange
	case *prop.Switch:
		c = colornames.Slategray
		if v.On() {
			c = colornames.Springgreen
		}
	case *prop.Generator:
		c = colornames.Gray
		if v.Active() {
			c = colornames.Yellow
		}
	case *prop.BladeTrap:
		c = colornames.Silver
		if v.Active() {
			ex := x + float32(v.Radius*math.Cos(v.Angle()))
			ey := y + float32(v.Radius*math.Sin(v.Angle()))
			vector.StrokeLine(screen, x, y, ex, ey, 2, colornames.Silver, false)
			vector.StrokeCircle(screen, x, y, float32(v.Radius), 1, colornames.Silver, false)
		}
	}
	if p.Broken() {
		c = colornames.Maroon
	}
	vector.StrokeRect(screen, x-6, y-6, 12, 12, 1.5, c, false)
	if r := p.ProximityRadius(); r > 0 && p.TriggerType() == prop.OnProximity {
		vector.StrokeCircle(screen, x, y, float32(r), 1, colornames.Plum, false)
	}
}

func drawDoor(screen *ebiten.Image, d *door.Door) {
	x, y := float32(d.Position().X()), float32(d.Position().Y())
	c := colornames.Gray
	switch d.State() {
	case door.Active:
		c = colornames.Lightgreen
	case door.Open:
		c = colornames.White
	case door.Destroyed:
		c = colornames.Crimson
	}
	vector.FillRect(screen, x-10, y-10, 20, 20, c, false)
	if d.HasBarricade() {
		vector.StrokeRect(screen, x-13, y-13, 26, 26, 2, colornames.Saddlebrown, false)
	}
	if d.HasTrap() {
		vector.StrokeCircle(screen, x, y, 4, 1.5, colornames.Magenta, false)
	}
}

func flashing(w *ecs.World, e ecs.Entity) bool {
	wf, ok := ecs.Get(w, e, component.WhiteFlashComponent.Kind())
	return ok && wf.On
}
