// Package levels loads arena layouts: where zones, props, doors and the
// starting actors sit.
package levels

import (
	"embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/milk9111/deadzone/door"
	"github.com/milk9111/deadzone/prefabs"
	"github.com/milk9111/deadzone/prop"
	"github.com/milk9111/deadzone/zone"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var LevelsFS embed.FS

// Dir is the on-disk override directory.
var Dir = "levels"

const (
	TypeZone  = "zone"
	TypeProp  = "prop"
	TypeDoor  = "door"
	TypeEnemy = "enemy"
)

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type Layout struct {
	Name     string   `yaml:"name"`
	Width    float64  `yaml:"width"`
	Height   float64  `yaml:"height"`
	Player   Point    `yaml:"player"`
	Entities []Entity `yaml:"entities"`
}

type Entity struct {
	Type  string         `yaml:"type"`
	ID    string         `yaml:"id"`
	X     float64        `yaml:"x"`
	Y     float64        `yaml:"y"`
	Props map[string]any `yaml:"props,omitempty"`
}

type ZoneEntry struct {
	Kind          string  `yaml:"kind"`
	Radius        float64 `yaml:"radius"`
	DurationMS    *int    `yaml:"duration_ms"`
	Generator     string  `yaml:"generator"`
	Switch        string  `yaml:"switch"`
	StartInactive bool    `yaml:"inactive"`
}

type PropEntry struct {
	Kind           string   `yaml:"kind"`
	Trigger        string   `yaml:"trigger"`
	Link           string   `yaml:"link"`
	Targets        []string `yaml:"targets"`
	Zones          []string `yaml:"zones"`
	Active         bool     `yaml:"active"`
	Script         string   `yaml:"script"`
	ProximityKinds []string `yaml:"proximity_kinds"`

	prefabs.PropSpec `yaml:",inline"`
}

type DoorEntry struct {
	Side      string `yaml:"side"`
	Active    bool   `yaml:"active"`
	Barricade string `yaml:"barricade"`
	Trap      string `yaml:"trap"`
}

type EnemyEntry struct {
	Kind      string  `yaml:"kind"`
	Health    float64 `yaml:"health"`
	Speed     float64 `yaml:"speed"`
	Radius    float64 `yaml:"radius"`
	Invisible bool    `yaml:"invisible"`
}

// Load reads a layout by name, preferring an on-disk copy.
func Load(name string) (*Layout, error) {
	file := name
	if filepath.Ext(file) == "" {
		file += ".yaml"
	}
	file = strings.TrimPrefix(filepath.ToSlash(file), "levels/")

	data, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(file)))
	if err != nil {
		data, err = LevelsFS.ReadFile(file)
		if err != nil {
			return nil, errors.Wrapf(err, "levels: read %s", file)
		}
	}
	l, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "levels: %s", file)
	}
	return l, nil
}

// Parse decodes and validates a layout.
func Parse(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, errors.Wrap(err, "unmarshal layout")
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Validate checks ids, types and kinds. Dangling link ids are allowed; they
// are simply never matched at runtime.
func (l *Layout) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return errors.Errorf("layout %q: bad size %vx%v", l.Name, l.Width, l.Height)
	}
	ids := make(map[string]struct{})
	for i, e := range l.Entities {
		if e.Type != TypeEnemy {
			if e.ID == "" {
				return errors.Errorf("entity %d (%s): missing id", i, e.Type)
			}
			if _, dup := ids[e.ID]; dup {
				return errors.Errorf("entity %d: duplicate id %q", i, e.ID)
			}
			ids[e.ID] = struct{}{}
		}
		if err := validateEntity(e); err != nil {
			return errors.Wrapf(err, "entity %d (%s %q)", i, e.Type, e.ID)
		}
	}
	return nil
}

func validateEntity(e Entity) error {
	switch e.Type {
	case TypeZone:
		z, err := e.Zone()
		if err != nil {
			return err
		}
		if !zone.Kind(z.Kind).Valid() {
			return errors.Errorf("unknown zone kind %q", z.Kind)
		}
	case TypeProp:
		p, err := e.Prop()
		if err != nil {
			return err
		}
		if !knownPropKind(prop.Kind(p.Kind)) {
			return errors.Errorf("unknown prop kind %q", p.Kind)
		}
		if p.Trigger != "" {
			if _, ok := prop.ParseTriggerType(p.Trigger); !ok {
				return errors.Errorf("unknown trigger %q", p.Trigger)
			}
		}
		if prop.Kind(p.Kind) == prop.KindScripted && p.Script == "" {
			return errors.New("scripted prop needs a script")
		}
	case TypeDoor:
		d, err := e.Door()
		if err != nil {
			return err
		}
		if _, ok := door.ParseSide(d.Side); !ok {
			return errors.Errorf("unknown side %q", d.Side)
		}
	case TypeEnemy:
		if _, err := e.Enemy(); err != nil {
			return err
		}
	default:
		return errors.Errorf("unknown entity type %q", e.Type)
	}
	return nil
}

// CheckCatalog checks door barricades and traps against the tuning catalog
// the layout will be built with. A nil catalog means the built-in tables.
func (l *Layout) CheckCatalog(c *prefabs.Catalog) error {
	if c == nil {
		c = &prefabs.Catalog{}
	}
	for i, e := range l.Entities {
		if e.Type != TypeDoor {
			continue
		}
		d, err := e.Door()
		if err != nil {
			return errors.Wrapf(err, "entity %d (door %q)", i, e.ID)
		}
		if d.Barricade != "" {
			if _, ok := c.Doors.Barricade(door.BarricadeType(d.Barricade)); !ok {
				return errors.Errorf("entity %d (door %q): unknown barricade %q", i, e.ID, d.Barricade)
			}
		}
		if d.Trap != "" {
			trap, ok := c.Doors.Trap(door.TrapType(d.Trap))
			if !ok {
				return errors.Errorf("entity %d (door %q): unknown trap %q", i, e.ID, d.Trap)
			}
			if trap.Charges <= 0 {
				return errors.Errorf("entity %d (door %q): trap %q has no charges", i, e.ID, d.Trap)
			}
		}
	}
	return nil
}

func knownPropKind(k prop.Kind) bool {
	switch k {
	case prop.KindBarrel, prop.KindIncendiaryBarrel, prop.KindSwitch, prop.KindGenerator,
		prop.KindFlameTrap, prop.KindBladeTrap, prop.KindScripted:
		return true
	}
	return false
}

func (e Entity) Zone() (ZoneEntry, error) {
	v, err := prefabs.DecodeSpec[ZoneEntry](e.Props)
	return v, errors.Wrap(err, "decode zone")
}

func (e Entity) Prop() (PropEntry, error) {
	v, err := prefabs.DecodeSpec[PropEntry](e.Props)
	return v, errors.Wrap(err, "decode prop")
}

func (e Entity) Door() (DoorEntry, error) {
	v, err := prefabs.DecodeSpec[DoorEntry](e.Props)
	return v, errors.Wrap(err, "decode door")
}

func (e Entity) Enemy() (EnemyEntry, error) {
	v, err := prefabs.DecodeSpec[EnemyEntry](e.Props)
	return v, errors.Wrap(err, "decode enemy")
}

// Names lists the embedded layouts.
func Names() []string {
	entries, err := LevelsFS.ReadDir(".")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	return out
}
