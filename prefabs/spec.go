package prefabs

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadzone/door"
	"github.com/milk9111/deadzone/zone"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// DecodeSpec re-decodes a loosely typed yaml value, such as a level entity's
// props map, into a typed spec.
func DecodeSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

type ZoneSpec struct {
	Radius              float64  `yaml:"radius"`
	DurationMS          *int     `yaml:"duration_ms"`
	SlowFactor          *float64 `yaml:"slow_factor"`
	DamagePerSecond     *float64 `yaml:"damage_per_second"`
	RevealInvisibles    *bool    `yaml:"reveal_invisibles"`
	ConductsElectricity *bool    `yaml:"conducts_electricity"`
	TickMS              int      `yaml:"tick_ms"`
}

// Apply overlays the fields set in the spec onto cfg.
func (s ZoneSpec) Apply(cfg zone.Config) zone.Config {
	if s.Radius > 0 {
		cfg.Radius = s.Radius
	}
	if s.DurationMS != nil {
		cfg.Duration = ms(*s.DurationMS)
	}
	if s.SlowFactor != nil {
		cfg.SlowFactor = *s.SlowFactor
	}
	if s.DamagePerSecond != nil {
		cfg.DamagePerSecond = *s.DamagePerSecond
	}
	if s.RevealInvisibles != nil {
		cfg.RevealInvisibles = *s.RevealInvisibles
	}
	if s.ConductsElectricity != nil {
		cfg.ConductsElectricity = *s.ConductsElectricity
	}
	if s.TickMS > 0 {
		cfg.TickRate = ms(s.TickMS)
	}
	return cfg
}

type HazardCatalog struct {
	Zones map[string]ZoneSpec `yaml:"zones"`
}

// Zone returns the tuned config for a kind: the built-in preset with the
// catalog entry applied on top.
func (c HazardCatalog) Zone(kind zone.Kind) zone.Config {
	cfg := zone.Preset(kind)
	if spec, ok := c.Zones[string(kind)]; ok {
		cfg = spec.Apply(cfg)
	}
	return cfg
}

func LoadHazardCatalog() (HazardCatalog, error) {
	return LoadSpec[HazardCatalog]("hazards.yaml")
}

type PropSpec struct {
	Health          float64 `yaml:"health"`
	Charges         int     `yaml:"charges"`
	CooldownMS      int     `yaml:"cooldown_ms"`
	Damage          float64 `yaml:"damage"`
	Radius          float64 `yaml:"radius"`
	Zone            string  `yaml:"zone"`
	ZoneRadius      float64 `yaml:"zone_radius"`
	ZoneDurationMS  int     `yaml:"zone_duration_ms"`
	HitCooldownMS   int     `yaml:"hit_cooldown_ms"`
	ProximityRadius float64 `yaml:"proximity_radius"`
	NozzleX         float64 `yaml:"nozzle_x"`
	NozzleY         float64 `yaml:"nozzle_y"`
}

func (s PropSpec) Cooldown() time.Duration    { return ms(s.CooldownMS) }
func (s PropSpec) HitCooldown() time.Duration { return ms(s.HitCooldownMS) }
func (s PropSpec) Nozzle() mgl64.Vec2         { return mgl64.Vec2{s.NozzleX, s.NozzleY} }

// Merge returns s with every zero field taken from base.
func (s PropSpec) Merge(base PropSpec) PropSpec {
	if s.Health == 0 {
		s.Health = base.Health
	}
	if s.Charges == 0 {
		s.Charges = base.Charges
	}
	if s.CooldownMS == 0 {
		s.CooldownMS = base.CooldownMS
	}
	if s.Damage == 0 {
		s.Damage = base.Damage
	}
	if s.Radius == 0 {
		s.Radius = base.Radius
	}
	if s.Zone == "" {
		s.Zone = base.Zone
	}
	if s.ZoneRadius == 0 {
		s.ZoneRadius = base.ZoneRadius
	}
	if s.ZoneDurationMS == 0 {
		s.ZoneDurationMS = base.ZoneDurationMS
	}
	if s.HitCooldownMS == 0 {
		s.HitCooldownMS = base.HitCooldownMS
	}
	if s.ProximityRadius == 0 {
		s.ProximityRadius = base.ProximityRadius
	}
	if s.NozzleX == 0 && s.NozzleY == 0 {
		s.NozzleX, s.NozzleY = base.NozzleX, base.NozzleY
	}
	return s
}

// ZoneConfig builds the zone a prop spawns, tuned from the hazard catalog.
func (s PropSpec) ZoneConfig(hazards HazardCatalog) zone.Config {
	kind := zone.Kind(s.Zone)
	if kind == "" {
		kind = zone.KindFire
	}
	cfg := hazards.Zone(kind)
	if s.ZoneRadius > 0 {
		cfg.Radius = s.ZoneRadius
	}
	if s.ZoneDurationMS > 0 {
		cfg.Duration = ms(s.ZoneDurationMS)
	}
	return cfg
}

type PropCatalog struct {
	Props map[string]PropSpec `yaml:"props"`
}

func (c PropCatalog) Prop(kind string) (PropSpec, bool) {
	spec, ok := c.Props[kind]
	return spec, ok
}

func LoadPropCatalog() (PropCatalog, error) {
	return LoadSpec[PropCatalog]("props.yaml")
}

type TrapSpec struct {
	Charges        int     `yaml:"charges"`
	Damage         float64 `yaml:"damage"`
	SlowFactor     float64 `yaml:"slow_factor"`
	SlowDurationMS int     `yaml:"slow_duration_ms"`
	BurnDPS        float64 `yaml:"burn_dps"`
	BurnDurationMS int     `yaml:"burn_duration_ms"`
}

type DoorCatalog struct {
	DestroyedSpeedMultiplier float64             `yaml:"destroyed_speed_multiplier"`
	OpenDurationMS           int                 `yaml:"open_duration_ms"`
	SpawnOffset              float64             `yaml:"spawn_offset"`
	Barricades               map[string]float64  `yaml:"barricades"`
	Traps                    map[string]TrapSpec `yaml:"traps"`
}

// Config fills the tuning fields of a door config.
func (c DoorCatalog) Config(cfg door.Config) door.Config {
	if cfg.DestroyedSpeedMultiplier == 0 {
		cfg.DestroyedSpeedMultiplier = c.DestroyedSpeedMultiplier
	}
	if cfg.OpenDuration == 0 {
		cfg.OpenDuration = ms(c.OpenDurationMS)
	}
	if cfg.SpawnOffset == 0 {
		cfg.SpawnOffset = c.SpawnOffset
	}
	if len(c.Barricades) > 0 {
		cfg.BarricadeHealth = make(map[door.BarricadeType]float64, len(c.Barricades))
		for name, hp := range c.Barricades {
			cfg.BarricadeHealth[door.BarricadeType(name)] = hp
		}
	}
	return cfg
}

// Barricade returns the max health of a barricade type. A catalog without
// barricades falls back to door.BarricadeHealth.
func (c DoorCatalog) Barricade(t door.BarricadeType) (float64, bool) {
	var hp float64
	var ok bool
	if len(c.Barricades) > 0 {
		hp, ok = c.Barricades[string(t)]
	} else {
		hp, ok = door.BarricadeHealth[t]
	}
	return hp, ok && hp > 0
}

// Trap returns the tuned trap for a type, falling back to door.TrapPresets.
func (c DoorCatalog) Trap(t door.TrapType) (door.Trap, bool) {
	spec, ok := c.Traps[string(t)]
	if !ok {
		preset, ok := door.TrapPresets[t]
		return preset, ok
	}
	slow := spec.SlowFactor
	if slow <= 0 {
		slow = 1
	}
	return door.Trap{
		Type:    t,
		Charges: spec.Charges,
		Payload: door.Payload{
			Damage:       spec.Damage,
			SlowFactor:   slow,
			SlowDuration: ms(spec.SlowDurationMS),
			BurnDPS:      spec.BurnDPS,
			BurnDuration: ms(spec.BurnDurationMS),
		},
	}, true
}

func LoadDoorCatalog() (DoorCatalog, error) {
	return LoadSpec[DoorCatalog]("doors.yaml")
}

// Catalog bundles every tuning table.
type Catalog struct {
	Hazards HazardCatalog
	Props   PropCatalog
	Doors   DoorCatalog
}

func LoadCatalog() (*Catalog, error) {
	hazards, err := LoadHazardCatalog()
	if err != nil {
		return nil, err
	}
	props, err := LoadPropCatalog()
	if err != nil {
		return nil, err
	}
	doors, err := LoadDoorCatalog()
	if err != nil {
		return nil, err
	}
	return &Catalog{Hazards: hazards, Props: props, Doors: doors}, nil
}
