package zone

import "time"

// Kind names a zone preset.
type Kind string

const (
	KindWater    Kind = "water"
	KindBlood    Kind = "blood"
	KindDebris   Kind = "debris"
	KindElectric Kind = "electric"
	KindFire     Kind = "fire"
	KindAcid     Kind = "acid"
	KindFlare    Kind = "flare"
)

// Kinds lists every built-in kind.
var Kinds = []Kind{KindWater, KindBlood, KindDebris, KindElectric, KindFire, KindAcid, KindFlare}

// Preset returns the built-in tuning for a kind. Prefab catalogs override
// these values; unknown kinds get an inert, permanent zone.
func Preset(kind Kind) Config {
	cfg := Config{Kind: kind, Radius: 48, SlowFactor: 1, TickRate: DefaultTickRate}
	switch kind {
	case KindWater:
		cfg.Radius = 64
		cfg.SlowFactor = 0.7
		cfg.ConductsElectricity = true
	case KindBlood:
		cfg.Radius = 40
		cfg.SlowFactor = 0.85
		cfg.Duration = 20 * time.Second
		cfg.ConductsElectricity = true
	case KindDebris:
		cfg.Radius = 56
		cfg.SlowFactor = 0.5
	case KindElectric:
		cfg.Radius = 48
		cfg.DamagePerSecond = 20
	case KindFire:
		cfg.Radius = 56
		cfg.DamagePerSecond = 15
		cfg.Duration = 5 * time.Second
	case KindAcid:
		cfg.Radius = 48
		cfg.DamagePerSecond = 8
		cfg.SlowFactor = 0.8
		cfg.Duration = 10 * time.Second
	case KindFlare:
		cfg.Radius = 160
		cfg.RevealInvisibles = true
		cfg.Duration = 8 * time.Second
	}
	return cfg
}

// Valid reports whether kind is a built-in kind.
func (k Kind) Valid() bool {
	for _, v := range Kinds {
		if v == k {
			return true
		}
	}
	return false
}
