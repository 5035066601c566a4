package door

import (
	"strings"
	"time"
)

// Side is the arena wall a door sits in.
type Side int

const (
	Top Side = iota
	Bottom
	Left
	Right
)

func (s Side) String() string {
	switch s {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ParseSide accepts the names produced by Side.String.
func ParseSide(s string) (Side, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return Top, true
	case "bottom":
		return Bottom, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	return Top, false
}

// State is the core door lifecycle.
type State int

const (
	Inactive State = iota
	Active
	Open
	Destroyed
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	case Open:
		return "open"
	case Destroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// BarricadeType picks a barricade's toughness.
type BarricadeType string

const (
	BarricadeLight  BarricadeType = "light"
	BarricadeMedium BarricadeType = "medium"
	BarricadeHeavy  BarricadeType = "heavy"
)

// BarricadeHealth is the max health per barricade type. Prefab catalogs may
// replace entries.
var BarricadeHealth = map[BarricadeType]float64{
	BarricadeLight:  50,
	BarricadeMedium: 120,
	BarricadeHeavy:  250,
}

// Barricade blocks spawning until broken.
type Barricade struct {
	Type      BarricadeType
	Health    float64
	MaxHealth float64
}

// TrapType names a door trap.
type TrapType string

const (
	TrapSpike TrapType = "spike"
	TrapGlue  TrapType = "glue"
	TrapFire  TrapType = "fire"
)

// Payload is what a door trap does to the enemy that sets it off.
type Payload struct {
	Damage       float64
	SlowFactor   float64
	SlowDuration time.Duration
	BurnDPS      float64
	BurnDuration time.Duration
}

// Trap fires once per spawn through the door until its charges run out.
type Trap struct {
	Type    TrapType
	Charges int
	Payload Payload
}

// TrapPresets are the default payloads per trap type.
var TrapPresets = map[TrapType]Trap{
	TrapSpike: {Type: TrapSpike, Charges: 3, Payload: Payload{Damage: 25, SlowFactor: 1}},
	TrapGlue:  {Type: TrapGlue, Charges: 5, Payload: Payload{SlowFactor: 0.4, SlowDuration: 3 * time.Second}},
	TrapFire:  {Type: TrapFire, Charges: 2, Payload: Payload{Damage: 5, SlowFactor: 1, BurnDPS: 8, BurnDuration: 4 * time.Second}},
}
