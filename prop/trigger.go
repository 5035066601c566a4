package prop

import "strings"

// TriggerType selects which stimulus may fire a prop.
type TriggerType int

const (
	OnDamage TriggerType = iota
	OnInteract
	OnProximity
	OnSwitch
)

func (t TriggerType) String() string {
	switch t {
	case OnDamage:
		return "on_damage"
	case OnInteract:
		return "on_interact"
	case OnProximity:
		return "on_proximity"
	case OnSwitch:
		return "on_switch"
	default:
		return "unknown"
	}
}

// ParseTriggerType accepts the names produced by String, with or without the
// "on_" prefix.
func ParseTriggerType(s string) (TriggerType, bool) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "on_")
	switch s {
	case "damage":
		return OnDamage, true
	case "interact":
		return OnInteract, true
	case "proximity":
		return OnProximity, true
	case "switch":
		return OnSwitch, true
	}
	return OnDamage, false
}

// Kind tags a prop variant.
type Kind string

const (
	KindBarrel           Kind = "barrel"
	KindIncendiaryBarrel Kind = "incendiary_barrel"
	KindSwitch           Kind = "switch"
	KindGenerator        Kind = "generator"
	KindFlameTrap        Kind = "flame_trap"
	KindBladeTrap        Kind = "blade_trap"
	KindScripted         Kind = "scripted"
)

// Trigger sources passed to payloads.
const (
	SourcePlayer    = "player"
	SourceSwitch    = "switch"
	SourceProximity = "proximity"
	SourceChain     = "chain_explosion"
	SourceExplosion = "explosion"
)
