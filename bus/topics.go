package bus

// Presentation topics. Every hazard state change is published on one of these.
const (
	TopicPropTrigger  = "prop.trigger"
	TopicPropDamage   = "prop.damage"
	TopicPropDestroy  = "prop.destroy"
	TopicPropBroken   = "prop.broken"
	TopicPropRepaired = "prop.repaired"
	TopicPropActive   = "prop.active"
	TopicExplosion    = "prop.explosion"

	TopicZoneSpawn   = "zone.spawn"
	TopicZoneEnter   = "zone.enter"
	TopicZoneExit    = "zone.exit"
	TopicZoneDestroy = "zone.destroy"
	TopicZonePower   = "zone.power"

	TopicDoorActivate       = "door.activate"
	TopicDoorDeactivate     = "door.deactivate"
	TopicDoorOpen           = "door.open"
	TopicDoorDestroy        = "door.destroy"
	TopicBarricadePlaced    = "door.barricade.placed"
	TopicBarricadeDamaged   = "door.barricade.damaged"
	TopicBarricadeRepaired  = "door.barricade.repaired"
	TopicBarricadeDestroyed = "door.barricade.destroyed"
	TopicTrapSet            = "door.trap.set"
	TopicTrapTriggered      = "door.trap.triggered"
	TopicTrapDepleted       = "door.trap.depleted"
)

// Linking topics carry id-addressed control messages between props and zones
// that never hold references to each other.
const (
	TopicSwitch    = "link.switch"
	TopicGenerator = "link.generator"
)

// SwitchToggled is the payload of TopicSwitch.
type SwitchToggled struct {
	SwitchID string
	On       bool
	Targets  []string
}

// GeneratorPower is the payload of TopicGenerator.
type GeneratorPower struct {
	GeneratorID string
	Active      bool
	ZoneIDs     []string
}

// Listed reports whether id appears in ids.
func Listed(ids []string, id string) bool {
	if id == "" {
		return false
	}
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
