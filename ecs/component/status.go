package component

import "time"

// SlowPulse scales movement speed by Factor until Remaining runs out. Zones
// refresh it every frame an entity stays inside, so it decays quickly once
// the entity leaves. AppliedAt is the game time of the last refresh; pulses
// landing on the same frame keep the strongest factor.
type SlowPulse struct {
	Factor    float64
	Remaining time.Duration
	AppliedAt time.Duration
}

var SlowPulseComponent = NewComponent[SlowPulse]()

// Revealed marks an invisible entity as visible for Remaining.
type Revealed struct {
	Remaining time.Duration
}

var RevealedComponent = NewComponent[Revealed]()

// Burn deals DPS damage over Remaining, applied in whole ticks.
type Burn struct {
	DPS       float64
	Remaining time.Duration
	Tick      time.Duration
	Elapsed   time.Duration
}

var BurnComponent = NewComponent[Burn]()

// Speed is the base movement speed in units per second.
type Speed struct {
	Base       float64
	Multiplier float64
}

// Effective returns the speed after the multiplier and any slow factor.
func (s *Speed) Effective(slow *SlowPulse) float64 {
	if s == nil {
		return 0
	}
	v := s.Base
	if s.Multiplier > 0 {
		v *= s.Multiplier
	}
	if slow != nil && slow.Remaining > 0 && slow.Factor >= 0 && slow.Factor < 1 {
		v *= slow.Factor
	}
	return v
}

var SpeedComponent = NewComponent[Speed]()
