package component

import "math"

// Health is the damage handler for any entity that can be hurt by hazards.
// Entities without it are ignored by damage effects.
type Health struct {
	Max     float64
	Current float64
	Dead    bool

	// LastSource is the tag of the most recent damage ("fire", "blade_trap").
	LastSource string
}

// NewHealth creates a Health component with max/current initialized.
func NewHealth(max float64) *Health {
	if max <= 0 {
		max = 1
	}
	return &Health{Max: max, Current: max}
}

// IsAlive reports whether the entity is alive.
func (h *Health) IsAlive() bool {
	return h != nil && !h.Dead && h.Current > 0
}

// ApplyDamage subtracts amount. Returns true if damage was applied.
func (h *Health) ApplyDamage(amount float64, source string) bool {
	if h == nil || h.Dead || amount <= 0 || math.IsNaN(amount) {
		return false
	}
	h.Current -= amount
	h.LastSource = source
	if h.Current <= 0 {
		h.Current = 0
		h.Dead = true
	}
	return true
}

// Heal restores health up to Max.
func (h *Health) Heal(amount float64) {
	if h == nil || h.Dead || amount <= 0 {
		return
	}
	h.Current = math.Min(h.Current+amount, h.Max)
}

var HealthComponent = NewComponent[Health]()
