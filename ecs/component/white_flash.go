package component

import "time"

// WhiteFlash blinks an entity while Remaining runs down after it takes
// damage. On flips every Interval.
type WhiteFlash struct {
	Remaining time.Duration
	Interval  time.Duration
	Timer     time.Duration
	On        bool
}

var WhiteFlashComponent = NewComponent[WhiteFlash]()
