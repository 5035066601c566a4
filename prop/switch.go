package prop

import "github.com/milk9111/deadzone/bus"

// Switch toggles on interaction and broadcasts its new state to every prop
// linked to its id.
type Switch struct {
	*Prop
	Targets []string
	on      bool
}

// NewSwitch builds an unlimited on-interact switch.
func NewSwitch(cfg Config, targets []string, startOn bool, env Env) *Switch {
	if cfg.Kind == "" {
		cfg.Kind = KindSwitch
	}
	cfg.Trigger = OnInteract
	cfg.Charges = Unlimited
	s := &Switch{Targets: append([]string(nil), targets...), on: startOn}
	s.Prop = New(cfg, s, env)
	return s
}

func (s *Switch) Fire(p *Prop, source string) {
	s.on = !s.on
	p.publish(bus.TopicPropActive, s.on)
	p.publish(bus.TopicSwitch, bus.SwitchToggled{SwitchID: p.ID(), On: s.on, Targets: s.Targets})
}

// On reports the switch position.
func (s *Switch) On() bool { return s.on }
