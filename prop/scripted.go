package prop

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/deadzone/bus"
	"github.com/milk9111/deadzone/zone"
)

// Scripted runs a level-authored tengo script as its payload. The script sees
// `source`, `prop_id`, `x`, `y` and an `arena` map of effect functions:
//
//	arena.explode(damage, radius)
//	arena.spawn_zone(kind, radius, duration_ms)
//	arena.broadcast(on)
//	arena.log(msg)
type Scripted struct {
	*Prop
	compiled *tengo.Compiled
}

// NewScripted compiles src and builds the prop around it.
func NewScripted(cfg Config, src []byte, env Env) (*Scripted, error) {
	script := tengo.NewScript(src)
	_ = script.Add("arena", map[string]any{})
	_ = script.Add("source", "")
	_ = script.Add("prop_id", "")
	_ = script.Add("x", 0.0)
	_ = script.Add("y", 0.0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("prop %s: compile script: %w", cfg.ID, err)
	}
	if cfg.Kind == "" {
		cfg.Kind = KindScripted
	}
	s := &Scripted{compiled: compiled}
	s.Prop = New(cfg, s, env)
	return s, nil
}

func (s *Scripted) Fire(p *Prop, source string) {
	if err := s.run(p, source); err != nil {
		log.Printf("prop: script %s: %v", p.ID(), err)
	}
}

func (s *Scripted) run(p *Prop, source string) error {
	pos := p.Position()
	if err := s.compiled.Set("arena", scriptEngine(p)); err != nil {
		return err
	}
	if err := s.compiled.Set("source", source); err != nil {
		return err
	}
	if err := s.compiled.Set("prop_id", p.ID()); err != nil {
		return err
	}
	if err := s.compiled.Set("x", pos.X()); err != nil {
		return err
	}
	if err := s.compiled.Set("y", pos.Y()); err != nil {
		return err
	}
	return s.compiled.Run()
}

func scriptEngine(p *Prop) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["explode"] = &tengo.UserFunction{Name: "explode", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		damage, ok := tengo.ToFloat64(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		radius, ok := tengo.ToFloat64(args[1])
		if !ok {
			return tengo.FalseValue, nil
		}
		explode(p, damage, radius)
		return tengo.TrueValue, nil
	}}

	values["spawn_zone"] = &tengo.UserFunction{Name: "spawn_zone", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 || len(args) > 3 {
			return nil, tengo.ErrWrongNumArguments
		}
		kind, ok := tengo.ToString(args[0])
		if !ok || !zone.Kind(kind).Valid() || p.env == nil {
			return tengo.FalseValue, nil
		}
		cfg := p.env.ZonePreset(zone.Kind(kind))
		if len(args) > 1 {
			if r, ok := tengo.ToFloat64(args[1]); ok && r > 0 {
				cfg.Radius = r
			}
		}
		if len(args) > 2 {
			if ms, ok := tengo.ToInt64(args[2]); ok && ms >= 0 {
				cfg.Duration = time.Duration(ms) * time.Millisecond
			}
		}
		cfg.ID = p.ID() + "." + kind
		cfg.Center = p.Position()
		return tengo.FromInterface(p.env.SpawnZone(cfg) != nil)
	}}

	values["broadcast"] = &tengo.UserFunction{Name: "broadcast", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		on, ok := tengo.ToBool(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		p.publish(bus.TopicSwitch, bus.SwitchToggled{SwitchID: p.ID(), On: on})
		return tengo.TrueValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			s, _ := tengo.ToString(a)
			parts = append(parts, s)
		}
		log.Printf("prop: %s: %s", p.ID(), strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}
