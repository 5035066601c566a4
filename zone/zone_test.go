package zone

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadzone/bus"
	"github.com/milk9111/deadzone/ecs"
)

type hit struct {
	entity ecs.Entity
	amount float64
	source string
}

type recorder struct {
	hits     []hit
	slows    int
	reveals  int
	lastSlow float64
}

func (r *recorder) Damage(e ecs.Entity, amount float64, source string) bool {
	r.hits = append(r.hits, hit{entity: e, amount: amount, source: source})
	return true
}

func (r *recorder) Slow(e ecs.Entity, factor float64, d time.Duration) {
	r.slows++
	r.lastSlow = factor
}

func (r *recorder) Reveal(e ecs.Entity) {
	r.reveals++
}

const target = ecs.Entity(1)

func at(x, y float64) []Candidate {
	return []Candidate{{Entity: target, Position: mgl64.Vec2{x, y}}}
}

func TestZoneTickThrottlesDamageAcrossFrameRates(t *testing.T) {
	tests := []struct {
		name string
		dt   time.Duration
	}{
		{name: "240hz", dt: 4 * time.Millisecond},
		{name: "60hz", dt: 16 * time.Millisecond},
		{name: "30hz", dt: 33 * time.Millisecond},
		{name: "10hz", dt: 100 * time.Millisecond},
		{name: "2hz", dt: 500 * time.Millisecond},
		{name: "1.4hz", dt: 700 * time.Millisecond},
		{name: "0.8hz", dt: 1200 * time.Millisecond},
	}

	const presence = 2 * time.Second
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			z := New(Config{ID: "fire", Kind: KindFire, Radius: 10, SlowFactor: 1, DamagePerSecond: 20}, 0, nil)
			fx := &recorder{}

			var lastInside time.Duration
			for now := time.Duration(0); now <= presence; now += tc.dt {
				z.Tick(now, at(0, 0), fx)
				lastInside = now
			}
			z.Tick(lastInside+tc.dt, nil, fx)

			want := int(lastInside / DefaultTickRate)
			if len(fx.hits) != want {
				t.Fatalf("expected %d applications over %v, got %d", want, lastInside, len(fx.hits))
			}
			for _, h := range fx.hits {
				if h.amount != 10 {
					t.Fatalf("expected 10 damage per tick, got %v", h.amount)
				}
				if h.source != "fire" {
					t.Fatalf("expected source fire, got %q", h.source)
				}
			}
		})
	}
}

func TestZoneSlowFramesCatchUp(t *testing.T) {
	z := New(Config{Radius: 10, SlowFactor: 1, DamagePerSecond: 10}, 0, nil)
	fx := &recorder{}

	for now := time.Duration(0); now <= 2800*time.Millisecond; now += 700 * time.Millisecond {
		z.Tick(now, at(0, 0), fx)
	}
	if len(fx.hits) != 5 {
		t.Fatalf("expected 5 applications over 2.8s of 700ms frames, got %d", len(fx.hits))
	}
}

func TestZoneStallDropsBacklog(t *testing.T) {
	z := New(Config{Radius: 10, SlowFactor: 1, DamagePerSecond: 10}, 0, nil)
	fx := &recorder{}

	z.Tick(0, at(0, 0), fx)
	z.Tick(2*time.Second, at(0, 0), fx)
	if len(fx.hits) != MaxCatchUp {
		t.Fatalf("expected %d applications after stall, got %d", MaxCatchUp, len(fx.hits))
	}
	z.Tick(2400*time.Millisecond, at(0, 0), fx)
	if len(fx.hits) != MaxCatchUp {
		t.Fatalf("expected clock to restart at stall frame, got %d applications", len(fx.hits))
	}
	z.Tick(2500*time.Millisecond, at(0, 0), fx)
	if len(fx.hits) != MaxCatchUp+1 {
		t.Fatalf("expected next application one period after stall, got %d", len(fx.hits))
	}
}

func TestZoneMembership(t *testing.T) {
	z := New(Config{Radius: 10, SlowFactor: 1}, 0, nil)

	steps := []struct {
		name       string
		candidates []Candidate
		want       bool
	}{
		{name: "outside", candidates: at(11, 0), want: false},
		{name: "enters at rim", candidates: at(10, 0), want: true},
		{name: "inside margin stays", candidates: at(10+ExitMargin, 0), want: true},
		{name: "past margin exits", candidates: at(10+ExitMargin+0.1, 0), want: false},
		{name: "reenters", candidates: at(2, 2), want: true},
		{name: "dropped candidate exits", candidates: nil, want: false},
	}
	for i, step := range steps {
		z.Tick(time.Duration(i)*time.Millisecond, step.candidates, &recorder{})
		if got := z.Contains(target); got != step.want {
			t.Fatalf("%s: expected contained=%v, got %v", step.name, step.want, got)
		}
	}
}

func TestZoneEnterExitAreIdempotent(t *testing.T) {
	b := bus.New()
	var enters, exits int
	b.Subscribe(bus.TopicZoneEnter, func(bus.Event) { enters++ })
	b.Subscribe(bus.TopicZoneExit, func(bus.Event) { exits++ })

	z := New(Config{ID: "z", Radius: 10, SlowFactor: 0.5}, 0, b)
	fx := &recorder{}
	if !z.OnEntityEnter(target, 0, fx) {
		t.Fatalf("expected first enter to succeed")
	}
	if z.OnEntityEnter(target, 0, fx) {
		t.Fatalf("expected repeated enter to be a no-op")
	}
	if fx.slows != 1 || fx.lastSlow != 0.5 {
		t.Fatalf("expected one immediate slow pulse of 0.5, got %d pulses of %v", fx.slows, fx.lastSlow)
	}
	if !z.OnEntityExit(target) || z.OnEntityExit(target) {
		t.Fatalf("expected exactly one successful exit")
	}
	if enters != 1 || exits != 1 {
		t.Fatalf("expected 1 enter and 1 exit notification, got %d and %d", enters, exits)
	}
}

func TestZoneExpiresExactlyOnce(t *testing.T) {
	b := bus.New()
	destroyed := 0
	b.Subscribe(bus.TopicZoneDestroy, func(bus.Event) { destroyed++ })

	z := New(Config{ID: "blood", Radius: 10, SlowFactor: 1, Duration: time.Second}, 100*time.Millisecond, b)
	if z.Tick(time.Second, at(0, 0), &recorder{}) {
		t.Fatalf("expected zone alive before its duration elapsed")
	}
	if !z.Tick(1100*time.Millisecond, at(0, 0), &recorder{}) {
		t.Fatalf("expected zone to expire once its duration elapsed")
	}
	if z.Tick(1200*time.Millisecond, at(0, 0), &recorder{}) {
		t.Fatalf("expected expiry to be reported once")
	}
	if destroyed != 1 {
		t.Fatalf("expected one destroy notification, got %d", destroyed)
	}
	if len(z.Members()) != 0 {
		t.Fatalf("expected destroyed zone to release members")
	}
	if z.Destroy() {
		t.Fatalf("expected Destroy on a destroyed zone to fail")
	}
}

func TestZoneWithoutDamageStillSlowsAndReveals(t *testing.T) {
	z := New(Config{Radius: 10, SlowFactor: 0.4, RevealInvisibles: true}, 0, nil)
	fx := &recorder{}
	for i := 0; i < 60; i++ {
		z.Tick(time.Duration(i)*100*time.Millisecond, at(0, 0), fx)
	}
	if len(fx.hits) != 0 {
		t.Fatalf("expected no damage from a zero-dps zone, got %d", len(fx.hits))
	}
	if fx.reveals != 60 {
		t.Fatalf("expected reveal every frame, got %d", fx.reveals)
	}
	if fx.slows < 60 {
		t.Fatalf("expected slow pulse every frame, got %d", fx.slows)
	}
	if len(z.lastTick) != 0 {
		t.Fatalf("expected zero-dps zone to keep no tick stamps")
	}
}

func TestZoneFollowsGeneratorPower(t *testing.T) {
	b := bus.New()
	z := New(Config{ID: "grid", Kind: KindElectric, Radius: 10, SlowFactor: 1, DamagePerSecond: 10, LinkedGeneratorID: "gen-1"}, 0, b)
	other := New(Config{ID: "listed", Radius: 10, SlowFactor: 1, StartInactive: true}, 0, b)
	fx := &recorder{}

	z.Tick(0, at(0, 0), fx)
	b.Publish(bus.Event{Topic: bus.TopicGenerator, Data: bus.GeneratorPower{GeneratorID: "gen-2", Active: false}})
	if !z.Active() {
		t.Fatalf("expected unrelated generator to be ignored")
	}

	b.Publish(bus.Event{Topic: bus.TopicGenerator, Data: bus.GeneratorPower{GeneratorID: "gen-1", Active: false, ZoneIDs: []string{"listed"}}})
	if z.Active() {
		t.Fatalf("expected linked zone to power off")
	}
	if other.Active() {
		t.Fatalf("expected listed zone to stay off")
	}
	z.Tick(time.Second, at(0, 0), fx)
	if z.Contains(target) || len(fx.hits) != 0 {
		t.Fatalf("expected inactive zone to release members without damage")
	}

	b.Publish(bus.Event{Topic: bus.TopicGenerator, Data: bus.GeneratorPower{GeneratorID: "gen-9", Active: true, ZoneIDs: []string{"listed"}}})
	if !other.Active() {
		t.Fatalf("expected listed zone to power on")
	}

	z.Destroy()
	if got := b.Subscribers(bus.TopicGenerator); got != 1 {
		t.Fatalf("expected destroyed zone to unsubscribe, %d subscribers left", got)
	}
}

func TestZoneFollowsSwitch(t *testing.T) {
	b := bus.New()
	linked := New(Config{ID: "vent", Radius: 10, SlowFactor: 1, LinkedSwitchID: "valve", StartInactive: true}, 0, b)
	targeted := New(Config{ID: "pool", Radius: 10, SlowFactor: 1, StartInactive: true}, 0, b)
	idle := New(Config{ID: "idle", Radius: 10, SlowFactor: 1, StartInactive: true}, 0, b)

	b.Publish(bus.Event{Topic: bus.TopicSwitch, Data: bus.SwitchToggled{SwitchID: "valve", On: true, Targets: []string{"pool"}}})
	if !linked.Active() || !targeted.Active() {
		t.Fatalf("expected linked and targeted zones to power on")
	}
	if idle.Active() {
		t.Fatalf("expected unrelated zone to stay off")
	}

	b.Publish(bus.Event{Topic: bus.TopicSwitch, Data: bus.SwitchToggled{SwitchID: "other", On: false, Targets: []string{"pool"}}})
	if !linked.Active() || targeted.Active() {
		t.Fatalf("expected only the targeted zone to power off")
	}

	linked.Destroy()
	if got := b.Subscribers(bus.TopicSwitch); got != 2 {
		t.Fatalf("expected destroyed zone to stop listening to switches, %d subscribers left", got)
	}
}

func TestZoneElectrifyOnlyConductive(t *testing.T) {
	water := New(Preset(KindWater), 0, nil)
	debris := New(Preset(KindDebris), 0, nil)
	wfx, dfx := &recorder{}, &recorder{}

	water.Tick(0, at(0, 0), wfx)
	debris.Tick(0, at(0, 0), dfx)
	for now := 100 * time.Millisecond; now <= 1100*time.Millisecond; now += 100 * time.Millisecond {
		water.Electrify(20)
		debris.Electrify(20)
		water.Tick(now, at(0, 0), wfx)
		debris.Tick(now, at(0, 0), dfx)
	}

	if len(dfx.hits) != 0 {
		t.Fatalf("expected non-conductive zone to ignore charge")
	}
	if len(wfx.hits) != 2 {
		t.Fatalf("expected 2 electric applications, got %d", len(wfx.hits))
	}
	if wfx.hits[0].source != "electric" || wfx.hits[0].amount != 10 {
		t.Fatalf("expected 10 electric damage, got %v from %q", wfx.hits[0].amount, wfx.hits[0].source)
	}
	if water.DamagePerSecond() != 0 {
		t.Fatalf("expected charge to clear after the tick")
	}
}

func TestZoneAlpha(t *testing.T) {
	z := New(Config{Radius: 1, Duration: 2 * time.Second}, 0, nil)
	tests := []struct {
		now  time.Duration
		want float64
	}{
		{now: 0, want: 1},
		{now: 1500 * time.Millisecond, want: 1},
		{now: 1750 * time.Millisecond, want: 0.5},
		{now: 2 * time.Second, want: 0},
	}
	for _, tc := range tests {
		if got := z.Alpha(tc.now); got != tc.want {
			t.Fatalf("alpha at %v: expected %v, got %v", tc.now, tc.want, got)
		}
	}
	if New(Config{Radius: 1}, 0, nil).Alpha(time.Hour) != 1 {
		t.Fatalf("expected permanent zone to stay opaque")
	}
}
