package arena

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadzone/door"
	"github.com/milk9111/deadzone/ecs"
	"github.com/milk9111/deadzone/ecs/component"
	"github.com/milk9111/deadzone/ecs/system"
	"github.com/milk9111/deadzone/levels"
	"github.com/milk9111/deadzone/prefabs"
	"github.com/milk9111/deadzone/prop"
	"github.com/milk9111/deadzone/zone"
)

func buildPit(t *testing.T) *Arena {
	t.Helper()
	catalog, err := prefabs.LoadCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	l, err := levels.Load("pit")
	if err != nil {
		t.Fatalf("load pit: %v", err)
	}
	a, err := Build(l, Options{Catalog: catalog, Seed: 3})
	if err != nil {
		t.Fatalf("build pit: %v", err)
	}
	return a
}

func player(t *testing.T, a *Arena) ecs.Entity {
	t.Helper()
	e, ok := ecs.First(a.World(), component.PlayerTagComponent.Kind())
	if !ok {
		t.Fatalf("expected a player")
	}
	return e
}

func TestBuildPit(t *testing.T) {
	a := buildPit(t)

	if got := len(a.Zones()); got != 3 {
		t.Fatalf("expected 3 zones, got %d", got)
	}
	if got := len(a.Props()); got != 7 {
		t.Fatalf("expected 7 props, got %d", got)
	}
	if got := len(a.Doors()); got != 3 {
		t.Fatalf("expected 3 doors, got %d", got)
	}
	if !a.Zone("live-wire").Active() {
		t.Fatalf("expected live wire powered by its generator")
	}
	if a.Generator("gen-west") == nil {
		t.Fatalf("expected generator registered")
	}
	if a.Prop("barrel-1").MaxHealth() != 20 {
		t.Fatalf("expected catalog health on barrel")
	}
	if west := a.Door("west"); !west.HasBarricade() || !west.HasTrap() {
		t.Fatalf("expected west door barricaded and trapped")
	}
	if a.Door("east").State() != door.Inactive {
		t.Fatalf("expected east door inactive")
	}
	if _, ok := a.SpawnThrough("west", "walker"); ok {
		t.Fatalf("expected barricade to block spawns")
	}
	if _, ok := a.SpawnThrough("north", "walker"); !ok {
		t.Fatalf("expected north door to spawn")
	}
}

func TestBuildRejectsMissingScript(t *testing.T) {
	l, err := levels.Parse([]byte(`
name: broken
width: 100
height: 100
entities:
  - type: prop
    id: idol
    x: 10
    y: 10
    props:
      kind: scripted
      script: does-not-exist
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := Build(l, Options{}); err == nil {
		t.Fatalf("expected missing script to fail the build")
	}
	if _, err := Build(nil, Options{}); err == nil {
		t.Fatalf("expected nil layout to fail")
	}
}

func TestGeneratorPowersZone(t *testing.T) {
	a := buildPit(t)
	wire := a.Zone("live-wire")

	if !a.DamageProp("gen-west", 1000, "bullet") {
		t.Fatalf("expected generator to break")
	}
	if wire.Active() {
		t.Fatalf("expected broken generator to cut power")
	}
	if a.Prop("gen-west") == nil {
		t.Fatalf("expected broken generator to stay in play")
	}
	if !a.RepairGenerator("gen-west") {
		t.Fatalf("expected repair to succeed")
	}
	if !wire.Active() {
		t.Fatalf("expected repair to restore power")
	}

	a.Update(frame)
	if !a.Interact("gen-west") || wire.Active() {
		t.Fatalf("expected interaction to switch the generator off")
	}
}

func TestElectrifiedWater(t *testing.T) {
	a := buildPit(t)
	e := a.AddEnemy("walker", mgl64.Vec2{240, 360}, EnemyStats{Health: 60, Radius: 5})

	run(a, 70)
	h := health(t, a, e)
	if h.Current != 40 || h.LastSource != string(zone.KindElectric) {
		t.Fatalf("expected two electric ticks through the water, got %v from %q", h.Current, h.LastSource)
	}

	a.DamageProp("gen-west", 1000, "bullet")
	run(a, 70)
	if h.Current != 40 {
		t.Fatalf("expected unpowered water to be harmless, got %v", h.Current)
	}
}

func TestSwitchDrivesTraps(t *testing.T) {
	a := buildPit(t)
	blades := a.Prop("blades").Payload().(*prop.BladeTrap)

	if !a.Interact("lever-east") {
		t.Fatalf("expected lever to toggle")
	}
	if a.Zone("jet-east.jet") == nil {
		t.Fatalf("expected flame trap to vent")
	}
	if !blades.Active() {
		t.Fatalf("expected blades to follow the lever on")
	}

	// past the flame trap's cooldown
	run(a, 70)
	if !a.Interact("lever-east") {
		t.Fatalf("expected lever to toggle again after cooldown")
	}
	if blades.Active() {
		t.Fatalf("expected blades to follow the lever off")
	}
	if jets := a.Prop("jet-east").Payload().(*prop.FlameTrap).Jets(); jets != 2 {
		t.Fatalf("expected flame trap to vent on every toggle, got %d", jets)
	}
}

func TestShrineFiresOnPlayerProximity(t *testing.T) {
	a := buildPit(t)
	p := player(t, a)

	run(a, 2)
	if a.Zone("shrine.flare") != nil {
		t.Fatalf("expected shrine idle while the player is away")
	}

	tf, _ := ecs.Get(a.World(), p, component.TransformComponent.Kind())
	tf.SetVec(mgl64.Vec2{480, 540})
	a.Update(frame)

	if a.Zone("shrine.flare") == nil {
		t.Fatalf("expected shrine to light a flare")
	}
	if a.Prop("shrine") != nil {
		t.Fatalf("expected single-use shrine to be consumed")
	}
	if h := health(t, a, p); h.Current >= h.Max {
		t.Fatalf("expected shrine shockwave to hit the player")
	}
}

func TestFlareRevealsInvisibles(t *testing.T) {
	a := New(Options{})
	cfg := zone.Preset(zone.KindFlare)
	cfg.ID = "flare"
	a.AddZone(cfg)
	e := a.AddEnemy("stalker", mgl64.Vec2{50, 0}, Enemies["stalker"])

	if system.IsVisible(a.World(), e) {
		t.Fatalf("expected stalker hidden before the flare ticks")
	}
	a.Update(frame)
	if !system.IsVisible(a.World(), e) {
		t.Fatalf("expected flare to reveal the stalker")
	}

	tf, _ := ecs.Get(a.World(), e, component.TransformComponent.Kind())
	tf.SetVec(mgl64.Vec2{1000, 0})
	run(a, 30)
	if system.IsVisible(a.World(), e) {
		t.Fatalf("expected reveal to wear off after leaving the flare")
	}
}

func TestSwitchTargetsZonesAndProps(t *testing.T) {
	l, err := levels.Parse([]byte(`
name: valves
width: 400
height: 400
entities:
  - type: prop
    id: valve
    x: 10
    y: 10
    props:
      kind: switch
      targets: [steam, vent-jet]
  - type: prop
    id: vent-jet
    x: 100
    y: 100
    props:
      kind: flame_trap
      trigger: on_switch
  - type: zone
    id: steam
    x: 200
    y: 200
    props:
      kind: fire
      duration_ms: 0
      inactive: true
  - type: zone
    id: sluice
    x: 300
    y: 300
    props:
      kind: water
      switch: valve
      inactive: true
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	a, err := Build(l, Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	steam, sluice := a.Zone("steam"), a.Zone("sluice")
	jet := a.Prop("vent-jet").Payload().(*prop.FlameTrap)

	if !a.Interact("valve") {
		t.Fatalf("expected valve to toggle")
	}
	if !steam.Active() || !sluice.Active() {
		t.Fatalf("expected targeted and linked zones to power on")
	}
	if jet.Jets() != 1 {
		t.Fatalf("expected targeted flame trap to vent, got %d", jet.Jets())
	}

	a.Update(frame)
	if !a.Interact("valve") {
		t.Fatalf("expected valve to toggle back")
	}
	if steam.Active() || sluice.Active() {
		t.Fatalf("expected zones to power off with the valve")
	}
	if jet.Jets() != 2 {
		t.Fatalf("expected flame trap to vent on every toggle, got %d", jet.Jets())
	}
}

func TestScriptedZoneUsesCatalog(t *testing.T) {
	catalog := &prefabs.Catalog{Hazards: prefabs.HazardCatalog{Zones: map[string]prefabs.ZoneSpec{
		"acid": {Radius: 99},
	}}}
	a := New(Options{Catalog: catalog})
	s, err := prop.NewScripted(prop.Config{ID: "vat", Trigger: prop.OnInteract}, []byte(`arena.spawn_zone("acid")`), a)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	a.AddProp(s.Prop)

	if !a.Interact("vat") {
		t.Fatalf("expected vat to fire")
	}
	z := a.Zone("vat.acid")
	if z == nil {
		t.Fatalf("expected scripted acid zone")
	}
	if z.Radius() != 99 || z.DamagePerSecond() != zone.Preset(zone.KindAcid).DamagePerSecond {
		t.Fatalf("expected catalog radius over the preset, got radius %v dps %v", z.Radius(), z.DamagePerSecond())
	}
}

func TestBuildRejectsRefusedDoorGear(t *testing.T) {
	l, err := levels.Parse([]byte(`
name: gate
width: 100
height: 100
entities:
  - type: door
    id: gate
    x: 50
    y: 0
    props:
      side: top
      trap: dud
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	catalog := &prefabs.Catalog{Doors: prefabs.DoorCatalog{Traps: map[string]prefabs.TrapSpec{
		"dud": {Charges: 0, Damage: 10},
	}}}
	if _, err := Build(l, Options{Catalog: catalog}); err == nil {
		t.Fatalf("expected a trap without charges to fail the build")
	}
	if _, err := Build(l, Options{}); err == nil {
		t.Fatalf("expected a trap missing from the catalog to fail the build")
	}
}
