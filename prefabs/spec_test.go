package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/deadzone/door"
	"github.com/milk9111/deadzone/zone"
)

func TestLoadCatalog(t *testing.T) {
	cat, err := LoadCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	for kind := range cat.Hazards.Zones {
		if !zone.Kind(kind).Valid() {
			t.Fatalf("hazards.yaml tunes unknown kind %q", kind)
		}
	}
	fire := cat.Hazards.Zone(zone.KindFire)
	if fire.DamagePerSecond != 15 || fire.Duration != 5*time.Second {
		t.Fatalf("unexpected fire tuning: %+v", fire)
	}
	water := cat.Hazards.Zone(zone.KindWater)
	if !water.ConductsElectricity || water.SlowFactor != 0.7 {
		t.Fatalf("unexpected water tuning: %+v", water)
	}

	barrel, ok := cat.Props.Prop("barrel")
	if !ok || barrel.Damage != 100 || barrel.Radius != 80 {
		t.Fatalf("unexpected barrel tuning: %+v", barrel)
	}
	flame, _ := cat.Props.Prop("flame_trap")
	jet := flame.ZoneConfig(cat.Hazards)
	if jet.Kind != zone.KindFire || jet.Radius != 40 || jet.Duration != 800*time.Millisecond {
		t.Fatalf("unexpected flame jet: %+v", jet)
	}

	cfg := cat.Doors.Config(door.Config{ID: "d"})
	if cfg.DestroyedSpeedMultiplier != 1.5 || cfg.BarricadeHealth[door.BarricadeHeavy] != 250 {
		t.Fatalf("unexpected door tuning: %+v", cfg)
	}
	glue, ok := cat.Doors.Trap(door.TrapGlue)
	if !ok || glue.Charges != 5 || glue.Payload.SlowFactor != 0.4 {
		t.Fatalf("unexpected glue trap: %+v", glue)
	}
	spike, _ := cat.Doors.Trap(door.TrapSpike)
	if spike.Payload.SlowFactor != 1 {
		t.Fatalf("expected unset slow to mean no slow, got %v", spike.Payload.SlowFactor)
	}
}

func TestZoneSpecApplyKeepsUnsetFields(t *testing.T) {
	half := 0.5
	cfg := ZoneSpec{SlowFactor: &half}.Apply(zone.Preset(zone.KindAcid))
	if cfg.SlowFactor != 0.5 || cfg.DamagePerSecond != 8 || cfg.Radius != 48 {
		t.Fatalf("expected only slow factor overridden, got %+v", cfg)
	}
}

func TestPropSpecMerge(t *testing.T) {
	base := PropSpec{Health: 20, Damage: 100, Radius: 80}
	got := PropSpec{Damage: 40}.Merge(base)
	if got.Health != 20 || got.Damage != 40 || got.Radius != 80 {
		t.Fatalf("unexpected merge: %+v", got)
	}
}

func TestDecodeSpec(t *testing.T) {
	raw := map[string]any{"health": 5, "zone": "acid"}
	spec, err := DecodeSpec[PropSpec](raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if spec.Health != 5 || spec.Zone != "acid" {
		t.Fatalf("unexpected decode: %+v", spec)
	}
	if _, err := DecodeSpec[PropSpec](nil); err != nil {
		t.Fatalf("expected nil raw to decode to zero value")
	}
}

func TestLoadScript(t *testing.T) {
	for _, name := range []string{"shrine", "shrine.tengo", "scripts/shrine.tengo", "prefabs/scripts/shrine.tengo"} {
		if _, err := LoadScript(name); err != nil {
			t.Fatalf("load %q: %v", name, err)
		}
	}
	if _, err := LoadScript("missing"); err == nil {
		t.Fatalf("expected missing script to fail")
	}
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	old := Dir
	Dir = dir
	defer func() { Dir = old }()

	if err := os.WriteFile(filepath.Join(dir, "hazards.yaml"), []byte("zones:\n  fire:\n    damage_per_second: 99\n"), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}
	cat, err := LoadHazardCatalog()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := cat.Zone(zone.KindFire).DamagePerSecond; got != 99 {
		t.Fatalf("expected disk override, got %v", got)
	}
	if _, ok := ModTime("hazards.yaml"); !ok {
		t.Fatalf("expected mod time for override")
	}
}

func TestWatched(t *testing.T) {
	tests := map[string]bool{
		"prefabs/props.yaml":           true,
		"levels/pit.yml":               true,
		"prefabs/scripts/shrine.tengo": true,
		"README.md":                    false,
		"main.go":                      false,
	}
	for path, want := range tests {
		if got := Watched(path); got != want {
			t.Fatalf("%s: expected %v, got %v", path, want, got)
		}
	}
}
