package main

import (
	"math"
	"testing"
	"time"

	"space-dogfight/sim/internal/space"
	loggingeffects "space-dogfight/sim/logging/effects"
)

func TestSpeedEffectAppliesAndReverts(t *testing.T) {
	w, _ := newTestWorld(t)
	fighter := mustSpawn(t, w, "fighter", space.Vec3{})
	base := fighter.CruiseSpeed

	entry := w.ApplyEffect(fighter, EffectSpec{
		Kind:      EffectKindSpeed,
		Magnitude: 100,
		Duration:  2 * time.Second,
	}, testEpoch)
	if entry == nil {
		t.Fatal("expected ledger entry")
	}
	if fighter.CruiseSpeed != base*2 {
		t.Fatalf("boosted speed = %v, want %v", fighter.CruiseSpeed, base*2)
	}

	w.advanceEffects(testEpoch.Add(3 * time.Second))
	if fighter.CruiseSpeed != base {
		t.Fatalf("restored speed = %v, want %v", fighter.CruiseSpeed, base)
	}
	if fighter.speedBaseline != 0 {
		t.Fatalf("baseline should clear after last speed effect, got %v", fighter.speedBaseline)
	}
}

func TestSpeedEffectStackRestoresTrueBaseline(t *testing.T) {
	w, _ := newTestWorld(t)
	fighter := mustSpawn(t, w, "fighter", space.Vec3{})
	base := fighter.CruiseSpeed

	w.ApplyEffect(fighter, EffectSpec{Kind: EffectKindSpeed, Magnitude: 100, Duration: 2 * time.Second}, testEpoch)
	w.ApplyEffect(fighter, EffectSpec{Kind: EffectKindSpeed, Magnitude: 100, Duration: 2 * time.Second}, testEpoch)

	if fighter.CruiseSpeed != base*4 {
		t.Fatalf("stacked speed = %v, want %v", fighter.CruiseSpeed, base*4)
	}
	// Both entries captured the original baseline, not each other's output.
	if fighter.speedBaseline != base {
		t.Fatalf("baseline = %v, want %v", fighter.speedBaseline, base)
	}

	w.advanceEffects(testEpoch.Add(3 * time.Second))
	if fighter.CruiseSpeed != base {
		t.Fatalf("speed after full expiry = %v, want %v", fighter.CruiseSpeed, base)
	}
}

func TestEffectExpiryIsExactlyOnce(t *testing.T) {
	w, mem := newTestWorld(t)
	fighter := mustSpawn(t, w, "fighter", space.Vec3{})

	w.ApplyEffect(fighter, EffectSpec{Kind: EffectKindSpeed, Magnitude: 50, Duration: time.Second}, testEpoch)
	mem.Reset()

	w.advanceEffects(testEpoch.Add(2 * time.Second))
	w.advanceEffects(testEpoch.Add(4 * time.Second))

	if n := countEvents(mem, loggingeffects.EventExpired); n != 1 {
		t.Fatalf("expired events = %d, want 1", n)
	}
	if got := w.ledger.ActiveCount(); got != 0 {
		t.Fatalf("active entries = %d, want 0", got)
	}
}

func TestInstantEffectClampsPools(t *testing.T) {
	w, _ := newTestWorld(t)
	fighter := mustSpawn(t, w, "fighter", space.Vec3{})
	fighter.Hull = 40

	if entry := w.ApplyEffect(fighter, EffectSpec{Kind: EffectKindInstant, Magnitude: 500, Pool: "hull"}, testEpoch); entry != nil {
		t.Fatal("instant effects must not create ledger entries")
	}
	if fighter.Hull != fighter.MaxHull {
		t.Fatalf("hull = %v, want clamp at %v", fighter.Hull, fighter.MaxHull)
	}

	raider := mustSpawn(t, w, "raider", space.Vec3{})
	raider.shield.Shield = 10
	w.ApplyEffect(raider, EffectSpec{Kind: EffectKindInstant, Magnitude: 20, Pool: "shield"}, testEpoch)
	if raider.shield.Shield != 30 {
		t.Fatalf("shield = %v, want 30", raider.shield.Shield)
	}
}

func TestInstantShieldEffectRequiresShield(t *testing.T) {
	w, mem := newTestWorld(t)
	fighter := mustSpawn(t, w, "fighter", space.Vec3{})

	w.ApplyEffect(fighter, EffectSpec{Kind: EffectKindInstant, Magnitude: 20, Pool: "shield"}, testEpoch)

	if n := countEvents(mem, loggingeffects.EventRejected); n != 1 {
		t.Fatalf("rejected events = %d, want 1", n)
	}
}

func TestEffectRejectedOnDeadTarget(t *testing.T) {
	w, _ := newTestWorld(t)
	fighter := mustSpawn(t, w, "fighter", space.Vec3{})
	fighter.Alive = false

	if entry := w.ApplyEffect(fighter, EffectSpec{Kind: EffectKindSpeed, Magnitude: 50, Duration: time.Second}, testEpoch); entry != nil {
		t.Fatal("dead targets must not accept effects")
	}
}

func TestEffectRejectsUnknownKind(t *testing.T) {
	w, mem := newTestWorld(t)
	fighter := mustSpawn(t, w, "fighter", space.Vec3{})

	w.ApplyEffect(fighter, EffectSpec{Kind: "teleport", Magnitude: 1}, testEpoch)

	if n := countEvents(mem, loggingeffects.EventRejected); n != 1 {
		t.Fatalf("rejected events = %d, want 1", n)
	}
	if got := w.ledger.ActiveCount(); got != 0 {
		t.Fatalf("active entries = %d, want 0", got)
	}
}

func TestEffectRejectsInvalidMagnitude(t *testing.T) {
	w, mem := newTestWorld(t)
	fighter := mustSpawn(t, w, "fighter", space.Vec3{})

	w.ApplyEffect(fighter, EffectSpec{Kind: EffectKindSpeed, Magnitude: math.NaN(), Duration: time.Second}, testEpoch)
	w.ApplyEffect(fighter, EffectSpec{Kind: EffectKindSpeed, Magnitude: math.Inf(1), Duration: time.Second}, testEpoch)

	if n := countEvents(mem, loggingeffects.EventRejected); n != 2 {
		t.Fatalf("rejected events = %d, want 2", n)
	}
}

func TestWeaponEffectRevertsByModifierID(t *testing.T) {
	w, _ := newTestWorld(t)
	fighter := mustSpawn(t, w, "fighter", space.Vec3{})
	weapon := fighter.loadout.ListActiveWeapons()[0]
	baseline := weapon.EffectiveDamage()

	w.ApplyEffect(fighter, EffectSpec{
		Kind:      EffectKindDamage,
		Magnitude: 30,
		Duration:  time.Second,
	}, testEpoch)
	if got := weapon.EffectiveDamage(); got <= baseline {
		t.Fatalf("damage with effect = %v, want above %v", got, baseline)
	}

	// A permanent modifier applied afterwards must survive the revert.
	permanentID, ok := fighter.loadout.ApplyModifier(weapon, ModifierSpec{Stat: "firepower", Add: 10})
	if !ok {
		t.Fatal("permanent modifier rejected")
	}
	withBoth := weapon.EffectiveDamage()

	w.advanceEffects(testEpoch.Add(2 * time.Second))

	after := weapon.EffectiveDamage()
	if after >= withBoth {
		t.Fatalf("damage after expiry = %v, want below %v", after, withBoth)
	}
	if after <= baseline {
		t.Fatalf("damage after expiry = %v, want permanent modifier retained above %v", after, baseline)
	}
	if !fighter.loadout.RemoveModifier(permanentID) {
		t.Fatal("permanent modifier vanished")
	}
}

func TestPermanentEffectLeavesNoEntry(t *testing.T) {
	w, _ := newTestWorld(t)
	fighter := mustSpawn(t, w, "fighter", space.Vec3{})
	base := fighter.CruiseSpeed

	if entry := w.ApplyEffect(fighter, EffectSpec{Kind: EffectKindSpeed, Magnitude: 10}, testEpoch); entry != nil {
		t.Fatal("permanent effects must not create ledger entries")
	}
	if fighter.CruiseSpeed != base*1.1 {
		t.Fatalf("speed = %v, want %v", fighter.CruiseSpeed, base*1.1)
	}
	if fighter.speedBaseline != 0 {
		t.Fatal("permanent speed changes must not record a baseline")
	}
}

func TestExpireForVanishedTarget(t *testing.T) {
	w, mem := newTestWorld(t)
	fighter := mustSpawn(t, w, "fighter", space.Vec3{})

	w.ApplyEffect(fighter, EffectSpec{Kind: EffectKindSpeed, Magnitude: 50, Duration: time.Second}, testEpoch)
	delete(w.vehicles, fighter.ID)
	mem.Reset()

	w.advanceEffects(testEpoch.Add(2 * time.Second))

	if got := w.ledger.ActiveCount(); got != 0 {
		t.Fatalf("active entries = %d, want 0", got)
	}
	if n := countEvents(mem, loggingeffects.EventExpired); n != 1 {
		t.Fatalf("expired events = %d, want 1", n)
	}
}
