package main

import (
	"math"
	"testing"
	"time"

	"space-dogfight/sim/internal/space"
	loggingcombat "space-dogfight/sim/logging/combat"
)

func TestApplyDamageShieldOverflow(t *testing.T) {
	w, mem := newTestWorld(t)
	raider := mustSpawn(t, w, "raider", space.Vec3{})

	alive := w.ApplyDamage(raider, 100, "attacker", testEpoch)

	if !alive {
		t.Fatal("raider should survive the hit")
	}
	if raider.shield.Shield != 0 {
		t.Fatalf("shield = %v, want 0", raider.shield.Shield)
	}
	// 100 raw, armor 5 off once, 75 absorbed, 20 overflow to hull.
	if raider.Hull != 180 {
		t.Fatalf("hull = %v, want 180", raider.Hull)
	}
	if n := countEvents(mem, loggingcombat.EventShieldDown); n != 1 {
		t.Fatalf("shield down events = %d, want 1", n)
	}
}

func TestApplyDamageArmorFloor(t *testing.T) {
	w, _ := newTestWorld(t)
	sentry := mustSpawn(t, w, "sentry", space.Vec3{})

	w.ApplyDamage(sentry, 5, "attacker", testEpoch)

	// Armor 10 exceeds the hit; the floor still pushes one point through.
	if got := sentry.shield.MaxShield - sentry.shield.Shield; got != minDamageFloor {
		t.Fatalf("shield loss = %v, want %v", got, minDamageFloor)
	}
}

func TestApplyDamageDirectHullWithoutShield(t *testing.T) {
	w, _ := newTestWorld(t)
	fighter := mustSpawn(t, w, "fighter", space.Vec3{})

	w.ApplyDamage(fighter, 30, "attacker", testEpoch)

	if fighter.Hull != 70 {
		t.Fatalf("hull = %v, want 70", fighter.Hull)
	}
}

func TestApplyDamageRejectsNonPositive(t *testing.T) {
	w, mem := newTestWorld(t)
	fighter := mustSpawn(t, w, "fighter", space.Vec3{})

	for _, amount := range []float64{0, -10, math.NaN(), math.Inf(1)} {
		if alive := w.ApplyDamage(fighter, amount, "attacker", testEpoch); !alive {
			t.Fatalf("amount %v should report alive", amount)
		}
	}
	if fighter.Hull != fighter.MaxHull {
		t.Fatalf("hull = %v, want untouched %v", fighter.Hull, fighter.MaxHull)
	}
	if n := countEvents(mem, loggingcombat.EventDamage); n != 0 {
		t.Fatalf("damage events = %d, want 0", n)
	}
}

func TestApplyDamageDestruction(t *testing.T) {
	w, mem := newTestWorld(t)
	fighter := mustSpawn(t, w, "fighter", space.Vec3{})

	alive := w.ApplyDamage(fighter, 500, "attacker", testEpoch)

	if alive {
		t.Fatal("fighter should be destroyed")
	}
	if fighter.Hull != 0 {
		t.Fatalf("hull = %v, want clamp at 0", fighter.Hull)
	}
	if fighter.Alive {
		t.Fatal("alive flag should be cleared")
	}
	if n := countEvents(mem, loggingcombat.EventDestroyed); n != 1 {
		t.Fatalf("destroyed events = %d, want 1", n)
	}

	// Hits on the wreck are ignored and never re-fire destruction.
	if alive := w.ApplyDamage(fighter, 10, "attacker", testEpoch); alive {
		t.Fatal("dead target should report not alive")
	}
	if n := countEvents(mem, loggingcombat.EventDestroyed); n != 1 {
		t.Fatalf("destroyed events after second hit = %d, want 1", n)
	}
}

func TestDestructionExpiresEffects(t *testing.T) {
	w, _ := newTestWorld(t)
	raider := mustSpawn(t, w, "raider", space.Vec3{})

	entry := w.ApplyEffect(raider, EffectSpec{
		Kind:      EffectKindSpeed,
		Magnitude: 100,
		Duration:  time.Minute,
	}, testEpoch)
	if entry == nil {
		t.Fatal("expected a ledger entry")
	}

	w.ApplyDamage(raider, 10_000, "attacker", testEpoch)

	if got := w.ledger.ActiveCount(); got != 0 {
		t.Fatalf("active effects after destruction = %d, want 0", got)
	}
}

func TestShieldRegenWaitsForDelay(t *testing.T) {
	w, _ := newTestWorld(t)
	raider := mustSpawn(t, w, "raider", space.Vec3{})

	w.ApplyDamage(raider, 30, "attacker", testEpoch)
	damaged := raider.shield.Shield

	// Inside the delay window nothing recovers.
	w.regenShields(testEpoch.Add(time.Second), 1)
	if raider.shield.Shield != damaged {
		t.Fatalf("shield regenerated inside delay: %v", raider.shield.Shield)
	}

	// Past the window regen resumes.
	w.regenShields(testEpoch.Add(5*time.Second), 1)
	if raider.shield.Shield <= damaged {
		t.Fatalf("shield = %v, want recovery above %v", raider.shield.Shield, damaged)
	}
}

func TestShieldDownAtExactDepletion(t *testing.T) {
	w, mem := newTestWorld(t)
	raider := mustSpawn(t, w, "raider", space.Vec3{})

	// Armor 5 leaves exactly the 75 point pool: full absorption, no
	// overflow, and the depletion notification still fires.
	alive := w.ApplyDamage(raider, 80, "attacker", testEpoch)

	if !alive {
		t.Fatal("raider should survive the hit")
	}
	if raider.shield.Shield != 0 {
		t.Fatalf("shield = %v, want 0", raider.shield.Shield)
	}
	if raider.Hull != raider.MaxHull {
		t.Fatalf("hull = %v, want untouched %v", raider.Hull, raider.MaxHull)
	}
	if n := countEvents(mem, loggingcombat.EventShieldDown); n != 1 {
		t.Fatalf("shield down events = %d, want 1", n)
	}
}

func TestShieldRegenExactRate(t *testing.T) {
	w, _ := newTestWorld(t)
	raider := mustSpawn(t, w, "raider", space.Vec3{})

	w.ApplyDamage(raider, 30, "attacker", testEpoch)
	damaged := raider.shield.Shield

	w.regenShields(testEpoch.Add(10*time.Second), 1)

	gain := raider.shield.Shield - damaged
	if math.Abs(gain-raider.shield.RegenRate) > 1e-9 {
		t.Fatalf("regen gain = %v per second, want exactly %v", gain, raider.shield.RegenRate)
	}
}

func TestShieldRegenClampsAtMax(t *testing.T) {
	w, _ := newTestWorld(t)
	raider := mustSpawn(t, w, "raider", space.Vec3{})

	w.ApplyDamage(raider, 7, "attacker", testEpoch)
	for i := 0; i < 100; i++ {
		w.regenShields(testEpoch.Add(time.Duration(10+i)*time.Second), 1)
	}
	if raider.shield.Shield != raider.shield.MaxShield {
		t.Fatalf("shield = %v, want full %v", raider.shield.Shield, raider.shield.MaxShield)
	}
}

func TestRegenResetOnNewHit(t *testing.T) {
	w, _ := newTestWorld(t)
	raider := mustSpawn(t, w, "raider", space.Vec3{})

	w.ApplyDamage(raider, 30, "attacker", testEpoch)
	// A later hit restarts the delay window from its own timestamp.
	second := testEpoch.Add(10 * time.Second)
	w.ApplyDamage(raider, 30, "attacker", second)
	level := raider.shield.Shield

	w.regenShields(second.Add(time.Second), 1)
	if raider.shield.Shield != level {
		t.Fatalf("shield regenerated inside restarted delay: %v", raider.shield.Shield)
	}
}
