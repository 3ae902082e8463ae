package main

import (
	"context"
	"math"
	"time"

	loggingcombat "space-dogfight/sim/logging/combat"
)

// ApplyDamage resolves one incoming hit against a vehicle and reports
// whether it is still alive. Armor is subtracted once per hit with a floor
// of one point passing through; the shield pool absorbs before hull, and
// shield overflow reaches the hull without a second armor reduction.
func (w *World) ApplyDamage(target *vehicleState, amount float64, sourceID string, now time.Time) bool {
	if w == nil || target == nil {
		return false
	}
	if !target.Alive {
		return false
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return true
	}

	// Stamped before anything else so a regen check later in the same
	// frame can never observe a pre-hit timestamp.
	target.LastDamageAt = now

	reduced := amount - target.ArmorRating
	if reduced < minDamageFloor {
		reduced = minDamageFloor
	}

	payload := loggingcombat.DamagePayload{Amount: amount, Reduced: reduced}

	if target.HasShield() && target.shield.Shield > 0 {
		shield := target.shield
		shield.Shield -= reduced
		if shield.Shield >= 0 {
			payload.ShieldAbsorbed = reduced
			payload.HullRemaining = target.Hull
			// Depletion fires even when absorption lands exactly on zero.
			if shield.Shield == 0 {
				loggingcombat.ShieldDown(context.Background(), w.publisher, w.currentTick, w.entityRef(sourceID), w.entityRef(target.ID))
				w.telemetry.RecordShieldBreak()
			}
			w.publishDamage(sourceID, target, payload)
			w.telemetry.RecordDamage(reduced)
			return true
		}
		overflow := -shield.Shield
		shield.Shield = 0
		payload.ShieldAbsorbed = reduced - overflow
		loggingcombat.ShieldDown(context.Background(), w.publisher, w.currentTick, w.entityRef(sourceID), w.entityRef(target.ID))
		w.telemetry.RecordShieldBreak()
		alive := w.applyHullDamage(target, overflow, sourceID, now)
		payload.HullRemaining = target.Hull
		w.publishDamage(sourceID, target, payload)
		w.telemetry.RecordDamage(reduced)
		return alive
	}

	alive := w.applyHullDamage(target, reduced, sourceID, now)
	payload.HullRemaining = target.Hull
	w.publishDamage(sourceID, target, payload)
	w.telemetry.RecordDamage(reduced)
	return alive
}

// applyHullDamage reduces the hull pool, clamping at zero and flipping the
// terminal alive transition exactly once.
func (w *World) applyHullDamage(target *vehicleState, amount float64, sourceID string, now time.Time) bool {
	target.Hull -= amount
	if target.Hull > 0 {
		return true
	}
	target.Hull = 0
	if target.Alive {
		target.Alive = false
		w.handleDestruction(target, sourceID, now)
	}
	return false
}

// handleDestruction signals the terminal transition to collaborators and
// force-expires any ledger entries still bound to the wreck.
func (w *World) handleDestruction(target *vehicleState, sourceID string, now time.Time) {
	loggingcombat.Destroyed(
		context.Background(),
		w.publisher,
		w.currentTick,
		w.entityRef(target.ID),
		loggingcombat.DestroyedPayload{SourceID: sourceID},
	)
	w.telemetry.RecordDestruction()
	w.expireEffectsFor(target.ID, now)
}

func (w *World) publishDamage(sourceID string, target *vehicleState, payload loggingcombat.DamagePayload) {
	loggingcombat.Damage(
		context.Background(),
		w.publisher,
		w.currentTick,
		w.entityRef(sourceID),
		w.entityRef(target.ID),
		payload,
	)
}

// regenShields advances passive shield recovery for every living shielded
// vehicle. Runs after damage application in the frame so the delay window
// always measures from the latest hit.
func (w *World) regenShields(now time.Time, dt float64) {
	if w == nil || dt <= 0 {
		return
	}
	for _, id := range w.vehicleOrder() {
		v := w.vehicles[id]
		if v == nil || !v.Alive || !v.HasShield() {
			continue
		}
		regenTick(v, now, dt)
	}
}

// regenTick applies one frame of shield regeneration to a single vehicle,
// at exactly RegenRate per second.
func regenTick(v *vehicleState, now time.Time, dt float64) {
	shield := v.shield
	if shield.Shield >= shield.MaxShield {
		return
	}
	if !v.LastDamageAt.IsZero() && now.Sub(v.LastDamageAt) <= shield.RegenDelay {
		return
	}
	shield.Shield += shield.RegenRate * dt
	if shield.Shield > shield.MaxShield {
		shield.Shield = shield.MaxShield
	}
}
