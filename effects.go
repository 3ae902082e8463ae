package main

import (
	"context"
	"math"
	"time"

	loggingeffects "space-dogfight/sim/logging/effects"
)

// EffectKind tags the variants the ledger knows how to apply and revert.
type EffectKind string

const (
	EffectKindInstant    EffectKind = "instant"
	EffectKindSpeed      EffectKind = "speed"
	EffectKindDamage     EffectKind = "damage"
	EffectKindWeaponStat EffectKind = "weapon-stat"
)

// EffectSpec describes a requested stat modification. Duration zero means
// the change is immediate and permanent: nothing is recorded for reversal.
type EffectSpec struct {
	Kind      EffectKind
	Magnitude float64
	Duration  time.Duration
	// Pool selects the target pool for instant effects: "hull" or "shield".
	Pool string
	// Stat names the weapon attribute for weapon-stat effects.
	Stat string
}

// effectEntry is one ledger record awaiting reversal. The revert data is
// bound at application time; the procedure itself lives in the ledger's
// dispatch table keyed by kind.
type effectEntry struct {
	ID        uint64
	Kind      EffectKind
	TargetID  string
	Magnitude float64
	AppliedAt time.Time
	ExpiresAt time.Time

	// speed effects: the true pre-boost cruise speed.
	originalSpeed float64
	// damage/weapon-stat effects: the modifier ids assigned at apply time.
	modifierIDs []string

	reverted bool
}

type revertFunc func(w *World, target *vehicleState, entry *effectEntry)

// EffectLedger tracks active timed effects and guarantees each is reverted
// exactly once, at natural expiry or forced cleanup.
type EffectLedger struct {
	entries []*effectEntry
	reverts map[EffectKind]revertFunc
	nextID  uint64
}

func newEffectLedger() *EffectLedger {
	return &EffectLedger{
		reverts: map[EffectKind]revertFunc{
			EffectKindSpeed:      revertSpeed,
			EffectKindDamage:     revertModifiers,
			EffectKindWeaponStat: revertModifiers,
		},
	}
}

func revertSpeed(w *World, target *vehicleState, entry *effectEntry) {
	target.CruiseSpeed = entry.originalSpeed
	if !w.ledger.hasActiveSpeedEffect(target.ID) {
		target.speedBaseline = 0
	}
}

func revertModifiers(w *World, target *vehicleState, entry *effectEntry) {
	if target.loadout == nil {
		return
	}
	for _, id := range entry.modifierIDs {
		target.loadout.RemoveModifier(id)
	}
}

func (l *EffectLedger) hasActiveSpeedEffect(targetID string) bool {
	for _, entry := range l.entries {
		if entry.Kind == EffectKindSpeed && entry.TargetID == targetID && !entry.reverted {
			return true
		}
	}
	return false
}

// ActiveCount reports the number of live ledger entries.
func (l *EffectLedger) ActiveCount() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// ApplyEffect dispatches an effect spec against a living target. The
// returned entry is nil for instant or permanent effects, or when the spec
// is rejected.
func (w *World) ApplyEffect(target *vehicleState, spec EffectSpec, now time.Time) *effectEntry {
	if w == nil || target == nil || !target.Alive {
		return nil
	}
	if math.IsNaN(spec.Magnitude) || math.IsInf(spec.Magnitude, 0) {
		w.rejectEffect(target, spec, "invalid magnitude")
		return nil
	}

	switch spec.Kind {
	case EffectKindInstant:
		w.applyInstantEffect(target, spec)
		return nil
	case EffectKindSpeed:
		return w.applySpeedEffect(target, spec, now)
	case EffectKindDamage, EffectKindWeaponStat:
		return w.applyWeaponEffect(target, spec, now)
	default:
		w.rejectEffect(target, spec, "unknown kind")
		return nil
	}
}

// applyInstantEffect tops up a pool in place, clamped to its maximum.
func (w *World) applyInstantEffect(target *vehicleState, spec EffectSpec) {
	switch spec.Pool {
	case "hull":
		target.Hull += spec.Magnitude
		if target.Hull > target.MaxHull {
			target.Hull = target.MaxHull
		}
		if target.Hull < 0 {
			target.Hull = 0
		}
	case "shield":
		if !target.HasShield() {
			w.rejectEffect(target, spec, "no shield capability")
			return
		}
		shield := target.shield
		shield.Shield += spec.Magnitude
		if shield.Shield > shield.MaxShield {
			shield.Shield = shield.MaxShield
		}
		if shield.Shield < 0 {
			shield.Shield = 0
		}
	default:
		w.rejectEffect(target, spec, "unknown pool")
		return
	}
	w.recordEffectApplied(target, spec)
}

// applySpeedEffect multiplies cruise speed, capturing the true baseline only
// when none is currently recorded so stacked boosts cannot overwrite it.
func (w *World) applySpeedEffect(target *vehicleState, spec EffectSpec, now time.Time) *effectEntry {
	if spec.Duration > 0 && target.speedBaseline == 0 {
		target.speedBaseline = target.CruiseSpeed
	}
	multiplier := 1 + spec.Magnitude/100
	if multiplier < 0 {
		multiplier = 0
	}
	target.CruiseSpeed *= multiplier
	w.recordEffectApplied(target, spec)
	if spec.Duration <= 0 {
		return nil
	}
	entry := &effectEntry{
		Kind:          EffectKindSpeed,
		TargetID:      target.ID,
		Magnitude:     spec.Magnitude,
		AppliedAt:     now,
		ExpiresAt:     now.Add(spec.Duration),
		originalSpeed: target.speedBaseline,
	}
	w.pushEntry(entry)
	return entry
}

// applyWeaponEffect attaches a named modifier to every active weapon. The
// assigned modifier ids are what the revert removes, never "all modifiers".
func (w *World) applyWeaponEffect(target *vehicleState, spec EffectSpec, now time.Time) *effectEntry {
	if target.loadout == nil || len(target.loadout.ListActiveWeapons()) == 0 {
		w.rejectEffect(target, spec, "no active weapons")
		return nil
	}
	statName := spec.Stat
	if spec.Kind == EffectKindDamage {
		statName = "firepower"
	}
	mod := ModifierSpec{Stat: statName, Add: spec.Magnitude}
	ids := make([]string, 0, len(target.loadout.ListActiveWeapons()))
	for _, wp := range target.loadout.ListActiveWeapons() {
		id, ok := target.loadout.ApplyModifier(wp, mod)
		if !ok {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		w.rejectEffect(target, spec, "unknown weapon stat")
		return nil
	}
	w.recordEffectApplied(target, spec)
	if spec.Duration <= 0 {
		return nil
	}
	entry := &effectEntry{
		Kind:        spec.Kind,
		TargetID:    target.ID,
		Magnitude:   spec.Magnitude,
		AppliedAt:   now,
		ExpiresAt:   now.Add(spec.Duration),
		modifierIDs: ids,
	}
	w.pushEntry(entry)
	return entry
}

func (w *World) pushEntry(entry *effectEntry) {
	w.ledger.nextID++
	entry.ID = w.ledger.nextID
	w.ledger.entries = append(w.ledger.entries, entry)
}

// advanceEffects reverts and removes every expired entry in a single pass.
// The reverse index scan keeps removal from skipping neighbours, and the
// reverted flag makes a second visit impossible even under a clock that
// jumps past expiry twice.
func (w *World) advanceEffects(now time.Time) {
	if w == nil || w.ledger == nil {
		return
	}
	entries := w.ledger.entries
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		if entry == nil {
			entries = append(entries[:i], entries[i+1:]...)
			continue
		}
		if now.Before(entry.ExpiresAt) {
			continue
		}
		entries = append(entries[:i], entries[i+1:]...)
		w.revertEntry(entry)
	}
	w.ledger.entries = entries
}

// expireEffectsFor force-expires every entry bound to a vehicle, used when
// the vehicle is destroyed. Reverts degrade to no-ops on the wreck but the
// exactly-once accounting still runs.
func (w *World) expireEffectsFor(targetID string, now time.Time) {
	if w == nil || w.ledger == nil {
		return
	}
	entries := w.ledger.entries
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		if entry == nil || entry.TargetID != targetID {
			continue
		}
		entries = append(entries[:i], entries[i+1:]...)
		w.revertEntry(entry)
	}
	w.ledger.entries = entries
}

// revertEntry runs the kind's reversal procedure exactly once and notifies
// the expiry observer. A vanished or dead target makes the reversal a no-op.
func (w *World) revertEntry(entry *effectEntry) {
	if entry.reverted {
		return
	}
	entry.reverted = true
	if target := w.liveVehicle(entry.TargetID); target != nil {
		if revert, ok := w.ledger.reverts[entry.Kind]; ok && revert != nil {
			revert(w, target, entry)
		}
	}
	loggingeffects.Expired(
		context.Background(),
		w.publisher,
		w.currentTick,
		w.entityRef(entry.TargetID),
		loggingeffects.Payload{Kind: string(entry.Kind), Magnitude: entry.Magnitude},
	)
	w.telemetry.RecordEffectExpired()
}

func (w *World) recordEffectApplied(target *vehicleState, spec EffectSpec) {
	payload := loggingeffects.Payload{Kind: string(spec.Kind), Magnitude: spec.Magnitude}
	if spec.Duration > 0 {
		payload.DurationMs = spec.Duration.Milliseconds()
	}
	loggingeffects.Applied(context.Background(), w.publisher, w.currentTick, w.entityRef(target.ID), payload)
	w.telemetry.RecordEffectApplied()
}

func (w *World) rejectEffect(target *vehicleState, spec EffectSpec, reason string) {
	loggingeffects.Rejected(
		context.Background(),
		w.publisher,
		w.currentTick,
		w.entityRef(target.ID),
		loggingeffects.Payload{Kind: string(spec.Kind), Magnitude: spec.Magnitude, Reason: reason},
	)
}
