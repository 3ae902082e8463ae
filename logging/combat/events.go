package combat

import (
	"context"

	"space-dogfight/sim/logging"
)

const (
	// EventDamage is emitted when a hit deals damage to a vehicle.
	EventDamage logging.EventType = "combat.damage"
	// EventShieldDown is emitted the moment a shield pool is depleted.
	EventShieldDown logging.EventType = "combat.shield_down"
	// EventDestroyed is emitted when a vehicle's hull reaches zero.
	EventDestroyed logging.EventType = "combat.destroyed"
	// EventMissileLaunch is emitted when a guided missile is spawned.
	EventMissileLaunch logging.EventType = "combat.missile_launch"
	// EventMissileExpired is emitted when a missile times out unspent.
	EventMissileExpired logging.EventType = "combat.missile_expired"
)

// DamagePayload captures a single resolved hit.
type DamagePayload struct {
	Amount         float64 `json:"amount"`
	Reduced        float64 `json:"reduced"`
	ShieldAbsorbed float64 `json:"shieldAbsorbed,omitempty"`
	HullRemaining  float64 `json:"hullRemaining"`
}

// DestroyedPayload describes the fatal blow.
type DestroyedPayload struct {
	SourceID string `json:"sourceId,omitempty"`
}

// MissilePayload describes a missile lifecycle event.
type MissilePayload struct {
	MissileID string  `json:"missileId"`
	Damage    float64 `json:"damage,omitempty"`
	Age       float64 `json:"age,omitempty"`
}

func Damage(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload DamagePayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventDamage,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

func ShieldDown(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef) {
	publish(ctx, pub, logging.Event{
		Type:     EventShieldDown,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
	})
}

func Destroyed(ctx context.Context, pub logging.Publisher, tick uint64, target logging.EntityRef, payload DestroyedPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventDestroyed,
		Tick:     tick,
		Actor:    target,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

func MissileLaunch(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload MissilePayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventMissileLaunch,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

func MissileExpired(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload MissilePayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventMissileExpired,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

func publish(ctx context.Context, pub logging.Publisher, event logging.Event) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, event)
}
