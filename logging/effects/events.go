package effects

import (
	"context"

	"space-dogfight/sim/logging"
)

const (
	// EventApplied is emitted when a timed effect is recorded in the ledger.
	EventApplied logging.EventType = "effects.applied"
	// EventExpired is emitted exactly once when a ledger entry reverts.
	EventExpired logging.EventType = "effects.expired"
	// EventRejected is emitted when an effect spec cannot be applied.
	EventRejected logging.EventType = "effects.rejected"
)

// Payload describes an effect lifecycle transition.
type Payload struct {
	Kind       string  `json:"kind"`
	Magnitude  float64 `json:"magnitude,omitempty"`
	DurationMs int64   `json:"durationMs,omitempty"`
	Reason     string  `json:"reason,omitempty"`
}

func Applied(ctx context.Context, pub logging.Publisher, tick uint64, target logging.EntityRef, payload Payload) {
	publish(ctx, pub, logging.Event{
		Type:     EventApplied,
		Tick:     tick,
		Actor:    target,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEffects,
		Payload:  payload,
	})
}

func Expired(ctx context.Context, pub logging.Publisher, tick uint64, target logging.EntityRef, payload Payload) {
	publish(ctx, pub, logging.Event{
		Type:     EventExpired,
		Tick:     tick,
		Actor:    target,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEffects,
		Payload:  payload,
	})
}

func Rejected(ctx context.Context, pub logging.Publisher, tick uint64, target logging.EntityRef, payload Payload) {
	publish(ctx, pub, logging.Event{
		Type:     EventRejected,
		Tick:     tick,
		Actor:    target,
		Severity: logging.SeverityWarn,
		Category: logging.CategoryEffects,
		Payload:  payload,
	})
}

func publish(ctx context.Context, pub logging.Publisher, event logging.Event) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, event)
}
