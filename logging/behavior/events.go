package behavior

import (
	"context"

	"space-dogfight/sim/logging"
)

const (
	// EventStateChanged is emitted when a tactical unit switches state.
	EventStateChanged logging.EventType = "behavior.state_changed"
	// EventCommandDropped is emitted when a command intent cannot be mapped.
	EventCommandDropped logging.EventType = "behavior.command_dropped"
)

// StateChangedPayload records a single state machine transition.
type StateChangedPayload struct {
	From     string `json:"from"`
	To       string `json:"to"`
	ThreatID string `json:"threatId,omitempty"`
}

// CommandDroppedPayload explains why an intent was discarded.
type CommandDroppedPayload struct {
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

func StateChanged(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload StateChangedPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventStateChanged,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryBehavior,
		Payload:  payload,
	})
}

func CommandDropped(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload CommandDroppedPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventCommandDropped,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: logging.CategoryBehavior,
		Payload:  payload,
	})
}

func publish(ctx context.Context, pub logging.Publisher, event logging.Event) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, event)
}
