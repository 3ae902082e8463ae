package main

import (
	"context"
	"time"

	loggingbehavior "space-dogfight/sim/logging/behavior"
)

// CommandKind names an externally issued tactical intent.
type CommandKind string

const (
	CommandAttack CommandKind = "attack"
	CommandRecall CommandKind = "recall"
	CommandBoost  CommandKind = "boost"
)

// Command is one queued intent. Commands carry entity ids only; resolution
// against live state happens when the frame drains the queue.
type Command struct {
	Kind     CommandKind
	ActorID  string
	TargetID string
	IssuedAt time.Time
}

// EnqueueCommand hands an intent to the simulation from any goroutine. The
// queue is the single concurrency boundary into the world.
func (w *World) EnqueueCommand(cmd Command) {
	if w == nil {
		return
	}
	w.commandMu.Lock()
	w.commands = append(w.commands, cmd)
	w.commandMu.Unlock()
}

func (w *World) drainCommands(now time.Time) {
	w.commandMu.Lock()
	pending := w.commands
	w.commands = nil
	w.commandMu.Unlock()

	for _, cmd := range pending {
		w.applyCommand(cmd, now)
	}
}

// applyCommand maps one intent onto live state. Stale actors or targets drop
// the command with a reason rather than acting on a wreck.
func (w *World) applyCommand(cmd Command, now time.Time) {
	actor := w.liveVehicle(cmd.ActorID)
	if actor == nil {
		w.dropCommand(cmd, "actor gone")
		return
	}

	switch cmd.Kind {
	case CommandAttack:
		if actor.behavior == nil {
			w.dropCommand(cmd, "no tactical controller")
			return
		}
		if w.liveVehicle(cmd.TargetID) == nil {
			w.dropCommand(cmd, "target gone")
			return
		}
		actor.behavior.ThreatID = cmd.TargetID
		w.transition(actor, BehaviorAttack)
	case CommandRecall:
		if actor.behavior == nil {
			w.dropCommand(cmd, "no tactical controller")
			return
		}
		actor.behavior.ThreatID = ""
		w.transition(actor, BehaviorReturn)
	case CommandBoost:
		w.ApplyEffect(actor, EffectSpec{
			Kind:      EffectKindSpeed,
			Magnitude: boostSpeedPercent,
			Duration:  boostDuration,
		}, now)
	default:
		w.dropCommand(cmd, "unknown kind")
	}
}

func (w *World) dropCommand(cmd Command, reason string) {
	loggingbehavior.CommandDropped(
		context.Background(),
		w.publisher,
		w.currentTick,
		w.entityRef(cmd.ActorID),
		loggingbehavior.CommandDroppedPayload{Kind: string(cmd.Kind), Reason: reason},
	)
	w.telemetry.RecordCommandDropped()
}
