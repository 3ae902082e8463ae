package main

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const telemetryScope = "space-dogfight/sim"

// telemetryCounters aggregates simulation counters behind the OpenTelemetry
// metric API. With no provider installed the counters are no-ops, so the
// simulation never branches on whether telemetry is wired.
type telemetryCounters struct {
	damageDealt     metric.Float64Counter
	shieldBreaks    metric.Int64Counter
	destructions    metric.Int64Counter
	effectsApplied  metric.Int64Counter
	effectsExpired  metric.Int64Counter
	missileLaunches metric.Int64Counter
	missileHits     metric.Int64Counter
	missileExpiries metric.Int64Counter
	stateChanges    metric.Int64Counter
	commandsDropped metric.Int64Counter
}

// newTelemetryCounters registers the instrument set on the given meter. A
// nil meter falls back to the globally installed provider.
func newTelemetryCounters(meter metric.Meter) (*telemetryCounters, error) {
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(telemetryScope)
	}

	t := &telemetryCounters{}
	var err error

	if t.damageDealt, err = meter.Float64Counter("sim.damage.dealt",
		metric.WithDescription("Total post-armor damage applied to vehicles")); err != nil {
		return nil, fmt.Errorf("damage counter: %w", err)
	}
	if t.shieldBreaks, err = meter.Int64Counter("sim.shield.breaks",
		metric.WithDescription("Shield pools depleted to zero")); err != nil {
		return nil, fmt.Errorf("shield break counter: %w", err)
	}
	if t.destructions, err = meter.Int64Counter("sim.vehicle.destructions",
		metric.WithDescription("Vehicles whose hull reached zero")); err != nil {
		return nil, fmt.Errorf("destruction counter: %w", err)
	}
	if t.effectsApplied, err = meter.Int64Counter("sim.effects.applied",
		metric.WithDescription("Effects accepted by the ledger")); err != nil {
		return nil, fmt.Errorf("effect applied counter: %w", err)
	}
	if t.effectsExpired, err = meter.Int64Counter("sim.effects.expired",
		metric.WithDescription("Effect entries reverted and removed")); err != nil {
		return nil, fmt.Errorf("effect expired counter: %w", err)
	}
	if t.missileLaunches, err = meter.Int64Counter("sim.missiles.launched",
		metric.WithDescription("Guided missiles spawned")); err != nil {
		return nil, fmt.Errorf("missile launch counter: %w", err)
	}
	if t.missileHits, err = meter.Int64Counter("sim.missiles.hits",
		metric.WithDescription("Guided missiles that struck a vehicle")); err != nil {
		return nil, fmt.Errorf("missile hit counter: %w", err)
	}
	if t.missileExpiries, err = meter.Int64Counter("sim.missiles.expired",
		metric.WithDescription("Guided missiles retired by lifetime")); err != nil {
		return nil, fmt.Errorf("missile expiry counter: %w", err)
	}
	if t.stateChanges, err = meter.Int64Counter("sim.behavior.transitions",
		metric.WithDescription("Tactical state machine transitions")); err != nil {
		return nil, fmt.Errorf("state change counter: %w", err)
	}
	if t.commandsDropped, err = meter.Int64Counter("sim.commands.dropped",
		metric.WithDescription("Commands discarded before execution")); err != nil {
		return nil, fmt.Errorf("command drop counter: %w", err)
	}

	return t, nil
}

func (t *telemetryCounters) RecordDamage(amount float64) {
	if t == nil {
		return
	}
	t.damageDealt.Add(context.Background(), amount)
}

func (t *telemetryCounters) RecordShieldBreak() {
	if t == nil {
		return
	}
	t.shieldBreaks.Add(context.Background(), 1)
}

func (t *telemetryCounters) RecordDestruction() {
	if t == nil {
		return
	}
	t.destructions.Add(context.Background(), 1)
}

func (t *telemetryCounters) RecordEffectApplied() {
	if t == nil {
		return
	}
	t.effectsApplied.Add(context.Background(), 1)
}

func (t *telemetryCounters) RecordEffectExpired() {
	if t == nil {
		return
	}
	t.effectsExpired.Add(context.Background(), 1)
}

func (t *telemetryCounters) RecordMissileLaunch() {
	if t == nil {
		return
	}
	t.missileLaunches.Add(context.Background(), 1)
}

func (t *telemetryCounters) RecordMissileHit() {
	if t == nil {
		return
	}
	t.missileHits.Add(context.Background(), 1)
}

func (t *telemetryCounters) RecordMissileExpired() {
	if t == nil {
		return
	}
	t.missileExpiries.Add(context.Background(), 1)
}

func (t *telemetryCounters) RecordStateChange() {
	if t == nil {
		return
	}
	t.stateChanges.Add(context.Background(), 1)
}

func (t *telemetryCounters) RecordCommandDropped() {
	if t == nil {
		return
	}
	t.commandsDropped.Add(context.Background(), 1)
}
