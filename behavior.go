package main

import (
	"context"
	"math"
	"time"

	"space-dogfight/sim/internal/space"
	loggingbehavior "space-dogfight/sim/logging/behavior"
)

// BehaviorState is one node of the patrol/attack/return controller.
type BehaviorState int

const (
	BehaviorPatrol BehaviorState = iota
	BehaviorAttack
	BehaviorReturn
)

func (s BehaviorState) String() string {
	switch s {
	case BehaviorPatrol:
		return "patrol"
	case BehaviorAttack:
		return "attack"
	case BehaviorReturn:
		return "return"
	default:
		return "unknown"
	}
}

// behaviorState is the per-vehicle blackboard for the tactical controller.
// The threat is an entity id resolved each frame, never a held pointer.
type behaviorState struct {
	State       BehaviorState
	PatrolPoint space.Vec3
	ThreatID    string

	// Phase advances along the patrol path; each axis multiplies it by a
	// different factor so the orbit precesses instead of repeating.
	Phase float64
}

// advanceBehaviors runs one frame of the tactical controller for every
// crewed vehicle. Transitions are evaluated before actions, so a vehicle
// acts in its new state on the same frame it switches.
func (w *World) advanceBehaviors(now time.Time, dt float64) {
	if w == nil {
		return
	}
	for _, id := range w.vehicleOrder() {
		v := w.vehicles[id]
		if v == nil || !v.Alive || v.behavior == nil {
			continue
		}
		w.evaluateTransitions(v)
		w.runStateAction(v, now, dt)
	}
}

func (w *World) evaluateTransitions(v *vehicleState) {
	b := v.behavior
	switch b.State {
	case BehaviorPatrol:
		if hostile := w.nearestHostile(v); hostile != nil {
			if space.Dist(v.Pos, hostile.Pos) < w.config.EngagementRadius {
				b.ThreatID = hostile.ID
				w.transition(v, BehaviorAttack)
			}
		}
	case BehaviorAttack:
		threat := w.liveVehicle(b.ThreatID)
		if threat == nil || space.Dist(v.Pos, threat.Pos) > w.config.DisengagementRadius {
			b.ThreatID = ""
			w.transition(v, BehaviorReturn)
		}
	case BehaviorReturn:
		// Threats are ignored until the patrol anchor is reached; the next
		// patrol frame re-engages if one is still inside the radius.
		if space.Dist(v.Pos, b.PatrolPoint) < w.config.ArrivalRadius {
			w.transition(v, BehaviorPatrol)
		}
	}
}

func (w *World) transition(v *vehicleState, to BehaviorState) {
	b := v.behavior
	from := b.State
	if from == to {
		return
	}
	b.State = to
	loggingbehavior.StateChanged(
		context.Background(),
		w.publisher,
		w.currentTick,
		w.entityRef(v.ID),
		loggingbehavior.StateChangedPayload{From: from.String(), To: to.String(), ThreatID: b.ThreatID},
	)
	w.telemetry.RecordStateChange()
}

func (w *World) runStateAction(v *vehicleState, now time.Time, dt float64) {
	switch v.behavior.State {
	case BehaviorPatrol:
		w.patrolAction(v, dt)
	case BehaviorAttack:
		w.attackAction(v, now)
	case BehaviorReturn:
		steerToward(v, v.behavior.PatrolPoint)
	}
}

// patrolAction orbits the patrol anchor along a precessing ellipse.
func (w *World) patrolAction(v *vehicleState, dt float64) {
	b := v.behavior
	b.Phase += dt
	waypoint := b.PatrolPoint.Add(space.Vec3{
		X: w.config.PatrolMajorRadius * math.Cos(b.Phase*patrolPhaseX),
		Y: w.config.PatrolMinorRadius * math.Sin(b.Phase*patrolPhaseY),
		Z: 0.25 * w.config.PatrolMinorRadius * math.Sin(b.Phase*patrolPhaseZ),
	})
	steerToward(v, waypoint)
}

// attackAction pursues the threat and fires whatever is off cooldown. The
// transition pass has already verified the threat still resolves.
func (w *World) attackAction(v *vehicleState, now time.Time) {
	threat := w.liveVehicle(v.behavior.ThreatID)
	if threat == nil {
		return
	}
	steerToward(v, threat.Pos)

	if v.loadout == nil {
		return
	}
	dist := space.Dist(v.Pos, threat.Pos)
	for _, wp := range v.loadout.ListActiveWeapons() {
		if !wp.Ready(now) {
			continue
		}
		switch wp.Kind {
		case WeaponLaser:
			if dist > laserRange {
				continue
			}
			wp.ReadyAt = now.Add(wp.EffectiveCooldown())
			w.ApplyDamage(threat, wp.EffectiveDamage(), v.ID, now)
		case WeaponMissile:
			if w.SpawnMissile(v, threat.ID) != nil {
				wp.ReadyAt = now.Add(wp.EffectiveCooldown())
			}
		}
	}
}

// steerToward points the vehicle's velocity at a destination at cruise
// speed. Arrival damping is handled by the state transitions, not here.
func steerToward(v *vehicleState, dest space.Vec3) {
	dir := dest.Sub(v.Pos)
	if dir.LengthSq() == 0 {
		v.Vel = space.Vec3{}
		return
	}
	v.Vel = dir.WithLength(v.CruiseSpeed)
}
