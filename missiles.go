package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"space-dogfight/sim/internal/space"
	"space-dogfight/sim/logging"
	loggingcombat "space-dogfight/sim/logging/combat"
)

// missileState is one in-flight guided munition. The target is held as an
// entity id, never a pointer, so a destroyed target degrades the missile to
// ballistic flight instead of dereferencing a wreck.
type missileState struct {
	ID       string
	OwnerID  string
	TargetID string

	Pos space.Vec3
	Vel space.Vec3

	Accel    float64
	MaxSpeed float64
	TurnRate float64
	Damage   float64

	Age         float64
	MaxLifetime float64
}

// SpawnMissile launches a homing missile from the owner toward the target,
// consuming one round from the owner's battery. Returns nil when the owner
// cannot fire (no battery, no ammo, dead target).
func (w *World) SpawnMissile(owner *vehicleState, targetID string) *missileState {
	if w == nil || owner == nil || !owner.Alive {
		return nil
	}
	target := w.liveVehicle(targetID)
	if target == nil {
		return nil
	}
	if owner.loadout == nil || !owner.loadout.ConsumeMissile() {
		return nil
	}

	w.nextMissileID++
	m := &missileState{
		ID:          fmt.Sprintf("msl-%d", w.nextMissileID),
		OwnerID:     owner.ID,
		TargetID:    targetID,
		Pos:         owner.Pos,
		Accel:       missileAcceleration,
		MaxSpeed:    missileMaxSpeed,
		TurnRate:    missileTurnRate,
		Damage:      missileDamage,
		MaxLifetime: missileLifetime,
	}
	heading := target.Pos.Sub(owner.Pos).Normalized()
	if heading.LengthSq() == 0 {
		heading = space.Vec3{X: 1}
	}
	m.Vel = heading.Scale(missileInitialSpeed)
	w.missiles = append(w.missiles, m)

	loggingcombat.MissileLaunch(
		context.Background(),
		w.publisher,
		w.currentTick,
		w.entityRef(owner.ID),
		w.entityRef(targetID),
		loggingcombat.MissilePayload{MissileID: m.ID, Damage: m.Damage},
	)
	w.telemetry.RecordMissileLaunch()
	return m
}

// updateMissile advances one missile by dt seconds and reports whether it is
// still live. Steering, thrust, and integration are separate stages so a
// missing target disables only the steering bias.
func updateMissile(m *missileState, target *vehicleState, dt float64) bool {
	if m == nil {
		return false
	}
	m.Age += dt
	if m.Age >= m.MaxLifetime {
		return false
	}

	if target != nil && target.Alive {
		desired := target.Pos.Sub(m.Pos)
		if desired.LengthSq() > 0 {
			speed := m.Vel.Length()
			if speed == 0 {
				speed = missileInitialSpeed
			}
			desired = desired.WithLength(speed)
			// Exponential smoothing stays strictly below one, so the
			// heading converges but never lands on the bearing in a
			// single frame, whatever the frame length.
			blend := -math.Expm1(-m.TurnRate * dt)
			m.Vel = m.Vel.Add(desired.Sub(m.Vel).Scale(blend))
		}
	}

	// Thrust raises only the magnitude; the homing bias above owns direction.
	speed := m.Vel.Length()
	if speed > 0 {
		speed += m.Accel * dt
		if speed > m.MaxSpeed {
			speed = m.MaxSpeed
		}
		m.Vel = m.Vel.WithLength(speed)
	}

	m.Pos = m.Pos.Add(m.Vel.Scale(dt))
	return true
}

// advanceMissiles moves every in-flight missile and retires expired ones.
// Reverse index iteration keeps removal in-place. Hit resolution is a
// separate collision pass, not part of flight integration.
func (w *World) advanceMissiles(now time.Time, dt float64) {
	if w == nil {
		return
	}
	for i := len(w.missiles) - 1; i >= 0; i-- {
		m := w.missiles[i]
		if m == nil {
			w.missiles = append(w.missiles[:i], w.missiles[i+1:]...)
			continue
		}
		if !updateMissile(m, w.liveVehicle(m.TargetID), dt) {
			w.missiles = append(w.missiles[:i], w.missiles[i+1:]...)
			w.retireMissile(m)
		}
	}
	w.resolveMissileHits(now)
}

// resolveMissileHits is the built-in collision query for headless runs: a
// simple proximity sweep against each missile's own target. Hosts with a
// real broadphase call HandleMissileHit instead.
func (w *World) resolveMissileHits(now time.Time) {
	for i := len(w.missiles) - 1; i >= 0; i-- {
		m := w.missiles[i]
		target := w.liveVehicle(m.TargetID)
		if target == nil || space.Dist(m.Pos, target.Pos) > missileProximityRadius {
			continue
		}
		w.missiles = append(w.missiles[:i], w.missiles[i+1:]...)
		w.detonateMissile(m, target, now)
	}
}

// detonateMissile applies the missile's payload to the struck vehicle. The
// missile is already removed from the flight list, so the hit lands once.
func (w *World) detonateMissile(m *missileState, target *vehicleState, now time.Time) {
	w.ApplyDamage(target, m.Damage, m.OwnerID, now)
	w.telemetry.RecordMissileHit()
}

// HandleMissileHit resolves an externally reported collision between a
// missile and a vehicle, for hosts that run their own collision broadphase.
// The missile is removed whether or not the target can still take damage.
func (w *World) HandleMissileHit(missileID, targetID string, now time.Time) bool {
	if w == nil {
		return false
	}
	for i, m := range w.missiles {
		if m == nil || m.ID != missileID {
			continue
		}
		w.missiles = append(w.missiles[:i], w.missiles[i+1:]...)
		if target := w.liveVehicle(targetID); target != nil {
			w.detonateMissile(m, target, now)
		}
		return true
	}
	return false
}

func (w *World) retireMissile(m *missileState) {
	loggingcombat.MissileExpired(
		context.Background(),
		w.publisher,
		w.currentTick,
		logging.EntityRef{ID: m.ID, Kind: logging.EntityKindMissile},
		loggingcombat.MissilePayload{MissileID: m.ID, Age: m.Age},
	)
	w.telemetry.RecordMissileExpired()
}

// Missiles reports the number of missiles currently in flight.
func (w *World) Missiles() int {
	if w == nil {
		return 0
	}
	return len(w.missiles)
}
