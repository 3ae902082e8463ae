package main

import "time"

// Advance runs one simulation frame. The stage order is load-bearing:
// commands land before behaviors so intents take effect this frame, and
// shield regen runs last so the delay window measures from the newest hit.
func (w *World) Advance(now time.Time, dt float64) {
	if w == nil || dt <= 0 {
		return
	}
	w.currentTick++

	w.drainCommands(now)
	w.advanceBehaviors(now, dt)
	w.integrateMovement(dt)
	w.advanceMissiles(now, dt)
	w.advanceEffects(now)
	w.regenShields(now, dt)
}

// integrateMovement applies one frame of linear motion to living vehicles.
func (w *World) integrateMovement(dt float64) {
	for _, id := range w.vehicleOrder() {
		v := w.vehicles[id]
		if v == nil || !v.Alive {
			continue
		}
		v.Pos = v.Pos.Add(v.Vel.Scale(dt))
	}
}
