package main

import (
	"testing"

	"space-dogfight/sim/internal/space"
)

func TestAdvanceIncrementsTick(t *testing.T) {
	w, _ := newTestWorld(t)
	w.Advance(testEpoch, testDt)
	w.Advance(testEpoch.Add(33_000_000), testDt)
	if w.Tick() != 2 {
		t.Fatalf("tick = %d, want 2", w.Tick())
	}
}

func TestAdvanceIntegratesMovement(t *testing.T) {
	w, _ := newTestWorld(t)
	fighter := mustSpawn(t, w, "fighter", space.Vec3{})
	fighter.Vel = space.Vec3{X: 30}

	w.Advance(testEpoch, 1.0)

	if fighter.Pos.X != 30 {
		t.Fatalf("pos.X = %v, want 30", fighter.Pos.X)
	}
}

func TestAdvanceSkipsDeadVehicles(t *testing.T) {
	w, _ := newTestWorld(t)
	fighter := mustSpawn(t, w, "fighter", space.Vec3{})
	fighter.Vel = space.Vec3{X: 30}
	fighter.Alive = false

	w.Advance(testEpoch, 1.0)

	if fighter.Pos.X != 0 {
		t.Fatalf("pos.X = %v, want no movement for a wreck", fighter.Pos.X)
	}
}

func TestAdvanceIgnoresNonPositiveDt(t *testing.T) {
	w, _ := newTestWorld(t)
	w.Advance(testEpoch, 0)
	w.Advance(testEpoch, -1)
	if w.Tick() != 0 {
		t.Fatalf("tick = %d, want 0", w.Tick())
	}
}

func TestAdvanceAppliesCommandsBeforeBehaviors(t *testing.T) {
	w, _ := newTestWorld(t)
	anchor := space.Vec3{X: 1000}
	raider := mustSpawnPatrolling(t, w, "raider", space.Vec3{}, anchor)

	w.EnqueueCommand(Command{Kind: CommandRecall, ActorID: raider.ID, IssuedAt: testEpoch})
	w.Advance(testEpoch, testDt)

	// The recall landed before the behavior pass, so this frame already
	// steers toward the anchor instead of orbiting it.
	if raider.behavior.State != BehaviorReturn {
		t.Fatalf("state = %v, want return", raider.behavior.State)
	}
	if raider.Vel.X <= 0 {
		t.Fatalf("velocity %v, want motion toward anchor", raider.Vel)
	}
}
