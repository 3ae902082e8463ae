package main

import (
	"testing"
	"time"

	"space-dogfight/sim/internal/space"
	loggingbehavior "space-dogfight/sim/logging/behavior"
)

func TestAttackCommandEngagesTarget(t *testing.T) {
	w, _ := newTestWorld(t)
	anchor := space.Vec3{}
	raider := mustSpawnPatrolling(t, w, "raider", anchor, anchor)
	// Outside engagement range, inside disengagement range: only the
	// command can start the fight, and the same frame keeps it going.
	fighter := mustSpawn(t, w, "fighter", space.Vec3{X: 70})

	w.EnqueueCommand(Command{Kind: CommandAttack, ActorID: raider.ID, TargetID: fighter.ID, IssuedAt: testEpoch})
	w.Advance(testEpoch, testDt)

	if raider.behavior.State != BehaviorAttack {
		t.Fatalf("state = %v, want attack", raider.behavior.State)
	}
	if raider.behavior.ThreatID != fighter.ID {
		t.Fatalf("threat = %q, want %q", raider.behavior.ThreatID, fighter.ID)
	}
}

func TestAttackCommandDropsStaleTarget(t *testing.T) {
	w, mem := newTestWorld(t)
	anchor := space.Vec3{}
	raider := mustSpawnPatrolling(t, w, "raider", anchor, anchor)
	fighter := mustSpawn(t, w, "fighter", space.Vec3{X: 400})
	fighter.Alive = false

	w.EnqueueCommand(Command{Kind: CommandAttack, ActorID: raider.ID, TargetID: fighter.ID, IssuedAt: testEpoch})
	w.Advance(testEpoch, testDt)

	if raider.behavior.State != BehaviorPatrol {
		t.Fatalf("state = %v, want patrol untouched", raider.behavior.State)
	}
	if n := countEvents(mem, loggingbehavior.EventCommandDropped); n != 1 {
		t.Fatalf("dropped events = %d, want 1", n)
	}
}

func TestCommandDroppedForDeadActor(t *testing.T) {
	w, mem := newTestWorld(t)

	w.EnqueueCommand(Command{Kind: CommandRecall, ActorID: "raider-42", IssuedAt: testEpoch})
	w.Advance(testEpoch, testDt)

	if n := countEvents(mem, loggingbehavior.EventCommandDropped); n != 1 {
		t.Fatalf("dropped events = %d, want 1", n)
	}
}

func TestRecallCommandSendsHome(t *testing.T) {
	w, _ := newTestWorld(t)
	anchor := space.Vec3{X: 1000}
	raider := mustSpawnPatrolling(t, w, "raider", space.Vec3{}, anchor)
	fighter := mustSpawn(t, w, "fighter", space.Vec3{X: 10})
	raider.behavior.State = BehaviorAttack
	raider.behavior.ThreatID = fighter.ID

	w.EnqueueCommand(Command{Kind: CommandRecall, ActorID: raider.ID, IssuedAt: testEpoch})
	w.Advance(testEpoch, testDt)

	if raider.behavior.State != BehaviorReturn {
		t.Fatalf("state = %v, want return", raider.behavior.State)
	}
	if raider.behavior.ThreatID != "" {
		t.Fatalf("threat = %q, want cleared", raider.behavior.ThreatID)
	}
}

func TestBoostCommandAppliesTimedSpeedEffect(t *testing.T) {
	w, _ := newTestWorld(t)
	fighter := mustSpawn(t, w, "fighter", space.Vec3{})
	base := fighter.CruiseSpeed

	w.EnqueueCommand(Command{Kind: CommandBoost, ActorID: fighter.ID, IssuedAt: testEpoch})
	w.Advance(testEpoch, testDt)

	if fighter.CruiseSpeed != base*2 {
		t.Fatalf("boosted speed = %v, want %v", fighter.CruiseSpeed, base*2)
	}
	if got := w.ledger.ActiveCount(); got != 1 {
		t.Fatalf("active effects = %d, want 1", got)
	}

	w.Advance(testEpoch.Add(boostDuration+time.Second), testDt)

	if fighter.CruiseSpeed != base {
		t.Fatalf("speed after boost = %v, want %v", fighter.CruiseSpeed, base)
	}
}

func TestUnknownCommandDropped(t *testing.T) {
	w, mem := newTestWorld(t)
	fighter := mustSpawn(t, w, "fighter", space.Vec3{})

	w.EnqueueCommand(Command{Kind: "self-destruct", ActorID: fighter.ID, IssuedAt: testEpoch})
	w.Advance(testEpoch, testDt)

	if n := countEvents(mem, loggingbehavior.EventCommandDropped); n != 1 {
		t.Fatalf("dropped events = %d, want 1", n)
	}
}
