package main

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"space-dogfight/sim/internal/space"
	"space-dogfight/sim/logging"
)

// EventWorldReady is emitted once when a world finishes construction.
const EventWorldReady logging.EventType = "system.world_ready"

// World owns the authoritative simulation state. All mutation happens on the
// single goroutine driving Advance; the command queue is the only
// cross-goroutine entry point.
type World struct {
	vehicles      map[string]*vehicleState
	missiles      []*missileState
	ledger        *EffectLedger
	archetypes    map[string]vehicleArchetype
	config        worldConfig
	rng           *rand.Rand
	publisher     logging.Publisher
	telemetry     *telemetryCounters
	currentTick   uint64
	nextVehicleID uint64
	nextMissileID uint64

	commandMu sync.Mutex
	commands  []Command
}

// newWorld constructs an empty world with the archetype catalog loaded.
func newWorld(cfg worldConfig, publisher logging.Publisher, telemetry *telemetryCounters) (*World, error) {
	normalized := cfg.normalized()

	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	if telemetry == nil {
		var err error
		telemetry, err = newTelemetryCounters(nil)
		if err != nil {
			return nil, fmt.Errorf("init telemetry: %w", err)
		}
	}

	archetypes, err := loadArchetypes()
	if err != nil {
		return nil, err
	}

	w := &World{
		vehicles:   make(map[string]*vehicleState),
		ledger:     newEffectLedger(),
		archetypes: archetypes,
		config:     normalized,
		rng:        rand.New(rand.NewSource(normalized.seedValue())),
		publisher:  publisher,
		telemetry:  telemetry,
	}
	w.publishWorldReady()
	return w, nil
}

func (w *World) publishWorldReady() {
	event := logging.Event{
		Type:     EventWorldReady,
		Severity: logging.SeverityInfo,
		Category: logging.CategorySystem,
		Actor:    logging.EntityRef{ID: "world", Kind: logging.EntityKindWorld},
	}
	event = event.WithExtra("tickRate", w.config.TickRate).
		WithExtra("archetypes", len(w.archetypes))
	w.publisher.Publish(context.Background(), event)
}

// Spawn registers a new vehicle built from the named archetype.
func (w *World) Spawn(archetypeName string, pos space.Vec3) (*vehicleState, error) {
	if w == nil {
		return nil, fmt.Errorf("nil world")
	}
	arch, ok := w.archetypes[archetypeName]
	if !ok {
		return nil, fmt.Errorf("unknown archetype %q", archetypeName)
	}
	w.nextVehicleID++
	id := fmt.Sprintf("%s-%d", archetypeName, w.nextVehicleID)
	v := newVehicleState(id, archetypeName, arch, pos)
	w.vehicles[id] = v
	return v, nil
}

// SpawnPatrolling spawns a vehicle anchored to a patrol point with the
// tactical state machine attached.
func (w *World) SpawnPatrolling(archetypeName string, pos, patrolPoint space.Vec3) (*vehicleState, error) {
	v, err := w.Spawn(archetypeName, pos)
	if err != nil {
		return nil, err
	}
	v.behavior = &behaviorState{
		State:       BehaviorPatrol,
		PatrolPoint: patrolPoint,
		// Random starting phase keeps units sharing an anchor from
		// flying in lockstep.
		Phase: w.rng.Float64() * 100,
	}
	return v, nil
}

// vehicle resolves an entity id against the registry. A missing id returns
// nil; callers treat that as the normal stale-reference case.
func (w *World) vehicle(id string) *vehicleState {
	if w == nil || id == "" {
		return nil
	}
	return w.vehicles[id]
}

// liveVehicle resolves an id to a vehicle that is still alive.
func (w *World) liveVehicle(id string) *vehicleState {
	v := w.vehicle(id)
	if v == nil || !v.Alive {
		return nil
	}
	return v
}

// vehicleOrder returns vehicle ids sorted for deterministic iteration, the
// same discipline the frame pass uses everywhere it walks the registry.
func (w *World) vehicleOrder() []string {
	ids := make([]string, 0, len(w.vehicles))
	for id := range w.vehicles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// nearestHostile finds the closest living vehicle of a different faction.
func (w *World) nearestHostile(v *vehicleState) *vehicleState {
	if w == nil || v == nil {
		return nil
	}
	var best *vehicleState
	bestDistSq := 0.0
	for _, id := range w.vehicleOrder() {
		other := w.vehicles[id]
		if other == nil || !other.Alive || other.ID == v.ID || other.Faction == v.Faction {
			continue
		}
		distSq := space.DistSq(v.Pos, other.Pos)
		if best == nil || distSq < bestDistSq {
			best = other
			bestDistSq = distSq
		}
	}
	return best
}

func (w *World) entityRef(id string) logging.EntityRef {
	kind := logging.EntityKindUnknown
	if w != nil {
		if _, ok := w.vehicles[id]; ok {
			kind = logging.EntityKindVehicle
		}
	}
	return logging.EntityRef{ID: id, Kind: kind}
}

// Tick reports the number of frames advanced so far.
func (w *World) Tick() uint64 {
	if w == nil {
		return 0
	}
	return w.currentTick
}
