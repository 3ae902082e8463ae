package main

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"space-dogfight/sim/internal/space"
	"space-dogfight/sim/stats"
)

//go:embed archetypes.yaml
var archetypeCatalogYAML []byte

// ShieldComponent is the optional secondary pool absorbed before hull.
// Vehicles without one take hull damage directly.
type ShieldComponent struct {
	Shield     float64
	MaxShield  float64
	RegenRate  float64
	RegenDelay time.Duration
}

// vehicleState owns the authoritative numeric state for one damageable
// combat unit. Identity and lifetime belong to the world registry; this
// struct only carries the mutable simulation fields.
type vehicleState struct {
	ID        string
	Archetype string
	Faction   string

	Pos space.Vec3
	Vel space.Vec3

	Hull        float64
	MaxHull     float64
	ArmorRating float64

	// CruiseSpeed is the commanded travel speed, the value speed effects
	// multiply and restore.
	CruiseSpeed float64

	Alive        bool
	LastDamageAt time.Time

	shield  *ShieldComponent
	loadout *Loadout

	behavior *behaviorState

	stats stats.Component

	// speedBaseline holds the pre-boost cruise speed while at least one
	// timed speed effect is active; zero means none is recorded.
	speedBaseline float64
}

func (v *vehicleState) HasShield() bool {
	return v != nil && v.shield != nil && v.shield.MaxShield > 0
}

// weaponSpec describes one mounted weapon in the archetype catalog.
type weaponSpec struct {
	Kind            string  `yaml:"kind"`
	Mount           string  `yaml:"mount"`
	Damage          float64 `yaml:"damage"`
	CooldownSeconds float64 `yaml:"cooldownSeconds"`
}

type shieldSpec struct {
	Capacity          float64 `yaml:"capacity"`
	RegenRate         float64 `yaml:"regenRate"`
	RegenDelaySeconds float64 `yaml:"regenDelaySeconds"`
}

type statSpec struct {
	Firepower  float64 `yaml:"firepower"`
	Thrust     float64 `yaml:"thrust"`
	ShieldFlux float64 `yaml:"shieldFlux"`
	Avionics   float64 `yaml:"avionics"`
}

type missileSpec struct {
	Capacity int `yaml:"capacity"`
}

// vehicleArchetype is one stat block from the embedded catalog.
type vehicleArchetype struct {
	Faction  string       `yaml:"faction"`
	Hull     float64      `yaml:"hull"`
	Armor    float64      `yaml:"armor"`
	MaxSpeed float64      `yaml:"maxSpeed"`
	Shield   *shieldSpec  `yaml:"shield"`
	Stats    statSpec     `yaml:"stats"`
	Weapons  []weaponSpec `yaml:"weapons"`
	Missiles *missileSpec `yaml:"missiles"`
}

type archetypeCatalog struct {
	Archetypes map[string]vehicleArchetype `yaml:"archetypes"`
}

// loadArchetypes parses the embedded vehicle catalog.
func loadArchetypes() (map[string]vehicleArchetype, error) {
	var catalog archetypeCatalog
	if err := yaml.Unmarshal(archetypeCatalogYAML, &catalog); err != nil {
		return nil, fmt.Errorf("parse archetype catalog: %w", err)
	}
	if len(catalog.Archetypes) == 0 {
		return nil, fmt.Errorf("archetype catalog is empty")
	}
	for name, arch := range catalog.Archetypes {
		if arch.Hull <= 0 {
			return nil, fmt.Errorf("archetype %q: hull must be positive", name)
		}
	}
	return catalog.Archetypes, nil
}

// newVehicleState builds a vehicle from its archetype. Capability components
// (shield, missile battery) attach only when the archetype declares them.
func newVehicleState(id, archetypeName string, arch vehicleArchetype, pos space.Vec3) *vehicleState {
	v := &vehicleState{
		ID:          id,
		Archetype:   archetypeName,
		Faction:     arch.Faction,
		Pos:         pos,
		Hull:        arch.Hull,
		MaxHull:     arch.Hull,
		ArmorRating: arch.Armor,
		CruiseSpeed: arch.MaxSpeed,
		Alive:       true,
	}
	v.stats = stats.NewComponent(stats.ValueSet{
		stats.StatFirepower:  arch.Stats.Firepower,
		stats.StatThrust:     arch.Stats.Thrust,
		stats.StatShieldFlux: arch.Stats.ShieldFlux,
		stats.StatAvionics:   arch.Stats.Avionics,
	})
	if arch.Shield != nil && arch.Shield.Capacity > 0 {
		// Shield flux folds into the rate once here; the regen path then
		// runs at exactly RegenRate per second with no further scaling.
		v.shield = &ShieldComponent{
			Shield:     arch.Shield.Capacity,
			MaxShield:  arch.Shield.Capacity,
			RegenRate:  arch.Shield.RegenRate * v.stats.GetDerived(stats.DerivedShieldRegenScalar),
			RegenDelay: time.Duration(arch.Shield.RegenDelaySeconds * float64(time.Second)),
		}
	}
	v.loadout = newLoadout(id, arch)
	return v
}
