package main

import (
	"fmt"
	"time"

	"space-dogfight/sim/stats"
)

type WeaponKind string

const (
	WeaponLaser   WeaponKind = "laser"
	WeaponMissile WeaponKind = "missile"
)

// Weapon is one mounted weapon instance. Damage and cooldown pass through
// the weapon's stat component so named modifiers and level upgrades both
// land in the same resolution path.
type Weapon struct {
	ID         string
	Kind       WeaponKind
	Mount      string
	BaseDamage float64
	Cooldown   time.Duration
	Level      int
	ReadyAt    time.Time

	stats stats.Component
}

// EffectiveDamage folds active modifiers into the weapon's base damage.
func (wp *Weapon) EffectiveDamage() float64 {
	if wp == nil {
		return 0
	}
	wp.stats.Resolve()
	return wp.BaseDamage * wp.stats.GetDerived(stats.DerivedDamageScalar)
}

// EffectiveCooldown shortens the base cooldown by the avionics-derived rate.
func (wp *Weapon) EffectiveCooldown() time.Duration {
	if wp == nil {
		return 0
	}
	wp.stats.Resolve()
	rate := wp.stats.GetDerived(stats.DerivedCooldownRate)
	if rate <= 0 {
		return wp.Cooldown
	}
	return time.Duration(float64(wp.Cooldown) / rate)
}

func (wp *Weapon) Ready(now time.Time) bool {
	return wp != nil && !now.Before(wp.ReadyAt)
}

// ModifierSpec is a named stat adjustment applied to a weapon instance.
type ModifierSpec struct {
	Stat string
	Add  float64
	Mul  float64
}

// MissileBattery tracks guided munition ammo for a loadout.
type MissileBattery struct {
	Capacity  int
	Remaining int
}

type appliedModifier struct {
	weapon *Weapon
	key    stats.SourceKey
}

// Loadout is the weapon collaborator surface the effect ledger and combat
// routine talk to. It knows weapon instances and modifier bookkeeping,
// nothing about the entities carrying it.
type Loadout struct {
	ownerID        string
	weapons        []*Weapon
	battery        *MissileBattery
	nextModifierID uint64
	applied        map[string]appliedModifier
}

func newLoadout(ownerID string, arch vehicleArchetype) *Loadout {
	l := &Loadout{
		ownerID: ownerID,
		applied: make(map[string]appliedModifier),
	}
	for i, spec := range arch.Weapons {
		kind := WeaponKind(spec.Kind)
		if kind != WeaponLaser && kind != WeaponMissile {
			continue
		}
		l.weapons = append(l.weapons, &Weapon{
			ID:         fmt.Sprintf("%s-w%d", ownerID, i+1),
			Kind:       kind,
			Mount:      spec.Mount,
			BaseDamage: spec.Damage,
			Cooldown:   time.Duration(spec.CooldownSeconds * float64(time.Second)),
			Level:      1,
			stats: stats.NewComponent(stats.ValueSet{
				stats.StatFirepower: arch.Stats.Firepower,
				stats.StatAvionics:  arch.Stats.Avionics,
			}),
		})
	}
	if arch.Missiles != nil && arch.Missiles.Capacity > 0 {
		l.battery = &MissileBattery{Capacity: arch.Missiles.Capacity, Remaining: arch.Missiles.Capacity}
	}
	return l
}

// ListActiveWeapons returns the weapons currently mounted.
func (l *Loadout) ListActiveWeapons() []*Weapon {
	if l == nil {
		return nil
	}
	return l.weapons
}

// ApplyModifier attaches a named stat modifier to one weapon and returns the
// id that removes exactly this modifier later.
func (l *Loadout) ApplyModifier(wp *Weapon, spec ModifierSpec) (string, bool) {
	if l == nil || wp == nil {
		return "", false
	}
	statID, ok := parseStatName(spec.Stat)
	if !ok {
		return "", false
	}
	l.nextModifierID++
	id := fmt.Sprintf("%s-mod-%d", l.ownerID, l.nextModifierID)
	delta := stats.NewDelta()
	delta.Add[statID] = spec.Add
	if spec.Mul > 0 {
		delta.Mul[statID] = spec.Mul
	}
	key := stats.SourceKey{Kind: stats.SourceKindModifier, ID: id}
	wp.stats.Apply(stats.LayerTemporary, key, delta)
	l.applied[id] = appliedModifier{weapon: wp, key: key}
	return id, true
}

// RemoveModifier detaches a single modifier by id. Unknown ids are a no-op
// so a stale revert cannot clobber concurrently stacked modifiers.
func (l *Loadout) RemoveModifier(id string) bool {
	if l == nil {
		return false
	}
	mod, ok := l.applied[id]
	if !ok {
		return false
	}
	delete(l.applied, id)
	if mod.weapon == nil {
		return false
	}
	return mod.weapon.stats.Remove(stats.LayerTemporary, mod.key)
}

// UpgradeWeaponLevel permanently raises a weapon's level, folding the bonus
// into the upgrade layer.
func (l *Loadout) UpgradeWeaponLevel(wp *Weapon) {
	if l == nil || wp == nil {
		return
	}
	wp.Level++
	delta := stats.NewDelta()
	delta.Add[stats.StatFirepower] = float64(wp.Level-1) * 5
	wp.stats.Apply(stats.LayerUpgrade, stats.SourceKey{Kind: stats.SourceKindUpgrade, ID: "level"}, delta)
}

// Battery exposes the missile ammo component, nil when the loadout has none.
func (l *Loadout) Battery() *MissileBattery {
	if l == nil {
		return nil
	}
	return l.battery
}

// ConsumeMissile decrements ammo, reporting whether a missile was available.
func (l *Loadout) ConsumeMissile() bool {
	if l == nil || l.battery == nil || l.battery.Remaining <= 0 {
		return false
	}
	l.battery.Remaining--
	return true
}

func parseStatName(name string) (stats.StatID, bool) {
	switch name {
	case "firepower", "damage":
		return stats.StatFirepower, true
	case "thrust":
		return stats.StatThrust, true
	case "shieldFlux":
		return stats.StatShieldFlux, true
	case "avionics":
		return stats.StatAvionics, true
	default:
		return 0, false
	}
}
