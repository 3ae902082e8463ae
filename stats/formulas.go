package stats

import "math"

const (
	damageScalarCoeff  = 1.5
	damageDecayRatio   = 0.985
	thrustSpeedScalar  = 0.004
	fluxRegenScalar    = 0.01
	avionicsRateScalar = 0.005
)

func computeDerived(total ValueSet) DerivedSet {
	var derived DerivedSet

	firepower := clamp(total[StatFirepower], 0, 1e9)
	thrust := clamp(total[StatThrust], 0, 1e9)
	flux := clamp(total[StatShieldFlux], 0, 1e9)
	avionics := clamp(total[StatAvionics], 0, 1e9)

	derived[DerivedDamageScalar] = computeDamageScalar(firepower)
	derived[DerivedMaxSpeedScalar] = clamp(1+thrust*thrustSpeedScalar, 0.1, 5)
	derived[DerivedShieldRegenScalar] = clamp(1+flux*fluxRegenScalar, 0.1, 5)
	derived[DerivedCooldownRate] = clamp(1+avionics*avionicsRateScalar, 0.1, 5)

	return derived
}

// computeDamageScalar maps firepower onto a bounded multiplier with
// diminishing returns, so stacked modifiers cannot run away.
func computeDamageScalar(firepower float64) float64 {
	scaled := 1 + damageScalarCoeff*(1-math.Pow(damageDecayRatio, firepower))
	return clamp(scaled, 0.1, 10)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
