package main

import "time"

const (
	defaultTickRate = 30 // simulation ticks per second

	// Tactical radii for the patrol/attack/return controller. The gap
	// between engagement and disengagement is deliberate hysteresis.
	defaultEngagementRadius    = 50.0
	defaultDisengagementRadius = 100.0
	defaultArrivalRadius       = 15.0

	defaultPatrolMajorRadius = 120.0
	defaultPatrolMinorRadius = 70.0

	// Independent phase multipliers keep the patrol ellipse from closing
	// into a short repeating loop.
	patrolPhaseX = 0.7
	patrolPhaseY = 1.3
	patrolPhaseZ = 0.5

	minDamageFloor = 1.0

	laserRange = 900.0

	missileInitialSpeed    = 3000.0
	missileProximityRadius = 20.0
	missileMaxSpeed        = 6000.0
	missileAcceleration    = 8000.0
	missileTurnRate        = 2.0
	missileLifetime        = 5.0
	missileDamage          = 50.0

	boostSpeedPercent = 100.0
	boostDuration     = 5 * time.Second
)
