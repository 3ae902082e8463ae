package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"space-dogfight/sim/logging"
)

// worldConfig holds the tunables for one simulation run. Values of zero are
// filled from the defaults in normalized, so a partial config file is fine.
type worldConfig struct {
	TickRate int
	Seed     int64

	EngagementRadius    float64
	DisengagementRadius float64
	ArrivalRadius       float64
	PatrolMajorRadius   float64
	PatrolMinorRadius   float64

	Logging logging.Config
}

func defaultWorldConfig() worldConfig {
	return worldConfig{
		TickRate:            defaultTickRate,
		EngagementRadius:    defaultEngagementRadius,
		DisengagementRadius: defaultDisengagementRadius,
		ArrivalRadius:       defaultArrivalRadius,
		PatrolMajorRadius:   defaultPatrolMajorRadius,
		PatrolMinorRadius:   defaultPatrolMinorRadius,
		Logging:             logging.DefaultConfig(),
	}
}

// loadWorldConfig reads an optional config file, layering it over defaults.
// An empty path returns the defaults untouched.
func loadWorldConfig(path string) (worldConfig, error) {
	cfg := defaultWorldConfig()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("tickRate", cfg.TickRate)
	v.SetDefault("seed", cfg.Seed)
	v.SetDefault("tactical.engagementRadius", cfg.EngagementRadius)
	v.SetDefault("tactical.disengagementRadius", cfg.DisengagementRadius)
	v.SetDefault("tactical.arrivalRadius", cfg.ArrivalRadius)
	v.SetDefault("tactical.patrolMajorRadius", cfg.PatrolMajorRadius)
	v.SetDefault("tactical.patrolMinorRadius", cfg.PatrolMinorRadius)
	v.SetDefault("logging.sinks", cfg.Logging.EnabledSinks)
	v.SetDefault("logging.bufferSize", cfg.Logging.BufferSize)
	v.SetDefault("logging.jsonPath", cfg.Logging.JSON.FilePath)

	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.TickRate = v.GetInt("tickRate")
	cfg.Seed = v.GetInt64("seed")
	cfg.EngagementRadius = v.GetFloat64("tactical.engagementRadius")
	cfg.DisengagementRadius = v.GetFloat64("tactical.disengagementRadius")
	cfg.ArrivalRadius = v.GetFloat64("tactical.arrivalRadius")
	cfg.PatrolMajorRadius = v.GetFloat64("tactical.patrolMajorRadius")
	cfg.PatrolMinorRadius = v.GetFloat64("tactical.patrolMinorRadius")
	cfg.Logging.EnabledSinks = v.GetStringSlice("logging.sinks")
	cfg.Logging.BufferSize = v.GetInt("logging.bufferSize")
	cfg.Logging.JSON.FilePath = v.GetString("logging.jsonPath")

	return cfg.normalized(), nil
}

// normalized fills zero or nonsensical values with defaults and repairs the
// radius ordering so the hysteresis gap cannot invert.
func (c worldConfig) normalized() worldConfig {
	defaults := defaultWorldConfig()
	if c.TickRate <= 0 {
		c.TickRate = defaults.TickRate
	}
	if c.EngagementRadius <= 0 {
		c.EngagementRadius = defaults.EngagementRadius
	}
	if c.DisengagementRadius <= c.EngagementRadius {
		c.DisengagementRadius = c.EngagementRadius * 2
	}
	if c.ArrivalRadius <= 0 {
		c.ArrivalRadius = defaults.ArrivalRadius
	}
	if c.PatrolMajorRadius <= 0 {
		c.PatrolMajorRadius = defaults.PatrolMajorRadius
	}
	if c.PatrolMinorRadius <= 0 {
		c.PatrolMinorRadius = defaults.PatrolMinorRadius
	}
	if c.Logging.BufferSize <= 0 {
		c.Logging.BufferSize = defaults.Logging.BufferSize
	}
	if len(c.Logging.EnabledSinks) == 0 {
		c.Logging.EnabledSinks = defaults.Logging.EnabledSinks
	}
	return c
}

// seedValue yields the RNG seed, substituting the clock when unset.
func (c worldConfig) seedValue() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}

// tickInterval converts the tick rate to a frame duration.
func (c worldConfig) tickInterval() time.Duration {
	rate := c.TickRate
	if rate <= 0 {
		rate = defaultTickRate
	}
	return time.Duration(float64(time.Second) / float64(rate))
}
