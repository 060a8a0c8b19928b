package animator

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the animator tunables
type Config struct {
	Lifetime     time.Duration `toml:"lifetime"`
	JitterSpan   float64       `toml:"jitter_span"`
	BrightChance float64       `toml:"bright_chance"`

	// Pointer trail
	MoveThrottle time.Duration `toml:"move_throttle"`
	EchoChance   float64       `toml:"echo_chance"`
	EchoDelay    time.Duration `toml:"echo_delay"`
	EchoJitter   float64       `toml:"echo_jitter"`

	// Ambient field
	AmbientInterval time.Duration `toml:"ambient_interval"`
	AmbientCap      int           `toml:"ambient_cap"`

	// Startup burst
	InitialCount   int           `toml:"initial_count"`
	InitialStagger time.Duration `toml:"initial_stagger"`

	// Click burst
	ClickCount        int           `toml:"click_count"`
	ClickStagger      time.Duration `toml:"click_stagger"`
	ClickRadiusMin    float64       `toml:"click_radius_min"`
	ClickRadiusMax    float64       `toml:"click_radius_max"`
	ClickBrightChance float64       `toml:"click_bright_chance"`

	// Constellation
	ConstellationInterval time.Duration `toml:"constellation_interval"`
	ConstellationChance   float64       `toml:"constellation_chance"`
	ConstellationMargin   float64       `toml:"constellation_margin"`
	ConstellationSpread   float64       `toml:"constellation_spread"`
	ConstellationMin      int           `toml:"constellation_min"`
	ConstellationMax      int           `toml:"constellation_max"`
	ConstellationStagger  time.Duration `toml:"constellation_stagger"`

	// Background drift, uncapped and independent of the glimmer registry
	DriftInterval     time.Duration `toml:"drift_interval"`
	DriftCount        int           `toml:"drift_count"`
	DriftLifetimeMin  time.Duration `toml:"drift_lifetime_min"`
	DriftLifetimeSpan time.Duration `toml:"drift_lifetime_span"`
}

// DefaultConfig returns the landing page tuning
func DefaultConfig() *Config {
	return &Config{
		Lifetime:     3000 * time.Millisecond,
		JitterSpan:   15,
		BrightChance: 0.15,

		MoveThrottle: 50 * time.Millisecond,
		EchoChance:   0.3,
		EchoDelay:    100 * time.Millisecond,
		EchoJitter:   20,

		AmbientInterval: 200 * time.Millisecond,
		AmbientCap:      100,

		InitialCount:   100,
		InitialStagger: 100 * time.Millisecond,

		ClickCount:        12,
		ClickStagger:      60 * time.Millisecond,
		ClickRadiusMin:    10,
		ClickRadiusMax:    50,
		ClickBrightChance: 0.5,

		ConstellationInterval: 5000 * time.Millisecond,
		ConstellationChance:   0.2,
		ConstellationMargin:   100,
		ConstellationSpread:   100,
		ConstellationMin:      10,
		ConstellationMax:      15,
		ConstellationStagger:  100 * time.Millisecond,

		DriftInterval:     200 * time.Millisecond,
		DriftCount:        5,
		DriftLifetimeMin:  2 * time.Second,
		DriftLifetimeSpan: 3 * time.Second,
	}
}

// Validate rejects values the scheduler or the draws cannot honour
func (c *Config) Validate() error {
	var errs []error

	if c.Lifetime <= 0 {
		errs = append(errs, fmt.Errorf("lifetime must be positive, got %v", c.Lifetime))
	}
	if c.AmbientInterval <= 0 {
		errs = append(errs, fmt.Errorf("ambient_interval must be positive, got %v", c.AmbientInterval))
	}
	if c.ConstellationInterval <= 0 {
		errs = append(errs, fmt.Errorf("constellation_interval must be positive, got %v", c.ConstellationInterval))
	}
	if c.DriftInterval <= 0 {
		errs = append(errs, fmt.Errorf("drift_interval must be positive, got %v", c.DriftInterval))
	}
	if c.DriftLifetimeMin <= 0 || c.DriftLifetimeSpan < 0 {
		errs = append(errs, fmt.Errorf("drift lifetime range invalid: %v + [0, %v)", c.DriftLifetimeMin, c.DriftLifetimeSpan))
	}
	if c.AmbientCap < 0 || c.InitialCount < 0 || c.ClickCount < 0 || c.DriftCount < 0 {
		errs = append(errs, errors.New("counts must not be negative"))
	}
	if c.ClickRadiusMax < c.ClickRadiusMin {
		errs = append(errs, fmt.Errorf("click radius range inverted: [%v, %v)", c.ClickRadiusMin, c.ClickRadiusMax))
	}
	if c.ConstellationMin < 0 || c.ConstellationMax < c.ConstellationMin {
		errs = append(errs, fmt.Errorf("constellation size range invalid: [%d, %d]", c.ConstellationMin, c.ConstellationMax))
	}
	for name, p := range map[string]float64{
		"bright_chance":        c.BrightChance,
		"echo_chance":          c.EchoChance,
		"click_bright_chance":  c.ClickBrightChance,
		"constellation_chance": c.ConstellationChance,
	} {
		if p < 0 || p > 1 {
			errs = append(errs, fmt.Errorf("%s must be within [0, 1], got %v", name, p))
		}
	}

	return errors.Join(errs...)
}
