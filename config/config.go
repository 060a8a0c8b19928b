// Package config loads tuning for the animator, the render surface and audio.
//
// Values come from built-in defaults, then an optional TOML file, then
// environment overrides:
//
//	GLIMMER_AUDIO_ENABLED  bool, enables the speaker
//	GLIMMER_MASTER_VOLUME  0-100
//	GLIMMER_SEED           uint64 random seed, 0 means time based
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/glimmer/animator"
	"github.com/lixenwraith/glimmer/clock"
	"github.com/lixenwraith/glimmer/render"
)

// RenderConfig controls how pixels map to the terminal
type RenderConfig struct {
	CellWidth     float64           `toml:"cell_width"`
	CellHeight    float64           `toml:"cell_height"`
	FrameInterval time.Duration     `toml:"frame_interval"`
	Background    string            `toml:"background"`
	Palette       map[string]string `toml:"palette"`
}

// AudioConfig controls the chime and music
type AudioConfig struct {
	Enabled      bool    `toml:"enabled"`
	MasterVolume float64 `toml:"master_volume"`
	SampleRate   int     `toml:"sample_rate"`
}

// Config is the full runtime configuration
type Config struct {
	Seed     uint64          `toml:"seed"`
	Animator animator.Config `toml:"animator"`
	Render   RenderConfig    `toml:"render"`
	Audio    AudioConfig     `toml:"audio"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Animator: *animator.DefaultConfig(),
		Render: RenderConfig{
			CellWidth:     render.DefaultCellWidth,
			CellHeight:    render.DefaultCellHeight,
			FrameInterval: clock.DefaultFrameInterval,
			Background:    render.DefaultBackground,
		},
		Audio: AudioConfig{
			Enabled:      true,
			MasterVolume: 0.6,
			SampleRate:   44100,
		},
	}
}

// Load builds the configuration from defaults, the file at path (skipped when empty) and the environment
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("config: unknown keys in %s: %v", path, undecoded)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from environment lookups
func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("GLIMMER_AUDIO_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: GLIMMER_AUDIO_ENABLED: %w", err)
		}
		c.Audio.Enabled = enabled
	}

	// Volume is given in percent
	if v := getenv("GLIMMER_MASTER_VOLUME"); v != "" {
		pct, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: GLIMMER_MASTER_VOLUME: %w", err)
		}
		c.Audio.MasterVolume = min(max(float64(pct)/100.0, 0), 1)
	}

	if v := getenv("GLIMMER_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: GLIMMER_SEED: %w", err)
		}
		c.Seed = seed
	}

	return nil
}

// Validate checks every section
func (c *Config) Validate() error {
	if err := c.Animator.Validate(); err != nil {
		return fmt.Errorf("config: animator: %w", err)
	}
	if c.Render.CellWidth <= 0 || c.Render.CellHeight <= 0 {
		return fmt.Errorf("config: render cell size must be positive, got %vx%v", c.Render.CellWidth, c.Render.CellHeight)
	}
	if c.Render.FrameInterval <= 0 {
		return fmt.Errorf("config: render frame_interval must be positive, got %v", c.Render.FrameInterval)
	}
	if c.Audio.MasterVolume < 0 || c.Audio.MasterVolume > 1 {
		return fmt.Errorf("config: audio master_volume must be within [0, 1], got %v", c.Audio.MasterVolume)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("config: audio sample_rate must be positive, got %d", c.Audio.SampleRate)
	}
	return nil
}
