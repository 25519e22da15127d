// Package config provides configuration structures and defaults for Serial Scope
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Serial    SerialConfig    `yaml:"serial"`    // Serial transport settings
	Channels  ChannelsConfig  `yaml:"channels"`  // Per-channel pipeline settings
	Display   DisplayConfig   `yaml:"display"`   // Consumer tick / status output settings
	Recording RecordingConfig `yaml:"recording"` // Recording output settings
}

// SerialConfig contains serial transport configuration parameters
type SerialConfig struct {
	Port     string `yaml:"port"`      // Serial port device path
	BaudRate int    `yaml:"baud_rate"` // Serial communication baud rate
}

// ChannelsConfig contains per-channel pipeline configuration parameters
type ChannelsConfig struct {
	WindowSize    int      `yaml:"window_size"`    // Rolling window length (100-500)
	QueueCapacity int      `yaml:"queue_capacity"` // Bounded queue depth per channel
	Names         []string `yaml:"names"`          // Display name overrides, in channel order
	Colors        []string `yaml:"colors"`         // Display color overrides, in channel order
}

// DisplayConfig contains consumer-side timing configuration
type DisplayConfig struct {
	TickInterval    time.Duration `yaml:"tick_interval"`    // Queue drain / window update period
	RefreshInterval time.Duration `yaml:"refresh_interval"` // Terminal status line period
}

// RecordingConfig contains recording output configuration parameters
type RecordingConfig struct {
	OutputDir string `yaml:"output_dir"` // Output directory for CSV files
	Enabled   bool   `yaml:"enabled"`    // Start recording immediately on connect
}

// DefaultConfig returns a configuration with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "/dev/ttyUSB0", // Common USB device path
			BaudRate: 921600,         // Device's fixed rate
		},
		Channels: ChannelsConfig{
			WindowSize:    500,  // Full scroll window
			QueueCapacity: 5000, // Burst headroom between ticks
		},
		Display: DisplayConfig{
			TickInterval:    16 * time.Millisecond,  // ~60 Hz consumer tick
			RefreshInterval: 500 * time.Millisecond, // Status line twice a second
		},
		Recording: RecordingConfig{
			OutputDir: "./recordings",
			Enabled:   false,
		},
	}
}

// Validate checks configuration invariants that the pipeline depends on
func (c *Config) Validate() error {
	if c.Serial.BaudRate <= 0 {
		return fmt.Errorf("invalid baud rate: %d", c.Serial.BaudRate)
	}
	if c.Channels.WindowSize < 100 || c.Channels.WindowSize > 500 {
		return fmt.Errorf("invalid window size: %d (must be between 100 and 500)", c.Channels.WindowSize)
	}
	if c.Channels.QueueCapacity <= 0 {
		return fmt.Errorf("invalid queue capacity: %d", c.Channels.QueueCapacity)
	}
	if c.Display.TickInterval <= 0 {
		return fmt.Errorf("invalid tick interval: %v", c.Display.TickInterval)
	}
	if len(c.Channels.Names) > 6 {
		return fmt.Errorf("too many channel names: %d (at most 6)", len(c.Channels.Names))
	}
	if len(c.Channels.Colors) > 6 {
		return fmt.Errorf("too many channel colors: %d (at most 6)", len(c.Channels.Colors))
	}
	return nil
}
