package config

import (
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAlignment(); err != nil {
		return err
	}
	if err := c.validateBoundary(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAlignment() error {
	switch c.Alignment.PrecisionLevel {
	case "ultra_high", "ultrahigh", "ultra-high", "high", "standard", "relaxed":
	default:
		return fmt.Errorf("alignment.precision_level %q is not one of ultra_high, high, standard, relaxed", c.Alignment.PrecisionLevel)
	}
	if c.Alignment.MaxIterations > 100 {
		return fmt.Errorf("alignment.max_iterations %d is unreasonably large", c.Alignment.MaxIterations)
	}
	return nil
}

func (c *Config) validateBoundary() error {
	for name, value := range map[string]float64{
		"boundary.dialogue_gap_floor":    c.Boundary.DialogueGapFloor,
		"boundary.scene_deviation_floor": c.Boundary.SceneDeviationFloor,
		"boundary.silence_gap":           c.Boundary.SilenceGap,
		"boundary.peak_spacing":          c.Boundary.PeakSpacing,
	} {
		if value < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not one of console, json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}
