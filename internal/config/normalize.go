package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeLearning(); err != nil {
		return err
	}
	c.normalizeAlignment()
	return c.normalizeLogging()
}

func (c *Config) normalizeAlignment() {
	c.Alignment.PrecisionLevel = strings.ToLower(strings.TrimSpace(c.Alignment.PrecisionLevel))
	if c.Alignment.PrecisionLevel == "" {
		c.Alignment.PrecisionLevel = defaultPrecisionLevel
	}
	if c.Alignment.MaxIterations <= 0 {
		c.Alignment.MaxIterations = defaultMaxIterations
	}
}

func (c *Config) normalizeLearning() error {
	if strings.TrimSpace(c.Learning.DatabasePath) == "" {
		c.Learning.DatabasePath = defaultDatabasePath
	}
	expanded, err := expandPath(c.Learning.DatabasePath)
	if err != nil {
		return fmt.Errorf("learning.database_path: %w", err)
	}
	c.Learning.DatabasePath = expanded
	if c.Learning.BufferSize <= 0 {
		c.Learning.BufferSize = defaultBufferSize
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.LogDir) == "" {
		c.Logging.LogDir = defaultLogDir
	}
	expanded, err := expandPath(c.Logging.LogDir)
	if err != nil {
		return fmt.Errorf("logging.log_dir: %w", err)
	}
	c.Logging.LogDir = expanded
	return nil
}
