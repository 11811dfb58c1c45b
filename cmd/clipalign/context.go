package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"clipalign/internal/config"
	"clipalign/internal/logging"
	"clipalign/internal/trainstore"
	"clipalign/internal/weighting"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			LogDir: cfg.Logging.LogDir,
		})
	})
	return c.logger, c.loggerErr
}

// openOptimizer builds the weight optimizer, seeded from the training store
// when learning and persistence are available. A store that cannot be opened
// downgrades to in-memory learning rather than failing the command. The
// caller closes the returned store when it is non-nil.
func (c *commandContext) openOptimizer(ctx context.Context, logger *slog.Logger, learn bool) (*weighting.Optimizer, *trainstore.Store) {
	cfg, err := c.ensureConfig()
	if err != nil || !learn || !cfg.Learning.Enabled {
		return weighting.NewOptimizer(weighting.Options{}, logger), nil
	}

	store, err := trainstore.Open(cfg.Learning.DatabasePath)
	if err != nil {
		logger.Warn("training store unavailable, learning in memory only",
			logging.String("path", cfg.Learning.DatabasePath), logging.Error(err))
		return weighting.NewOptimizer(weighting.Options{
			Learning: true,
			Capacity: cfg.Learning.BufferSize,
		}, logger), nil
	}

	optimizer := weighting.NewOptimizer(weighting.Options{
		Learning: true,
		Capacity: cfg.Learning.BufferSize,
		OnTrain: func(record weighting.Record) {
			if appendErr := store.Append(ctx, record); appendErr != nil {
				logger.Warn("persist training record", logging.Error(appendErr))
			}
		},
	}, logger)

	records, err := store.Load(ctx, cfg.Learning.BufferSize)
	if err != nil {
		logger.Warn("load training history", logging.Error(err))
	} else if len(records) > 0 {
		optimizer.Seed(records)
		logger.Debug("seeded optimizer", logging.Int("records", len(records)))
	}
	return optimizer, store
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
