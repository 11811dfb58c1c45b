package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"clipalign/internal/trainstore"
)

func newModelCommand(ctx *commandContext) *cobra.Command {
	modelCmd := &cobra.Command{
		Use:   "model",
		Short: "Trainable weight model utilities",
	}

	modelCmd.AddCommand(newModelStatsCommand(ctx))
	modelCmd.AddCommand(newModelClearCommand(ctx))

	return modelCmd
}

func (c *commandContext) withStore(fn func(*trainstore.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := trainstore.Open(cfg.Learning.DatabasePath)
	if err != nil {
		return fmt.Errorf("open training store: %w", err)
	}
	defer func() { _ = store.Close() }()
	return fn(store)
}

func newModelStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show training history statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *trainstore.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}

				if jsonOutput {
					return printJSON(cmd, stats)
				}

				fmt.Fprintln(cmd.OutOrStdout(), renderFieldTable([][2]string{
					{"Records", strconv.Itoa(stats.Records)},
					{"Successes", strconv.Itoa(stats.Successes)},
					{"Average error", formatSeconds(stats.AverageError)},
					{"Oldest", formatTime(stats.Oldest)},
					{"Newest", formatTime(stats.Newest)},
					{"Database", store.Path()},
				}))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit statistics as JSON")
	return cmd
}

func newModelClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all persisted training records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *trainstore.Store) error {
				if err := store.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Training history cleared")
				return nil
			})
		},
	}
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Local().Format("2006-01-02 15:04:05")
}
