package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clipalign/internal/boundary"
	"clipalign/internal/engine"
	"clipalign/internal/logging"
	"clipalign/internal/srt"
	"clipalign/internal/timeline"
)

func newAlignCommand(ctx *commandContext) *cobra.Command {
	var (
		referencePath string
		editedPath    string
		duration      float64
		precisionFlag string
		outputPath    string
		jsonOutput    bool
		noLearn       bool
	)

	cmd := &cobra.Command{
		Use:   "align",
		Short: "Align an edited subtitle track against its reference",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			refCues, err := srt.ParseFile(referencePath)
			if err != nil {
				return fmt.Errorf("reference track: %w", err)
			}
			editedCues, err := srt.ParseFile(editedPath)
			if err != nil {
				return fmt.Errorf("edited track: %w", err)
			}

			levelName := strings.TrimSpace(precisionFlag)
			if levelName == "" {
				levelName = cfg.Alignment.PrecisionLevel
			}
			level, err := engine.ParsePrecisionLevel(levelName)
			if err != nil {
				return err
			}

			totalDuration := duration
			if totalDuration <= 0 {
				totalDuration = timeline.TrackDuration(refCues)
			}

			optimizer, store := ctx.openOptimizer(cmd.Context(), logger, !noLearn)
			if store != nil {
				defer func() { _ = store.Close() }()
			}

			eng := engine.New(engine.Config{
				MaxIterations: cfg.Alignment.MaxIterations,
				Boundary: boundary.Config{
					DialogueGapFloor:    cfg.Boundary.DialogueGapFloor,
					SceneDeviationFloor: cfg.Boundary.SceneDeviationFloor,
					SilenceGap:          cfg.Boundary.SilenceGap,
					PeakSpacing:         cfg.Boundary.PeakSpacing,
				},
			}, optimizer, logger)

			result := eng.AlignCues(refCues, editedCues, totalDuration, level)

			if outputPath != "" && !result.Degraded {
				aligned := alignedCues(editedCues, result)
				if err := srt.WriteFile(outputPath, aligned); err != nil {
					return err
				}
				logger.Info("wrote aligned track",
					logging.String("path", outputPath),
					logging.Int("cues", len(aligned)))
			}

			if jsonOutput {
				if err := printJSON(cmd, result); err != nil {
					return err
				}
			} else {
				renderResult(cmd, result)
			}

			if result.Degraded {
				return errors.New("alignment degraded: no usable segments produced")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&referencePath, "reference", "r", "", "Reference subtitle track (SRT)")
	cmd.Flags().StringVarP(&editedPath, "edited", "e", "", "Edited subtitle track (SRT)")
	cmd.Flags().Float64VarP(&duration, "duration", "d", 0, "Total reference duration in seconds (derived from the track when omitted)")
	cmd.Flags().StringVarP(&precisionFlag, "precision", "p", "", "Precision level: ultra_high, high, standard, relaxed")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the aligned edited track to this SRT file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the full result as JSON")
	cmd.Flags().BoolVar(&noLearn, "no-learn", false, "Disable the trainable weight model for this run")
	_ = cmd.MarkFlagRequired("reference")
	_ = cmd.MarkFlagRequired("edited")

	return cmd
}

// alignedCues rebuilds the edited track on the reference timeline, one cue
// per segment.
func alignedCues(edited []timeline.Cue, result engine.AlignmentResult) []timeline.Cue {
	cues := make([]timeline.Cue, 0, len(result.Segments))
	for _, seg := range result.Segments {
		if seg.EditedIndex < 0 || seg.EditedIndex >= len(edited) {
			continue
		}
		cues = append(cues, timeline.Cue{
			Start: seg.StartTime,
			End:   seg.EndTime,
			Text:  edited[seg.EditedIndex].Text,
		})
	}
	return cues
}

func renderResult(cmd *cobra.Command, result engine.AlignmentResult) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Run:        %s\n", result.RunID)
	fmt.Fprintf(out, "Strategy:   %s\n", displayLabel(result.Strategy))
	fmt.Fprintf(out, "Quality:    %.1f/100\n", result.QualityScore)
	fmt.Fprintf(out, "Precision:  %s (avg %s, max %s)\n",
		formatPercent(result.PrecisionRate),
		formatSeconds(result.AverageError),
		formatSeconds(result.MaxError))
	fmt.Fprintf(out, "Elapsed:    %s\n", result.ProcessingTime)
	fmt.Fprintf(out, "Degraded:   %s\n", yesNo(result.Degraded))

	if len(result.Segments) == 0 {
		fmt.Fprintln(out, "No segments produced")
		return
	}

	fmt.Fprintln(out, renderSegmentTable(result.Segments))
}
