package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"clipalign/internal/engine"
)

// renderSegmentTable lays out the cut list, one row per edited line with
// every column right-aligned.
func renderSegmentTable(segments []engine.VideoSegment) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Edited", "Ref", "Start", "End", "Error", "Confidence"})

	for _, seg := range segments {
		tw.AppendRow(table.Row{
			strconv.Itoa(seg.EditedIndex),
			strconv.Itoa(seg.ReferenceIndex),
			formatSeconds(seg.StartTime),
			formatSeconds(seg.EndTime),
			formatSeconds(seg.Error),
			fmt.Sprintf("%.2f", seg.Confidence),
		})
	}

	configs := make([]table.ColumnConfig, 6)
	for i := range configs {
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		}
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// renderFieldTable lays out name/value rows for the stats and config views.
func renderFieldTable(rows [][2]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	for _, row := range rows {
		tw.AppendRow(table.Row{row[0], row[1]})
	}
	return tw.Render()
}
