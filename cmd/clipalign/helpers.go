package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// displayLabel turns an internal snake_case identifier into a title-cased
// human label.
func displayLabel(value string) string {
	if value == "" {
		return "Unknown"
	}
	return cases.Title(language.Und).String(strings.ReplaceAll(value, "_", " "))
}

func formatSeconds(value float64) string {
	return fmt.Sprintf("%.3fs", value)
}

func formatPercent(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}

// printJSON writes v as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
