package srt

import (
	"fmt"
	"os"
	"strings"

	"clipalign/internal/timeline"
)

// Parse extracts cues from SRT content. Malformed blocks are skipped.
func Parse(data []byte) []timeline.Cue {
	content := strings.TrimSpace(strings.ReplaceAll(string(data), "\r\n", "\n"))
	if content == "" {
		return nil
	}

	// Split by double newlines (cue separator)
	blocks := strings.Split(content, "\n\n")
	var cues []timeline.Cue

	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		lines := strings.Split(block, "\n")
		if len(lines) < 3 {
			continue
		}

		// First line is index
		var index int
		if _, err := fmt.Sscanf(lines[0], "%d", &index); err != nil {
			continue
		}

		// Second line is timing
		if !strings.Contains(lines[1], "-->") {
			continue
		}
		parts := strings.Split(lines[1], "-->")
		if len(parts) != 2 {
			continue
		}

		start, err := timeline.ParseTimestamp(parts[0])
		if err != nil {
			continue
		}
		end, err := timeline.ParseTimestamp(parts[1])
		if err != nil {
			continue
		}

		cues = append(cues, timeline.Cue{
			Start: start,
			End:   end,
			Text:  strings.Join(lines[2:], "\n"),
		})
	}

	return cues
}

// ParseFile reads an SRT file and returns its cues.
func ParseFile(path string) ([]timeline.Cue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	return Parse(data), nil
}

// Render serializes cues back into SRT text with sequential indices.
func Render(cues []timeline.Cue) string {
	var sb strings.Builder
	for i, cue := range cues {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n", timeline.FormatTimestamp(cue.Start), timeline.FormatTimestamp(cue.End)))
		sb.WriteString(cue.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// WriteFile writes cues to an SRT file.
func WriteFile(path string, cues []timeline.Cue) error {
	if err := os.WriteFile(path, []byte(Render(cues)), 0644); err != nil {
		return fmt.Errorf("write srt: %w", err)
	}
	return nil
}
