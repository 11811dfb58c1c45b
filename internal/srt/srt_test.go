package srt

import (
	"math"
	"path/filepath"
	"testing"

	"clipalign/internal/timeline"
)

func TestParse(t *testing.T) {
	content := `1
00:05:46,345 --> 00:05:48,514
TACTICAL.

2
00:06:06,282 --> 00:06:07,992
VISUAL.

3
00:06:13,330 --> 00:06:15,833
TACTICAL, STAND BY ON TORPEDOES.
`
	cues := Parse([]byte(content))
	if len(cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(cues))
	}
	if math.Abs(cues[0].Start-346.345) > 0.001 {
		t.Errorf("cue 0 start = %f, want 346.345", cues[0].Start)
	}
	if cues[0].Text != "TACTICAL." {
		t.Errorf("cue 0 text = %q, want TACTICAL.", cues[0].Text)
	}
	if cues[2].Text != "TACTICAL, STAND BY ON TORPEDOES." {
		t.Errorf("cue 2 text = %q", cues[2].Text)
	}
}

func TestParseSkipsMalformedBlocks(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:02,000
keep me

not-an-index
00:00:03,000 --> 00:00:04,000
skip me

3
broken timing line
skip me too

4
00:00:05,000 --> 00:00:06,000
keep me too
`
	cues := Parse([]byte(content))
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[1].Text != "keep me too" {
		t.Errorf("cue 1 text = %q", cues[1].Text)
	}
}

func TestParseEmpty(t *testing.T) {
	if cues := Parse(nil); len(cues) != 0 {
		t.Fatalf("expected no cues, got %d", len(cues))
	}
	if cues := Parse([]byte("  \n\n ")); len(cues) != 0 {
		t.Fatalf("expected no cues for whitespace, got %d", len(cues))
	}
}

func TestWriteFileParseFile(t *testing.T) {
	cues := []timeline.Cue{
		{Start: 1.5, End: 3.25, Text: "first line"},
		{Start: 10.0, End: 12.75, Text: "second\nline"},
	}

	path := filepath.Join(t.TempDir(), "out.srt")
	if err := WriteFile(path, cues); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	parsed, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(parsed) != len(cues) {
		t.Fatalf("expected %d cues, got %d", len(cues), len(parsed))
	}
	for i := range cues {
		if math.Abs(parsed[i].Start-cues[i].Start) > 0.001 {
			t.Errorf("cue %d start = %f, want %f", i, parsed[i].Start, cues[i].Start)
		}
		if parsed[i].Text != cues[i].Text {
			t.Errorf("cue %d text = %q, want %q", i, parsed[i].Text, cues[i].Text)
		}
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.srt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
