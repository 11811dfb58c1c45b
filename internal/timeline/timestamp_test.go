package timeline

import (
	"math"
	"testing"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"00:05:46,345", 346.345, false},
		{"01:00:00,000", 3600, false},
		{"00:00:01.500", 1.5, false},
		{" 00:00:02,250 ", 2.25, false},
		{"", 0, true},
		{"00:05:46", 0, true},
		{"bad,123", 0, true},
		{"00:xx:46,345", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseTimestamp(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTimestamp(%q) expected error, got %f", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimestamp(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if math.Abs(got-tt.want) > 0.0005 {
			t.Errorf("ParseTimestamp(%q) = %f, want %f", tt.input, got, tt.want)
		}
	}
}

func TestParseTimestampLenient(t *testing.T) {
	if got := ParseTimestampLenient("garbage"); got != 0 {
		t.Fatalf("lenient parse of garbage = %f, want 0", got)
	}
	if got := ParseTimestampLenient("00:00:10,500"); math.Abs(got-10.5) > 0.0005 {
		t.Fatalf("lenient parse = %f, want 10.5", got)
	}
}

func TestFormatTimestampRoundTrip(t *testing.T) {
	for _, seconds := range []float64{0, 1.5, 346.345, 3599.999, 3661.042} {
		formatted := FormatTimestamp(seconds)
		parsed, err := ParseTimestamp(formatted)
		if err != nil {
			t.Fatalf("parse %q: %v", formatted, err)
		}
		if math.Abs(parsed-seconds) > 0.001 {
			t.Errorf("round trip %f -> %q -> %f", seconds, formatted, parsed)
		}
	}
}

func TestLineParseMalformed(t *testing.T) {
	cue := Line{Start: "not-a-time", End: "00:00:05,000", Text: " hello "}.Parse()
	if cue.Start != 0 {
		t.Errorf("malformed start = %f, want 0", cue.Start)
	}
	if math.Abs(cue.End-5.0) > 0.0005 {
		t.Errorf("end = %f, want 5.0", cue.End)
	}
	if cue.Text != "hello" {
		t.Errorf("text = %q, want trimmed", cue.Text)
	}
}

func TestTrackDuration(t *testing.T) {
	cues := []Cue{{Start: 1, End: 3}, {Start: 5, End: 9.5}, {Start: 4, End: 6}}
	if got := TrackDuration(cues); math.Abs(got-9.5) > 0.0005 {
		t.Fatalf("TrackDuration = %f, want 9.5", got)
	}
	if got := TrackDuration(nil); got != 0 {
		t.Fatalf("TrackDuration(nil) = %f, want 0", got)
	}
}
