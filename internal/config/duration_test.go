package config

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDurationUnmarshalYAML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want time.Duration
	}{
		{
			name: "duration string",
			in:   "d: 1s",
			want: time.Second,
		},
		{
			name: "sub-second string",
			in:   "d: 500ms",
			want: 500 * time.Millisecond,
		},
		{
			name: "bare integer is seconds",
			in:   "d: 2",
			want: 2 * time.Second,
		},
		{
			name: "fractional seconds",
			in:   "d: 0.5",
			want: 500 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var doc struct {
				D Duration `yaml:"d"`
			}
			if err := yaml.Unmarshal([]byte(tt.in), &doc); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if doc.D.Duration != tt.want {
				t.Errorf("parsed %v, want %v", doc.D.Duration, tt.want)
			}
		})
	}

	t.Run("invalid string is an error", func(t *testing.T) {
		t.Parallel()

		var doc struct {
			D Duration `yaml:"d"`
		}
		if err := yaml.Unmarshal([]byte("d: not-a-duration"), &doc); err == nil {
			t.Error("expected error for unparseable duration")
		}
	})
}

func TestDurationText(t *testing.T) {
	t.Parallel()

	d := DurationFrom(1500 * time.Millisecond)

	text, err := d.MarshalText()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(text) != "1.5s" {
		t.Errorf("MarshalText() = %q, want 1.5s", text)
	}

	var parsed Duration
	if err := parsed.UnmarshalText(text); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Duration != d.Duration {
		t.Errorf("round trip = %v, want %v", parsed.Duration, d.Duration)
	}

	var empty Duration
	if err := empty.UnmarshalText(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !empty.IsZero() {
		t.Error("empty text should parse to zero")
	}
}
