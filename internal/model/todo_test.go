package model_test

import (
	"testing"
	"time"

	"github.com/cloudtodo/api/internal/model"
)

func TestTimestamp_FixedWidth(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
	}{
		{"whole second", time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
		{"trailing zero nanos", time.Date(2025, 3, 1, 12, 0, 0, 120000000, time.UTC)},
		{"full nanos", time.Date(2025, 3, 1, 12, 0, 0, 123456789, time.UTC)},
	}

	want := len("2025-03-01T12:00:00.000000000Z")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.Timestamp(tt.in)
			if len(got) != want {
				t.Errorf("Timestamp(%v) = %q, want fixed width %d", tt.in, got, want)
			}
		})
	}
}

func TestTimestamp_LexicalOrderMatchesChronological(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 999999000, time.UTC)
	earlier := model.Timestamp(base)
	later := model.Timestamp(base.Add(time.Microsecond))

	if !(earlier < later) {
		t.Errorf("expected %q < %q", earlier, later)
	}
}

func TestTimestamp_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("KST", 9*3600)
	got := model.Timestamp(time.Date(2025, 3, 2, 0, 30, 0, 0, loc))
	want := "2025-03-01T15:30:00.000000000Z"
	if got != want {
		t.Errorf("Timestamp() = %q, want %q", got, want)
	}
}
