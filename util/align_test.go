package util

import (
	"testing"
	"time"
)

func TestAlignHour(t *testing.T) {
	tests := []struct {
		x          float64
		down, up   float64
	}{
		{3601, 3600, 7200},
		{3600, 3600, 3600},
		{7199, 3600, 7200},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := AlignHourDown(tt.x); got != tt.down {
			t.Errorf("AlignHourDown(%v) = %v, want %v", tt.x, got, tt.down)
		}
		if got := AlignHourUp(tt.x); got != tt.up {
			t.Errorf("AlignHourUp(%v) = %v, want %v", tt.x, got, tt.up)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("Clamp(5,0,3) = %v", got)
	}
	if got := Clamp(-1, 0, 3); got != 0 {
		t.Errorf("Clamp(-1,0,3) = %v", got)
	}
	if got := ClampInt(2, 0, 3); got != 2 {
		t.Errorf("ClampInt(2,0,3) = %v", got)
	}
}

func TestFmtAxis(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0.5, "0.5"},
		{12, "12"},
		{999, "999"},
		{1500, "1.5k"},
		{250000, "250k"},
	}
	for _, tt := range tests {
		if got := FmtAxis(tt.v); got != tt.want {
			t.Errorf("FmtAxis(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestFmtClock(t *testing.T) {
	ts := int64(1_700_000_000)
	want := time.Unix(ts, 0).Format("15:04")
	if got := FmtClock(float64(ts)); got != want {
		t.Errorf("FmtClock = %q, want %q", got, want)
	}
}
