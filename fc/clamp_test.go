package fc

import "testing"

func TestClampBounds(t *testing.T) {
	cases := []struct {
		value, min, max, want float64
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
	}
	for _, c := range cases {
		if got := Clamp(c.value, c.min, c.max); got != c.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", c.value, c.min, c.max, got, c.want)
		}
	}
}

func TestClampAbs(t *testing.T) {
	if got := ClampAbs(-200, 100); got != -100 {
		t.Errorf("ClampAbs(-200, 100) = %v, want -100", got)
	}
	if got := ClampAbs(50, 100); got != 50 {
		t.Errorf("ClampAbs(50, 100) = %v, want 50", got)
	}
}

func TestClampInt(t *testing.T) {
	if got := ClampInt(2000, 1000, 1900); got != 1900 {
		t.Errorf("ClampInt(2000, 1000, 1900) = %v, want 1900", got)
	}
	if got := ClampInt(500, 1000, 1900); got != 1000 {
		t.Errorf("ClampInt(500, 1000, 1900) = %v, want 1000", got)
	}
}

func TestRoundToInt(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{1.4, 1},
		{1.5, 2},
		{-1.4, -1},
		{-1.5, -2},
	}
	for _, c := range cases {
		if got := roundToInt(c.in); got != c.want {
			t.Errorf("roundToInt(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
