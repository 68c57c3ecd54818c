package fc

import "testing"

func TestClampInt16Bounds(t *testing.T) {
	if got := clampInt16(100000); got != int16Max {
		t.Errorf("clampInt16(100000) = %v, want %v", got, int16Max)
	}
	if got := clampInt16(-100000); got != int16Min {
		t.Errorf("clampInt16(-100000) = %v, want %v", got, int16Min)
	}
	if got := clampInt16(1234); got != 1234 {
		t.Errorf("clampInt16(1234) = %v, want 1234", got)
	}
}

// TestInt16MinIsCorrect guards against the source firmware's
// constrain(..., -32678, 32767) typo the spec's open questions flag:
// the correct int16 floor is -32768.
func TestInt16MinIsCorrect(t *testing.T) {
	if int16Min != -32768 {
		t.Errorf("int16Min = %v, want -32768", int16Min)
	}
}

func TestNewSnapshotClampsEveryField(t *testing.T) {
	inner := InnerOutput{
		AxisPID:      [3]float64{100000, -100000, 0},
		AxisPIDP:     [3]float64{1, 2, 3},
		AxisPIDI:     [3]float64{4, 5, 6},
		AxisPIDD:     [3]float64{7, 8, 9},
		AxisSetpoint: [3]float64{10, 11, 12},
	}
	desired := NavDesiredState{Pos: Vec3{Z: 100000}, Vel: Vec3{X: -100000, Y: 5, Z: 10}}

	snap := NewSnapshot(123, inner, 1500, desired)
	if snap.TimeMicros != 123 || snap.Throttle != 1500 {
		t.Errorf("expected TimeMicros/Throttle carried through, got %+v", snap)
	}
	if snap.AxisPID[0] != int16Max || snap.AxisPID[1] != int16Min {
		t.Errorf("expected out-of-range AxisPID clamped, got %v", snap.AxisPID)
	}
	if snap.NavTargetPositionZ != int16Max {
		t.Errorf("expected NavTargetPositionZ clamped to int16Max, got %v", snap.NavTargetPositionZ)
	}
	if snap.NavDesiredVelocityX != int16Min {
		t.Errorf("expected NavDesiredVelocityX clamped to int16Min, got %v", snap.NavDesiredVelocityX)
	}
}
