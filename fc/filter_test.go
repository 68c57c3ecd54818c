package fc

import (
	"math"
	"testing"
)

func TestApplyPT1SettlesToConstantInput(t *testing.T) {
	var st PT1State
	var out float64
	for i := 0; i < 2000; i++ {
		out = ApplyPT1(100.0, &st, 10.0, 0.001)
	}
	if math.Abs(out-100.0) > 0.5 {
		t.Errorf("PT1 did not settle near 100, got %v", out)
	}
}

func TestApplyPT1ZeroCutoffDisablesFiltering(t *testing.T) {
	var st PT1State
	out := ApplyPT1(42.0, &st, 0, 0.001)
	if out != 42.0 {
		t.Errorf("zero cutoff should pass input through, got %v", out)
	}
	out = ApplyPT1(7.0, &st, -1, 0.001)
	if out != 7.0 {
		t.Errorf("negative cutoff should also pass input through, got %v", out)
	}
}

func TestResetPT1ClearsState(t *testing.T) {
	var st PT1State
	ApplyPT1(100.0, &st, 10.0, 0.01)
	ResetPT1(&st, 5.0)
	out := ApplyPT1(5.0, &st, 10.0, 0.01)
	if math.Abs(out-5.0) > 1e-9 {
		t.Errorf("expected filter to hold steady at reset value, got %v", out)
	}
}

func TestPushAndDifferentiateConstantInputIsZero(t *testing.T) {
	var st FIRDiffState
	var d float64
	for i := 0; i < dTermBufCount+2; i++ {
		d = PushAndDifferentiate(&st, 10.0, -1.0/(8*0.001))
	}
	if math.Abs(d) > 1e-9 {
		t.Errorf("derivative of a constant signal should be zero, got %v", d)
	}
}

func TestPushAndDifferentiateRampIsNonzero(t *testing.T) {
	var st FIRDiffState
	var d float64
	for i := 0; i < dTermBufCount+5; i++ {
		d = PushAndDifferentiate(&st, float64(i), -1.0/(8*0.001))
	}
	if d == 0 {
		t.Errorf("derivative of a ramp should be nonzero")
	}
}

func TestResetFIRClearsHistory(t *testing.T) {
	var st FIRDiffState
	for i := 0; i < dTermBufCount; i++ {
		PushAndDifferentiate(&st, 50.0, 1.0)
	}
	ResetFIR(&st)
	for _, v := range st.buf {
		if v != 0 {
			t.Errorf("expected cleared FIR history, found %v", v)
		}
	}
}
