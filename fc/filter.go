package fc

import "math"

// PT1State is a single-pole low-pass filter's running state. It is a
// fixed-size value type so it can live embedded in per-axis PID state
// with no allocation.
type PT1State struct {
	state float64
	rc    float64
}

// ApplyPT1 filters input through a PT1 (first-order) low-pass with
// the given cutoff frequency and runs it forward by dt seconds. A
// zero cutoff disables filtering (RC collapses to zero and the state
// tracks input directly), matching the source's filterApplyPt1 used
// in an "if hz != 0" guard at call sites.
func ApplyPT1(input float64, st *PT1State, cutoffHz, dt float64) float64 {
	if cutoffHz <= 0 {
		st.state = input
		return input
	}
	rc := 1.0 / (2 * math.Pi * cutoffHz)
	st.rc = rc
	alpha := dt / (rc + dt)
	st.state = st.state + alpha*(input-st.state)
	return st.state
}

// ResetPT1 clears the filter state to a known value, used on
// bumpless controller resets.
func ResetPT1(st *PT1State, value float64) {
	st.state = value
	st.rc = 0
}

const dTermBufCount = 5

// FIRDiffState holds the rolling 5-sample history for the Holoborodko
// derivative estimator used by the rate PID's D-term.
type FIRDiffState struct {
	buf [dTermBufCount]float64
}

// holoborodkoCoeffs are the 5-point noise-robust differentiator
// coefficients h[0..4] = {5, 2, -8, -2, 3} from Pavel Holoborodko's
// smooth low-noise differentiators; h[0] weights the newest sample.
var holoborodkoCoeffs = [dTermBufCount]float64{5, 2, -8, -2, 3}

// PushAndDifferentiate shifts sample into the FIR history and returns
// the scaled derivative estimate. scale is typically -kD/(8*dt).
func PushAndDifferentiate(st *FIRDiffState, sample, scale float64) float64 {
	for i := 0; i < dTermBufCount-1; i++ {
		st.buf[i] = st.buf[i+1]
	}
	st.buf[dTermBufCount-1] = sample

	sum := 0.0
	for i := 0; i < dTermBufCount; i++ {
		sum += st.buf[dTermBufCount-1-i] * holoborodkoCoeffs[i]
	}
	return sum * scale
}

// ResetFIR clears the derivative history, used on bumpless resets.
func ResetFIR(st *FIRDiffState) {
	for i := range st.buf {
		st.buf[i] = 0
	}
}
