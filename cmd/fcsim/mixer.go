package main

import "github.com/bskari/flightcore/fc"

// quadXSigns is the roll/pitch/yaw mix sign for each of 4 motors in a
// standard quad-X layout: front-right, rear-left, front-left,
// rear-right.
var quadXSigns = [4][3]float64{
	{-1, +1, +1},
	{+1, -1, +1},
	{+1, +1, -1},
	{-1, -1, -1},
}

// quadXMixer approximates a quad-X motor mix from throttle and the
// roll/pitch/yaw PID outputs, standing in for the real motor/ESC
// stage so the simulator can exercise the conditional integrator
// envelope behind fc.Mixer.
type quadXMixer struct {
	limitReached bool
}

func (m *quadXMixer) MotorCount() int         { return len(quadXSigns) }
func (m *quadXMixer) MotorLimitReached() bool { return m.limitReached }

// Update computes each motor's PWM from the tick's throttle and axis
// PID outputs, clamped to the ESC range, and records whether any
// motor saturated so the following tick's inner loop freezes its
// conditional integrators instead of continuing to wind them up.
func (m *quadXMixer) Update(cfg *fc.Config, result fc.TickResult) {
	m.limitReached = false
	for _, signs := range quadXSigns {
		mix := float64(result.Throttle)
		for axis := 0; axis < 3; axis++ {
			mix += signs[axis] * result.AxisPID[axis]
		}
		clamped := fc.Clamp(mix, float64(cfg.EscServo.MinThrottle), float64(cfg.EscServo.MaxThrottle))
		if clamped != mix {
			m.limitReached = true
		}
	}
}
