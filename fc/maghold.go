package fc

import "math"

// MagHoldState mirrors the source's three-way mag-hold state machine:
// disabled entirely, latching a new target heading this tick, or
// actively holding a previously latched heading. It is mutually
// exclusive with the yaw heading-lock integrator (pidApplyHeadingLock)
// — RunInnerLoop only calls one or the other for YAW's rate target.
type MagHoldState int

const (
	MagHoldDisabled MagHoldState = iota
	MagHoldUpdateHeading
	MagHoldEnabled
)

// NavHeadingControlState tells the mag-hold resolver whether the
// outer navigation controller currently wants yaw authority: None
// (pilot/mag-hold has it), Manual (nav wants it but the pilot is
// actively overriding the heading), or Auto (nav is actively driving
// the heading target and mag-hold must run in lock-step with it,
// ported from naivationGetHeadingControlState's three-way result).
type NavHeadingControlState int

const (
	NavHeadingControlNone NavHeadingControlState = iota
	NavHeadingControlManual
	NavHeadingControlAuto
)

const magHoldErrorLPFHz = 2.0

// fpMagHoldPMultiplier is pidMagHold's fixed P-gain divisor, distinct
// from the heading-lock integrator's fpPIDYawHoldP.
const fpMagHoldPMultiplier = 30.0

// MagHoldController is the per-YAW-axis state for the magnetometer
// heading-hold controller: the latched target heading and the 2Hz
// error low-pass filter, ported from pidMagHold's static state plus
// getMagHoldState.
type MagHoldController struct {
	targetHeadingDeg float64
	errorFilter      PT1State
	latched          bool
}

// State resolves the current MagHoldState, ported from
// getMagHoldState. Mag-hold requires a present magnetometer and a
// non-small tilt angle check passed (SmallAngle flag set). When the
// nav controller wants heading control in Auto mode, mag-hold is
// unconditionally enabled to track the nav-driven target in
// lock-step; otherwise it falls back to MAG_MODE armed by the pilot
// plus the yaw stick centered. While the yaw stick is deflected (or
// nothing is latched yet) it returns MagHoldUpdateHeading, so the
// current heading is re-latched each tick instead of being fought.
func (m *MagHoldController) State(sensorPresent, smallAngle bool, navHeading NavHeadingControlState, yawStick int, magMode bool) MagHoldState {
	if !sensorPresent || !smallAngle {
		m.latched = false
		return MagHoldDisabled
	}
	if navHeading == NavHeadingControlAuto {
		return MagHoldEnabled
	}
	if !magMode || navHeading == NavHeadingControlManual {
		m.latched = false
		return MagHoldDisabled
	}
	if !m.latched || math.Abs(float64(yawStick)) > 15 {
		return MagHoldUpdateHeading
	}
	return MagHoldEnabled
}

// Latch records currentHeadingDeg as the new hold target and resets
// the error filter so the next Update tick starts bumpless.
func (m *MagHoldController) Latch(currentHeadingDeg float64) {
	m.targetHeadingDeg = wrapHeading180(currentHeadingDeg)
	m.latched = true
	ResetPT1(&m.errorFilter, 0)
}

// SetTarget overwrites the hold target without resetting the error
// filter, ported from applyMulticopterHeadingController's/
// resetMulticopterHeadingController's direct writes to
// magHoldTargetHeading — used every tick the nav layer is actively
// driving yaw (NavHeadingControlAuto), bypassing the stick-relatch
// logic State otherwise applies.
func (m *MagHoldController) SetTarget(headingDeg float64) {
	m.targetHeadingDeg = wrapHeading180(headingDeg)
	m.latched = true
}

// wrapHeading180 normalizes a heading difference or absolute heading
// into (-180, +180], matching the source's inline wrap in pidMagHold.
func wrapHeading180(deg float64) float64 {
	for deg > 180 {
		deg -= 360
	}
	for deg <= -180 {
		deg += 360
	}
	return deg
}

// Update computes the YAW rate target that drives the aircraft toward
// the latched heading, ported from pidMagHold: P-only on the wrapped
// heading error, 2Hz PT1 smoothed, clamped to MagHoldRateLimit.
func (m *MagHoldController) Update(cfg *Config, currentHeadingDeg float64, dt float64) float64 {
	errorDeg := wrapHeading180(currentHeadingDeg - m.targetHeadingDeg)
	errorDeg = ApplyPT1(errorDeg, &m.errorFilter, magHoldErrorLPFHz, dt)

	rate := errorDeg * (float64(cfg.PID.P8[PIDMag]) / fpMagHoldPMultiplier)
	return ClampAbs(rate, float64(cfg.PID.MagHoldRateLimit))
}
