package fc

import "math"

// RxInput carries the already-curve-mapped stick values the core
// consumes. Stick scaling lookup tables and deadband shaping are the
// RC decoder's job (out of scope per spec §1); by the time a tick
// reaches this core, Stick is centered at zero.
type RxInput struct {
	Stick    [3]int // Roll, Pitch, Yaw; centered, typically -500..+500
	Throttle int    // raw receiver throttle, typically 1000..2000
}

// GyroInput carries the gyro-rate sample for the tick, in dps.
type GyroInput struct {
	Rate [3]float64
}

// AttitudeInput carries the estimator's current tilt/heading.
type AttitudeInput struct {
	Angle   [2]float64 // Roll, Pitch; centi-degrees
	YawDeci float64    // heading, deci-degrees
}

// InnerOutput is what RunInnerLoop publishes: the per-axis mixer
// input, clamped to +/-PIDMaxOutput, plus the blackbox-visible P/I/D
// decomposition.
type InnerOutput struct {
	AxisPID      [3]float64
	AxisPIDP     [3]float64
	AxisPIDI     [3]float64
	AxisPIDD     [3]float64
	AxisSetpoint [3]float64
}

// axisPIDState is the per-axis persistent state of the inner rate
// controller: gains, the rate integrator and its anti-windup
// envelope, the heading-lock accumulator, the derivative FIR history,
// and the three PT1 filter states. It is fixed-size and
// allocation-free, matching the source's pidState_t.
type axisPIDState struct {
	kP, kI, kD, kT float64

	errorGyroI      float64
	errorGyroILimit float64

	axisLockAccum float64

	dTermHistory FIRDiffState

	angleFilter PT1State // ANGLE-mode rateTarget LPF (ROLL/PITCH only)
	ptermFilter PT1State // YAW P-term LPF
	dtermFilter PT1State // D-term LPF
}

// RateController is the inner attitude/rate controller's full state:
// three axisPIDState records plus the mag-hold controller it may
// delegate YAW's rate target to.
type RateController struct {
	axes    [3]axisPIDState
	MagHold MagHoldController
}

func (rc *RateController) axis(a Axis) *axisPIDState { return &rc.axes[a] }

// Reset clears every axis's integrator, anti-windup envelope, and
// heading-lock accumulator, matching pidResetErrorAccumulators. It
// does not touch the filter states, which decay naturally and whose
// mid-flight reset would itself introduce a bump.
func (rc *RateController) Reset() {
	for axis := 0; axis < 3; axis++ {
		rc.axes[axis].errorGyroI = 0
		rc.axes[axis].errorGyroILimit = 0
	}
	rc.axes[Yaw].axisLockAccum = 0
}

const (
	fpPIDRateP    = 40.0
	fpPIDRateI    = 10.0
	fpPIDRateD    = 4000.0
	fpPIDLevelP   = 40.0
	fpPIDYawHoldP = 80.0
	kdAttenBreak  = 0.25
)

// updateCoefficients recomputes kP/kI/kD/kT for every axis: base
// gains from the profile, TPA and throttle-based kD attenuation
// applied to ROLL/PITCH, back-calculation kT wherever both P and I
// are nonzero. Ported from updatePIDCoefficients.
func (rc *RateController) updateCoefficients(cfg *Config, specs [3]AxisSpec, throttle int) {
	tpa := tpaFactor(cfg.Rate.DynThrPID, cfg.Rate.TPABreakpoint, throttle)
	kdAtt := kdAttenuationFactor(cfg.Rx.MinCheck, cfg.Rx.MaxCheck, throttle)

	for _, spec := range specs {
		st := rc.axis(spec.Axis)
		st.kP = float64(cfg.PID.P8[spec.Axis]) / fpPIDRateP
		st.kI = float64(cfg.PID.I8[spec.Axis]) / fpPIDRateI
		st.kD = float64(cfg.PID.D8[spec.Axis]) / fpPIDRateD

		if spec.ApplyTPA {
			st.kP *= tpa
			st.kD *= tpa * kdAtt
		}

		if cfg.PID.P8[spec.Axis] != 0 && cfg.PID.I8[spec.Axis] != 0 {
			st.kT = 2.0 / (st.kP/st.kI + st.kD/st.kP)
		} else {
			st.kT = 0
		}
	}
}

func tpaFactor(dynThrPID, breakpoint, throttle int) float64 {
	if dynThrPID == 0 || throttle < breakpoint {
		return 1.0
	}
	if throttle < 2000 {
		return float64(100-(dynThrPID*(throttle-breakpoint))/(2000-breakpoint)) / 100.0
	}
	return float64(100-dynThrPID) / 100.0
}

func kdAttenuationFactor(minCheck, maxCheck, throttle int) float64 {
	rel := Clamp(float64(throttle-minCheck)/float64(maxCheck-minCheck), 0, 1)
	if rel < kdAttenBreak {
		return Clamp(rel/kdAttenBreak+0.5, 0, 1)
	}
	return 1.0
}

// calcHorizonLevelStrength computes HORIZON mode's attenuation of the
// self-level contribution as stick deflection grows, ported from
// calcHorizonLevelStrength. D8[PIDLEVEL] == 0 disables HORIZON's
// self-level entirely (strength forced to zero).
func calcHorizonLevelStrength(cfg *Config, rollStick, pitchStick int) float64 {
	mostDeflected := math.Max(math.Abs(float64(rollStick)), math.Abs(float64(pitchStick)))
	h := (500.0 - mostDeflected) / 500.0

	if cfg.PID.D8[PIDLevel] == 0 {
		return 0
	}
	return Clamp((h-1)*(100.0/float64(cfg.PID.D8[PIDLevel]))+1, 0, 1)
}

// pidLevel implements the ANGLE/HORIZON self-level stage for one
// ROLL/PITCH axis, ported from pidLevel. angleIndex selects which of
// cfg.PID.MaxAngleInclination/AttitudeInput.Angle slot to use (0 for
// Roll, 1 for Pitch).
func pidLevel(cfg *Config, st *axisPIDState, stick int, attitudeCentiDeg float64, angleIndex int, horizon, horizonStrength float64, dt float64, rateTarget float64) float64 {
	angleTarget := pidRcCommandToAngle(stick)
	maxIncl := float64(cfg.PID.MaxAngleInclination[angleIndex])
	angleError := (Clamp(angleTarget, -maxIncl, maxIncl) - attitudeCentiDeg) / 10.0

	levelP := float64(cfg.PID.P8[PIDLevel]) / fpPIDLevelP

	if horizon > 0 {
		rateTarget += angleError * levelP * horizonStrength
	} else {
		rateTarget = angleError * levelP
	}

	if cfg.PID.I8[PIDLevel] != 0 {
		rateTarget = ApplyPT1(rateTarget, &st.angleFilter, float64(cfg.PID.I8[PIDLevel]), dt)
	}
	return rateTarget
}

// pidApplyHeadingLock implements the yaw heading-lock integrator,
// ported from pidApplyHeadingLock. It resets on large yaw stick or
// disarm, otherwise integrates the rate error and replaces rateTarget
// with the accumulator scaled by PIDMag's P gain.
func pidApplyHeadingLock(cfg *Config, st *axisPIDState, armed bool, dt float64, rateTarget, gyroRate float64) float64 {
	if math.Abs(rateTarget) > 2 || !armed {
		st.axisLockAccum = 0
		return rateTarget
	}
	st.axisLockAccum += (rateTarget - gyroRate) * dt
	st.axisLockAccum = ClampAbs(st.axisLockAccum, 45)
	return st.axisLockAccum * (float64(cfg.PID.P8[PIDMag]) / fpPIDYawHoldP)
}

// runAxis executes the rate-PID stage (step 3 of spec §4.1) for one
// axis: P-term (with YAW-only P-limit/LPF), D-term (Holoborodko FIR,
// skipped when D8==0), attenuation, back-calculation integrator, and
// the conditional anti-windup envelope. Ported from
// pidApplyRateController.
func runAxis(cfg *Config, spec AxisSpec, st *axisPIDState, rateTarget, gyroRate, dt float64, motorCount int, attenuated, antiWindup, motorLimitReached bool) (output, p, i, d float64) {
	rateError := rateTarget - gyroRate

	newP := rateError * st.kP
	if spec.YawPLimit && motorCount >= 4 && cfg.PID.YawPLimit > 0 {
		newP = ClampAbs(newP, float64(cfg.PID.YawPLimit))
	}
	if spec.YawPLPF && cfg.PID.YawLPFHz > 0 {
		newP = ApplyPT1(newP, &st.ptermFilter, float64(cfg.PID.YawLPFHz), dt)
	}

	var newD float64
	if cfg.PID.D8[spec.Axis] != 0 {
		newD = PushAndDifferentiate(&st.dTermHistory, gyroRate, -st.kD/(8*dt))
		if cfg.PID.DtermLPFHz > 0 {
			newD = ApplyPT1(newD, &st.dtermFilter, float64(cfg.PID.DtermLPFHz), dt)
		}
	}

	attenuation := 1.0
	if attenuated {
		attenuation = 0.33
	}
	newOutput := (newP+newD)*attenuation + st.errorGyroI
	newOutputLimited := ClampAbs(newOutput, PIDMaxOutput)

	st.errorGyroI += rateError*st.kI*dt + (newOutputLimited-newOutput)*st.kT*dt

	if antiWindup || motorLimitReached {
		st.errorGyroI = ClampAbs(st.errorGyroI, st.errorGyroILimit)
	} else {
		st.errorGyroILimit = math.Abs(st.errorGyroI)
	}

	return newOutputLimited, newP, st.errorGyroI, newD
}

// MagHoldInputs carries the inputs the YAW rate-target stage needs to
// decide between pilot-stick rate, heading-lock, and mag-hold.
type MagHoldInputs struct {
	SensorPresent       bool
	NavHeadingControl   NavHeadingControlState
	CurrentHeadingDeg   float64
	NavTargetHeadingDeg float64
}

// RunInnerLoop executes one gyro-tick of the cascaded inner
// attitude/rate controller (spec §4.1, stages 1-3). dt is the fixed
// gyro-sync time step in seconds. motorCount and motorLimitReached
// come from the mixer (external, per spec §1); flags carries the
// ANGLE/HORIZON/HEADING_LOCK/MAG_MODE/ARMED/PID_ATTENUATE/ANTI_WINDUP
// bits.
func (rc *RateController) RunInnerLoop(cfg *Config, rx RxInput, gyro GyroInput, att AttitudeInput, dt float64, flags ModeFlags, mag MagHoldInputs, motorCount int, motorLimitReached bool) InnerOutput {
	specs := DefaultAxisSpecs()
	rc.updateCoefficients(cfg, specs, rx.Throttle)

	magHoldState := rc.MagHold.State(mag.SensorPresent, flags.Has(SmallAngle), mag.NavHeadingControl, rx.Stick[Yaw], flags.Has(MagMode))
	if mag.NavHeadingControl == NavHeadingControlAuto {
		rc.MagHold.SetTarget(mag.NavTargetHeadingDeg)
	} else if magHoldState == MagHoldUpdateHeading {
		rc.MagHold.Latch(mag.CurrentHeadingDeg)
	}

	var rateTarget [3]float64
	for axis := 0; axis < 3; axis++ {
		if Axis(axis) == Yaw && magHoldState == MagHoldEnabled {
			rateTarget[axis] = rc.MagHold.Update(cfg, mag.CurrentHeadingDeg, dt)
		} else {
			rateTarget[axis] = PidRcCommandToRate(rx.Stick[axis], cfg.Rate.Rates[axis])
		}
		rateTarget[axis] = ClampAbs(rateTarget[axis], GyroSaturationLimit)
	}

	if flags.Has(AngleMode) || flags.Has(HorizonMode) {
		horizon := 0.0
		if flags.Has(HorizonMode) {
			horizon = 1
		}
		strength := calcHorizonLevelStrength(cfg, rx.Stick[Roll], rx.Stick[Pitch])
		rateTarget[Roll] = pidLevel(cfg, rc.axis(Roll), rx.Stick[Roll], att.Angle[0], 0, horizon, strength, dt, rateTarget[Roll])
		rateTarget[Pitch] = pidLevel(cfg, rc.axis(Pitch), rx.Stick[Pitch], att.Angle[1], 1, horizon, strength, dt, rateTarget[Pitch])
	}

	if flags.Has(HeadingLock) && magHoldState != MagHoldEnabled {
		rateTarget[Yaw] = pidApplyHeadingLock(cfg, rc.axis(Yaw), flags.Has(Armed), dt, rateTarget[Yaw], gyro.Rate[Yaw])
	}

	var out InnerOutput
	for _, spec := range specs {
		axis := spec.Axis
		output, p, i, d := runAxis(cfg, spec, rc.axis(axis), rateTarget[axis], gyro.Rate[axis], dt, motorCount, flags.Has(PIDAttenuate), flags.Has(AntiWindup), motorLimitReached)
		out.AxisPID[axis] = output
		out.AxisPIDP[axis] = p
		out.AxisPIDI[axis] = i
		out.AxisPIDD[axis] = d
		out.AxisSetpoint[axis] = rateTarget[axis]
	}
	return out
}
