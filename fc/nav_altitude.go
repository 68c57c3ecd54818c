package fc

// ClimbRateUpdateMode selects how updateAltitudeTargetFromClimbRate
// treats the surface-tracking target when the desired Z is advanced
// by a climb rate, ported from the source's CLIMB_RATE_* enum.
type ClimbRateUpdateMode int

const (
	ClimbRateKeepSurfaceTarget ClimbRateUpdateMode = iota
	ClimbRateUpdateSurfaceTarget
	ClimbRateResetSurfaceTarget
)

// AltitudeController is the multirotor vertical cascade's persistent
// state: the velocity and surface-tracking PIDs, the throttle output
// filter, the hover-throttle zero point used to interpret the pilot's
// stick, and the previous-tick timestamps each stale-data check
// needs. Grounded on navigation_rewrite_multicopter.c's altitude
// controller statics.
type AltitudeController struct {
	posZPID    NavPIDState
	velPID     NavPIDState
	surfacePID NavPIDState
	throttleLP PT1State

	altHoldThrottleRCZero    int
	prepareForTakeoffOnReset bool

	rcAdjustmentThrottle float64

	prevTimeUpdate         int64
	prevTimePositionUpdate int64
}

// Init derives the position, velocity, and surface PID gains from the
// profile. PIDAlt drives the P-only position->velocity stage;
// PIDVel drives velocity->throttle; the surface PID's P-gain is a
// fixed constant in the source firmware rather than config-derived,
// so it is hardcoded here too.
func (a *AltitudeController) Init(cfg *Config) {
	a.posZPID.NavPIDInit(float64(cfg.PID.P8[PIDAlt])/100.0, 0, 0)
	a.velPID.NavPIDInit(float64(cfg.PID.P8[PIDVel])/100.0, float64(cfg.PID.I8[PIDVel])/100.0, float64(cfg.PID.D8[PIDVel])/100.0)
	a.surfacePID.NavPIDInit(2.0, 0, 0)
}

// Reset ports resetMulticopterAltitudeController: all three PIDs reset,
// the throttle filter zeroed, desired vertical velocity bumplessly
// seeded from actual, and the takeoff-guard integrator seed applied
// when a takeoff was pending.
func (a *AltitudeController) Reset(actual *NavActualState, desired *NavDesiredState) {
	a.posZPID.NavPIDReset()
	a.velPID.NavPIDReset()
	a.surfacePID.NavPIDReset()
	ResetPT1(&a.throttleLP, 0)
	desired.Vel.Z = actual.Vel.Z
	a.rcAdjustmentThrottle = 0

	if a.prepareForTakeoffOnReset {
		a.velPID.integrator = -500.0
		a.prepareForTakeoffOnReset = false
	}
}

// Setup ports setupMulticopterAltitudeController: picks the stick
// zero-throttle reference (either throttle-mid, per config, or the
// pilot's current throttle unless it's at THROTTLE_LOW) and arms the
// takeoff guard when the stick was at THROTTLE_LOW.
func (a *AltitudeController) Setup(cfg *Config, currentThrottle int, throttleMid int, throttleIsLow bool) {
	if cfg.Nav.UseThrMidForAltHold || throttleIsLow {
		a.altHoldThrottleRCZero = throttleMid
	} else {
		a.altHoldThrottleRCZero = currentThrottle
	}

	a.altHoldThrottleRCZero = ClampInt(
		a.altHoldThrottleRCZero,
		cfg.EscServo.MinThrottle+cfg.RcControls.AltHoldDeadband+10,
		cfg.EscServo.MaxThrottle-cfg.RcControls.AltHoldDeadband-10,
	)

	if throttleIsLow {
		a.prepareForTakeoffOnReset = true
	}
}

// AdjustFromRCInput ports adjustMulticopterAltitudeFromRCInput: a
// throttle stick deflection beyond the deadband becomes a manual
// climb-rate command, scaled so the stick's full travel in either
// direction reaches MaxManualClimbRate; returns true while the pilot
// is actively adjusting so the caller can set IsAdjustingAltitude.
func (a *AltitudeController) AdjustFromRCInput(cfg *Config, desired *NavDesiredState, actual *NavActualState, rawThrottle int, wasAdjusting bool) bool {
	adjustment := rawThrottle - a.altHoldThrottleRCZero
	if abs(adjustment) <= cfg.RcControls.AltHoldDeadband {
		if wasAdjusting {
			a.updateTargetFromClimbRate(desired, actual, 0, ClimbRateUpdateSurfaceTarget)
		}
		return false
	}

	var climbRate float64
	if adjustment > 0 {
		climbRate = float64(adjustment) * cfg.Nav.MaxManualClimbRate / float64(cfg.EscServo.MaxThrottle-a.altHoldThrottleRCZero)
	} else {
		climbRate = float64(adjustment) * cfg.Nav.MaxManualClimbRate / float64(a.altHoldThrottleRCZero-cfg.EscServo.MinThrottle)
	}
	a.updateTargetFromClimbRate(desired, actual, climbRate, ClimbRateUpdateSurfaceTarget)
	return true
}

// updateTargetFromClimbRate pins desired.Pos.Z to the current altitude
// and sets desired.Vel.Z to the requested climb rate; the velocity
// stage's slew limit then moves the target from that rate.
// Surface-target handling (mode) is left to the terrain follow stage; this core has no sonar/surface sensor adapter wired,
// so mode is accepted for call-site fidelity but otherwise unused.
func (a *AltitudeController) updateTargetFromClimbRate(desired *NavDesiredState, actual *NavActualState, climbRateCMS float64, mode ClimbRateUpdateMode) {
	_ = mode
	desired.Pos.Z = actual.Pos.Z
	desired.Vel.Z = climbRateCMS
}

// updateSurfaceTrackingSetpoint ports updateSurfaceTrackingAltitudeSetpoint:
// when terrain-follow is active and both surface readings are valid,
// the surface PID's output becomes an altitude correction layered on
// top of the actual Z; otherwise, if terrain-follow wants to run but
// the surface reading is out of range, it falls back to a fixed
// descent rate to regain range.
func (a *AltitudeController) updateSurfaceTrackingSetpoint(sensors *NavSensorFlags, actual *NavActualState, desired *NavDesiredState, dt float64) {
	if !sensors.IsTerrainFollowEnabled || desired.Surface < 0 {
		return
	}
	if actual.Surface >= 0 && sensors.HasValidSurfaceSensor {
		targetAltitudeError := a.surfacePID.NavPIDApply(desired.Surface, actual.Surface, dt, -5.0, 35.0, false)
		desired.Pos.Z = actual.Pos.Z + targetAltitudeError
	} else {
		a.updateTargetFromClimbRate(desired, actual, -20.0, ClimbRateKeepSurfaceTarget)
	}
}

// updateVelocityController ports updateAltitudeVelocityController_MC:
// position error -> velocity target, hard-limited to +/-20 m/s and
// slew-limited to a 250 cm/s^2 vertical acceleration.
func (a *AltitudeController) updateVelocityController(actual *NavActualState, desired *NavDesiredState, dt float64) {
	altitudeError := desired.Pos.Z - actual.Pos.Z
	targetVel := altitudeError * a.posZPID.Gains.KP
	targetVel = Clamp(targetVel, -2000.0, 2000.0)

	maxVelDifference := dt * 250.0
	desired.Vel.Z = Clamp(targetVel, desired.Vel.Z-maxVelDifference, desired.Vel.Z+maxVelDifference)
}

// updateThrottleController ports updateAltitudeThrottleController_MC:
// velocity error -> throttle offset, windup-limited to the
// min/max-throttle-relative-to-hover band, PT1-smoothed.
func (a *AltitudeController) updateThrottleController(cfg *Config, actual *NavActualState, desired *NavDesiredState, dt float64) {
	thrMin := float64(cfg.EscServo.MinThrottle - cfg.Nav.MCHoverThrottle)
	thrMax := float64(cfg.EscServo.MaxThrottle - cfg.Nav.MCHoverThrottle)

	a.rcAdjustmentThrottle = a.velPID.NavPIDApply(desired.Vel.Z, actual.Vel.Z, dt, thrMin, thrMax, false)
	a.rcAdjustmentThrottle = ApplyPT1(a.rcAdjustmentThrottle, &a.throttleLP, NavThrottleCutoffHz, dt)
	a.rcAdjustmentThrottle = Clamp(a.rcAdjustmentThrottle, thrMin, thrMax)
}

// Apply runs the full vertical cascade for one tick, ported from
// applyMulticopterAltitudeController, and returns the mixer-ready
// throttle value. nowMicros is a monotonic tick clock; deltaMicros
// between calls exceeding the stale-data threshold resets the
// cascade instead of integrating a stale sample.
func (a *AltitudeController) Apply(cfg *Config, sensors *NavSensorFlags, actual *NavActualState, desired *NavDesiredState, nowMicros int64) int {
	deltaMicros := nowMicros - a.prevTimeUpdate
	a.prevTimeUpdate = nowMicros

	if deltaMicros > HZ2US(MinPositionUpdateRateHz) {
		a.prevTimePositionUpdate = nowMicros
		a.Reset(actual, desired)
		return cfg.Nav.MCHoverThrottle
	}

	if sensors.VerticalPositionDataNew {
		deltaMicrosPositionUpdate := nowMicros - a.prevTimePositionUpdate
		a.prevTimePositionUpdate = nowMicros

		if deltaMicrosPositionUpdate < HZ2US(MinPositionUpdateRateHz) {
			dt := US2S(deltaMicrosPositionUpdate)
			a.updateSurfaceTrackingSetpoint(sensors, actual, desired, dt)
			a.updateVelocityController(actual, desired, dt)
			a.updateThrottleController(cfg, actual, desired, dt)
		} else {
			a.Reset(actual, desired)
		}
	}

	return ClampInt(cfg.Nav.MCHoverThrottle+roundToInt(a.rcAdjustmentThrottle), cfg.EscServo.MinThrottle, cfg.EscServo.MaxThrottle)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
