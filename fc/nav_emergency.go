package fc

// EmergencyDescentController ports applyMulticopterEmergencyLandingController:
// roll/pitch/yaw are zeroed and, with a valid altitude reference, the
// altitude cascade is driven downward at EmergDescentRate; without
// one, throttle falls back to a fixed failsafe value.
type EmergencyDescentController struct {
	altitude *AltitudeController

	prevTimeUpdate         int64
	prevTimePositionUpdate int64
}

// NewEmergencyDescentController shares the same AltitudeController
// the normal altitude cascade uses, exactly as the source shares
// posControl.pids.vel[Z] between the two call paths.
func NewEmergencyDescentController(altitude *AltitudeController) *EmergencyDescentController {
	return &EmergencyDescentController{altitude: altitude}
}

// EmergencyOutput is what Apply hands back: the mixer-ready roll,
// pitch, yaw, and throttle commands for an emergency-descent tick.
type EmergencyOutput struct {
	RollStick, PitchStick, YawStick int
	Throttle                        int
}

// Apply runs one tick of the emergency descent controller.
// failsafeThrottle is the value to command when there is no usable
// altitude reference at all.
func (e *EmergencyDescentController) Apply(cfg *Config, sensors *NavSensorFlags, actual *NavActualState, desired *NavDesiredState, failsafeThrottle int, nowMicros int64) EmergencyOutput {
	out := EmergencyOutput{}

	deltaMicros := nowMicros - e.prevTimeUpdate
	e.prevTimeUpdate = nowMicros

	if !sensors.HasValidAltitudeSensor {
		out.Throttle = failsafeThrottle
		return out
	}

	if deltaMicros > HZ2US(MinPositionUpdateRateHz) {
		e.prevTimeUpdate = nowMicros
		e.prevTimePositionUpdate = nowMicros
		e.altitude.Reset(actual, desired)
		out.Throttle = cfg.EscServo.MinThrottle
		return out
	}

	if sensors.VerticalPositionDataNew {
		deltaMicrosPositionUpdate := nowMicros - e.prevTimePositionUpdate
		e.prevTimePositionUpdate = nowMicros

		if deltaMicrosPositionUpdate < HZ2US(MinPositionUpdateRateHz) {
			dt := US2S(deltaMicrosPositionUpdate)
			e.altitude.updateTargetFromClimbRate(desired, actual, -cfg.Nav.EmergDescentRate, ClimbRateResetSurfaceTarget)
			e.altitude.updateVelocityController(actual, desired, dt)
			e.altitude.updateThrottleController(cfg, actual, desired, dt)
		} else {
			e.altitude.Reset(actual, desired)
		}
	}

	out.Throttle = ClampInt(cfg.Nav.MCHoverThrottle+roundToInt(e.altitude.rcAdjustmentThrottle), cfg.EscServo.MinThrottle, cfg.EscServo.MaxThrottle)
	return out
}
