package fc

import "math"

// LandDetector implements isMulticopterLandingDetected's latch +
// trigger-timer state machine. hasHadSomeVelocity is a plain field
// rather than the source's pointer parameter: the source only ever
// threads one persistent bool through it, so there is no aliasing
// concern a pointer would address, and a field keeps the state
// self-contained with the rest of the detector.
type LandDetector struct {
	hasHadSomeVelocity bool
	landingSinceMicros int64
	triggered          bool
}

// Reset clears the latch and timer, used when arming or when flight
// mode changes away from a state that could have been landing.
func (l *LandDetector) Reset(nowMicros int64) {
	l.hasHadSomeVelocity = false
	l.landingSinceMicros = nowMicros
	l.triggered = false
}

// Update runs one tick of the land detector, ported from
// isMulticopterLandingDetected. adjustedThrottle is the NAV-corrected
// throttle (the source's rcCommandAdjustedThrottle), not the raw
// pilot stick, since it must reflect what the motors are actually
// being told to do.
func (l *LandDetector) Update(cfg *Config, sensors *NavSensorFlags, actual *NavActualState, adjustedThrottle int, nowMicros int64) bool {
	if !l.hasHadSomeVelocity && actual.Vel.Z < -25.0 {
		l.hasHadSomeVelocity = true
	}

	verticalMovement := math.Abs(actual.Vel.Z) > 25.0
	horizontalMovement := actual.VelXY > 100.0
	minimalThrust := adjustedThrottle < cfg.Nav.MCMinFlyThrottle

	possibleLanding := l.hasHadSomeVelocity && minimalThrust && !verticalMovement && !horizontalMovement

	if sensors.HasValidSurfaceSensor && actual.Surface >= 0 && actual.SurfaceMin >= 0 {
		possibleLanding = possibleLanding && actual.Surface <= actual.SurfaceMin+5.0
	}

	if !possibleLanding {
		l.landingSinceMicros = nowMicros
		l.triggered = false
		return false
	}

	l.triggered = (nowMicros - l.landingSinceMicros) > int64(LandDetectorTriggerTimeMS)*1000
	return l.triggered
}
