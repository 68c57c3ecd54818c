package fc

import "math"

// WaypointSource is the narrow surface the horizontal cascade needs
// from the active mission: the cruise speed of the leg currently
// being flown, ported from getActiveWaypointSpeed. A nil source
// leaves the position controller on cfg.Nav.MaxSpeed unconditionally.
type WaypointSource interface {
	ActiveSpeed(fallbackCMS float64) float64
}

// maxAccelChangePerSecond is the jerk limit applied to the
// velocity->acceleration stage's output, ported from
// updatePositionAccelController_MC's 1700 cm/s^3 constant.
const maxAccelChangePerSecond = 1700.0

// PositionController is the horizontal cascade's persistent state:
// one NavPIDState per horizontal axis (X=North, Y=East), the
// acceleration-target LPFs, the jerk-limited previous acceleration
// target, and the stale-tick timestamps. Grounded on
// navigation_rewrite_multicopter.c's XY position controller statics.
type PositionController struct {
	velPID     [2]NavPIDState
	accFilter  [2]PT1State
	lastAccel  [2]float64

	RcAdjustment [2]float64 // [0]=Roll, [1]=Pitch, deci-degrees

	Waypoints WaypointSource

	prevTimeUpdate         int64
	prevTimePositionUpdate int64
}

// Init derives the horizontal velocity->acceleration gains from the
// profile's PIDPosR slot, shared across both axes as the source does.
func (p *PositionController) Init(cfg *Config) {
	kP := float64(cfg.PID.P8[PIDPosR]) / 100.0
	kI := float64(cfg.PID.I8[PIDPosR]) / 100.0
	kD := float64(cfg.PID.D8[PIDPosR]) / 100.0
	p.velPID[0].NavPIDInit(kP, kI, kD)
	p.velPID[1].NavPIDInit(kP, kI, kD)
}

// Reset ports resetMulticopterPositionController.
func (p *PositionController) Reset() {
	for axis := 0; axis < 2; axis++ {
		p.velPID[axis].NavPIDReset()
		p.RcAdjustment[axis] = 0
		ResetPT1(&p.accFilter[axis], 0)
		p.lastAccel[axis] = 0
	}
}

// posToVelKP returns the position->velocity P gain shared by both
// horizontal axes, taken from the PIDPos slot.
func posToVelKP(cfg *Config) float64 {
	return float64(cfg.PID.P8[PIDPos]) / 100.0
}

// applyDeadband zeroes a stick value inside +/-deadband and shifts
// the remainder toward zero, matching the source's applyDeadband.
func applyDeadband(value, deadband int) int {
	if value > deadband {
		return value - deadband
	}
	if value < -deadband {
		return value + deadband
	}
	return 0
}

// AdjustFromRCInput ports adjustMulticopterPositionFromRCInput: a
// pitch/roll deflection beyond pos_hold_deadband either (in GPS_CRUISE
// mode) advances the desired position so the pos->vel P-controller
// yields the requested earth-frame velocity, or (in GPS_ATTI mode)
// is left for the caller to pass through directly to the inner loop.
// Returns true while the pilot is actively adjusting.
func (p *PositionController) AdjustFromRCInput(cfg *Config, rollStick, pitchStick int, actual *NavActualState, desired *NavDesiredState, wasAdjusting bool) bool {
	rcPitch := applyDeadband(pitchStick, cfg.RcControls.PosHoldDeadband)
	rcRoll := applyDeadband(rollStick, cfg.RcControls.PosHoldDeadband)

	if rcPitch != 0 || rcRoll != 0 {
		if cfg.Nav.UserControlMode == NavGPSCruise {
			rcVelX := float64(rcPitch) * cfg.Nav.MaxManualSpeed / 500.0
			rcVelY := float64(rcRoll) * cfg.Nav.MaxManualSpeed / 500.0

			neuVelX := rcVelX*actual.CosYaw - rcVelY*actual.SinYaw
			neuVelY := rcVelX*actual.SinYaw + rcVelY*actual.CosYaw

			kP := posToVelKP(cfg)
			desired.Pos.X = actual.Pos.X + neuVelX/kP
			desired.Pos.Y = actual.Pos.Y + neuVelY/kP
		}
		return true
	}

	if wasAdjusting {
		stopX, stopY := p.InitialHoldPosition(cfg, actual)
		desired.Pos.X = stopX
		desired.Pos.Y = stopY
	}
	return false
}

// InitialHoldPosition ports calculateMulticopterInitialHoldPosition:
// the loiter target is the current position plus the stopping
// distance implied by current velocity and the configured
// deceleration time.
func (p *PositionController) InitialHoldPosition(cfg *Config, actual *NavActualState) (x, y float64) {
	x = actual.Pos.X + actual.Vel.X*cfg.Nav.PosDecelerationTime
	y = actual.Pos.Y + actual.Vel.Y*cfg.Nav.PosDecelerationTime
	return x, y
}

// velocityHeadingAttenuation ports getVelocityHeadingAttenuationFactor:
// in waypoint-auto mode, velocity is scaled down while the heading
// error to the target bearing is large, so the aircraft turns before
// it accelerates. Outside waypoint mode the factor is always 1. The
// headings are in centi-degrees.
func velocityHeadingAttenuation(autoWP bool, desiredYawCenti, actualYawCenti float64) float64 {
	if !autoWP {
		return 1.0
	}
	headingErrorCenti := Clamp(wrapHeading18000(desiredYawCenti-actualYawCenti), -9000, 9000)
	velScaling := math.Cos(headingErrorCenti * (math.Pi / 18000.0))
	return Clamp(velScaling*velScaling, 0.05, 1.0)
}

// wrapHeading18000 normalizes a centi-degree heading difference into
// (-18000, +18000], matching the source's wrap_18000.
func wrapHeading18000(deciDeg float64) float64 {
	for deciDeg > 18000 {
		deciDeg -= 36000
	}
	for deciDeg <= -18000 {
		deciDeg += 36000
	}
	return deciDeg
}

// velocityExpoAttenuation ports getVelocityExpoAttenuationFactor.
func velocityExpoAttenuation(posResponseExpo, velTotal, velMax float64) float64 {
	velScale := Clamp(velTotal/velMax, 0.01, 1.0)
	return 1.0 - posResponseExpo*(1.0-velScale*velScale)
}

// updateVelocityController ports updatePositionVelocityController_MC:
// position error -> velocity target, clamped to maxSpeed, attenuated
// by heading error (waypoint mode) and expo response.
func (p *PositionController) updateVelocityController(cfg *Config, actual *NavActualState, desired *NavDesiredState, autoWP bool, maxSpeed float64) {
	kP := posToVelKP(cfg)
	posErrorX := desired.Pos.X - actual.Pos.X
	posErrorY := desired.Pos.Y - actual.Pos.Y

	newVelX := posErrorX * kP
	newVelY := posErrorY * kP

	newVelTotal := math.Sqrt(newVelX*newVelX + newVelY*newVelY)
	if newVelTotal > maxSpeed {
		newVelX = maxSpeed * (newVelX / newVelTotal)
		newVelY = maxSpeed * (newVelY / newVelTotal)
		newVelTotal = maxSpeed
	}

	velHeadFactor := velocityHeadingAttenuation(autoWP, desired.YawDeci*10, actual.YawDeci*10)
	velExpoFactor := velocityExpoAttenuation(cfg.Nav.PosResponseExpo, newVelTotal, maxSpeed)
	desired.Vel.X = newVelX * velHeadFactor * velExpoFactor
	desired.Vel.Y = newVelY * velHeadFactor * velExpoFactor
}

// updateAccelController ports updatePositionAccelController_MC: a
// velocity-error->acceleration PID per axis, jerk-limited to
// maxAccelChangePerSecond, then LPF'd and rotated from earth frame
// into forward/right body frame to derive bank angles via
// atan2(accel, gravity).
func (p *PositionController) updateAccelController(cfg *Config, actual *NavActualState, desired *NavDesiredState, dt, maxAccelLimit float64) {
	velErrorX := desired.Vel.X - actual.Vel.X
	velErrorY := desired.Vel.Y - actual.Vel.Y

	var accelLimitX, accelLimitY float64
	velErrorMagnitude := math.Sqrt(velErrorX*velErrorX + velErrorY*velErrorY)
	if velErrorMagnitude > 0.1 {
		accelLimitX = maxAccelLimit / velErrorMagnitude * math.Abs(velErrorX)
		accelLimitY = maxAccelLimit / velErrorMagnitude * math.Abs(velErrorY)
	} else {
		accelLimitX = maxAccelLimit / 1.414213
		accelLimitY = accelLimitX
	}

	maxAccelChange := dt * maxAccelChangePerSecond
	accelLimitXMin := Clamp(p.lastAccel[0]-maxAccelChange, -accelLimitX, accelLimitX)
	accelLimitXMax := Clamp(p.lastAccel[0]+maxAccelChange, -accelLimitX, accelLimitX)
	accelLimitYMin := Clamp(p.lastAccel[1]-maxAccelChange, -accelLimitY, accelLimitY)
	accelLimitYMax := Clamp(p.lastAccel[1]+maxAccelChange, -accelLimitY, accelLimitY)

	newAccelX := p.velPID[0].NavPIDApply(desired.Vel.X, actual.Vel.X, dt, accelLimitXMin, accelLimitXMax, false)
	newAccelY := p.velPID[1].NavPIDApply(desired.Vel.Y, actual.Vel.Y, dt, accelLimitYMin, accelLimitYMax, false)

	p.lastAccel[0] = newAccelX
	p.lastAccel[1] = newAccelY

	accelN := ApplyPT1(newAccelX, &p.accFilter[0], NavAccelCutoffHz, dt)
	accelE := ApplyPT1(newAccelY, &p.accFilter[1], NavAccelCutoffHz, dt)

	accelForward := accelN*actual.CosYaw + accelE*actual.SinYaw
	accelRight := -accelN*actual.SinYaw + accelE*actual.CosYaw

	desiredPitch := math.Atan2(accelForward, GravityCMSS)
	desiredRoll := math.Atan2(accelRight*math.Cos(desiredPitch), GravityCMSS)

	maxBankDeci := float64(cfg.Nav.MCMaxBankAngle * 10)
	p.RcAdjustment[0] = Clamp(desiredRoll*(1800.0/math.Pi), -maxBankDeci, maxBankDeci)
	p.RcAdjustment[1] = Clamp(desiredPitch*(1800.0/math.Pi), -maxBankDeci, maxBankDeci)
}

// Apply runs the full horizontal cascade for one tick, ported from
// applyMulticopterPositionController, and returns the roll/pitch
// stick-equivalent values ready for the inner loop, plus whether the
// cascade actually drove them (false means the caller should pass the
// pilot's raw stick through unmodified).
func (p *PositionController) Apply(cfg *Config, sensors *NavSensorFlags, actual *NavActualState, desired *NavDesiredState, autoWP bool, nowMicros int64) (rollStick, pitchStick int, cascadeActive bool) {
	deltaMicros := nowMicros - p.prevTimeUpdate
	p.prevTimeUpdate = nowMicros

	bypass := cfg.Nav.UserControlMode == NavGPSAtti && sensors.IsAdjustingPosition

	if deltaMicros > HZ2US(MinPositionUpdateRateHz) {
		p.prevTimePositionUpdate = nowMicros
		p.Reset()
		return 0, 0, false
	}

	if sensors.HasValidPositionSensor {
		if sensors.HorizontalPositionDataNew {
			deltaMicrosPositionUpdate := nowMicros - p.prevTimePositionUpdate
			p.prevTimePositionUpdate = nowMicros

			if !bypass {
				if deltaMicrosPositionUpdate < HZ2US(MinPositionUpdateRateHz) {
					dt := US2S(deltaMicrosPositionUpdate)
					maxSpeed := cfg.Nav.MaxSpeed
					if autoWP && p.Waypoints != nil {
						maxSpeed = p.Waypoints.ActiveSpeed(cfg.Nav.MaxSpeed)
					}
					p.updateVelocityController(cfg, actual, desired, autoWP, maxSpeed)
					p.updateAccelController(cfg, actual, desired, dt, NavAccelerationXYMax)
				} else {
					p.Reset()
				}
			}
		}
	} else {
		p.RcAdjustment[0] = 0
		p.RcAdjustment[1] = 0
		bypass = true
	}

	if bypass {
		return 0, 0, false
	}
	return PidAngleToRcCommand(p.RcAdjustment[0]), PidAngleToRcCommand(p.RcAdjustment[1]), true
}

// AdjustHeadingFromRCInput ports adjustMulticopterHeadingFromRCInput:
// a yaw stick deflection beyond pos_hold_deadband lets the pilot set
// a new hold heading immediately (tracking actual, not desired).
func AdjustHeadingFromRCInput(cfg *Config, yawStick int, actual *NavActualState, desired *NavDesiredState) bool {
	if abs(yawStick) > cfg.RcControls.PosHoldDeadband {
		desired.YawDeci = actual.YawDeci
		return true
	}
	return false
}
