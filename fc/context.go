package fc

import "time"

// GyroSource is the boundary interface to whatever drives the gyro
// sample rate (a real IMU driver, or a simulator). It is the only
// thing the scheduler blocks on; everything else in a tick is pure
// computation over the values it returns.
type GyroSource interface {
	ReadGyro() (GyroInput, error)
}

// AttitudeSource supplies the estimator's tilt/heading output. Sensor
// fusion itself is out of scope for this core (spec §1); this is
// purely the consumer-side interface.
type AttitudeSource interface {
	ReadAttitude() (AttitudeInput, error)
}

// RxSource is the boundary interface to the RC receiver decoder.
type RxSource interface {
	ReadRx() (RxInput, ModeFlags, error)
}

// PositionSource supplies the outer loop's NED position/velocity
// estimate (e.g. GPS fix converted to local NED by an adapter).
type PositionSource interface {
	ReadPosition() (NavActualState, NavSensorFlags, error)
}

// MagSource supplies the current compass heading in degrees.
type MagSource interface {
	ReadHeadingDeg() (float64, error)
}

// BlackboxSink consumes one tick's Snapshot for offboard logging.
type BlackboxSink interface {
	Write(Snapshot) error
}

// Mixer is the boundary interface to the motor-mixing output stage:
// how many motors it drives, and whether the previous tick's command
// saturated any of them. MotorLimitReached feeds the inner loop's
// conditional integrator envelope (runAxis) — the I-term stops
// growing once a motor is pinned at its throttle limit, matching
// pidApplyRateController's `motorLimitReached` check.
type Mixer interface {
	MotorCount() int
	MotorLimitReached() bool
}

// ControllerContext is the single mutable struct the scheduler owns
// for the whole flight: the loaded tuning, the inner-loop and
// outer-loop controller state, the running nav state, and the
// collaborator interfaces each tick reads from or writes to. There is
// deliberately no other process-wide mutable control state (Design
// Notes): every stage takes *ControllerContext (or a narrower slice
// of it) as a parameter instead of reaching for a package global.
type ControllerContext struct {
	Config Config

	Rate *RateController
	Nav  *NavController

	Actual  NavActualState
	Desired NavDesiredState
	Sensors NavSensorFlags

	ModeFlags     ModeFlags
	NavStateFlags NavStateFlags

	Gyro     GyroSource
	Attitude AttitudeSource
	Rx       RxSource
	Position PositionSource
	Mag      MagSource
	Blackbox BlackboxSink
	Mixer    Mixer

	lastTickMicros int64
	startTime      time.Time
}

// NewControllerContext wires a fresh context around the given
// collaborators. Blackbox may be nil; a nil sink is a no-op.
func NewControllerContext(cfg Config, gyro GyroSource, attitude AttitudeSource, rx RxSource, position PositionSource, mag MagSource, blackbox BlackboxSink) *ControllerContext {
	return &ControllerContext{
		Config:    cfg,
		Rate:      &RateController{},
		Nav:       NewNavController(&cfg),
		Gyro:      gyro,
		Attitude:  attitude,
		Rx:        rx,
		Position:  position,
		Mag:       mag,
		Blackbox:  blackbox,
		startTime: time.Now(),
	}
}

// nowMicros returns a monotonic tick clock derived from the wall
// clock at context construction, matching the source firmware's
// micros() free-running counter closely enough for every deltaMicros
// computation in this core, which only ever cares about differences.
func (c *ControllerContext) nowMicros() int64 {
	return time.Since(c.startTime).Microseconds()
}
