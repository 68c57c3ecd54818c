package fc

import "time"

// Scheduler runs the fixed five-stage pipeline — sensor ingest,
// estimator (external), outer nav, inner PID, mixer/output — once per
// gyro tick, forever, at a fixed period. It never suspends mid-tick;
// any collaborator error degrades that tick's output (sticks/throttle
// frozen or zeroed) rather than propagating, since the control loop
// itself has no error return (spec §7). Grounded on pilot.go's
// RunGlideTestForever loop-and-sleep shape.
type Scheduler struct {
	ctx    *ControllerContext
	period time.Duration
}

// NewScheduler builds a scheduler that ticks at gyroHz.
func NewScheduler(ctx *ControllerContext, gyroHz float64) *Scheduler {
	return &Scheduler{ctx: ctx, period: time.Duration(HZ2US(gyroHz)) * time.Microsecond}
}

// TickResult is what one scheduler iteration hands the mixer/output
// stage (external to this core, per spec §1).
type TickResult struct {
	AxisPID  [3]float64
	Throttle int
	Landed   bool
}

// RunForever ticks the pipeline at the configured period until stop
// is closed.
func (s *Scheduler) RunForever(stop <-chan struct{}) {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick runs exactly one iteration of the fixed stage order.
func (s *Scheduler) Tick() TickResult {
	c := s.ctx
	now := c.nowMicros()

	rx, flags, err := c.Rx.ReadRx()
	if err != nil {
		Log.Warningf("rx read failed: %v", err)
	}
	c.ModeFlags = flags

	gyro, err := c.Gyro.ReadGyro()
	if err != nil {
		Log.Errorf("gyro read failed: %v", err)
	}

	att, err := c.Attitude.ReadAttitude()
	if err != nil {
		Log.Warningf("attitude read failed: %v", err)
	}

	if c.Position != nil {
		actual, sensors, err := c.Position.ReadPosition()
		if err != nil {
			Log.Debugf("position read failed: %v", err)
		} else {
			c.Actual = actual
			c.Sensors = sensors
		}
	}

	var navOut NavOutput
	if c.NavStateFlags != 0 {
		failsafeThrottle := c.Config.EscServo.MinThrottle
		navOut = c.Nav.Apply(&c.Config, c.NavStateFlags, &c.Sensors, &c.Actual, &c.Desired, failsafeThrottle, now)
		if c.NavStateFlags.Has(NavCtlAlt) || c.NavStateFlags.Has(NavCtlEmerg) {
			rx.Throttle = navOut.Throttle
		}
		if navOut.RollStick != 0 || navOut.PitchStick != 0 {
			rx.Stick[Roll] = navOut.RollStick
			rx.Stick[Pitch] = navOut.PitchStick
		}
	}

	dt := US2S(int64(s.period / time.Microsecond))
	magInputs := MagHoldInputs{}
	if c.Mag != nil {
		if heading, err := c.Mag.ReadHeadingDeg(); err == nil {
			magInputs.SensorPresent = true
			magInputs.CurrentHeadingDeg = heading
		}
	}
	if navOut.YawControlActive {
		magInputs.NavHeadingControl = NavHeadingControlAuto
		magInputs.NavTargetHeadingDeg = navOut.HeadingTargetDeg
	}

	motorCount := 4
	motorLimitReached := false
	if c.Mixer != nil {
		motorCount = c.Mixer.MotorCount()
		motorLimitReached = c.Mixer.MotorLimitReached()
	}

	out := c.Rate.RunInnerLoop(&c.Config, rx, gyro, att, dt, flags, magInputs, motorCount, motorLimitReached)

	throttle := ClampInt(rx.Throttle, c.Config.EscServo.MinThrottle, c.Config.EscServo.MaxThrottle)

	if c.Blackbox != nil {
		snap := NewSnapshot(now, out, throttle, c.Desired)
		if err := c.Blackbox.Write(snap); err != nil {
			Log.Debugf("blackbox write failed: %v", err)
		}
	}

	return TickResult{AxisPID: out.AxisPID, Throttle: throttle, Landed: navOut.Landed}
}
