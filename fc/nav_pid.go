package fc

// NavPIDGains holds the three gains for one outer-loop PID slot, plus
// the back-calculation kT derived from them by NavPIDInit.
type NavPIDGains struct {
	KP, KI, KD, KT float64
}

// NavPIDState is the per-slot controller state of the outer cascade's
// shared back-calculation PID, ported from pidController_t: the
// integrator, the D-term's tracked last input (error or measurement,
// depending on mode), and the D-term's own PT1 filter.
type NavPIDState struct {
	Gains NavPIDGains

	integrator float64
	lastInput  float64
	dtermState PT1State
}

// NavPIDInit sets the gains and derives kT exactly as navPidInit
// does: back-calculation is enabled only when both kP and kI are
// usefully nonzero, otherwise kI and kT are forced to zero and the
// stage degenerates to a plain PD controller.
func (s *NavPIDState) NavPIDInit(kP, kI, kD float64) {
	s.Gains.KP = kP
	s.Gains.KD = kD
	if kI > 1e-6 && kP > 1e-6 {
		s.Gains.KI = kI
		ti := kP / kI
		td := kD / kP
		s.Gains.KT = 2.0 / (ti + td)
	} else {
		s.Gains.KI = 0
		s.Gains.KT = 0
	}
	s.NavPIDReset()
}

// NavPIDReset clears the integrator, the D-term tracking input, and
// the D-term filter, for bumpless controller restart.
func (s *NavPIDState) NavPIDReset() {
	s.integrator = 0
	s.lastInput = 0
	ResetPT1(&s.dtermState, 0)
}

// navDtermCutoffHz is NAV_DTERM_CUT_HZ: the D-term low-pass applied
// inside every outer-cascade PID stage, regardless of which quantity
// (surface offset, vertical velocity, horizontal velocity) it is
// driving.
const navDtermCutoffHz = 38.0

// NavPIDApply runs one back-calculation PID tick, ported from
// navPidApply2 (Astrom's back-calculation anti-windup). When
// dTermErrorTracking is true the D-term differentiates the error
// signal instead of the measurement; every outer-cascade call site in
// this core uses measurement tracking (dTermErrorTracking=false),
// matching every navPidApply2 call in the source.
func (s *NavPIDState) NavPIDApply(setpoint, measurement, dt float64, outMin, outMax float64, dTermErrorTracking bool) float64 {
	error := setpoint - measurement

	p := error * s.Gains.KP

	var rawD float64
	if dTermErrorTracking {
		rawD = (error - s.lastInput) / dt
		s.lastInput = error
	} else {
		rawD = -(measurement - s.lastInput) / dt
		s.lastInput = measurement
	}
	d := s.Gains.KD * ApplyPT1(rawD, &s.dtermState, navDtermCutoffHz, dt)

	outVal := p + s.integrator + d
	outConstrained := Clamp(outVal, outMin, outMax)

	s.integrator += error*s.Gains.KI*dt + (outConstrained-outVal)*s.Gains.KT*dt

	return outConstrained
}
