package fc

// AxisSpec is a per-axis configuration record consumed by the one
// shared rate-PID routine. Rather than branching on "axis == YAW"
// throughout runAxis, the YAW-specific behaviors (P-limit, P-term
// LPF, no self-level, mag-hold/heading-lock substitution) are data
// carried here, per the Design Notes' guidance to avoid scattering
// per-axis special cases.
type AxisSpec struct {
	Axis Axis

	// ApplyTPA is true for ROLL/PITCH: their kP and kD are scaled by
	// thrust PID attenuation. YAW is exempt.
	ApplyTPA bool

	// SelfLevel is true for ROLL/PITCH: they participate in
	// ANGLE/HORIZON self-leveling. YAW never does.
	SelfLevel bool

	// YawPLimit and YawPLPF enable YAW-only P-term shaping.
	YawPLimit bool
	YawPLPF   bool

	// HeadingLockCapable and MagHoldCapable are true only for YAW.
	HeadingLockCapable bool
	MagHoldCapable     bool
}

// DefaultAxisSpecs returns the three AxisSpec records used by
// RunInnerLoop, in Roll/Pitch/Yaw order.
func DefaultAxisSpecs() [3]AxisSpec {
	return [3]AxisSpec{
		{Axis: Roll, ApplyTPA: true, SelfLevel: true},
		{Axis: Pitch, ApplyTPA: true, SelfLevel: true},
		{Axis: Yaw, YawPLimit: true, YawPLPF: true, HeadingLockCapable: true, MagHoldCapable: true},
	}
}

// Rate<->stick<->angle conversions, ported 1:1 from pidRcCommandToAngle
// / pidAngleToRcCommand / pidRateToRcCommand / pidRcCommandToRate.
// pidAngleToRcCommand(pidRcCommandToAngle(x)) == x for integer x
// (spec §8 round-trip law), and PidRateToRcCommand/PidRcCommandToRate
// are mutual inverses for rate > 0.

// pidRcCommandToAngle maps a centered stick value to an angle target
// in deci-degrees.
func pidRcCommandToAngle(stick int) float64 {
	return float64(stick) * 2.0
}

// PidAngleToRcCommand is the inverse mapping, used to feed an
// ANGLE-mode setpoint computed by the outer loop back into the inner
// loop as if it were a stick command.
func PidAngleToRcCommand(angleDeciDegrees float64) int {
	return roundToInt(angleDeciDegrees / 2.0)
}

// PidRateToRcCommand and PidRcCommandToRate are mutual inverses for
// rate > 0.
func PidRateToRcCommand(rateDPS float64, rate int) float64 {
	return (rateDPS * 50.0) / (float64(rate) + 20.0)
}

func PidRcCommandToRate(stick int, rate int) float64 {
	return float64((rate+20)*stick) / 50.0
}
