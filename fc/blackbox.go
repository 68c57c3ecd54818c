package fc

// int16Min and int16Max bound every blackbox field, fixing the
// source firmware's constrain(..., -32678, 32767) typo (spec Open
// Questions): the correct int16 floor is -32768, not -32678.
const (
	int16Min = -32768
	int16Max = 32767
)

// Snapshot is one tick's diagnostic record, the optional instantaneous
// fields spec §6 lists for an external blackbox sink: the axis PID
// decomposition, the nav setpoints, and the final mixer command.
type Snapshot struct {
	TimeMicros int64

	AxisPID      [3]int16
	AxisPIDP     [3]int16
	AxisPIDI     [3]int16
	AxisPIDD     [3]int16
	AxisSetpoint [3]int16

	NavTargetPositionZ   int16
	NavDesiredVelocityX  int16
	NavDesiredVelocityY  int16
	NavDesiredVelocityZ  int16

	Throttle int
}

// NewSnapshot builds a Snapshot from one tick's InnerOutput, the
// mixer throttle, and the outer loop's desired state, clamping every
// int16 field to int16 range; TimeMicros and Throttle are copied as is.
func NewSnapshot(nowMicros int64, inner InnerOutput, throttle int, desired NavDesiredState) Snapshot {
	s := Snapshot{TimeMicros: nowMicros, Throttle: throttle}
	for axis := 0; axis < 3; axis++ {
		s.AxisPID[axis] = clampInt16(inner.AxisPID[axis])
		s.AxisPIDP[axis] = clampInt16(inner.AxisPIDP[axis])
		s.AxisPIDI[axis] = clampInt16(inner.AxisPIDI[axis])
		s.AxisPIDD[axis] = clampInt16(inner.AxisPIDD[axis])
		s.AxisSetpoint[axis] = clampInt16(inner.AxisSetpoint[axis])
	}
	s.NavTargetPositionZ = clampInt16(desired.Pos.Z)
	s.NavDesiredVelocityX = clampInt16(desired.Vel.X)
	s.NavDesiredVelocityY = clampInt16(desired.Vel.Y)
	s.NavDesiredVelocityZ = clampInt16(desired.Vel.Z)
	return s
}

func clampInt16(v float64) int16 {
	rounded := roundToInt(v)
	if rounded < int16Min {
		return int16Min
	}
	if rounded > int16Max {
		return int16Max
	}
	return int16(rounded)
}
