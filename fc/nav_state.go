package fc

// Vec3 is a NED-style 3D vector in centimeters / cm-per-second, Z
// positive up, matching the source's t_fp_vector convention as used
// by posControl.
type Vec3 struct {
	X, Y, Z float64
}

// NavActualState is the outer loop's view of where the aircraft
// currently is, fed in once per tick by the estimator (attitude/GPS
// fusion is out of scope per spec §1; this core only consumes its
// output).
type NavActualState struct {
	Pos     Vec3
	Vel     Vec3
	VelXY   float64 // horizontal speed magnitude, cm/s
	YawDeci float64 // heading, deci-degrees
	CosYaw  float64
	SinYaw  float64

	Surface    float64 // cm, -1 if no valid reading
	SurfaceMin float64
}

// NavDesiredState is the outer loop's running target, updated by the
// cascade stages and eventually converted into rcAdjustment values
// for the inner loop / mixer.
type NavDesiredState struct {
	Pos     Vec3
	Vel     Vec3
	YawDeci float64
	Surface float64
}

// NavSensorFlags reports which position sources are currently valid,
// mirroring posControl.flags' sensor-validity bits.
type NavSensorFlags struct {
	HasValidAltitudeSensor bool
	HasValidPositionSensor bool
	HasValidSurfaceSensor  bool
	IsTerrainFollowEnabled bool

	VerticalPositionDataNew   bool
	HorizontalPositionDataNew bool

	IsAdjustingAltitude bool
	IsAdjustingPosition bool
}

// RcAdjustment is the outer loop's output: the roll/pitch bank-angle
// targets (deci-degrees) and throttle offset it hands to the inner
// loop / mixer each tick, ported from posControl.rcAdjustment.
type RcAdjustment struct {
	RollDeci, PitchDeci float64
	Throttle            float64
}
