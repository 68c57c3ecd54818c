package fc

// NavOutput is the outer loop's one-tick result, ready to merge into
// the RxInput the inner loop consumes.
type NavOutput struct {
	RollStick, PitchStick, YawStick int
	Throttle                        int
	Landed                          bool

	// HeadingTargetDeg and YawControlActive carry NAV_CTL_YAW's
	// nav-driven heading target out to the scheduler, which feeds it
	// into the inner loop's mag-hold controller (SetTarget) in lieu of
	// mag-hold's own stick-relatch logic.
	HeadingTargetDeg float64
	YawControlActive bool
}

// NavController bundles the three multirotor outer-loop
// sub-controllers plus the land detector and mag-hold heading target,
// and dispatches between them by NavStateFlags, ported from
// applyMulticopterNavigationController. It owns no inner-loop state;
// RunInnerLoop's RateController is a separate, independently owned
// value.
type NavController struct {
	Altitude  AltitudeController
	Position  PositionController
	Emergency *EmergencyDescentController
	Land      LandDetector
}

// NewNavController wires the emergency controller to share the
// altitude cascade's PID state, as the source does.
func NewNavController(cfg *Config) *NavController {
	n := &NavController{}
	n.Altitude.Init(cfg)
	n.Position.Init(cfg)
	n.Emergency = NewEmergencyDescentController(&n.Altitude)
	return n
}

// HeadingTarget ports resetMulticopterHeadingController /
// applyMulticopterHeadingController: when NAV_CTL_YAW is active the
// mag-hold target heading tracks desired.YawDeci every tick; without
// it, the target tracks actual.YawDeci. Both are returned in degrees.
func HeadingTarget(flags NavStateFlags, actual *NavActualState, desired *NavDesiredState) float64 {
	if flags.Has(NavCtlYaw) {
		return desired.YawDeci / 10.0
	}
	return actual.YawDeci / 10.0
}

// Apply runs one tick of whichever sub-controllers NavStateFlags
// selects and returns the mixer-facing command, ported from
// applyMulticopterNavigationController's top-level dispatch.
func (n *NavController) Apply(cfg *Config, flags NavStateFlags, sensors *NavSensorFlags, actual *NavActualState, desired *NavDesiredState, failsafeThrottle int, nowMicros int64) NavOutput {
	var out NavOutput

	if flags.Has(NavCtlEmerg) {
		e := n.Emergency.Apply(cfg, sensors, actual, desired, failsafeThrottle, nowMicros)
		out.RollStick, out.PitchStick, out.YawStick, out.Throttle = e.RollStick, e.PitchStick, e.YawStick, e.Throttle
		return out
	}

	if flags.Has(NavCtlAlt) {
		out.Throttle = n.Altitude.Apply(cfg, sensors, actual, desired, nowMicros)
	}

	if flags.Has(NavCtlPos) {
		roll, pitch, active := n.Position.Apply(cfg, sensors, actual, desired, flags.Has(NavAutoWP), nowMicros)
		if active {
			out.RollStick, out.PitchStick = roll, pitch
		}
	}

	if flags.Has(NavCtlYaw) {
		out.HeadingTargetDeg = HeadingTarget(flags, actual, desired)
		out.YawControlActive = true
	}

	out.Landed = n.Land.Update(cfg, sensors, actual, out.Throttle, nowMicros)
	return out
}
