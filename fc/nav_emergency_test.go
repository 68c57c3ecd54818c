package fc

import "testing"

func TestEmergencyDescentFailsafeThrottleWithoutAltitudeSensor(t *testing.T) {
	var alt AltitudeController
	cfg := DefaultConfig()
	alt.Init(&cfg)
	e := NewEmergencyDescentController(&alt)

	sensors := &NavSensorFlags{HasValidAltitudeSensor: false}
	out := e.Apply(&cfg, sensors, &NavActualState{}, &NavDesiredState{}, 1100, 0)
	if out.Throttle != 1100 {
		t.Errorf("expected failsafe throttle 1100 without an altitude sensor, got %v", out.Throttle)
	}
	if out.RollStick != 0 || out.PitchStick != 0 || out.YawStick != 0 {
		t.Errorf("expected zeroed sticks during emergency descent, got %+v", out)
	}
}

func TestEmergencyDescentDrivesThrottleDownward(t *testing.T) {
	var alt AltitudeController
	cfg := DefaultConfig()
	alt.Init(&cfg)
	e := NewEmergencyDescentController(&alt)

	sensors := &NavSensorFlags{HasValidAltitudeSensor: true, VerticalPositionDataNew: true}
	actual := &NavActualState{}
	desired := &NavDesiredState{}

	var now int64
	step := int64(2000)
	var out EmergencyOutput
	for i := 0; i < 50; i++ {
		now += step
		out = e.Apply(&cfg, sensors, actual, desired, 1100, now)
		actual.Vel.Z = float64(out.Throttle-cfg.Nav.MCHoverThrottle) / 5.0
	}
	if out.Throttle >= cfg.Nav.MCHoverThrottle {
		t.Errorf("expected throttle commanded below hover during emergency descent, got %v", out.Throttle)
	}
}
