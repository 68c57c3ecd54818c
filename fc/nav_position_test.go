package fc

import (
	"math"
	"testing"
)

func TestApplyDeadband(t *testing.T) {
	cases := []struct{ value, deadband, want int }{
		{0, 20, 0},
		{10, 20, 0},
		{-10, 20, 0},
		{50, 20, 30},
		{-50, 20, -30},
	}
	for _, c := range cases {
		if got := applyDeadband(c.value, c.deadband); got != c.want {
			t.Errorf("applyDeadband(%v, %v) = %v, want %v", c.value, c.deadband, got, c.want)
		}
	}
}

func TestWrapHeading18000(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{18000, 18000},
		{18001, -17999},
		{-18001, 17999},
		{36000, 0},
	}
	for _, c := range cases {
		if got := wrapHeading18000(c.in); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("wrapHeading18000(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestVelocityHeadingAttenuationUnityOutsideWaypointMode(t *testing.T) {
	if got := velocityHeadingAttenuation(false, 9000, 0); got != 1.0 {
		t.Errorf("expected unity attenuation outside waypoint mode, got %v", got)
	}
}

func TestVelocityHeadingAttenuationReducedOnLargeHeadingError(t *testing.T) {
	got := velocityHeadingAttenuation(true, 18000, 0)
	if got > 0.1 {
		t.Errorf("expected heavily attenuated velocity facing the wrong way, got %v", got)
	}
}

func TestVelocityHeadingAttenuationFullOnAlignedHeading(t *testing.T) {
	got := velocityHeadingAttenuation(true, 0, 0)
	if math.Abs(got-1.0) > 1e-6 {
		t.Errorf("expected full attenuation factor when aligned, got %v", got)
	}
}

func TestVelocityExpoAttenuationNoExpoIsUnity(t *testing.T) {
	got := velocityExpoAttenuation(0, 150, 300)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("expected unity factor when posResponseExpo=0, got %v", got)
	}
}

func TestVelocityExpoAttenuationReducesMidRangeSpeed(t *testing.T) {
	got := velocityExpoAttenuation(1.0, 150, 300)
	if got >= 1.0 || got <= 0 {
		t.Errorf("expected an attenuation factor in (0,1), got %v", got)
	}
}

func TestPositionControllerInitialHoldPositionUsesDecelerationTime(t *testing.T) {
	var p PositionController
	cfg := DefaultConfig()
	cfg.Nav.PosDecelerationTime = 1.0
	actual := &NavActualState{Pos: Vec3{X: 100, Y: 200}, Vel: Vec3{X: 50, Y: -50}}
	x, y := p.InitialHoldPosition(&cfg, actual)
	if x != 150 || y != 150 {
		t.Errorf("InitialHoldPosition = (%v,%v), want (150,150)", x, y)
	}
}

func TestPositionControllerResetClearsState(t *testing.T) {
	var p PositionController
	cfg := DefaultConfig()
	p.Init(&cfg)
	p.RcAdjustment[0] = 5
	p.lastAccel[0] = 3
	p.Reset()
	if p.RcAdjustment[0] != 0 || p.lastAccel[0] != 0 {
		t.Errorf("expected cleared state after reset, got RcAdjustment=%v lastAccel=%v", p.RcAdjustment[0], p.lastAccel[0])
	}
}

func TestPositionControllerApplyBypassesWithoutValidSensor(t *testing.T) {
	var p PositionController
	cfg := DefaultConfig()
	p.Init(&cfg)
	sensors := &NavSensorFlags{HasValidPositionSensor: false}
	actual := &NavActualState{CosYaw: 1}
	desired := &NavDesiredState{}
	roll, pitch, active := p.Apply(&cfg, sensors, actual, desired, false, 1000)
	if active || roll != 0 || pitch != 0 {
		t.Errorf("expected bypass without a valid position sensor, got roll=%v pitch=%v active=%v", roll, pitch, active)
	}
}

func TestPositionControllerApplyStaleTickResets(t *testing.T) {
	var p PositionController
	cfg := DefaultConfig()
	p.Init(&cfg)
	sensors := &NavSensorFlags{HasValidPositionSensor: true}
	actual := &NavActualState{CosYaw: 1}
	desired := &NavDesiredState{}

	p.Apply(&cfg, sensors, actual, desired, false, 0)
	_, _, active := p.Apply(&cfg, sensors, actual, desired, false, int64(HZ2US(MinPositionUpdateRateHz))*2)
	if active {
		t.Errorf("expected inactive cascade after a stale tick")
	}
}

type fakeWaypointSource struct{ speedCMS float64 }

func (f fakeWaypointSource) ActiveSpeed(fallbackCMS float64) float64 { return f.speedCMS }

func TestPositionControllerApplyUsesActiveWaypointSpeedUnderAutoWP(t *testing.T) {
	var p PositionController
	cfg := DefaultConfig()
	p.Init(&cfg)
	p.Waypoints = fakeWaypointSource{speedCMS: 100}

	sensors := &NavSensorFlags{HasValidPositionSensor: true, HorizontalPositionDataNew: true}
	actual := &NavActualState{CosYaw: 1}
	desired := &NavDesiredState{Pos: Vec3{X: 100000, Y: 0}}

	_, _, active := p.Apply(&cfg, sensors, actual, desired, true, 1000)
	if !active {
		t.Fatalf("expected an active cascade")
	}
	velTotal := (desired.Vel.X*desired.Vel.X + desired.Vel.Y*desired.Vel.Y)
	if velTotal > 100.0*100.0+1e-6 {
		t.Errorf("expected velocity bounded by the active waypoint's 100cm/s speed, not cfg.Nav.MaxSpeed=%v, got |v|^2=%v", cfg.Nav.MaxSpeed, velTotal)
	}
}

func TestAdjustHeadingFromRCInputTracksActualBeyondDeadband(t *testing.T) {
	cfg := DefaultConfig()
	actual := &NavActualState{YawDeci: 900}
	desired := &NavDesiredState{YawDeci: 0}
	got := AdjustHeadingFromRCInput(&cfg, cfg.RcControls.PosHoldDeadband+10, actual, desired)
	if !got || desired.YawDeci != 900 {
		t.Errorf("expected heading tracked to actual, got adjusting=%v desired=%v", got, desired.YawDeci)
	}
}

func TestAdjustHeadingFromRCInputNoChangeWithinDeadband(t *testing.T) {
	cfg := DefaultConfig()
	actual := &NavActualState{YawDeci: 900}
	desired := &NavDesiredState{YawDeci: 0}
	got := AdjustHeadingFromRCInput(&cfg, 0, actual, desired)
	if got || desired.YawDeci != 0 {
		t.Errorf("expected no heading change within deadband, got adjusting=%v desired=%v", got, desired.YawDeci)
	}
}
