package fc

import (
	"math"
	"testing"
)

type fakeGyroSource struct{}

func (fakeGyroSource) ReadGyro() (GyroInput, error) { return GyroInput{}, nil }

type fakeAttitudeSource struct{}

func (fakeAttitudeSource) ReadAttitude() (AttitudeInput, error) { return AttitudeInput{}, nil }

type fakeRxSource struct {
	throttle int
	roll     int
}

func (f fakeRxSource) ReadRx() (RxInput, ModeFlags, error) {
	return RxInput{Throttle: f.throttle, Stick: [3]int{f.roll, 0, 0}}, AngleMode | Armed | SmallAngle, nil
}

type fakePositionSource struct {
	actual  NavActualState
	sensors NavSensorFlags
}

func (f fakePositionSource) ReadPosition() (NavActualState, NavSensorFlags, error) {
	return f.actual, f.sensors, nil
}

type fakeMagSource struct {
	headingDeg float64
}

func (f fakeMagSource) ReadHeadingDeg() (float64, error) { return f.headingDeg, nil }

type fakeBlackboxSink struct {
	writes []Snapshot
}

func (f *fakeBlackboxSink) Write(s Snapshot) error {
	f.writes = append(f.writes, s)
	return nil
}

func TestSchedulerTickClampsThrottle(t *testing.T) {
	cfg := DefaultConfig()
	sink := &fakeBlackboxSink{}
	ctx := NewControllerContext(cfg, fakeGyroSource{}, fakeAttitudeSource{}, fakeRxSource{throttle: 5000}, fakePositionSource{}, fakeMagSource{}, sink)
	s := NewScheduler(ctx, 500)

	result := s.Tick()
	if result.Throttle > cfg.EscServo.MaxThrottle || result.Throttle < cfg.EscServo.MinThrottle {
		t.Errorf("expected throttle clamped to [%v,%v], got %v", cfg.EscServo.MinThrottle, cfg.EscServo.MaxThrottle, result.Throttle)
	}
	if len(sink.writes) != 1 {
		t.Errorf("expected exactly one blackbox write per tick, got %d", len(sink.writes))
	}
}

func TestSchedulerTickRunsAltitudeCascadeWhenEnabled(t *testing.T) {
	cfg := DefaultConfig()
	ctx := NewControllerContext(cfg, fakeGyroSource{}, fakeAttitudeSource{}, fakeRxSource{throttle: 1500}, fakePositionSource{}, nil, nil)
	ctx.NavStateFlags = NavCtlAlt
	s := NewScheduler(ctx, 500)

	result := s.Tick()
	if result.Throttle != cfg.Nav.MCHoverThrottle {
		t.Errorf("expected hover throttle from the altitude cascade on the first tick, got %v", result.Throttle)
	}
}

func TestSchedulerTickDrivesMagHoldFromNavYawTarget(t *testing.T) {
	cfg := DefaultConfig()
	ctx := NewControllerContext(cfg, fakeGyroSource{}, fakeAttitudeSource{}, fakeRxSource{throttle: 1500}, fakePositionSource{actual: NavActualState{YawDeci: 900}}, fakeMagSource{headingDeg: 90}, nil)
	ctx.NavStateFlags = NavCtlYaw
	ctx.Desired.YawDeci = 1800
	s := NewScheduler(ctx, 500)

	s.Tick()

	if ctx.Rate.MagHold.targetHeadingDeg != 180.0 {
		t.Errorf("expected mag-hold target to track the nav-driven desired heading, got %v", ctx.Rate.MagHold.targetHeadingDeg)
	}
}

type fakeMixer struct {
	motorCount   int
	limitReached bool
}

func (f fakeMixer) MotorCount() int         { return f.motorCount }
func (f fakeMixer) MotorLimitReached() bool { return f.limitReached }

func TestSchedulerTickFreezesRateIntegratorWhenMixerReportsMotorLimit(t *testing.T) {
	cfg := DefaultConfig()
	ctxFrozen := NewControllerContext(cfg, fakeGyroSource{}, fakeAttitudeSource{}, fakeRxSource{throttle: 1500, roll: 500}, fakePositionSource{}, nil, nil)
	ctxFrozen.Mixer = fakeMixer{motorCount: 4, limitReached: true}
	sFrozen := NewScheduler(ctxFrozen, 500)

	ctxFree := NewControllerContext(cfg, fakeGyroSource{}, fakeAttitudeSource{}, fakeRxSource{throttle: 1500, roll: 500}, fakePositionSource{}, nil, nil)
	sFree := NewScheduler(ctxFree, 500)

	for i := 0; i < 20; i++ {
		sFrozen.Tick()
		sFree.Tick()
	}

	frozenI := ctxFrozen.Rate.axis(Roll).errorGyroI
	freeI := ctxFree.Rate.axis(Roll).errorGyroI
	if math.Abs(frozenI) >= math.Abs(freeI) {
		t.Errorf("expected the mixer's motor-limit signal to hold the roll I-term below the unclamped run, got frozen=%v free=%v", frozenI, freeI)
	}
}

func TestSchedulerTickWithoutPositionSourceSkipsPositionRead(t *testing.T) {
	cfg := DefaultConfig()
	ctx := NewControllerContext(cfg, fakeGyroSource{}, fakeAttitudeSource{}, fakeRxSource{throttle: 1500}, nil, nil, nil)
	s := NewScheduler(ctx, 500)

	result := s.Tick()
	if result.Throttle < cfg.EscServo.MinThrottle {
		t.Errorf("expected a valid throttle even with no position source, got %v", result.Throttle)
	}
}
